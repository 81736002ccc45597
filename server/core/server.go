package core

import (
	"errors"
	"fmt"
	"sync"

	"github.com/leap-fish/necs/esync/srvsync"
	"github.com/leap-fish/necs/router"
	"github.com/leap-fish/necs/transports"
	"github.com/sirupsen/logrus"
	"github.com/yohamta/donburi"

	"github.com/Dstudy/Chaos-Crew-sub000/config"
	"github.com/Dstudy/Chaos-Crew-sub000/shared/leveldata"
	"github.com/Dstudy/Chaos-Crew-sub000/shared/logger"
	"github.com/Dstudy/Chaos-Crew-sub000/shared/messages"
	"github.com/Dstudy/Chaos-Crew-sub000/shared/netcomponents"
)

var errUnknownConnection = errors.New("unknown connection")

// Server runs one session over the necs websocket transport. Router callbacks
// run on connection goroutines and only enqueue; the loop goroutine owns the session.
type Server struct {
	session   *Session
	loop      *GameLoop
	transport *transports.WsServerTransport
	log       *logrus.Entry

	clients map[string]*router.NetworkClient
	mu      sync.RWMutex
}

// NewServer creates the session and registers the router callbacks.
func NewServer(settings config.SessionConfig, layout *leveldata.ArenaLayout) *Server {
	world := donburi.NewWorld()
	srvsync.UseEsync(world)

	s := &Server{
		log:     logger.For("server"),
		clients: make(map[string]*router.NetworkClient),
	}
	s.session = NewSession(Options{
		World:     world,
		Transport: s,
		Layout:    layout,
		Settings:  &settings,
		Sync:      networkSync,
	})
	s.loop = NewGameLoop(s.session, srvsync.DoSync, settings.TickRate)
	s.setupRouterCallbacks()
	return s
}

// networkSync marks an entity for replication with the components its kind carries.
func networkSync(w donburi.World, e *donburi.Entity, kind SyncKind) error {
	switch kind {
	case SyncPlayer:
		return srvsync.NetworkSync(w, e,
			srvsync.WithInterp(netcomponents.NetPosition),
			netcomponents.NetPlayer,
			netcomponents.NetVitals,
		)
	case SyncEnemy:
		return srvsync.NetworkSync(w, e,
			srvsync.WithInterp(netcomponents.NetPosition),
			netcomponents.NetEnemy,
			netcomponents.NetVitals,
		)
	case SyncGameState:
		return srvsync.NetworkSync(w, e, netcomponents.NetGameState)
	}
	return fmt.Errorf("unknown sync kind %d", kind)
}

func (s *Server) Session() *Session { return s.session }
func (s *Server) Loop() *GameLoop   { return s.loop }

// Listen serves websocket connections on port. It blocks.
func (s *Server) Listen(port uint) error {
	s.transport = transports.NewWsServerTransport(port, "", nil)
	s.log.WithField("port", port).Info("listening")
	return s.transport.Start()
}

func (s *Server) setupRouterCallbacks() {
	router.OnConnect(func(client *router.NetworkClient) {
		s.mu.Lock()
		s.clients[client.Id()] = client
		s.mu.Unlock()
		s.log.WithField("conn", client.Id()).Info("client connected")
		s.session.Enqueue(ConnectCommand{ConnID: client.Id()})
	})

	router.OnDisconnect(func(client *router.NetworkClient, err error) {
		s.mu.Lock()
		delete(s.clients, client.Id())
		s.mu.Unlock()
		log := s.log.WithField("conn", client.Id())
		if err != nil {
			log = log.WithError(err)
		}
		log.Info("client disconnected")
		s.session.Enqueue(LeaveCommand{ConnID: client.Id()})
	})

	router.On(func(client *router.NetworkClient, req messages.JoinRequest) {
		s.session.Enqueue(JoinCommand{ConnID: client.Id(), Request: req})
	})
	router.On(func(client *router.NetworkClient, _ messages.ReadyNotice) {
		s.session.Enqueue(ReadyCommand{ConnID: client.Id()})
	})
	router.On(func(client *router.NetworkClient, req messages.UseItemRequest) {
		s.session.Enqueue(UseItemCommand{ConnID: client.Id(), Request: req})
	})
	router.On(func(client *router.NetworkClient, req messages.TeleportItemRequest) {
		s.session.Enqueue(TeleportCommand{ConnID: client.Id(), Request: req})
	})

	router.OnError(func(client *router.NetworkClient, err error) {
		s.log.WithError(err).WithField("conn", client.Id()).Warn("client error")
	})
}

// Send implements Transport.
func (s *Server) Send(connID string, msg any) error {
	s.mu.RLock()
	client, ok := s.clients[connID]
	s.mu.RUnlock()
	if !ok {
		return fmt.Errorf("send %T to %s: %w", msg, connID, errUnknownConnection)
	}
	return client.SendMessage(msg)
}

// Broadcast implements Transport.
func (s *Server) Broadcast(msg any) {
	s.mu.RLock()
	clients := make([]*router.NetworkClient, 0, len(s.clients))
	for _, c := range s.clients {
		clients = append(clients, c)
	}
	s.mu.RUnlock()

	for _, c := range clients {
		if err := c.SendMessage(msg); err != nil {
			s.log.WithError(err).WithFields(logrus.Fields{
				"conn":    c.Id(),
				"message": fmt.Sprintf("%T", msg),
			}).Warn("broadcast failed")
		}
	}
}

// ConnectionCount implements Transport.
func (s *Server) ConnectionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}
