package network

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/coder/websocket"
	"github.com/leap-fish/necs/esync"
	"github.com/leap-fish/necs/router"
	"github.com/leap-fish/necs/transports"
	"github.com/sirupsen/logrus"

	"github.com/Dstudy/Chaos-Crew-sub000/shared/logger"
	"github.com/Dstudy/Chaos-Crew-sub000/shared/messages"
)

type ClientState int

const (
	StateDisconnected ClientState = iota
	StateConnecting
	StateConnected
	StateJoinedGame
	StateError
)

var errNotConnected = errors.New("not connected")

// Client manages a WebSocket connection to the game server.
// All shared fields are protected by mu (router callbacks run on necs goroutines).
type Client struct {
	mu sync.RWMutex

	state          ClientState
	lastError      error
	networkID      esync.NetworkId
	playerID       string
	reconnectToken string
	serverName     string
	roundIndex     int
	conn           *websocket.Conn
	log            *logrus.Entry

	spawnCh   chan messages.SpawnItemVisual
	releaseCh chan messages.ReleaseItemVisual
	reloadCh  chan messages.SceneReload
	endCh     chan struct{}
	endOnce   sync.Once
}

func NewClient() *Client {
	return &Client{
		state:     StateDisconnected,
		log:       logger.For("client"),
		spawnCh:   make(chan messages.SpawnItemVisual, 64),
		releaseCh: make(chan messages.ReleaseItemVisual, 64),
		reloadCh:  make(chan messages.SceneReload, 4),
		endCh:     make(chan struct{}),
	}
}

// Connect dials the server in a background goroutine and initiates the join handshake.
func (c *Client) Connect(address, version, playerName, reconnectToken string) {
	c.mu.Lock()
	c.state = StateConnecting
	c.lastError = nil
	c.mu.Unlock()

	router.OnConnect(func(_ *router.NetworkClient) {
		c.log.Info("connected to server")
		c.mu.Lock()
		c.state = StateConnected
		c.mu.Unlock()

		err := c.SendMessage(messages.JoinRequest{
			Version:        version,
			PlayerName:     playerName,
			ReconnectToken: reconnectToken,
		})
		if err != nil {
			c.fail(fmt.Errorf("join request: %w", err))
		}
	})

	router.On(func(_ *router.NetworkClient, msg messages.JoinAccepted) {
		c.log.WithFields(logrus.Fields{
			"player": msg.PlayerID,
			"server": msg.ServerName,
			"round":  msg.RoundIndex,
		}).Info("join accepted")
		c.mu.Lock()
		c.networkID = msg.NetworkID
		c.playerID = msg.PlayerID
		c.reconnectToken = msg.ReconnectToken
		c.serverName = msg.ServerName
		c.roundIndex = msg.RoundIndex
		c.state = StateJoinedGame
		c.mu.Unlock()

		if err := c.SendMessage(messages.ReadyNotice{}); err != nil {
			c.log.WithError(err).Warn("ready notice not sent")
		}
	})

	router.On(func(_ *router.NetworkClient, msg messages.JoinRejected) {
		c.log.WithField("reason", msg.Reason).Warn("join rejected")
		c.fail(fmt.Errorf("join rejected: %s", msg.Reason))
	})

	router.On(func(_ *router.NetworkClient, msg messages.SpawnItemVisual) {
		push(c.spawnCh, msg)
	})

	router.On(func(_ *router.NetworkClient, msg messages.ReleaseItemVisual) {
		push(c.releaseCh, msg)
	})

	router.On(func(_ *router.NetworkClient, msg messages.SceneReload) {
		c.mu.Lock()
		c.roundIndex = msg.RoundIndex
		c.mu.Unlock()
		push(c.reloadCh, msg)
		if err := c.SendMessage(messages.ReadyNotice{}); err != nil {
			c.log.WithError(err).Warn("ready notice not sent")
		}
	})

	router.On(func(_ *router.NetworkClient, msg messages.RoundEnded) {
		c.log.WithFields(logrus.Fields{"round": msg.Index, "won": msg.Won}).Info("round ended")
	})

	router.On(func(_ *router.NetworkClient, _ messages.AllRoundsComplete) {
		c.log.Info("all rounds complete")
		c.end()
	})

	router.On(func(_ *router.NetworkClient, _ messages.GameLost) {
		c.log.Info("game lost")
		c.end()
	})

	router.OnDisconnect(func(_ *router.NetworkClient, err error) {
		c.log.WithError(err).Info("disconnected")
		c.mu.Lock()
		if c.state != StateError {
			c.state = StateDisconnected
		}
		c.conn = nil
		c.mu.Unlock()
		c.end()
	})

	router.OnError(func(_ *router.NetworkClient, err error) {
		c.log.WithError(err).Warn("router error")
	})

	go func() {
		transport := transports.NewWsClientTransport("ws://" + address)
		err := transport.Start(func(conn *websocket.Conn) {
			c.mu.Lock()
			c.conn = conn
			c.mu.Unlock()
		})
		if err != nil {
			c.fail(fmt.Errorf("connection failed: %w", err))
		}
	}()
}

func (c *Client) Disconnect() {
	c.mu.Lock()
	conn := c.conn
	c.state = StateDisconnected
	c.conn = nil
	c.mu.Unlock()

	if conn != nil {
		_ = conn.CloseNow()
	}

	router.ResetRouter()
}

// Status is a point-in-time copy of the connection state.
type Status struct {
	State          ClientState
	Err            error
	NetworkID      esync.NetworkId
	PlayerID       string
	ReconnectToken string
	ServerName     string
	RoundIndex     int
}

func (c *Client) Status() Status {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Status{
		State:          c.state,
		Err:            c.lastError,
		NetworkID:      c.networkID,
		PlayerID:       c.playerID,
		ReconnectToken: c.reconnectToken,
		ServerName:     c.serverName,
		RoundIndex:     c.roundIndex,
	}
}

// Done is closed when the session ends for this client or the connection drops.
func (c *Client) Done() <-chan struct{} { return c.endCh }

func (c *Client) SendMessage(msg any) error {
	c.mu.RLock()
	conn := c.conn
	c.mu.RUnlock()

	if conn == nil {
		return errNotConnected
	}

	payload, err := router.Serialize(msg)
	if err != nil {
		return fmt.Errorf("serialize: %w", err)
	}

	return conn.Write(context.Background(), websocket.MessageBinary, payload)
}

// DrainSpawns returns all pending item spawns, non-blocking.
func (c *Client) DrainSpawns() []messages.SpawnItemVisual { return drainChan(c.spawnCh) }

// DrainReleases returns all pending item releases, non-blocking.
func (c *Client) DrainReleases() []messages.ReleaseItemVisual { return drainChan(c.releaseCh) }

// DrainReloads returns all pending scene reloads, non-blocking.
func (c *Client) DrainReloads() []messages.SceneReload { return drainChan(c.reloadCh) }

// fail records err and ends the run.
func (c *Client) fail(err error) {
	c.mu.Lock()
	c.state, c.lastError = StateError, err
	c.mu.Unlock()
	c.end()
}

func (c *Client) end() {
	c.endOnce.Do(func() { close(c.endCh) })
}

// push drops the message when the consumer has fallen behind.
func push[T any](ch chan T, v T) {
	select {
	case ch <- v:
	default:
	}
}

func drainChan[T any](ch chan T) []T {
	var out []T
	for {
		select {
		case v := <-ch:
			out = append(out, v)
		default:
			return out
		}
	}
}
