package core

import (
	"time"

	"github.com/google/uuid"
	"github.com/leap-fish/necs/esync"
	"github.com/sirupsen/logrus"

	"github.com/Dstudy/Chaos-Crew-sub000/shared/messages"
	"github.com/Dstudy/Chaos-Crew-sub000/shared/netcomponents"
)

// Connect starts the join window for a new connection.
func (s *Session) Connect(connID string, now time.Time) {
	s.roster.connected(connID, now)
	s.log.WithFields(logrus.Fields{
		"conn":        connID,
		"connections": s.connectionCount(),
	}).Debug("connection opened")
}

func (s *Session) expireJoins(now time.Time) {
	if s.settings.JoinTimeout <= 0 {
		return
	}
	for _, connID := range s.roster.expire(now, s.settings.JoinTimeout) {
		s.log.WithFields(logrus.Fields{
			"conn":    connID,
			"timeout": s.settings.JoinTimeout,
		}).Error("connection never sent a join request")
		s.send(connID, messages.JoinRejected{Reason: errJoinExpired.Error()})
	}
}

// Join seats the connection and spawns its player entity. A valid reconnect
// token reclaims the seat it was issued for when that seat is free.
func (s *Session) Join(connID string, req messages.JoinRequest) (PlayerRef, bool) {
	log := s.log.WithFields(logrus.Fields{"conn": connID, "name": req.PlayerName})

	prefer := ""
	if req.ReconnectToken != "" {
		if id, ok := s.tokens[req.ReconnectToken]; ok {
			prefer = id
		} else {
			log.Warn("unknown reconnect token")
		}
	}

	p, fresh, err := s.roster.seat(connID, req.PlayerName, prefer)
	if err != nil {
		log.WithError(err).Warn("join rejected")
		s.send(connID, messages.JoinRejected{Reason: err.Error()})
		return PlayerRef{}, false
	}

	if fresh {
		entry := s.arena.spawnPlayer(p)
		if round, ok := s.rounds.Current(); ok {
			s.arena.vitalsOf(entry, p.ID, false).reset(round.Player.MaxHealth, round.Player.MaxShield)
		}
		s.rounds.PlayersChanged()
		log.WithFields(logrus.Fields{"player": p.ID, "index": p.Index}).Info("player joined")
	}

	var netID esync.NetworkId
	if entry, ok := s.arena.player(p.ID); ok {
		if nid := esync.GetNetworkId(entry); nid != nil {
			netID = *nid
		}
	}
	s.send(connID, messages.JoinAccepted{
		NetworkID:      netID,
		PlayerID:       p.ID,
		PlayerIndex:    p.Index,
		SessionID:      s.id,
		ReconnectToken: s.tokenFor(p.ID),
		ServerName:     s.settings.Name,
		TickRate:       s.settings.TickRate,
		RoundIndex:     s.rounds.Index(),
	})
	return p, true
}

func (s *Session) tokenFor(playerID string) string {
	for token, id := range s.tokens {
		if id == playerID {
			return token
		}
	}
	token := uuid.NewString()
	s.tokens[token] = playerID
	return token
}

// Leave frees the connection's seat with everything the player owned.
func (s *Session) Leave(connID string) {
	p, ok := s.roster.leave(connID)
	if !ok {
		return
	}
	s.arena.destroyPlayer(p.ID)
	released := s.registry.ReleaseOwner(p.ID)
	s.enemies.Release(p.ID)
	s.ready.forget(p.ID)
	s.rounds.PlayersChanged()

	s.log.WithFields(logrus.Fields{
		"conn":     connID,
		"player":   p.ID,
		"released": len(released),
	}).Info("player left")
}

// Ready records that the player finished loading the round.
func (s *Session) Ready(connID string) {
	p, ok := s.roster.byConnection(connID)
	if !ok {
		s.log.WithField("conn", connID).Warn("ready from unseated connection")
		return
	}
	if !s.ready.mark(p.ID) {
		return
	}
	if entry, ok := s.arena.player(p.ID); ok {
		netcomponents.NetPlayer.Get(entry).Ready = true
	}
	s.log.WithFields(logrus.Fields{
		"player": p.ID,
		"ready":  s.ready.count(),
	}).Debug("player ready")
}
