package messages

import "github.com/leap-fish/necs/esync"

// JoinRequest is sent by a client after connecting to request a seat in the session.
type JoinRequest struct {
	Version        string
	PlayerName     string
	ReconnectToken string
}

// JoinAccepted is sent by the server when a client's join request is accepted.
type JoinAccepted struct {
	NetworkID      esync.NetworkId
	PlayerID       string
	PlayerIndex    int
	SessionID      string
	ReconnectToken string
	ServerName     string
	TickRate       int
	RoundIndex     int
}

// JoinRejected is sent by the server when a client's join request is rejected.
type JoinRejected struct {
	Reason string
}

// ReadyNotice tells the server the client finished loading the round scene.
type ReadyNotice struct{}

// SceneReload tells clients to tear down and reload for the next round, then
// send ReadyNotice again.
type SceneReload struct {
	RoundIndex int
}
