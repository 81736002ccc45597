package core

//go:generate go tool mockgen -destination=mocks/transport_mock.go -package=mocks . Transport

// Transport is the connection layer the session talks through. Messages are
// the structs in shared/messages.
type Transport interface {
	Send(connID string, msg any) error
	Broadcast(msg any)
	ConnectionCount() int
}
