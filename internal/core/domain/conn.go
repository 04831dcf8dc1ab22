package domain

// ConnState is the lifecycle state of the push connection, owned exclusively
// by the connection manager.
type ConnState string

const (
	ConnIdle       ConnState = "idle"
	ConnConnecting ConnState = "connecting"
	ConnOpen       ConnState = "open"
	ConnClosed     ConnState = "closed"
)
