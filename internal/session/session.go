package session

// EventKind describes a session state transition.
type EventKind int

const (
	// EventSet fires after a token is stored on login.
	EventSet EventKind = iota
	// EventCleared fires after an explicit logout.
	EventCleared
	// EventExpired fires when the backend signalled the token is no longer
	// valid and the session was cleared as a side effect.
	EventExpired
)

type Event struct {
	Kind   EventKind
	Reason string
}

// Service owns the durable session token. Presence of a token is the sole
// authentication signal; validity is discovered lazily through 401 responses.
type Service interface {
	// Token returns the stored token and whether one is present
	Token() (string, bool)

	// Set stores the token and broadcasts EventSet
	Set(token string) error

	// Clear removes the token and broadcasts EventCleared
	Clear() error

	// Expire removes the token and broadcasts EventExpired with reason
	Expire(reason string) error

	// IsAuthenticated reports whether a non-empty token is stored
	IsAuthenticated() bool

	// Subscribe registers fn to be called on every session event
	Subscribe(fn func(Event))
}
