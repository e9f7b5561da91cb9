package repository

// SessionStore persists the upstream bearer token across agent restarts.
type SessionStore interface {
	// Token returns the stored bearer token, or "" when no session exists.
	Token() (string, error)
	SetToken(token string) error
	Clear() error
}
