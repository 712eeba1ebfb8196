package driven

// SessionTokenSigner issues and verifies the signed token that carries a
// session id between requests.
type SessionTokenSigner interface {
	// Issue signs a token for the session id
	Issue(sessionID string) (string, error)

	// Parse verifies a token and returns its session id.
	// Returns ErrTokenExpired or ErrTokenInvalid on failure.
	Parse(token string) (string, error)
}
