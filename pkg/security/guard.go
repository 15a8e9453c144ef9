package security

// BearerScheme is the authorization scheme prefix expected on every request
const BearerScheme = "Bearer "

// BearerGuard validates a single static bearer token.
// It holds process-wide configuration and no per-request state.
type BearerGuard struct {
	expected string
}

// NewBearerGuard creates a guard that accepts exactly "Bearer <token>"
func NewBearerGuard(token string) *BearerGuard {
	return &BearerGuard{expected: BearerScheme + token}
}

// IsAuthorized reports whether the Authorization header value carries the configured token.
// The comparison is exact: scheme casing and surrounding whitespace matter.
func (g *BearerGuard) IsAuthorized(header string) bool {
	if g == nil || header == "" {
		return false
	}
	return header == g.expected
}
