package auth

import (
	"strings"

	"github.com/dmitrijs2005/songkeeper/internal/common"
)

// Verifier is the part of TokenService the guard needs.
type Verifier interface {
	Verify(token string) (string, Status)
}

// Guard authenticates bearer headers and enforces self-only access.
// There is no admin bypass.
type Guard struct {
	tokens Verifier
}

func NewGuard(tokens Verifier) *Guard {
	return &Guard{tokens: tokens}
}

// Authenticate extracts "Bearer <token>" from an Authorization header value
// and resolves the acting user. Every failure is common.ErrUnauthenticated.
func (g *Guard) Authenticate(rawHeader string) (string, error) {
	token, ok := bearerToken(rawHeader)
	if !ok {
		return "", common.ErrUnauthenticated
	}

	userID, status := g.tokens.Verify(token)
	if status != StatusValid {
		return "", common.ErrUnauthenticated
	}
	return userID, nil
}

// AuthorizeSelf allows the request only when acting and target are equal.
// actingUserID comes from Authenticate, which never yields an empty id.
func (g *Guard) AuthorizeSelf(actingUserID, targetUserID string) error {
	if actingUserID != targetUserID {
		return common.ErrForbidden
	}
	return nil
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, common.BearerScheme) {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
