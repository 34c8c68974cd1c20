package middleware

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/harentsoaR/healthcare-api/internal/apperr"
	"github.com/harentsoaR/healthcare-api/internal/models"
	"github.com/harentsoaR/healthcare-api/internal/services"
	"github.com/harentsoaR/healthcare-api/internal/utils"
)

const (
	userKey   = "user"
	claimsKey = "claims"
)

var errNoIdentity = errors.New("no identity on request")

// IdentityResolver turns a session token into the current user.
type IdentityResolver interface {
	Authenticate(ctx context.Context, token string) (*services.Identity, error)
}

// Authenticator reads the session cookie, resolves it and stores the user and
// claims on the context. Any failure aborts with 401.
func Authenticator(resolver IdentityResolver, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(cookieName)
		if err != nil {
			token = ""
		}

		id, err := resolver.Authenticate(c.Request.Context(), token)
		if err != nil {
			Abort(c, err)
			return
		}

		c.Set(userKey, id.User)
		c.Set(claimsKey, id.Claims)
		c.Next()
	}
}

// CurrentUser returns the user set by Authenticator.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get(userKey)
	if !ok {
		return nil, false
	}
	u, ok := v.(*models.User)
	return u, ok && u != nil
}

func CurrentClaims(c *gin.Context) (*utils.Claims, bool) {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*utils.Claims)
	return claims, ok && claims != nil
}

// RequireRole admits users whose role is listed. Doctors must also be approved.
// It must run after Authenticator; without an identity it answers 401.
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	allowed := make(map[models.Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			Abort(c, apperr.Unauthenticated(errNoIdentity))
			return
		}
		if err := checkRole(user, allowed); err != nil {
			Abort(c, err)
			return
		}
		c.Next()
	}
}

func checkRole(user *models.User, allowed map[models.Role]struct{}) error {
	_, listed := allowed[user.Role]

	switch user.Role {
	case models.RolePatient, models.RoleAdmin:
		if listed {
			return nil
		}
	case models.RoleDoctor:
		if listed && user.IsApproved {
			return nil
		}
		if listed {
			return apperr.Forbidden("doctor account is awaiting approval")
		}
	}
	return apperr.Forbidden("insufficient role")
}
