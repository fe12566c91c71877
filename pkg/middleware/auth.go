package middleware

import (
	"errors"
	"fmt"

	"github.com/feinledger/fein/pkg/access"
	"github.com/feinledger/fein/pkg/domain"
	"github.com/feinledger/fein/pkg/service/auth"
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// IdentityKey is the fiber.Ctx local holding the resolved access.Identity.
const IdentityKey = "identity"

const tokenKey = "user"

// JwtProtected verifies the bearer token and stores the caller identity.
// Failures are returned as domain errors for the app error handler.
func JwtProtected(authSvc *auth.Service) fiber.Handler {
	return jwtware.New(jwtware.Config{
		KeyFunc:      authSvc.Strategy().KeyFunc,
		ContextKey:   tokenKey,
		ErrorHandler: jwtError,
		SuccessHandler: func(c *fiber.Ctx) error {
			token, _ := c.Locals(tokenKey).(*jwt.Token)
			who, err := authSvc.IdentityFromToken(c.UserContext(), token)
			if err != nil {
				return err
			}
			c.Locals(IdentityKey, who)
			return c.Next()
		},
	})
}

// AdminOnly rejects callers that are not on the admin allow-list.
// It must run after JwtProtected.
func AdminOnly() fiber.Handler {
	return func(c *fiber.Ctx) error {
		who, ok := Identity(c)
		if !ok {
			return domain.ErrUnauthenticated
		}
		if !who.Privileged {
			return domain.ErrAccessDenied
		}
		return c.Next()
	}
}

// Identity returns the caller resolved by JwtProtected.
func Identity(c *fiber.Ctx) (access.Identity, bool) {
	who, ok := c.Locals(IdentityKey).(access.Identity)
	return who, ok
}

func jwtError(_ *fiber.Ctx, err error) error {
	if errors.Is(err, jwtware.ErrJWTMissingOrMalformed) {
		return fmt.Errorf("%w: missing or malformed token", domain.ErrUnauthenticated)
	}
	return auth.ClassifyTokenError(err)
}
