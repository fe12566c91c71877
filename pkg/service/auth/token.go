package auth

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/feinledger/fein/pkg/config"
	"github.com/feinledger/fein/pkg/domain"
	"github.com/feinledger/fein/pkg/dto"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims is the decoded content of a session token.
type Claims struct {
	UserID    uuid.UUID
	Email     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// JWTStrategy issues and verifies HMAC signed session tokens.
type JWTStrategy struct {
	cfg    *config.Jwt
	method jwt.SigningMethod
	now    func() time.Time
	logger *slog.Logger
}

// NewJWTStrategy builds a strategy for the configured secret, algorithm and lifetime.
// An unknown or non-HMAC algorithm falls back to HS256.
func NewJWTStrategy(
	cfg *config.Jwt,
	logger *slog.Logger,
) *JWTStrategy {
	method, ok := jwt.GetSigningMethod(cfg.Algorithm).(*jwt.SigningMethodHMAC)
	if !ok {
		logger.Warn("unsupported token algorithm, using HS256", "algorithm", cfg.Algorithm)
		method = jwt.SigningMethodHS256
	}
	return &JWTStrategy{
		cfg:    cfg,
		method: method,
		now:    time.Now,
		logger: logger,
	}
}

// GenerateToken signs a token naming u as subject.
func (s *JWTStrategy) GenerateToken(u *dto.UserRead) (string, error) {
	log := s.logger.With("userID", u.ID)
	log.Debug("GenerateToken called")
	now := s.now().UTC()
	token := jwt.NewWithClaims(s.method, jwt.MapClaims{
		"sub":   u.ID.String(),
		"email": u.Email,
		"iat":   now.Unix(),
		"exp":   now.Add(s.cfg.Expiry).Unix(),
	})
	tokenString, err := token.SignedString([]byte(s.cfg.Secret))
	if err != nil {
		log.Error("GenerateToken failed", "error", err)
		return "", fmt.Errorf("sign token: %w", err)
	}
	log.Info("GenerateToken successful")
	return tokenString, nil
}

// KeyFunc returns the signing secret after checking the token algorithm.
// It is shared by Decode and the HTTP token middleware.
func (s *JWTStrategy) KeyFunc(t *jwt.Token) (any, error) {
	if t.Method == nil || t.Method.Alg() != s.method.Alg() {
		return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
	}
	return []byte(s.cfg.Secret), nil
}

// Decode verifies tokenString and extracts its claims.
func (s *JWTStrategy) Decode(tokenString string) (*Claims, error) {
	token, err := jwt.Parse(
		tokenString,
		s.KeyFunc,
		jwt.WithValidMethods([]string{s.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, ClassifyTokenError(err)
	}
	return ClaimsFromToken(token)
}

// ClaimsFromToken extracts the claims of an already verified token.
func ClaimsFromToken(token *jwt.Token) (*Claims, error) {
	if token == nil || !token.Valid {
		return nil, domain.ErrInvalidToken
	}
	mc, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, domain.ErrInvalidToken
	}
	sub, err := mc.GetSubject()
	if err != nil || sub == "" {
		return nil, domain.ErrInvalidToken
	}
	userID, err := uuid.Parse(sub)
	if err != nil {
		return nil, domain.ErrInvalidToken
	}
	exp, err := mc.GetExpirationTime()
	if err != nil || exp == nil {
		return nil, domain.ErrInvalidToken
	}
	claims := &Claims{UserID: userID, ExpiresAt: exp.Time}
	if iat, err := mc.GetIssuedAt(); err == nil && iat != nil {
		claims.IssuedAt = iat.Time
	}
	claims.Email, _ = mc["email"].(string)
	return claims, nil
}

// ClassifyTokenError maps a token verification failure to ErrExpiredToken
// or ErrInvalidToken.
func ClassifyTokenError(err error) error {
	if errors.Is(err, jwt.ErrTokenExpired) {
		return domain.ErrExpiredToken
	}
	return domain.ErrInvalidToken
}
