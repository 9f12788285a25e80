package service

import (
	"fmt"

	"vendor-settlement-service/config"
	"vendor-settlement-service/internal/core/ports"
	"vendor-settlement-service/pkg/apperror"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Roles carried in token claims.
const (
	RoleVendor = "vendor"
	RoleAdmin  = "admin"
)

// JWTTokenService implements ports.TokenService. Tokens are issued by the
// platform identity provider; this service only validates them.
type JWTTokenService struct {
	secret []byte
	issuer string
}

// NewTokenService creates a new JWTTokenService.
func NewTokenService(cfg config.JWTConfig) *JWTTokenService {
	return &JWTTokenService{
		secret: []byte(cfg.Secret),
		issuer: cfg.Issuer,
	}
}

// Validate parses and verifies a bearer token, returning its subject and role.
func (s *JWTTokenService) Validate(tokenString string) (*ports.TokenClaims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithIssuer(s.issuer), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return nil, apperror.ErrInvalidToken()
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, apperror.ErrInvalidToken()
	}

	sub, err := claims.GetSubject()
	if err != nil {
		return nil, apperror.ErrInvalidToken()
	}
	subjectID, err := uuid.Parse(sub)
	if err != nil {
		return nil, apperror.ErrInvalidToken()
	}

	role, _ := claims["role"].(string)
	if role != RoleVendor && role != RoleAdmin {
		return nil, apperror.ErrInvalidToken()
	}

	return &ports.TokenClaims{
		SubjectID: subjectID,
		Role:      role,
	}, nil
}
