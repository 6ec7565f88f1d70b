package jwt

import (
	"context"
	"time"

	"github.com/cmlabs-hris/fieldops-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/fieldops-backend-go/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

const tokenTypeAccess = "access"

type Service interface {
	GenerateAccessToken(identity user.Identity) (token string, expiresAt int64, err error)
	ParseAccessToken(ctx context.Context, token string) (user.Identity, error)
	JWTAuth() *jwtauth.JWTAuth
}

type JWTService struct {
	accessTokenExpirationTime string
	tokenAuth                 *jwtauth.JWTAuth
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func NewJWTService(secretKey string, accessTokenExpirationTime string) Service {
	return &JWTService{
		accessTokenExpirationTime: accessTokenExpirationTime,
		tokenAuth:                 jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
	}
}

// GenerateAccessToken mints the session token the auth middleware accepts.
func (j *JWTService) GenerateAccessToken(identity user.Identity) (token string, expiresAt int64, err error) {
	expDuration, err := time.ParseDuration(j.accessTokenExpirationTime)
	if err != nil {
		return "", 0, err
	}
	expiresAt = time.Now().Add(expDuration).Unix()

	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		"user_id":   identity.UserID,
		"tenant_id": identity.TenantID,
		"role":      string(identity.Role),
		"type":      tokenTypeAccess,
		"exp":       expiresAt,
	})
	return tokenString, expiresAt, err
}

// ParseAccessToken verifies the signature and expiry, then extracts the identity.
func (j *JWTService) ParseAccessToken(ctx context.Context, tokenString string) (user.Identity, error) {
	token, err := jwtauth.VerifyToken(j.tokenAuth, tokenString)
	if err != nil {
		return user.Identity{}, auth.ErrInvalidToken
	}

	claims, err := token.AsMap(ctx)
	if err != nil {
		return user.Identity{}, auth.ErrInvalidToken
	}
	return IdentityFromClaims(claims)
}

// IdentityFromClaims reads an access token's claims. Tokens of another type, or
// missing the tenant or user, are rejected.
func IdentityFromClaims(claims map[string]interface{}) (user.Identity, error) {
	if tokenType, ok := claims["type"].(string); !ok || tokenType != tokenTypeAccess {
		return user.Identity{}, auth.ErrInvalidToken
	}

	userID, _ := claims["user_id"].(string)
	tenantID, _ := claims["tenant_id"].(string)
	if userID == "" || tenantID == "" {
		return user.Identity{}, auth.ErrMissingClaims
	}

	role, _ := claims["role"].(string)
	if !user.Role(role).IsValid() {
		return user.Identity{}, user.ErrInvalidRole
	}

	return user.Identity{
		UserID:   userID,
		TenantID: tenantID,
		Role:     user.Role(role),
	}, nil
}
