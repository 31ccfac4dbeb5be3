package local

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mtran/volunteer-hub/internal/model"
	"github.com/mtran/volunteer-hub/internal/store"
)

const (
	secretKey = "local:jwt_secret"
	issuer    = "volunteerhub-local"
	tokenTTL  = 24 * time.Hour
)

// sessionClaims are the claims carried by a locally issued session token.
type sessionClaims struct {
	Email string     `json:"email"`
	Name  string     `json:"name"`
	Role  model.Role `json:"role"`
	jwt.RegisteredClaims
}

// tokenIssuer signs and parses local session tokens. The signing secret
// is generated once and persisted so tokens survive restarts.
type tokenIssuer struct {
	secret []byte
}

func newTokenIssuer(st store.Store) (*tokenIssuer, error) {
	ctx := context.Background()

	data, exists, err := st.Read(ctx, secretKey)
	if err != nil {
		return nil, fmt.Errorf("reading token secret: %w", err)
	}
	if exists {
		secret, err := base64.StdEncoding.DecodeString(string(data))
		if err != nil {
			return nil, fmt.Errorf("decoding token secret: %w", err)
		}
		return &tokenIssuer{secret: secret}, nil
	}

	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return nil, fmt.Errorf("generating token secret: %w", err)
	}
	encoded := base64.StdEncoding.EncodeToString(secret)
	if err := st.Write(ctx, secretKey, []byte(encoded)); err != nil {
		return nil, fmt.Errorf("persisting token secret: %w", err)
	}
	return &tokenIssuer{secret: secret}, nil
}

// issue signs a session token for the given profile.
func (t *tokenIssuer) issue(profile *model.Profile) (string, error) {
	now := time.Now()
	claims := sessionClaims{
		Email: profile.Email,
		Name:  profile.Name,
		Role:  profile.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   profile.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// parse validates a token and returns its claims.
func (t *tokenIssuer) parse(tokenString string) (*sessionClaims, error) {
	claims := &sessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(token *jwt.Token) (interface{}, error) {
			return t.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
	)
	if err != nil {
		return nil, fmt.Errorf("parsing session token: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid session token")
	}
	return claims, nil
}
