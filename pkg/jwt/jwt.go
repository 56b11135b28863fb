package jwt

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// IdentityClaims son los claims de un ID token de identidad (Firebase o proveedor local).
// Subject es el UID del usuario.
type IdentityClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
}

// UID devuelve el identificador estable del usuario.
func (c *IdentityClaims) UID() string { return c.Subject }

// SessionClaims firma la cookie de sesión de la aplicación web.
type SessionClaims struct {
	jwt.RegisteredClaims
	SessionID string `json:"sid"`
}

// TokenVerifier valida un bearer token y devuelve sus claims.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*IdentityClaims, error)
}

var errEmptySecret = errors.New("jwt: secret vacío")

// GenerateIdentity emite un ID token HS256 (usado por el proveedor de identidad local).
func GenerateIdentity(secret, issuer, uid, email, name string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", errEmptySecret
	}
	now := time.Now()
	claims := IdentityClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   uid,
			Audience:  jwt.ClaimStrings{issuer},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Email: email,
		Name:  name,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// ParseIdentity valida firma, expiración e issuer de un ID token HS256.
func ParseIdentity(secret, issuer, tokenString string) (*IdentityClaims, error) {
	if secret == "" {
		return nil, errEmptySecret
	}
	token, err := jwt.ParseWithClaims(tokenString, &IdentityClaims{}, hmacKey(secret),
		jwt.WithIssuer(issuer), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*IdentityClaims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, fmt.Errorf("claims inválidos")
	}
	return claims, nil
}

// HMACVerifier verifica tokens emitidos por GenerateIdentity.
type HMACVerifier struct {
	Secret string
	Issuer string
}

// Verify implementa TokenVerifier.
func (v HMACVerifier) Verify(_ context.Context, token string) (*IdentityClaims, error) {
	return ParseIdentity(v.Secret, v.Issuer, token)
}

// GenerateSession firma el identificador de sesión del navegador.
func GenerateSession(secret, sessionID string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", errEmptySecret
	}
	now := time.Now()
	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		SessionID: sessionID,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// ParseSession valida la cookie y devuelve el identificador de sesión.
func ParseSession(secret, tokenString string) (string, error) {
	if secret == "" {
		return "", errEmptySecret
	}
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, hmacKey(secret))
	if err != nil {
		return "", err
	}
	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid || claims.SessionID == "" {
		return "", fmt.Errorf("claims inválidos")
	}
	return claims.SessionID, nil
}

// ExpiresAt lee exp sin verificar la firma. Sirve para decidir cuándo renovar un token propio.
func ExpiresAt(tokenString string) (time.Time, error) {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return time.Time{}, err
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, fmt.Errorf("jwt: token sin exp")
	}
	return claims.ExpiresAt.Time, nil
}

func hmacKey(secret string) jwt.Keyfunc {
	return func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	}
}
