package jwt

import (
	"context"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/sync/singleflight"
)

// FirebaseVerifier valida ID tokens de Firebase Authentication (RS256) con los
// certificados públicos de securetoken. Los certificados se cachean según Cache-Control.
type FirebaseVerifier struct {
	projectID string
	certsURL  string
	client    *http.Client

	mu      sync.RWMutex
	keys    map[string]*rsa.PublicKey
	expires time.Time
	group   singleflight.Group
}

// NewFirebaseVerifier crea el verificador para un proyecto. client nil = http.DefaultClient.
func NewFirebaseVerifier(projectID, certsURL string, client *http.Client) *FirebaseVerifier {
	if client == nil {
		client = http.DefaultClient
	}
	return &FirebaseVerifier{projectID: projectID, certsURL: certsURL, client: client}
}

// Verify implementa TokenVerifier.
func (v *FirebaseVerifier) Verify(ctx context.Context, tokenString string) (*IdentityClaims, error) {
	keys, err := v.publicKeys(ctx)
	if err != nil {
		return nil, err
	}
	token, err := jwt.ParseWithClaims(tokenString, &IdentityClaims{}, func(t *jwt.Token) (interface{}, error) {
		kid, _ := t.Header["kid"].(string)
		key, ok := keys[kid]
		if !ok {
			return nil, fmt.Errorf("kid desconocido %q", kid)
		}
		return key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithIssuer("https://securetoken.google.com/"+v.projectID),
		jwt.WithAudience(v.projectID),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*IdentityClaims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, fmt.Errorf("claims inválidos")
	}
	return claims, nil
}

func (v *FirebaseVerifier) publicKeys(ctx context.Context) (map[string]*rsa.PublicKey, error) {
	v.mu.RLock()
	keys, expires := v.keys, v.expires
	v.mu.RUnlock()
	if keys != nil && time.Now().Before(expires) {
		return keys, nil
	}

	res, err, _ := v.group.Do("certs", func() (interface{}, error) {
		return v.fetch(ctx)
	})
	if err != nil {
		return nil, err
	}
	return res.(map[string]*rsa.PublicKey), nil
}

func (v *FirebaseVerifier) fetch(ctx context.Context) (map[string]*rsa.PublicKey, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.certsURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := v.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("jwt: descargar certificados: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("jwt: certificados status %d", resp.StatusCode)
	}

	var raw map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("jwt: decodificar certificados: %w", err)
	}
	keys := make(map[string]*rsa.PublicKey, len(raw))
	for kid, certPEM := range raw {
		block, _ := pem.Decode([]byte(certPEM))
		if block == nil {
			return nil, fmt.Errorf("jwt: certificado %s sin PEM", kid)
		}
		cert, err := x509.ParseCertificate(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("jwt: certificado %s: %w", kid, err)
		}
		pub, ok := cert.PublicKey.(*rsa.PublicKey)
		if !ok {
			return nil, fmt.Errorf("jwt: certificado %s no es RSA", kid)
		}
		keys[kid] = pub
	}

	v.mu.Lock()
	v.keys = keys
	v.expires = time.Now().Add(maxAge(resp.Header.Get("Cache-Control")))
	v.mu.Unlock()
	return keys, nil
}

// maxAge extrae max-age de Cache-Control; una hora si no viene.
func maxAge(header string) time.Duration {
	for _, part := range strings.Split(header, ",") {
		part = strings.TrimSpace(part)
		if s, ok := strings.CutPrefix(part, "max-age="); ok {
			if n, err := strconv.Atoi(s); err == nil && n > 0 {
				return time.Duration(n) * time.Second
			}
		}
	}
	return time.Hour
}
