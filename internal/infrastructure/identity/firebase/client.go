// Package firebase implementa ports.IdentityProvider sobre la API REST de Firebase
// Authentication (Identity Toolkit y Secure Token).
package firebase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jhoicas/cotizador/internal/application/ports"
)

// Config endpoints y credenciales del proyecto.
type Config struct {
	APIKey      string
	IdentityURL string // https://identitytoolkit.googleapis.com/v1
	TokenURL    string // https://securetoken.googleapis.com/v1/token
	ContinueURL string
}

// authResponse respuesta común de signUp / signInWithPassword / signInWithIdp / update.
type authResponse struct {
	LocalID      string `json:"localId"`
	Email        string `json:"email"`
	DisplayName  string `json:"displayName"`
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    string `json:"expiresIn"`
}

// refreshResponse respuesta de securetoken (snake_case).
type refreshResponse struct {
	IDToken      string `json:"id_token"`
	RefreshToken string `json:"refresh_token"`
	UserID       string `json:"user_id"`
	ExpiresIn    string `json:"expires_in"`
}

type errorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// APIError error de Firebase sin clasificación conocida.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("firebase: status %d: %s", e.Status, e.Message)
}

// restClient llamadas HTTP crudas; sin estado de sesión.
type restClient struct {
	cfg        Config
	httpClient *http.Client
}

func newRESTClient(cfg Config, hc *http.Client) *restClient {
	if hc == nil {
		hc = &http.Client{Timeout: 15 * time.Second}
	}
	return &restClient{cfg: cfg, httpClient: hc}
}

func (c *restClient) signUp(ctx context.Context, email, password string) (*authResponse, error) {
	var out authResponse
	err := c.postJSON(ctx, "accounts:signUp", map[string]interface{}{
		"email": email, "password": password, "returnSecureToken": true,
	}, &out)
	return &out, err
}

func (c *restClient) signInWithPassword(ctx context.Context, email, password string) (*authResponse, error) {
	var out authResponse
	err := c.postJSON(ctx, "accounts:signInWithPassword", map[string]interface{}{
		"email": email, "password": password, "returnSecureToken": true,
	}, &out)
	return &out, err
}

func (c *restClient) signInWithIdp(ctx context.Context, cred ports.ProviderCredential) (*authResponse, error) {
	form := url.Values{}
	form.Set("providerId", cred.ProviderID)
	if cred.IDToken != "" {
		form.Set("id_token", cred.IDToken)
	}
	if cred.AccessToken != "" {
		form.Set("access_token", cred.AccessToken)
	}
	requestURI := c.cfg.ContinueURL
	if requestURI == "" {
		requestURI = "http://localhost"
	}
	var out authResponse
	err := c.postJSON(ctx, "accounts:signInWithIdp", map[string]interface{}{
		"postBody":            form.Encode(),
		"requestUri":          requestURI,
		"returnSecureToken":   true,
		"returnIdpCredential": true,
	}, &out)
	return &out, err
}

func (c *restClient) updateDisplayName(ctx context.Context, idToken, displayName string) (*authResponse, error) {
	var out authResponse
	err := c.postJSON(ctx, "accounts:update", map[string]interface{}{
		"idToken": idToken, "displayName": displayName, "returnSecureToken": true,
	}, &out)
	return &out, err
}

func (c *restClient) sendPasswordReset(ctx context.Context, email string) error {
	body := map[string]interface{}{"requestType": "PASSWORD_RESET", "email": email}
	if c.cfg.ContinueURL != "" {
		body["continueUrl"] = c.cfg.ContinueURL
	}
	return c.postJSON(ctx, "accounts:sendOobCode", body, nil)
}

func (c *restClient) refresh(ctx context.Context, refreshToken string) (*refreshResponse, error) {
	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", refreshToken)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.cfg.TokenURL+"?key="+url.QueryEscape(c.cfg.APIKey), strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	var out refreshResponse
	if err := c.send(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *restClient) postJSON(ctx context.Context, method string, in, out interface{}) error {
	b, err := json.Marshal(in)
	if err != nil {
		return err
	}
	endpoint := strings.TrimRight(c.cfg.IdentityURL, "/") + "/" + method + "?key=" + url.QueryEscape(c.cfg.APIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.send(req, out)
}

func (c *restClient) send(req *http.Request, out interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("firebase: %w", err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("firebase: leer respuesta: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		var e errorResponse
		_ = json.Unmarshal(raw, &e)
		return classify(resp.StatusCode, e.Error.Message)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("firebase: decodificar: %w", err)
	}
	return nil
}

// classify traduce los códigos de Firebase ("WEAK_PASSWORD : Password should be...") a errores del puerto.
func classify(status int, message string) error {
	code := message
	if i := strings.Index(code, " "); i >= 0 {
		code = code[:i]
	}
	switch code {
	case "INVALID_LOGIN_CREDENTIALS", "INVALID_PASSWORD", "EMAIL_NOT_FOUND", "INVALID_EMAIL", "USER_DISABLED", "INVALID_IDP_RESPONSE":
		return fmt.Errorf("%w: %s", ports.ErrInvalidCredential, code)
	case "EMAIL_EXISTS":
		return fmt.Errorf("%w: %s", ports.ErrEmailAlreadyInUse, code)
	case "WEAK_PASSWORD":
		return fmt.Errorf("%w: %s", ports.ErrWeakPassword, code)
	case "TOKEN_EXPIRED", "INVALID_REFRESH_TOKEN", "USER_NOT_FOUND":
		return fmt.Errorf("%w: %s", ports.ErrNotSignedIn, code)
	}
	return &APIError{Status: status, Message: message}
}

// isSessionGone el refresh token ya no sirve: la sesión terminó del lado de Firebase.
func isSessionGone(err error) bool {
	return errors.Is(err, ports.ErrNotSignedIn)
}
