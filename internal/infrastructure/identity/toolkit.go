// Package identity implementa ports.IdentityProvider sobre la API REST de Identity Toolkit
// (email + contraseña). Usa net/http; no requiere el SDK oficial.
package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/jhoicas/visitas-api/internal/application/ports"
	"github.com/jhoicas/visitas-api/internal/domain"
)

// DefaultBaseURL endpoint público de Identity Toolkit.
const DefaultBaseURL = "https://identitytoolkit.googleapis.com"

var _ ports.IdentityProvider = (*Toolkit)(nil)

// Toolkit cliente del proveedor. Conserva el idToken de cada identidad con sesión
// iniciada en este proceso; SignOut lo descarta.
type Toolkit struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client

	mu     sync.Mutex
	tokens map[string]string
}

// NewToolkit construye el cliente. baseURL vacío usa DefaultBaseURL.
func NewToolkit(baseURL, apiKey string, timeout time.Duration) *Toolkit {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Toolkit{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
		tokens:     make(map[string]string),
	}
}

// ── Estructuras internas del protocolo ────────────────────────────────────────

type passwordRequest struct {
	Email             string `json:"email"`
	Password          string `json:"password"`
	ReturnSecureToken bool   `json:"returnSecureToken"`
}

type tokenResponse struct {
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
	LocalID      string `json:"localId"`
}

type errorResponse struct {
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// ── Implementación del puerto ─────────────────────────────────────────────────

// SignIn valida email y contraseña.
func (t *Toolkit) SignIn(ctx context.Context, identifier, secret string) error {
	var out tokenResponse
	if err := t.call(ctx, "accounts:signInWithPassword", passwordRequest{identifier, secret, true}, &out); err != nil {
		return err
	}
	t.remember(identifier, out.IDToken)
	return nil
}

// SignUp registra la identidad con la contraseña dada.
func (t *Toolkit) SignUp(ctx context.Context, identifier, secret string) error {
	var out tokenResponse
	if err := t.call(ctx, "accounts:signUp", passwordRequest{identifier, secret, true}, &out); err != nil {
		return err
	}
	t.remember(identifier, out.IDToken)
	return nil
}

// SignOut descarta el token de la identidad. El proveedor no expone cierre de sesión
// del lado del cliente; el token expira por su cuenta.
func (t *Toolkit) SignOut(_ context.Context, identifier string) error {
	t.mu.Lock()
	delete(t.tokens, identifier)
	t.mu.Unlock()
	return nil
}

// HasSession indica si la identidad inició sesión en este proceso.
func (t *Toolkit) HasSession(identifier string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.tokens[identifier]
	return ok
}

func (t *Toolkit) remember(identifier, token string) {
	t.mu.Lock()
	t.tokens[identifier] = token
	t.mu.Unlock()
}

func (t *Toolkit) call(ctx context.Context, method string, payload, out any) error {
	op := "identity." + method
	if t.apiKey == "" {
		return fmt.Errorf("identity: IDENTITY_API_KEY no configurado")
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("identity: serializar request: %w", err)
	}
	endpoint := fmt.Sprintf("%s/v1/%s?key=%s", t.baseURL, method, url.QueryEscape(t.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("identity: crear HTTP request: %w", err)
	}
	req.Header.Set("content-type", "application/json")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return domain.Unavailable(op, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return domain.Unavailable(op, err)
	}
	if resp.StatusCode != http.StatusOK {
		return classify(op, resp.StatusCode, raw)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("identity: deserializar respuesta: %w", err)
	}
	return nil
}

// classify traduce los códigos del proveedor a errores del dominio.
func classify(op string, status int, raw []byte) error {
	var errResp errorResponse
	if json.Unmarshal(raw, &errResp) != nil || errResp.Error == nil {
		return domain.Unavailable(op, fmt.Errorf("HTTP %d", status))
	}
	// El mensaje puede traer detalle: "WEAK_PASSWORD : Password should be at least 6 characters".
	code, _, _ := strings.Cut(errResp.Error.Message, " ")
	switch code {
	case "EMAIL_NOT_FOUND":
		return ports.ErrUnknownIdentity
	case "INVALID_PASSWORD", "INVALID_LOGIN_CREDENTIALS", "USER_DISABLED", "INVALID_EMAIL", "MISSING_PASSWORD":
		return domain.ErrInvalidCredentials
	case "EMAIL_EXISTS":
		return domain.ErrDuplicateIdentifier
	case "WEAK_PASSWORD":
		return fmt.Errorf("%w: %s", domain.ErrInvalidInput, errResp.Error.Message)
	}
	if status >= 500 || status == http.StatusTooManyRequests {
		return domain.Unavailable(op, fmt.Errorf("HTTP %d: %s", status, errResp.Error.Message))
	}
	return fmt.Errorf("identity: %s", errResp.Error.Message)
}
