// Package auth manages the Google OAuth session used for authenticated
// platform calls: token persistence, refresh, and the PKCE authorization
// flow for first-time setup.
package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/epavlenko/openclaw-youtube/internal/core/ports"
)

const (
	AuthURL      = "https://accounts.google.com/o/oauth2/v2/auth"
	TokenURL     = "https://oauth2.googleapis.com/token"
	RedirectURL  = "http://localhost:51739/oauth-callback"
	CallbackPort = ":51739"
)

var Scopes = []string{
	"https://www.googleapis.com/auth/youtube.force-ssl",
}

// expiryMargin is how early a token counts as expired, so a request never
// starts with a token about to die mid-flight.
const expiryMargin = 5 * time.Minute

// AuthorizationRequiredError signals that no valid session exists and an
// operator must visit the authorization URL. It is never retried
// automatically.
type AuthorizationRequiredError struct {
	AuthURL string
}

func (e *AuthorizationRequiredError) Error() string {
	return "authorization required: open " + e.AuthURL
}

// Token holds the OAuth token details in the native on-disk format.
type Token struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	TokenType    string    `json:"token_type"`
	ExpiresIn    int       `json:"expires_in,omitempty"`
	Expiry       time.Time `json:"expiry"`
	Email        string    `json:"email,omitempty"`
}

func (t *Token) valid() bool {
	return t != nil && t.AccessToken != "" && time.Now().Add(expiryMargin).Before(t.Expiry)
}

// TokenManager owns the token file and serves fresh access tokens,
// refreshing behind the scenes when needed.
type TokenManager struct {
	tokenFile    string
	clientID     string
	clientSecret string

	mu    sync.Mutex
	token *Token
}

func NewTokenManager(dataDir, clientID, clientSecret string) (*TokenManager, error) {
	if clientID == "" || clientSecret == "" {
		return nil, fmt.Errorf("google oauth client id and secret are required")
	}
	tm := &TokenManager{
		tokenFile:    filepath.Join(dataDir, "oauth_token.json"),
		clientID:     clientID,
		clientSecret: clientSecret,
	}
	// A missing or foreign-format file is resolved on first use.
	_ = tm.LoadToken()
	return tm, nil
}

var _ ports.TokenSource = (*TokenManager)(nil)

// LoadToken reads the token file, accepting both the native format and a
// foreign bot's layout (see external.go).
func (tm *TokenManager) LoadToken() error {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	data, err := os.ReadFile(tm.tokenFile)
	if err != nil {
		return err
	}
	token, err := normalizeToken(data)
	if err != nil {
		return err
	}
	tm.token = token
	return nil
}

func (tm *TokenManager) SaveToken() error {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	return tm.saveLocked()
}

func (tm *TokenManager) saveLocked() error {
	if tm.token == nil {
		return nil
	}
	data, err := json.MarshalIndent(tm.token, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(tm.tokenFile), 0755); err != nil {
		return err
	}
	return os.WriteFile(tm.tokenFile, data, 0600)
}

// AccessToken returns a valid bearer token, refreshing if necessary. When
// no session can be established it returns AuthorizationRequiredError with
// a URL the operator can act on.
func (tm *TokenManager) AccessToken(ctx context.Context) (string, error) {
	tm.mu.Lock()
	token := tm.token
	tm.mu.Unlock()

	if token.valid() {
		return token.AccessToken, nil
	}
	if token == nil || token.RefreshToken == "" {
		return "", tm.authRequired()
	}
	if err := tm.Refresh(ctx); err != nil {
		return "", tm.authRequired()
	}

	tm.mu.Lock()
	defer tm.mu.Unlock()
	return tm.token.AccessToken, nil
}

func (tm *TokenManager) authRequired() error {
	flow, err := tm.StartAuth()
	if err != nil {
		return fmt.Errorf("authorization required, and building the auth url failed: %w", err)
	}
	return &AuthorizationRequiredError{AuthURL: flow.AuthURL}
}

// Refresh exchanges the refresh token for a new access token and persists
// the result.
func (tm *TokenManager) Refresh(ctx context.Context) error {
	tm.mu.Lock()
	if tm.token == nil || tm.token.RefreshToken == "" {
		tm.mu.Unlock()
		return fmt.Errorf("no refresh token available")
	}
	refreshToken := tm.token.RefreshToken
	tm.mu.Unlock()

	form := url.Values{}
	form.Set("client_id", tm.clientID)
	form.Set("client_secret", tm.clientSecret)
	form.Set("refresh_token", refreshToken)
	form.Set("grant_type", "refresh_token")

	newToken, err := postTokenForm(ctx, form)
	if err != nil {
		return fmt.Errorf("refresh failed: %w", err)
	}

	tm.mu.Lock()
	tm.token.AccessToken = newToken.AccessToken
	tm.token.Expiry = time.Now().Add(time.Duration(newToken.ExpiresIn) * time.Second)
	if newToken.RefreshToken != "" {
		tm.token.RefreshToken = newToken.RefreshToken
	}
	err = tm.saveLocked()
	tm.mu.Unlock()
	return err
}

// AuthFlowResult holds the PKCE state for one authorization attempt.
type AuthFlowResult struct {
	Verifier string
	State    string
	AuthURL  string
}

// StartAuth generates the PKCE challenge and the authorization URL.
func (tm *TokenManager) StartAuth() (*AuthFlowResult, error) {
	verifierBytes := make([]byte, 32)
	if _, err := rand.Read(verifierBytes); err != nil {
		return nil, err
	}
	verifier := base64.RawURLEncoding.EncodeToString(verifierBytes)

	hash := sha256.Sum256([]byte(verifier))
	challenge := base64.RawURLEncoding.EncodeToString(hash[:])

	stateBytes := make([]byte, 16)
	if _, err := rand.Read(stateBytes); err != nil {
		return nil, err
	}
	state := base64.RawURLEncoding.EncodeToString(stateBytes)

	u, err := url.Parse(AuthURL)
	if err != nil {
		return nil, err
	}
	q := u.Query()
	q.Set("client_id", tm.clientID)
	q.Set("response_type", "code")
	q.Set("redirect_uri", RedirectURL)
	q.Set("scope", strings.Join(Scopes, " "))
	q.Set("code_challenge", challenge)
	q.Set("code_challenge_method", "S256")
	q.Set("state", state)
	q.Set("access_type", "offline")
	q.Set("prompt", "consent")
	u.RawQuery = q.Encode()

	return &AuthFlowResult{Verifier: verifier, State: state, AuthURL: u.String()}, nil
}

// ExchangeCode swaps the authorization code for tokens and persists them.
func (tm *TokenManager) ExchangeCode(ctx context.Context, code, verifier string) (*Token, error) {
	form := url.Values{}
	form.Set("client_id", tm.clientID)
	form.Set("client_secret", tm.clientSecret)
	form.Set("code", code)
	form.Set("grant_type", "authorization_code")
	form.Set("redirect_uri", RedirectURL)
	form.Set("code_verifier", verifier)

	token, err := postTokenForm(ctx, form)
	if err != nil {
		return nil, fmt.Errorf("exchange failed: %w", err)
	}
	token.Expiry = time.Now().Add(time.Duration(token.ExpiresIn) * time.Second)

	tm.mu.Lock()
	tm.token = token
	err = tm.saveLocked()
	tm.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return token, nil
}

func postTokenForm(ctx context.Context, form url.Values) (*Token, error) {
	req, err := http.NewRequestWithContext(ctx, "POST", TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("token endpoint returned %d: %s", resp.StatusCode, string(body))
	}

	var token Token
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return nil, err
	}
	return &token, nil
}

// WaitForCallback runs a localhost server until the OAuth redirect arrives,
// then returns the authorization code.
func WaitForCallback(ctx context.Context, expectedState string) (string, error) {
	codeChan := make(chan string)
	errChan := make(chan error)

	mux := http.NewServeMux()
	mux.HandleFunc("/oauth-callback", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("state") != expectedState {
			http.Error(w, "Invalid state", http.StatusBadRequest)
			errChan <- fmt.Errorf("invalid state received")
			return
		}
		if errStr := q.Get("error"); errStr != "" {
			http.Error(w, "Auth failed: "+errStr, http.StatusBadRequest)
			errChan <- fmt.Errorf("auth failed: %s", errStr)
			return
		}
		code := q.Get("code")
		if code == "" {
			http.Error(w, "No code received", http.StatusBadRequest)
			errChan <- fmt.Errorf("no code received")
			return
		}
		w.Write([]byte("Authentication successful! You can close this window and return to the terminal."))
		codeChan <- code
	})

	server := &http.Server{Addr: CallbackPort, Handler: mux}
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()
	defer server.Close()

	select {
	case code := <-codeChan:
		return code, nil
	case err := <-errChan:
		return "", err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
