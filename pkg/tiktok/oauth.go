package tiktok

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

const (
	authorizeURL = "https://www.tiktok.com/v2/auth/authorize/"
	tokenURL     = "https://open.tiktokapis.com/v2/oauth/token/"
	scopes       = "user.info.basic,video.list"
)

type Config struct {
	ClientKey    string
	ClientSecret string
	RedirectURI  string
}

func ConfigFromEnv() Config {
	return Config{
		ClientKey:    os.Getenv("TIKTOK_CLIENT_KEY"),
		ClientSecret: os.Getenv("TIKTOK_CLIENT_SECRET"),
		RedirectURI:  os.Getenv("TIKTOK_REDIRECT_URI"),
	}
}

func (c Config) Configured() bool {
	return c.ClientKey != "" && c.ClientSecret != "" && c.RedirectURI != ""
}

// NewNonce returns the CSRF nonce bound into the OAuth state parameter.
func NewNonce() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// NewCodeVerifier returns a random PKCE code verifier.
func NewCodeVerifier() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// Challenge derives the S256 code challenge for a verifier.
func Challenge(verifier string) string {
	sum := sha256.Sum256([]byte(verifier))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}

// State packs the nonce and org id into the state parameter; ParseState
// splits it back apart.
func State(nonce, orgID string) string {
	return nonce + "|" + orgID
}

func ParseState(state string) (nonce, orgID string, ok bool) {
	nonce, orgID, ok = strings.Cut(state, "|")
	if nonce == "" || orgID == "" {
		return "", "", false
	}
	return nonce, orgID, ok
}

// AuthorizeURL builds the redirect target for the consent screen.
func (c Config) AuthorizeURL(state, codeChallenge string) string {
	v := url.Values{}
	v.Set("client_key", c.ClientKey)
	v.Set("redirect_uri", c.RedirectURI)
	v.Set("response_type", "code")
	v.Set("scope", scopes)
	v.Set("state", state)
	v.Set("code_challenge", codeChallenge)
	v.Set("code_challenge_method", "S256")
	return authorizeURL + "?" + v.Encode()
}

type Token struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	OpenID       string `json:"open_id"`
	Data         struct {
		OpenID string `json:"open_id"`
	} `json:"data"`
}

// AccountID returns the open id regardless of which envelope shape the token
// endpoint used.
func (t Token) AccountID() string {
	if t.OpenID != "" {
		return t.OpenID
	}
	return t.Data.OpenID
}

func (t Token) ExpiresAt(now time.Time) *time.Time {
	if t.ExpiresIn <= 0 {
		return nil
	}
	at := now.Add(time.Duration(t.ExpiresIn) * time.Second)
	return &at
}

var httpClient = &http.Client{Timeout: 15 * time.Second}

// ExchangeCode trades the authorization code plus PKCE verifier for tokens.
func (c Config) ExchangeCode(ctx context.Context, code, codeVerifier string) (*Token, error) {
	form := url.Values{}
	form.Set("client_key", c.ClientKey)
	form.Set("client_secret", c.ClientSecret)
	form.Set("code", code)
	form.Set("grant_type", "authorization_code")
	form.Set("redirect_uri", c.RedirectURI)
	form.Set("code_verifier", codeVerifier)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	res, err := httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("token exchange failed: %s: %s", res.Status, body)
	}

	var tok Token
	if err := json.Unmarshal(body, &tok); err != nil {
		return nil, fmt.Errorf("token exchange returned malformed JSON: %w", err)
	}

	if tok.AccessToken == "" || tok.AccountID() == "" {
		return nil, fmt.Errorf("token response missing access_token or open_id")
	}

	return &tok, nil
}
