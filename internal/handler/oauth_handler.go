package handler

import (
	"encoding/base64"
	"log/slog"
	"net/http"
	"time"

	"trendscope/internal/model"
	"trendscope/pkg/tiktok"

	"github.com/gin-gonic/gin"
)

type AccountStore interface {
	UpsertAccount(a *model.ConnectedAccount) error
	UpsertToken(accountID, accessTokenEnc string, refreshTokenEnc *string, expiresAt *time.Time) error
}

// OAuthHandler runs the TikTok PKCE handshake. Nonce and code verifier live
// in short-lived httpOnly cookies between the two legs.
type OAuthHandler struct {
	accounts    AccountStore
	cfg         tiktok.Config
	frontendURL string
}

func NewOAuthHandler(accounts AccountStore, cfg tiktok.Config, frontendURL string) *OAuthHandler {
	return &OAuthHandler{accounts: accounts, cfg: cfg, frontendURL: frontendURL}
}

const (
	nonceCookie    = "tiktok_oauth_nonce"
	verifierCookie = "tiktok_code_verifier"
	cookieMaxAge   = 10 * 60
)

func (h *OAuthHandler) Start(c *gin.Context) {
	if !h.cfg.Configured() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "TikTok OAuth is not configured"})
		return
	}

	orgID := c.Query("org_id")
	if orgID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing org_id"})
		return
	}

	nonce, err := tiktok.NewNonce()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not start OAuth"})
		return
	}

	verifier, err := tiktok.NewCodeVerifier()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not start OAuth"})
		return
	}

	c.SetCookie(nonceCookie, nonce, cookieMaxAge, "/", "", false, true)
	c.SetCookie(verifierCookie, verifier, cookieMaxAge, "/", "", false, true)

	c.Redirect(http.StatusFound, h.cfg.AuthorizeURL(tiktok.State(nonce, orgID), tiktok.Challenge(verifier)))
}

func (h *OAuthHandler) Callback(c *gin.Context) {
	code := c.Query("code")
	state := c.Query("state")
	if code == "" || state == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing code/state"})
		return
	}

	nonce, orgID, ok := tiktok.ParseState(state)
	cookieNonce, err := c.Cookie(nonceCookie)
	if !ok || err != nil || cookieNonce != nonce {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid OAuth state"})
		return
	}

	verifier, err := c.Cookie(verifierCookie)
	if err != nil || verifier == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing PKCE code verifier cookie"})
		return
	}

	tok, err := h.cfg.ExchangeCode(c.Request.Context(), code, verifier)
	if err != nil {
		slog.Error("tiktok token exchange failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Token exchange failed"})
		return
	}

	account := model.ConnectedAccount{
		OrgID:             orgID,
		Platform:          model.PlatformTikTok,
		PlatformAccountID: tok.AccountID(),
	}
	if err := h.accounts.UpsertAccount(&account); err != nil {
		slog.Error("error upserting connected account", "error", err, "org_id", orgID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	var refreshEnc *string
	if tok.RefreshToken != "" {
		enc := base64.StdEncoding.EncodeToString([]byte(tok.RefreshToken))
		refreshEnc = &enc
	}

	accessEnc := base64.StdEncoding.EncodeToString([]byte(tok.AccessToken))
	if err := h.accounts.UpsertToken(account.ID, accessEnc, refreshEnc, tok.ExpiresAt(time.Now())); err != nil {
		slog.Error("error upserting oauth token", "error", err, "account_id", account.ID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.SetCookie(nonceCookie, "", -1, "/", "", false, true)
	c.SetCookie(verifierCookie, "", -1, "/", "", false, true)

	c.Redirect(http.StatusFound, h.frontendURL+"/app/connect?connected=tiktok")
}
