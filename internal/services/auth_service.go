package services

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"doctorcar-service/internal/config"
	"doctorcar-service/internal/models"
	"doctorcar-service/internal/repository"
	"doctorcar-service/internal/utils"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"
)

// SessionCookieName is the opaque session cookie set on login.
const SessionCookieName = "workshop_session"

const sessionTTL = 7 * 24 * time.Hour

// AuthService delegates authentication to an external OAuth provider. The
// provider's id_token is parsed without local signature verification;
// session integrity rests on the httpOnly, secure cookie and the
// server-side redis record behind it.
type AuthService struct {
	userRepo    *repository.UserRepository
	sessionRepo *repository.SessionRepository
	oauthConfig *oauth2.Config
	cookieCfg   config.OAuthConfig
}

func NewAuthService(userRepo *repository.UserRepository, sessionRepo *repository.SessionRepository, cfg config.OAuthConfig) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		cookieCfg:   cfg,
		oauthConfig: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint: oauth2.Endpoint{
				AuthURL:  cfg.AuthURL,
				TokenURL: cfg.TokenURL,
			},
		},
	}
}

// CookieConfig exposes the cookie attributes for the handler layer
func (s *AuthService) CookieConfig() config.OAuthConfig {
	return s.cookieCfg
}

// LoginURL returns the provider authorize URL for the given state
func (s *AuthService) LoginURL(state string) string {
	return s.oauthConfig.AuthCodeURL(state)
}

// identityClaims is the subset of id_token claims the workshop keeps.
type identityClaims struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
	jwt.RegisteredClaims
}

// HandleCallback exchanges the authorization code, upserts the user from
// the id_token claims and opens a server-side session. It returns the
// session token and the signed-in user.
func (s *AuthService) HandleCallback(ctx context.Context, code string) (string, *models.User, error) {
	token, err := s.oauthConfig.Exchange(ctx, code)
	if err != nil {
		return "", nil, fmt.Errorf("unauthorized: code exchange failed: %w", err)
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return "", nil, fmt.Errorf("unauthorized: provider response missing id_token")
	}

	claims := identityClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(rawIDToken, &claims); err != nil {
		return "", nil, fmt.Errorf("unauthorized: failed to parse id_token: %w", err)
	}
	if claims.Subject == "" || claims.Email == "" {
		return "", nil, fmt.Errorf("unauthorized: id_token missing subject or email")
	}
	if ok, err := utils.ValidateEmail(claims.Email); !ok {
		return "", nil, fmt.Errorf("unauthorized: %w", err)
	}

	user := models.User{
		ProviderSubject: claims.Subject,
		Email:           claims.Email,
		FullName:        claims.Name,
		Role:            models.RoleClient,
	}
	if claims.Picture != "" {
		user.PictureURL = &claims.Picture
	}
	if err := s.userRepo.Upsert(ctx, &user); err != nil {
		return "", nil, fmt.Errorf("failed to upsert user: %w", err)
	}

	// The upsert keeps the stored id and role for a returning user; read
	// the canonical row back so the session carries them.
	stored, err := s.userRepo.GetByProviderSubject(ctx, claims.Subject)
	if err != nil {
		return "", nil, fmt.Errorf("failed to load user: %w", err)
	}

	sessionToken, err := newSessionToken()
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate session token: %w", err)
	}

	session := repository.Session{
		UserID:    stored.ID,
		Role:      stored.Role,
		Email:     stored.Email,
		CreatedAt: time.Now(),
	}
	if err := s.sessionRepo.Save(ctx, sessionToken, &session); err != nil {
		return "", nil, fmt.Errorf("failed to save session: %w", err)
	}

	slog.Info("user signed in", "user_id", stored.ID, "role", stored.Role)

	return sessionToken, stored, nil
}

// ResolveSession validates a session token and returns its record
func (s *AuthService) ResolveSession(ctx context.Context, token string) (*repository.Session, error) {
	session, err := s.sessionRepo.Get(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("unauthorized: %w", err)
	}

	// Sliding expiry; a failed refresh is not fatal for this request.
	if err := s.sessionRepo.Refresh(ctx, token); err != nil {
		slog.Warn("failed to refresh session", "error", err)
	}

	return session, nil
}

// Logout invalidates a session token
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if err := s.sessionRepo.Delete(ctx, token); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	return nil
}

// CookieValue encodes the client-visible cookie payload. The cookie is
// opaque to the client: the authoritative session lives in redis under the
// random token.
func CookieValue(token string, issuedAt time.Time) string {
	payload, _ := json.Marshal(map[string]interface{}{
		"sub": token,
		"iat": issuedAt.Unix(),
	})
	return base64.StdEncoding.EncodeToString(payload)
}

// ParseCookieValue extracts the session token from a cookie value
func ParseCookieValue(value string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		return "", fmt.Errorf("unauthorized: malformed session cookie")
	}

	var payload struct {
		Sub string `json:"sub"`
		Iat int64  `json:"iat"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil || payload.Sub == "" {
		return "", fmt.Errorf("unauthorized: malformed session cookie")
	}

	return payload.Sub, nil
}

// NewStateToken generates a random state parameter for the OAuth redirect
func NewStateToken() (string, error) {
	return newSessionToken()
}

func newSessionToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// SessionTTL reports the configured session lifetime
func SessionTTL() time.Duration {
	return sessionTTL
}
