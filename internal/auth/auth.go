// Package auth adapts the upstream identity provider. It only answers who
// the current principal is; sign-in itself happens elsewhere.
package auth

import (
	"crypto/subtle"
	"fmt"
	"net/http"
	"strings"

	"github.com/fairyhunter13/inventory-service/internal/config"
	"github.com/fairyhunter13/inventory-service/internal/obs"
)

// Headers set by an authenticating proxy in header mode.
const (
	HeaderUserID    = "X-User-Id"
	HeaderUserEmail = "X-User-Email"
)

// Principal is an authenticated user.
type Principal struct {
	ID    string `json:"id"`
	Email string `json:"email,omitempty"`
}

// Provider resolves the principal behind a request.
type Provider interface {
	CurrentUser(r *http.Request) (Principal, bool)
}

// HeaderProvider trusts identity headers injected by a proxy in front of the service.
type HeaderProvider struct{}

// CurrentUser implements Provider.
func (HeaderProvider) CurrentUser(r *http.Request) (Principal, bool) {
	id := strings.TrimSpace(r.Header.Get(HeaderUserID))
	if id == "" {
		return Principal{}, false
	}
	return Principal{ID: id, Email: strings.TrimSpace(r.Header.Get(HeaderUserEmail))}, true
}

// TokenProvider maps static bearer tokens to principals.
type TokenProvider struct {
	tokens map[string]Principal
}

// NewTokenProvider returns a provider accepting the given tokens.
func NewTokenProvider(tokens map[string]Principal) *TokenProvider {
	return &TokenProvider{tokens: tokens}
}

// CurrentUser implements Provider.
func (p *TokenProvider) CurrentUser(r *http.Request) (Principal, bool) {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return Principal{}, false
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return Principal{}, false
	}
	for known, principal := range p.tokens {
		if subtle.ConstantTimeCompare([]byte(known), []byte(token)) == 1 {
			return principal, true
		}
	}
	return Principal{}, false
}

// ParseTokens parses "token=user-id[:email],..." into a token table.
func ParseTokens(raw string) (map[string]Principal, error) {
	out := make(map[string]Principal)
	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		token, who, ok := strings.Cut(entry, "=")
		token = strings.TrimSpace(token)
		if !ok || token == "" {
			return nil, fmt.Errorf("invalid token entry %q: expected token=user-id[:email]", entry)
		}
		id, email, _ := strings.Cut(who, ":")
		id = strings.TrimSpace(id)
		if id == "" {
			return nil, fmt.Errorf("invalid token entry %q: missing user id", entry)
		}
		if _, dup := out[token]; dup {
			return nil, fmt.Errorf("duplicate token for user %q", id)
		}
		out[token] = Principal{ID: id, Email: strings.TrimSpace(email)}
	}
	return out, nil
}

// NewProvider builds the provider selected by cfg.AuthMode.
func NewProvider(cfg config.Config) (Provider, error) {
	switch cfg.AuthMode {
	case config.AuthModeHeader, "":
		obs.Logger.Warn("auth_header_mode",
			"header", HeaderUserID,
			"detail", "principal is taken from request headers; only expose this port behind an authenticating proxy")
		return HeaderProvider{}, nil
	case config.AuthModeToken:
		tokens, err := ParseTokens(cfg.AuthTokens)
		if err != nil {
			return nil, err
		}
		if len(tokens) == 0 {
			return nil, fmt.Errorf("auth mode %q needs at least one token", cfg.AuthMode)
		}
		return NewTokenProvider(tokens), nil
	default:
		return nil, fmt.Errorf("unknown auth mode %q", cfg.AuthMode)
	}
}
