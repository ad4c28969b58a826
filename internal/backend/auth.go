package backend

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	platformerrors "github.com/jmgilman/go/errors"
)

type AuthConfig struct {
	// URL answers GET with the session owner for a valid bearer token, e.g.
	// https://<project>.supabase.co/auth/v1/user.
	URL     string
	APIKey  string
	Timeout time.Duration
}

// Authenticator checks bearer tokens against the auth service before the
// portal acts on them itself.
type Authenticator struct {
	url    string
	apiKey string
	http   *http.Client
	log    *slog.Logger
}

func NewAuthenticator(cfg AuthConfig, logger *slog.Logger) (*Authenticator, error) {
	raw := strings.TrimSpace(cfg.URL)
	u, err := url.Parse(raw)
	if err != nil {
		return nil, platformerrors.Wrap(err, platformerrors.CodeInvalidConfig, "parse auth url")
	} else if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, platformerrors.Newf(platformerrors.CodeInvalidConfig, "auth url %q must be an absolute http(s) url", raw)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Authenticator{
		url:    raw,
		apiKey: cfg.APIKey,
		http:   &http.Client{Timeout: timeout},
		log:    logger,
	}, nil
}

// Verify returns an unauthorized error unless the auth service accepts token.
func (a *Authenticator) Verify(ctx context.Context, token string) error {
	if token == "" {
		return platformerrors.New(platformerrors.CodeUnauthorized, "missing token")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.url, nil)
	if err != nil {
		return platformerrors.Wrap(err, platformerrors.CodeInvalidInput, "build auth request")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	if a.apiKey != "" {
		req.Header.Set("apikey", a.apiKey)
	}

	resp, err := a.http.Do(req)
	if err != nil {
		return transportError(ctx, http.MethodGet, "auth", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode <= 299:
		return nil
	case resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests:
		a.log.DebugContext(ctx, "token rejected", "status", resp.StatusCode)
		return platformerrors.New(platformerrors.CodeUnauthorized, "invalid or expired token")
	default:
		return statusError(http.MethodGet, "auth", resp)
	}
}
