// Package supabase talks to a hosted Supabase project: GoTrue for
// authentication and PostgREST for row-level-secured tables.
package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"github.com/janhq/jan-crm/internal/domain/backend"
	"github.com/janhq/jan-crm/internal/infrastructure/logger"
	"github.com/janhq/jan-crm/internal/utils/platformerrors"
)

// Config holds connection settings for a Supabase project.
type Config struct {
	URL     string
	AnonKey string
	// JWKSURL enables local verification of access tokens when set.
	JWKSURL  string
	Timeout  time.Duration
	Redactor *logger.Redactor
}

// Connector opens Supabase clients bound to access tokens.
type Connector struct {
	http     *resty.Client
	anonKey  string
	jwks     *keyfunc.JWKS
	redactor *logger.Redactor
	log      zerolog.Logger
}

var _ backend.Connector = (*Connector)(nil)

// New creates a connector. When cfg.JWKSURL is set the signing keys are fetched
// once and refreshed in the background until ctx is done.
func New(ctx context.Context, cfg Config, log zerolog.Logger) (*Connector, error) {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	log = log.With().Str("component", "supabase").Logger()

	conn := &Connector{
		http: resty.New().
			SetBaseURL(strings.TrimRight(cfg.URL, "/")).
			SetTimeout(timeout).
			SetHeader("Content-Type", "application/json").
			SetHeader("apikey", cfg.AnonKey),
		anonKey:  cfg.AnonKey,
		redactor: cfg.Redactor,
		log:      log,
	}
	conn.http.OnAfterResponse(func(_ *resty.Client, resp *resty.Response) error {
		log.Debug().
			Str("method", resp.Request.Method).
			Str("url", resp.Request.URL).
			Int("status", resp.StatusCode()).
			Dur("latency", resp.Time()).
			Msg("supabase call")
		return nil
	})

	if cfg.JWKSURL != "" {
		jwks, err := keyfunc.Get(cfg.JWKSURL, keyfunc.Options{
			Ctx:               ctx,
			RefreshInterval:   time.Hour,
			RefreshUnknownKID: true,
			RefreshErrorHandler: func(err error) {
				log.Error().Err(err).Msg("jwks refresh error")
			},
		})
		if err != nil {
			return nil, fmt.Errorf("fetch supabase jwks: %w", err)
		}
		conn.jwks = jwks
	}

	return conn, nil
}

// Connect binds a client to accessToken; an empty token uses the anon role.
func (c *Connector) Connect(accessToken string) backend.Client {
	return &client{conn: c, token: accessToken}
}

type tokenResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	ExpiresIn    int64        `json:"expires_in"`
	ExpiresAt    int64        `json:"expires_at"`
	User         userResponse `json:"user"`
}

type userResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

func (t tokenResponse) session() *backend.Session {
	expires := time.Now().Add(time.Duration(t.ExpiresIn) * time.Second)
	if t.ExpiresAt > 0 {
		expires = time.Unix(t.ExpiresAt, 0)
	}
	return &backend.Session{
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
		ExpiresAt:    expires.UTC(),
		User:         backend.User{ID: t.User.ID, Email: t.User.Email},
	}
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignInWithPassword exchanges credentials for a session.
func (c *Connector) SignInWithPassword(ctx context.Context, email, password string) (*backend.Session, error) {
	var out tokenResponse
	resp, err := c.request(ctx, "").
		SetQueryParam("grant_type", "password").
		SetBody(credentials{Email: email, Password: password}).
		SetResult(&out).
		Post("/auth/v1/token")
	if err != nil {
		return nil, transportError(ctx, err, "sign in")
	}
	if resp.IsError() {
		return nil, c.remoteError(ctx, resp, "sign in")
	}
	return out.session(), nil
}

// SignUp registers a user. Projects that require email confirmation return a
// user without tokens, reported as a nil session.
func (c *Connector) SignUp(ctx context.Context, email, password string) (*backend.Session, error) {
	resp, err := c.request(ctx, "").
		SetBody(credentials{Email: email, Password: password}).
		Post("/auth/v1/signup")
	if err != nil {
		return nil, transportError(ctx, err, "sign up")
	}
	if resp.IsError() {
		return nil, c.remoteError(ctx, resp, "sign up")
	}

	var out tokenResponse
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeExternal, "decode sign up response", err, "9b3e1d7a-5c2f-4e8b-a6d0-1f7c3b9e2a01")
	}
	if out.AccessToken == "" {
		return nil, nil
	}
	return out.session(), nil
}

func (c *Connector) request(ctx context.Context, token string) *resty.Request {
	if token == "" {
		token = c.anonKey
	}
	return c.http.R().SetContext(ctx).SetAuthToken(token)
}

type remoteErrorBody struct {
	Message          string `json:"message"`
	Msg              string `json:"msg"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
	Code             any    `json:"code"`
}

func (c *Connector) remoteError(ctx context.Context, resp *resty.Response, op string) error {
	var body remoteErrorBody
	_ = json.Unmarshal(resp.Body(), &body)
	message := firstNonEmpty(body.Message, body.Msg, body.ErrorDescription, body.Error, http.StatusText(resp.StatusCode()))

	c.log.Warn().
		Str("operation", op).
		Int("status", resp.StatusCode()).
		Str("body", c.redactor.Text(string(resp.Body()))).
		Msg("supabase request failed")

	return platformerrors.NewErrorWithContext(ctx, platformerrors.LayerInfrastructure,
		platformerrors.ErrorTypeFromHTTPStatus(resp.StatusCode()),
		fmt.Sprintf("%s: %s", op, message), nil, "9b3e1d7a-5c2f-4e8b-a6d0-1f7c3b9e2a02",
		map[string]any{"status": resp.StatusCode()})
}

func transportError(ctx context.Context, err error, op string) error {
	return platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeExternal, op+": request failed", err, "9b3e1d7a-5c2f-4e8b-a6d0-1f7c3b9e2a03")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
