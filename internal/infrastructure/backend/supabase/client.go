package supabase

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/janhq/jan-crm/internal/domain/backend"
	"github.com/janhq/jan-crm/internal/utils/platformerrors"
)

type client struct {
	conn  *Connector
	token string
}

var _ backend.Client = (*client)(nil)

// GetSession reports the session behind the bound token. Tokens are verified
// against the JWKS when configured, otherwise by asking GoTrue for the user.
func (c *client) GetSession(ctx context.Context) (*backend.Session, error) {
	if c.token == "" {
		return nil, nil
	}
	if c.conn.jwks != nil {
		return c.verifiedSession(), nil
	}

	user, err := c.GetUser(ctx)
	if err != nil || user == nil {
		return nil, err
	}
	session := &backend.Session{AccessToken: c.token, User: *user}
	if claims, ok := unverifiedClaims(c.token); ok {
		if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
			session.ExpiresAt = exp.Time.UTC()
		}
	}
	return session, nil
}

func (c *client) verifiedSession() *backend.Session {
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(c.token, claims, c.conn.jwks.Keyfunc,
		jwt.WithValidMethods([]string{"RS256", "ES256"}),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		c.conn.log.Debug().Err(err).Msg("access token rejected")
		return nil
	}
	sub, _ := claims.GetSubject()
	if sub == "" {
		return nil
	}
	email, _ := claims["email"].(string)
	session := &backend.Session{AccessToken: c.token, User: backend.User{ID: sub, Email: email}}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		session.ExpiresAt = exp.Time.UTC()
	}
	return session
}

func unverifiedClaims(token string) (jwt.MapClaims, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, false
	}
	return claims, true
}

func (c *client) GetUser(ctx context.Context) (*backend.User, error) {
	if c.token == "" {
		return nil, nil
	}
	var out userResponse
	resp, err := c.conn.request(ctx, c.token).SetResult(&out).Get("/auth/v1/user")
	if err != nil {
		return nil, transportError(ctx, err, "get user")
	}
	switch {
	case resp.StatusCode() == http.StatusUnauthorized, resp.StatusCode() == http.StatusForbidden:
		return nil, nil
	case resp.IsError():
		return nil, c.conn.remoteError(ctx, resp, "get user")
	}
	return &backend.User{ID: out.ID, Email: out.Email}, nil
}

// SignOut revokes the session. A token the platform no longer knows counts as
// already signed out.
func (c *client) SignOut(ctx context.Context) error {
	if c.token == "" {
		return nil
	}
	resp, err := c.conn.request(ctx, c.token).Post("/auth/v1/logout")
	if err != nil {
		return transportError(ctx, err, "sign out")
	}
	switch resp.StatusCode() {
	case http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound:
		return nil
	}
	if resp.IsError() {
		return c.conn.remoteError(ctx, resp, "sign out")
	}
	return nil
}

func (c *client) rest(ctx context.Context, filters []backend.Filter) *resty.Request {
	req := c.conn.request(ctx, c.token)
	for _, f := range filters {
		req.SetQueryParam(f.Column, "eq."+f.Value)
	}
	return req
}

func tablePath(table backend.Table) string {
	return "/rest/v1/" + string(table)
}

func (c *client) Select(ctx context.Context, table backend.Table, q backend.Query) (json.RawMessage, error) {
	req := c.rest(ctx, q.Filters).SetQueryParam("select", q.SelectExpression())
	if q.Order != nil {
		dir := "desc"
		if q.Order.Ascending {
			dir = "asc"
		}
		req.SetQueryParam("order", q.Order.Column+"."+dir)
	}
	resp, err := req.Get(tablePath(table))
	if err != nil {
		return nil, transportError(ctx, err, "select "+string(table))
	}
	if resp.IsError() {
		return nil, c.conn.remoteError(ctx, resp, "select "+string(table))
	}
	return json.RawMessage(resp.Body()), nil
}

func (c *client) Insert(ctx context.Context, table backend.Table, row any) error {
	c.logBody("insert", table, row)
	resp, err := c.rest(ctx, nil).
		SetHeader("Prefer", "return=minimal").
		SetBody(row).
		Post(tablePath(table))
	if err != nil {
		return transportError(ctx, err, "insert "+string(table))
	}
	if resp.IsError() {
		return c.conn.remoteError(ctx, resp, "insert "+string(table))
	}
	return nil
}

func (c *client) Update(ctx context.Context, table backend.Table, patch any, id string) error {
	c.logBody("update", table, patch)
	resp, err := c.rest(ctx, []backend.Filter{backend.Eq("id", id)}).
		SetHeader("Prefer", "return=minimal").
		SetBody(patch).
		Patch(tablePath(table))
	if err != nil {
		return transportError(ctx, err, "update "+string(table))
	}
	if resp.IsError() {
		return c.conn.remoteError(ctx, resp, "update "+string(table))
	}
	return nil
}

func (c *client) Delete(ctx context.Context, table backend.Table, id string) error {
	resp, err := c.rest(ctx, []backend.Filter{backend.Eq("id", id)}).Delete(tablePath(table))
	if err != nil {
		return transportError(ctx, err, "delete "+string(table))
	}
	if resp.IsError() {
		return c.conn.remoteError(ctx, resp, "delete "+string(table))
	}
	return nil
}

// Count asks PostgREST for an exact count and reads it from Content-Range.
func (c *client) Count(ctx context.Context, table backend.Table, filters ...backend.Filter) (int64, error) {
	resp, err := c.rest(ctx, filters).
		SetQueryParam("select", "id").
		SetHeader("Prefer", "count=exact").
		Head(tablePath(table))
	if err != nil {
		return 0, transportError(ctx, err, "count "+string(table))
	}
	if resp.IsError() {
		return 0, c.conn.remoteError(ctx, resp, "count "+string(table))
	}
	n, ok := parseContentRange(resp.Header().Get("Content-Range"))
	if !ok {
		return 0, platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeExternal, "count "+string(table)+": missing content range", nil, "9b3e1d7a-5c2f-4e8b-a6d0-1f7c3b9e2a04")
	}
	return n, nil
}

// parseContentRange extracts the total from "0-9/42" or "*/0".
func parseContentRange(header string) (int64, bool) {
	_, total, found := strings.Cut(header, "/")
	if !found || total == "*" {
		return 0, false
	}
	n, err := strconv.ParseInt(strings.TrimSpace(total), 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func (c *client) logBody(op string, table backend.Table, body any) {
	if e := c.conn.log.Debug(); e.Enabled() {
		data, _ := json.Marshal(body)
		e.Str("operation", op).
			Str("table", string(table)).
			Str("body", c.conn.redactor.Text(string(data))).
			Msg("supabase write")
	}
}
