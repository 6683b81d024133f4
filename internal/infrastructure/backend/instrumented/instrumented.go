// Package instrumented decorates a backend with tracing, metrics and logs.
package instrumented

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/janhq/jan-crm/internal/domain/backend"
	"github.com/janhq/jan-crm/internal/infrastructure/metrics"
)

const tracerName = "github.com/janhq/jan-crm/backend"

// Connector wraps another connector.
type Connector struct {
	next   backend.Connector
	tracer trace.Tracer
	log    zerolog.Logger
}

var _ backend.Connector = (*Connector)(nil)

// Wrap instruments next.
func Wrap(next backend.Connector, log zerolog.Logger) *Connector {
	return &Connector{
		next:   next,
		tracer: otel.Tracer(tracerName),
		log:    log.With().Str("component", "backend").Logger(),
	}
}

func (c *Connector) Connect(accessToken string) backend.Client {
	return &client{conn: c, next: c.next.Connect(accessToken)}
}

func (c *Connector) SignInWithPassword(ctx context.Context, email, password string) (session *backend.Session, err error) {
	ctx, done := c.observe(ctx, "auth", "sign_in")
	defer func() { done(err) }()
	return c.next.SignInWithPassword(ctx, email, password)
}

func (c *Connector) SignUp(ctx context.Context, email, password string) (session *backend.Session, err error) {
	ctx, done := c.observe(ctx, "auth", "sign_up")
	defer func() { done(err) }()
	return c.next.SignUp(ctx, email, password)
}

// observe starts a span and returns the function that closes it.
func (c *Connector) observe(ctx context.Context, table, op string) (context.Context, func(error)) {
	start := time.Now()
	ctx, span := c.tracer.Start(ctx, "backend."+op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("crm.table", table),
			attribute.String("crm.operation", op),
		),
	)
	return ctx, func(err error) {
		elapsed := time.Since(start)
		metrics.RecordBackendCall(table, op, err, elapsed.Seconds())
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			c.log.Warn().Err(err).Str("table", table).Str("operation", op).Dur("latency", elapsed).Msg("backend call failed")
		} else {
			c.log.Debug().Str("table", table).Str("operation", op).Dur("latency", elapsed).Msg("backend call")
		}
		span.End()
	}
}

type client struct {
	conn *Connector
	next backend.Client
}

func (c *client) GetSession(ctx context.Context) (session *backend.Session, err error) {
	ctx, done := c.conn.observe(ctx, "auth", "get_session")
	defer func() { done(err) }()
	return c.next.GetSession(ctx)
}

func (c *client) GetUser(ctx context.Context) (user *backend.User, err error) {
	ctx, done := c.conn.observe(ctx, "auth", "get_user")
	defer func() { done(err) }()
	return c.next.GetUser(ctx)
}

func (c *client) SignOut(ctx context.Context) (err error) {
	ctx, done := c.conn.observe(ctx, "auth", "sign_out")
	defer func() { done(err) }()
	return c.next.SignOut(ctx)
}

func (c *client) Select(ctx context.Context, table backend.Table, q backend.Query) (raw json.RawMessage, err error) {
	ctx, done := c.conn.observe(ctx, string(table), "select")
	defer func() { done(err) }()
	return c.next.Select(ctx, table, q)
}

func (c *client) Insert(ctx context.Context, table backend.Table, row any) (err error) {
	ctx, done := c.conn.observe(ctx, string(table), "insert")
	defer func() { done(err) }()
	return c.next.Insert(ctx, table, row)
}

func (c *client) Update(ctx context.Context, table backend.Table, patch any, id string) (err error) {
	ctx, done := c.conn.observe(ctx, string(table), "update")
	defer func() { done(err) }()
	return c.next.Update(ctx, table, patch, id)
}

func (c *client) Delete(ctx context.Context, table backend.Table, id string) (err error) {
	ctx, done := c.conn.observe(ctx, string(table), "delete")
	defer func() { done(err) }()
	return c.next.Delete(ctx, table, id)
}

func (c *client) Count(ctx context.Context, table backend.Table, filters ...backend.Filter) (n int64, err error) {
	ctx, done := c.conn.observe(ctx, string(table), "count")
	defer func() { done(err) }()
	return c.next.Count(ctx, table, filters...)
}
