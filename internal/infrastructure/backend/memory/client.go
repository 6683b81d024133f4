package memory

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/google/uuid"

	"github.com/janhq/jan-crm/internal/domain/backend"
	"github.com/janhq/jan-crm/internal/utils/platformerrors"
)

type client struct {
	store *Store
	token string
}

var _ backend.Client = (*client)(nil)

func (c *client) GetSession(ctx context.Context) (*backend.Session, error) {
	if err := c.store.intercept(ctx, OpGetSession, ""); err != nil {
		return nil, err
	}
	return c.store.session(c.token), nil
}

func (c *client) GetUser(ctx context.Context) (*backend.User, error) {
	if err := c.store.intercept(ctx, OpGetUser, ""); err != nil {
		return nil, err
	}
	session := c.store.session(c.token)
	if session == nil {
		return nil, nil
	}
	user := session.User
	return &user, nil
}

func (c *client) SignOut(ctx context.Context) error {
	if err := c.store.intercept(ctx, OpSignOut, ""); err != nil {
		return err
	}
	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	delete(c.store.sessions, c.token)
	return nil
}

func (c *client) userID() string {
	if session := c.store.session(c.token); session != nil {
		return session.User.ID
	}
	return ""
}

func (c *client) Select(ctx context.Context, table backend.Table, q backend.Query) (json.RawMessage, error) {
	if err := c.store.intercept(ctx, OpSelect, table); err != nil {
		return nil, err
	}
	uid := c.userID()

	c.store.mu.RLock()
	var rows []row
	for _, r := range c.store.tables[table] {
		if uid != "" && matches(r, uid, q.Filters) {
			rows = append(rows, cloneRow(r))
		}
	}
	if q.Embed != nil {
		related := make(map[string]row)
		for _, r := range c.store.tables[q.Embed.Table] {
			if id, ok := r["id"].(string); ok && r["user_id"] == uid {
				related[id] = r
			}
		}
		for _, r := range rows {
			var embedded any
			if fk, ok := r[q.Embed.ForeignKey].(string); ok {
				if target, found := related[fk]; found {
					embedded = project(target, q.Embed.Columns)
				}
			}
			r[q.Embed.Alias] = embedded
		}
	}
	c.store.mu.RUnlock()

	sortRows(rows, q.Order)

	out := make([]row, 0, len(rows))
	for _, r := range rows {
		if len(q.Columns) > 0 {
			projected := project(r, q.Columns)
			if q.Embed != nil {
				projected[q.Embed.Alias] = r[q.Embed.Alias]
			}
			r = projected
		}
		out = append(out, r)
	}

	data, err := json.Marshal(out)
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeInternal, "encode rows", err, "0b4f7e52-7d1c-4a3e-9c60-2e8f1a5b3d01")
	}
	return data, nil
}

func (c *client) Insert(ctx context.Context, table backend.Table, value any) error {
	if err := c.store.intercept(ctx, OpInsert, table); err != nil {
		return err
	}
	uid := c.userID()
	if uid == "" {
		return platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeUnauthorized, "not signed in", nil, "0b4f7e52-7d1c-4a3e-9c60-2e8f1a5b3d02")
	}
	r, err := toRow(value)
	if err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeValidation, "encode row", err, "0b4f7e52-7d1c-4a3e-9c60-2e8f1a5b3d03")
	}
	if owner, ok := r["user_id"]; !ok || owner != uid {
		return platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeForbidden, "new row violates row-level security policy", nil, "0b4f7e52-7d1c-4a3e-9c60-2e8f1a5b3d04")
	}
	for _, col := range requiredColumns[table] {
		if v, ok := r[col]; !ok || v == nil || (isString(v) && strings.TrimSpace(v.(string)) == "") {
			return platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeValidation, "null value in column "+col, nil, "0b4f7e52-7d1c-4a3e-9c60-2e8f1a5b3d05")
		}
	}

	now := c.store.now().UTC().Format("2006-01-02T15:04:05.000000Z07:00")
	if _, ok := r["id"]; !ok {
		r["id"] = uuid.NewString()
	}
	if _, ok := r["created_at"]; !ok {
		r["created_at"] = now
	}
	if table == backend.TableConversations {
		if _, ok := r["last_message_at"]; !ok {
			r["last_message_at"] = now
		}
		if _, ok := r["unread_count"]; !ok {
			r["unread_count"] = float64(0)
		}
	}

	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	c.store.tables[table] = append(c.store.tables[table], r)
	return nil
}

func (c *client) Update(ctx context.Context, table backend.Table, patch any, id string) error {
	if err := c.store.intercept(ctx, OpUpdate, table); err != nil {
		return err
	}
	changes, err := toRow(patch)
	if err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeValidation, "encode patch", err, "0b4f7e52-7d1c-4a3e-9c60-2e8f1a5b3d06")
	}
	delete(changes, "id")
	delete(changes, "user_id")
	uid := c.userID()

	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	for _, r := range c.store.tables[table] {
		if r["id"] == id && uid != "" && r["user_id"] == uid {
			for k, v := range changes {
				r[k] = v
			}
		}
	}
	return nil
}

func (c *client) Delete(ctx context.Context, table backend.Table, id string) error {
	if err := c.store.intercept(ctx, OpDelete, table); err != nil {
		return err
	}
	uid := c.userID()

	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	rows := c.store.tables[table]
	kept := rows[:0]
	for _, r := range rows {
		if r["id"] == id && uid != "" && r["user_id"] == uid {
			continue
		}
		kept = append(kept, r)
	}
	c.store.tables[table] = kept
	return nil
}

func (c *client) Count(ctx context.Context, table backend.Table, filters ...backend.Filter) (int64, error) {
	if err := c.store.intercept(ctx, OpCount, table); err != nil {
		return 0, err
	}
	uid := c.userID()
	if uid == "" {
		return 0, nil
	}

	c.store.mu.RLock()
	defer c.store.mu.RUnlock()
	var n int64
	for _, r := range c.store.tables[table] {
		if matches(r, uid, filters) {
			n++
		}
	}
	return n, nil
}

func isString(v any) bool {
	_, ok := v.(string)
	return ok
}
