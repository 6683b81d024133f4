package pgstore

import (
	"context"
	"encoding/json"
	"errors"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/janhq/jan-crm/internal/domain/backend"
	"github.com/janhq/jan-crm/internal/infrastructure/database/dbschema"
	"github.com/janhq/jan-crm/internal/utils/platformerrors"
)

type tableSpec struct {
	newRow  func() any
	newRows func() any
	// relations maps an embed alias to its gorm association.
	relations map[string]string
}

var tables = map[backend.Table]tableSpec{
	backend.TableContacts: {
		newRow:  func() any { return &dbschema.Contact{} },
		newRows: func() any { return &[]dbschema.Contact{} },
	},
	backend.TableConversations: {
		newRow:    func() any { return &dbschema.Conversation{} },
		newRows:   func() any { return &[]dbschema.Conversation{} },
		relations: map[string]string{"contact": "Contact"},
	},
	backend.TableMessages: {
		newRow:  func() any { return &dbschema.Message{} },
		newRows: func() any { return &[]dbschema.Message{} },
	},
	backend.TableReminders: {
		newRow:    func() any { return &dbschema.Reminder{} },
		newRows:   func() any { return &[]dbschema.Reminder{} },
		relations: map[string]string{"contact": "Contact"},
	},
	backend.TableTemplates: {
		newRow:  func() any { return &dbschema.Template{} },
		newRows: func() any { return &[]dbschema.Template{} },
	},
}

type client struct {
	store *Store
	token string
}

var _ backend.Client = (*client)(nil)

// GetSession checks the token signature and that its session row is neither
// expired nor revoked.
func (c *client) GetSession(ctx context.Context) (*backend.Session, error) {
	claims, ok := c.store.parse(c.token)
	if !ok {
		return nil, nil
	}
	var row dbschema.Session
	err := c.store.primary(ctx).
		Where("id = ? AND user_id = ? AND revoked_at IS NULL AND expires_at > ?", claims.ID, claims.Subject, c.store.now().UTC()).
		First(&row).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, nil
	case err != nil:
		return nil, dbError(ctx, err, "find session")
	}
	return &backend.Session{
		AccessToken: c.token,
		ExpiresAt:   row.ExpiresAt.UTC(),
		User:        backend.User{ID: claims.Subject, Email: claims.Email},
	}, nil
}

func (c *client) GetUser(ctx context.Context) (*backend.User, error) {
	session, err := c.GetSession(ctx)
	if err != nil || session == nil {
		return nil, err
	}
	user := session.User
	return &user, nil
}

// SignOut revokes the session row behind the token.
func (c *client) SignOut(ctx context.Context) error {
	claims, ok := c.store.parse(c.token)
	if !ok {
		return nil
	}
	err := c.store.db.WithContext(ctx).
		Model(&dbschema.Session{}).
		Where("id = ? AND revoked_at IS NULL", claims.ID).
		Update("revoked_at", c.store.now().UTC()).Error
	if err != nil {
		return dbError(ctx, err, "revoke session")
	}
	return nil
}

func (c *client) userID(ctx context.Context) (string, error) {
	session, err := c.GetSession(ctx)
	if err != nil || session == nil {
		return "", err
	}
	return session.User.ID, nil
}

func lookupTable(ctx context.Context, table backend.Table) (tableSpec, error) {
	s, ok := tables[table]
	if !ok {
		return tableSpec{}, platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeValidation, "unknown table "+string(table), nil, "d7e1a4c3-2b9f-4e6d-8a05-3c1f9b2e7d01")
	}
	return s, nil
}

func scoped(tx *gorm.DB, userID string, filters []backend.Filter) *gorm.DB {
	tx = tx.Where(clause.Eq{Column: clause.Column{Name: "user_id"}, Value: userID})
	for _, f := range filters {
		tx = tx.Where(clause.Eq{Column: clause.Column{Name: f.Column}, Value: f.Value})
	}
	return tx
}

func (c *client) Select(ctx context.Context, table backend.Table, q backend.Query) (json.RawMessage, error) {
	ts, err := lookupTable(ctx, table)
	if err != nil {
		return nil, err
	}
	uid, err := c.userID(ctx)
	if err != nil {
		return nil, err
	}
	if uid == "" {
		return json.RawMessage("[]"), nil
	}

	tx := scoped(c.store.primary(ctx), uid, q.Filters)
	if len(q.Columns) > 0 {
		columns := q.Columns
		if q.Embed != nil {
			columns = append(append([]string{}, columns...), q.Embed.ForeignKey)
		}
		tx = tx.Select(columns)
	}
	if q.Order != nil {
		tx = tx.Order(clause.OrderByColumn{Column: clause.Column{Name: q.Order.Column}, Desc: !q.Order.Ascending})
	}
	if q.Embed != nil {
		association, ok := ts.relations[q.Embed.Alias]
		if !ok {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeValidation, "unknown relation "+q.Embed.Alias, nil, "d7e1a4c3-2b9f-4e6d-8a05-3c1f9b2e7d02")
		}
		embedColumns := q.Embed.Columns
		tx = tx.Preload(association, func(db *gorm.DB) *gorm.DB {
			db = db.Where(clause.Eq{Column: clause.Column{Name: "user_id"}, Value: uid})
			if len(embedColumns) > 0 {
				db = db.Select(append([]string{"id"}, embedColumns...))
			}
			return db
		})
	}

	rows := ts.newRows()
	if err := tx.Find(rows).Error; err != nil {
		return nil, dbError(ctx, err, "select "+string(table))
	}
	data, err := json.Marshal(rows)
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeInternal, "encode rows", err, "d7e1a4c3-2b9f-4e6d-8a05-3c1f9b2e7d03")
	}
	return data, nil
}

type owner struct {
	UserID string `json:"user_id"`
}

func (c *client) Insert(ctx context.Context, table backend.Table, value any) error {
	ts, err := lookupTable(ctx, table)
	if err != nil {
		return err
	}
	uid, err := c.userID(ctx)
	if err != nil {
		return err
	}
	if uid == "" {
		return platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeUnauthorized, "not signed in", nil, "d7e1a4c3-2b9f-4e6d-8a05-3c1f9b2e7d04")
	}

	data, err := json.Marshal(value)
	if err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeValidation, "encode row", err, "d7e1a4c3-2b9f-4e6d-8a05-3c1f9b2e7d05")
	}
	var o owner
	row := ts.newRow()
	if err := json.Unmarshal(data, &o); err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeValidation, "decode row", err, "d7e1a4c3-2b9f-4e6d-8a05-3c1f9b2e7d06")
	}
	if err := json.Unmarshal(data, row); err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeValidation, "decode row", err, "d7e1a4c3-2b9f-4e6d-8a05-3c1f9b2e7d06")
	}
	if o.UserID != uid {
		return platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeForbidden, "new row violates row-level security policy", nil, "d7e1a4c3-2b9f-4e6d-8a05-3c1f9b2e7d07")
	}

	if err := c.store.db.WithContext(ctx).Omit(clause.Associations).Create(row).Error; err != nil {
		return dbError(ctx, err, "insert "+string(table))
	}
	return nil
}

func (c *client) Update(ctx context.Context, table backend.Table, patch any, id string) error {
	ts, err := lookupTable(ctx, table)
	if err != nil {
		return err
	}
	changes, err := patchColumns(patch)
	if err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeValidation, "encode patch", err, "d7e1a4c3-2b9f-4e6d-8a05-3c1f9b2e7d08")
	}
	uid, err := c.userID(ctx)
	if err != nil || uid == "" || len(changes) == 0 {
		return err
	}

	err = scoped(c.store.db.WithContext(ctx).Model(ts.newRow()), uid, []backend.Filter{backend.Eq("id", id)}).
		Updates(changes).Error
	if err != nil {
		return dbError(ctx, err, "update "+string(table))
	}
	return nil
}

func (c *client) Delete(ctx context.Context, table backend.Table, id string) error {
	ts, err := lookupTable(ctx, table)
	if err != nil {
		return err
	}
	uid, err := c.userID(ctx)
	if err != nil || uid == "" {
		return err
	}
	err = scoped(c.store.db.WithContext(ctx), uid, []backend.Filter{backend.Eq("id", id)}).
		Delete(ts.newRow()).Error
	if err != nil {
		return dbError(ctx, err, "delete "+string(table))
	}
	return nil
}

func (c *client) Count(ctx context.Context, table backend.Table, filters ...backend.Filter) (int64, error) {
	ts, err := lookupTable(ctx, table)
	if err != nil {
		return 0, err
	}
	uid, err := c.userID(ctx)
	if err != nil || uid == "" {
		return 0, err
	}
	var n int64
	if err := scoped(c.store.db.WithContext(ctx).Model(ts.newRow()), uid, filters).Count(&n).Error; err != nil {
		return 0, dbError(ctx, err, "count "+string(table))
	}
	return n, nil
}

// patchColumns turns a patch value into column updates. Ownership columns are
// never writable, and nested JSON values are stored as jsonb.
func patchColumns(patch any) (map[string]any, error) {
	data, err := json.Marshal(patch)
	if err != nil {
		return nil, err
	}
	var changes map[string]any
	if err := json.Unmarshal(data, &changes); err != nil {
		return nil, err
	}
	delete(changes, "id")
	delete(changes, "user_id")
	for k, v := range changes {
		switch v.(type) {
		case []any, map[string]any:
			encoded, err := json.Marshal(v)
			if err != nil {
				return nil, err
			}
			changes[k] = datatypes.JSON(encoded)
		}
	}
	return changes, nil
}
