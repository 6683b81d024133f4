package pgstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/utils/tests"

	"github.com/janhq/jan-crm/internal/domain/backend"
	"github.com/janhq/jan-crm/internal/infrastructure/database/dbschema"
	"github.com/janhq/jan-crm/internal/utils/platformerrors"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestTokenRoundTrip(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	s := New(nil, testSecret, time.Hour)
	s.now = func() time.Time { return now }

	user := dbschema.User{ID: "u1", Email: "ada@example.com"}
	session := dbschema.Session{ID: "s1", UserID: "u1", ExpiresAt: now.Add(time.Hour)}
	token, err := s.sign(user, session, now)
	require.NoError(t, err)

	claims, ok := s.parse(token)
	require.True(t, ok)
	assert.Equal(t, "u1", claims.Subject)
	assert.Equal(t, "s1", claims.ID)
	assert.Equal(t, "ada@example.com", claims.Email)

	other := New(nil, "another-secret-another-secret-xx", time.Hour)
	other.now = s.now
	_, ok = other.parse(token)
	assert.False(t, ok, "signature from another secret")

	now = now.Add(2 * time.Hour)
	_, ok = s.parse(token)
	assert.False(t, ok, "expired token")

	_, ok = s.parse("")
	assert.False(t, ok)
}

func TestPatchColumns(t *testing.T) {
	changes, err := patchColumns(map[string]any{
		"id":      "x",
		"user_id": "someone",
		"name":    "Ada",
		"tags":    []string{"vip"},
		"notes":   nil,
	})
	require.NoError(t, err)

	assert.NotContains(t, changes, "id")
	assert.NotContains(t, changes, "user_id")
	assert.Equal(t, "Ada", changes["name"])
	assert.Equal(t, datatypes.JSON(`["vip"]`), changes["tags"])
	assert.Contains(t, changes, "notes")
	assert.Nil(t, changes["notes"])
}

func TestDBErrorClassification(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		err  error
		want platformerrors.ErrorType
	}{
		{gorm.ErrRecordNotFound, platformerrors.ErrorTypeNotFound},
		{gorm.ErrDuplicatedKey, platformerrors.ErrorTypeConflict},
		{gorm.ErrForeignKeyViolated, platformerrors.ErrorTypeValidation},
		{errors.New("connection reset"), platformerrors.ErrorTypeDatabaseError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			err := dbError(ctx, tt.err, "op")
			assert.True(t, platformerrors.IsErrorType(err, tt.want))
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestEveryTableHasSchema(t *testing.T) {
	for _, table := range backend.Tables {
		_, err := lookupTable(context.Background(), table)
		assert.NoError(t, err, table)
	}
	_, err := lookupTable(context.Background(), backend.Table("users"))
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation))
}

func TestAnonymousClientSkipsDatabase(t *testing.T) {
	ctx := context.Background()
	c := New(nil, testSecret, time.Hour).Connect("not-a-jwt")

	session, err := c.GetSession(ctx)
	require.NoError(t, err)
	assert.Nil(t, session)

	raw, err := c.Select(ctx, backend.TableContacts, backend.Query{})
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(raw))

	n, err := c.Count(ctx, backend.TableContacts)
	require.NoError(t, err)
	assert.Zero(t, n)

	err = c.Insert(ctx, backend.TableContacts, map[string]any{"name": "x"})
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeUnauthorized))

	assert.NoError(t, c.SignOut(ctx))
}

func TestSessionAndListReadsPinPrimary(t *testing.T) {
	db, err := gorm.Open(tests.DummyDialector{}, &gorm.Config{DryRun: true})
	require.NoError(t, err)
	s := New(db, testSecret, time.Hour)
	ctx := context.Background()

	_, pinned := s.primary(ctx).Statement.Settings.Load("gorm:db_resolver:write")
	assert.True(t, pinned)

	_, pinned = s.db.WithContext(ctx).Statement.Settings.Load("gorm:db_resolver:write")
	assert.False(t, pinned, "counts may use a replica")
}
