// Package pgstore is the self-hosted backend: accounts, sessions and CRM tables
// live in the crm schema of a PostgreSQL database reached through gorm.
package pgstore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/plugin/dbresolver"

	"github.com/janhq/jan-crm/internal/domain/backend"
	"github.com/janhq/jan-crm/internal/infrastructure/database/dbschema"
	"github.com/janhq/jan-crm/internal/utils/platformerrors"
)

// Store implements backend.Connector on top of gorm.
type Store struct {
	db         *gorm.DB
	secret     []byte
	sessionTTL time.Duration
	now        func() time.Time
}

var _ backend.Connector = (*Store)(nil)

// New creates a store. secret signs access tokens with HS256.
func New(db *gorm.DB, secret string, sessionTTL time.Duration) *Store {
	if sessionTTL <= 0 {
		sessionTTL = 7 * 24 * time.Hour
	}
	return &Store{db: db, secret: []byte(secret), sessionTTL: sessionTTL, now: time.Now}
}

// primary pins reads to the writer, so sessions and list refreshes see rows
// written moments earlier. Only counts may be served by a read replica.
func (s *Store) primary(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).Clauses(dbresolver.Write)
}

// Connect binds a client to accessToken.
func (s *Store) Connect(accessToken string) backend.Client {
	return &client{store: s, token: accessToken}
}

type tokenClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// SignUp creates an account and signs it in.
func (s *Store) SignUp(ctx context.Context, email, password string) (*backend.Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeValidation, "email and password are required", nil, "c4d2e8f1-6a3b-4f70-9e15-2b8d7c0a4e01")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeInternal, "hash password", err, "c4d2e8f1-6a3b-4f70-9e15-2b8d7c0a4e02")
	}
	user := dbschema.User{Email: email, PasswordHash: string(hash)}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeConflict, "user already registered", err, "c4d2e8f1-6a3b-4f70-9e15-2b8d7c0a4e03")
		}
		return nil, dbError(ctx, err, "create user")
	}
	return s.openSession(ctx, user)
}

// SignInWithPassword verifies credentials and opens a session.
func (s *Store) SignInWithPassword(ctx context.Context, email, password string) (*backend.Session, error) {
	var user dbschema.User
	err := s.primary(ctx).Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&user).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, dbError(ctx, err, "find user")
	}
	if err != nil || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeUnauthorized, "invalid login credentials", nil, "c4d2e8f1-6a3b-4f70-9e15-2b8d7c0a4e04")
	}
	return s.openSession(ctx, user)
}

func (s *Store) openSession(ctx context.Context, user dbschema.User) (*backend.Session, error) {
	now := s.now().UTC()
	row := dbschema.Session{UserID: user.ID, ExpiresAt: now.Add(s.sessionTTL)}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, dbError(ctx, err, "create session")
	}
	token, err := s.sign(user, row, now)
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeInternal, "sign access token", err, "c4d2e8f1-6a3b-4f70-9e15-2b8d7c0a4e05")
	}
	return &backend.Session{
		AccessToken: token,
		ExpiresAt:   row.ExpiresAt,
		User:        backend.User{ID: user.ID, Email: user.Email},
	}, nil
}

func (s *Store) sign(user dbschema.User, session dbschema.Session, issuedAt time.Time) (string, error) {
	claims := tokenClaims{
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			ID:        session.ID,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// parse validates the signature and expiry of token.
func (s *Store) parse(token string) (*tokenClaims, bool) {
	if token == "" {
		return nil, false
	}
	claims := &tokenClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid || claims.Subject == "" || claims.ID == "" {
		return nil, false
	}
	return claims, true
}

func dbError(ctx context.Context, err error, message string) error {
	errorType := platformerrors.ErrorTypeDatabaseError
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		errorType = platformerrors.ErrorTypeNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		errorType = platformerrors.ErrorTypeConflict
	case errors.Is(err, gorm.ErrForeignKeyViolated), errors.Is(err, gorm.ErrCheckConstraintViolated):
		errorType = platformerrors.ErrorTypeValidation
	}
	return platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, errorType, message, err, "c4d2e8f1-6a3b-4f70-9e15-2b8d7c0a4e06")
}
