// Package auth issues and resolves session tokens for staff accounts.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"bonuspoint/entity"
	"bonuspoint/lib/sl"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrSessionExpired     = errors.New("session expired")
)

// Database is the persistence slice the auth service needs.
// Implemented by internal/database.MySql.
type Database interface {
	MentorByUsername(ctx context.Context, username string) (*entity.Mentor, error)
	MentorByID(ctx context.Context, id int64) (*entity.Mentor, error)
	CreateSession(ctx context.Context, session *entity.Session) error
	SessionByToken(ctx context.Context, token string) (*entity.Session, error)
	DeleteSession(ctx context.Context, token string) error
}

type Auth struct {
	db  Database
	ttl time.Duration
	log *slog.Logger
}

func New(db Database, ttl time.Duration, log *slog.Logger) *Auth {
	if db == nil {
		panic("database is nil")
	}
	return &Auth{
		db:  db,
		ttl: ttl,
		log: log.With(sl.Module("auth")),
	}
}

// Login verifies credentials and opens a session. Unknown usernames and
// wrong passwords come back as the same error so the login page never
// leaks which accounts exist.
func (a *Auth) Login(ctx context.Context, form *entity.LoginForm) (*entity.Session, *entity.Mentor, error) {
	mentor, err := a.db.MentorByUsername(ctx, form.Username)
	if err != nil {
		return nil, nil, err
	}
	if mentor == nil || !mentor.CheckPassword(form.Password) {
		return nil, nil, fmt.Errorf("неверное имя пользователя или пароль: %w", ErrInvalidCredentials)
	}

	now := time.Now().UTC()
	session := &entity.Session{
		Token:     uuid.NewString(),
		MentorID:  mentor.Id,
		CreatedAt: now,
		ExpiresAt: now.Add(a.ttl),
	}
	if err = a.db.CreateSession(ctx, session); err != nil {
		return nil, nil, err
	}
	a.log.Info("session opened", sl.Mentor(mentor.Username))
	return session, mentor, nil
}

// AuthenticateByToken resolves a session cookie to the mentor it
// belongs to. Expired sessions are deleted on sight.
func (a *Auth) AuthenticateByToken(ctx context.Context, token string) (*entity.Mentor, error) {
	session, err := a.db.SessionByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrInvalidCredentials
	}
	if session.Expired(time.Now().UTC()) {
		if err = a.db.DeleteSession(ctx, session.Token); err != nil {
			a.log.Debug("delete expired session", sl.Err(err))
		}
		return nil, ErrSessionExpired
	}
	mentor, err := a.db.MentorByID(ctx, session.MentorID)
	if err != nil {
		return nil, err
	}
	if mentor == nil {
		return nil, ErrInvalidCredentials
	}
	return mentor, nil
}

func (a *Auth) Logout(ctx context.Context, token string) error {
	return a.db.DeleteSession(ctx, token)
}
