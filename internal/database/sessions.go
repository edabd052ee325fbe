package database

import (
	"context"
	"database/sql"
	"errors"

	"bonuspoint/entity"
)

func (s *MySql) CreateSession(ctx context.Context, session *entity.Session) error {
	stmt, err := s.prepareStmt("insertSession",
		`INSERT INTO session (token, mentor_id, created_at, expires_at) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	_, err = stmt.ExecContext(ctx, session.Token, session.MentorID, session.CreatedAt, session.ExpiresAt)
	return err
}

func (s *MySql) SessionByToken(ctx context.Context, token string) (*entity.Session, error) {
	stmt, err := s.prepareStmt("selectSession",
		`SELECT token, mentor_id, created_at, expires_at FROM session WHERE token = ?`)
	if err != nil {
		return nil, err
	}
	var session entity.Session
	err = stmt.QueryRowContext(ctx, token).Scan(&session.Token, &session.MentorID,
		&session.CreatedAt, &session.ExpiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *MySql) DeleteSession(ctx context.Context, token string) error {
	stmt, err := s.prepareStmt("deleteSession", `DELETE FROM session WHERE token = ?`)
	if err != nil {
		return err
	}
	_, err = stmt.ExecContext(ctx, token)
	return err
}
