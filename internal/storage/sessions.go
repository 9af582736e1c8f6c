package storage

import (
	"database/sql"
	"errors"
	"time"
)

func (s *Store) CreateSession(sess Session) error {
	_, err := s.db.Exec(`
		INSERT INTO sessions (token, user_id, email, name, role, created_at, expires_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		sess.Token, sess.UserID, sess.Email, sess.Name, sess.Role,
		formatTime(sess.CreatedAt), formatTime(sess.ExpiresAt),
	)
	return err
}

// GetSession returns the session for token regardless of expiry; callers
// decide whether an expired session is still usable.
func (s *Store) GetSession(token string) (Session, error) {
	var sess Session
	var createdAt, expiresAt string
	err := s.db.QueryRow(`
		SELECT token, user_id, email, name, role, created_at, expires_at
		FROM sessions WHERE token = ?`, token,
	).Scan(&sess.Token, &sess.UserID, &sess.Email, &sess.Name, &sess.Role, &createdAt, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Session{}, ErrNotFound
	}
	if err != nil {
		return Session{}, err
	}
	if sess.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
		return Session{}, err
	}
	if sess.ExpiresAt, err = parseTime("expires_at", expiresAt); err != nil {
		return Session{}, err
	}
	return sess, nil
}

func (s *Store) DeleteSession(token string) error {
	res, err := s.db.Exec(`DELETE FROM sessions WHERE token = ?`, token)
	if err != nil {
		return err
	}
	return affectedOne(res)
}

// DeleteExpiredSessions removes sessions that expired at or before now and
// reports how many were removed.
func (s *Store) DeleteExpiredSessions(now time.Time) (int64, error) {
	res, err := s.db.Exec(`DELETE FROM sessions WHERE expires_at <= ?`, formatTime(now))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
