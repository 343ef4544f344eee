package session

import (
	"database/sql"
	"time"
)

type MySQLSessionRepo struct {
	DB *sql.DB
}

func NewMySQLSessionRepo(db *sql.DB) *MySQLSessionRepo {
	return &MySQLSessionRepo{DB: db}
}

func (r *MySQLSessionRepo) Create(s *Session) error {
	if err := s.Validate(); err != nil {
		return err
	}

	var tenantID sql.NullString
	if s.User.TenantID != nil {
		tenantID = sql.NullString{String: *s.User.TenantID, Valid: true}
	}

	_, err := r.DB.Exec(`
		INSERT INTO sessions (id, user_id, tenant_id, created_at, expires_at)
		VALUES (?, ?, ?, ?, ?)
	`, s.ID, s.User.ID, tenantID, s.CreatedAt.Unix(), s.ExpiresAt.Unix())

	return err
}

func (r *MySQLSessionRepo) IsValid(sessionID string) (bool, error) {
	var exists bool
	err := r.DB.QueryRow(`
		SELECT EXISTS (
			SELECT 1 FROM sessions
			WHERE id = ? AND expires_at > ?
		)
	`, sessionID, time.Now().Unix()).Scan(&exists)
	return exists, err
}

func (r *MySQLSessionRepo) Invalidate(sessionID string) error {
	_, err := r.DB.Exec(`
		DELETE FROM sessions WHERE id = ?
	`, sessionID)
	return err
}

func (r *MySQLSessionRepo) InvalidateUser(userID string) error {
	_, err := r.DB.Exec(`
		DELETE FROM sessions WHERE user_id = ?
	`, userID)
	return err
}
