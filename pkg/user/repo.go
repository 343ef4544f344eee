package user

import (
	"database/sql"
	"errors"
)

const selectUser = "SELECT id, username, password, name, email, image, tenant_id FROM users"

type MySQLRepo struct {
	DB *sql.DB
}

func NewMySQLRepo(db *sql.DB) *MySQLRepo {
	return &MySQLRepo{DB: db}
}

func nullTenant(tenantID *string) sql.NullString {
	if tenantID == nil || *tenantID == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: *tenantID, Valid: true}
}

func (r *MySQLRepo) Create(user *User) error {
	_, err := r.DB.Exec(
		"INSERT INTO users (id, username, password, name, email, image, tenant_id) VALUES (?, ?, ?, ?, ?, ?, ?)",
		user.ID, user.Username, user.Password, user.Name, user.Email, user.Image, nullTenant(user.TenantID),
	)
	return err
}

func (r *MySQLRepo) FindByUsername(username string) (*User, error) {
	return r.findOne(selectUser+" WHERE username = ?", username)
}

func (r *MySQLRepo) FindByID(id string) (*User, error) {
	return r.findOne(selectUser+" WHERE id = ?", id)
}

func (r *MySQLRepo) findOne(query string, arg string) (*User, error) {
	var (
		u      User
		tenant sql.NullString
	)
	err := r.DB.QueryRow(query, arg).Scan(&u.ID, &u.Username, &u.Password, &u.Name, &u.Email, &u.Image, &tenant)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if tenant.Valid {
		u.TenantID = &tenant.String
	}
	return &u, nil
}

func (r *MySQLRepo) SetTenant(userID string, tenantID *string) error {
	res, err := r.DB.Exec("UPDATE users SET tenant_id = ? WHERE id = ?", nullTenant(tenantID), userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	// MySQL reports changed rows, not matched ones, so an unchanged tenant
	// also yields zero.
	var found int
	err = r.DB.QueryRow("SELECT 1 FROM users WHERE id = ?", userID).Scan(&found)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrUserNotFound
	}
	return err
}
