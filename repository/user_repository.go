package repository

import (
	"database/sql"
	"sn-inventory-api/model"
)

// IUserRepository defines the contract for user lookups.
type IUserRepository interface {
	GetUserByUsername(username string) (*model.User, error)
	GetAllUsers() ([]*model.User, error)
}

type UserRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{DB: db}
}

// GetUserByUsername returns the user record or sql.ErrNoRows if absent.
func (r *UserRepository) GetUserByUsername(username string) (*model.User, error) {
	user := &model.User{}
	query := `SELECT id, username, password_hash, role, status, created_at FROM users WHERE username = $1`
	err := r.DB.QueryRow(query, username).Scan(&user.ID, &user.Username, &user.PasswordHash, &user.Role, &user.Status, &user.CreatedAt)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// GetAllUsers lists every account. Admin-only surface.
func (r *UserRepository) GetAllUsers() ([]*model.User, error) {
	query := `SELECT id, username, password_hash, role, status, created_at FROM users ORDER BY id`
	rows, err := r.DB.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*model.User
	for rows.Next() {
		user := &model.User{}
		if err := rows.Scan(&user.ID, &user.Username, &user.PasswordHash, &user.Role, &user.Status, &user.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}
