// file: repository/user_repository_test.go

package repository

import (
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestUserRepository_GetUserByUsername(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewUserRepository(db)

	t.Run("found", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id", "username", "password_hash", "role", "status", "created_at"}).
			AddRow(1, "admin", "$2b$14$hash", "admin", "active", time.Now())

		mock.ExpectQuery(`SELECT id, username, password_hash, role, status, created_at FROM users WHERE username = \$1`).
			WithArgs("admin").
			WillReturnRows(rows)

		user, err := repo.GetUserByUsername("admin")
		assert.NoError(t, err)
		assert.Equal(t, 1, user.ID)
		assert.Equal(t, "admin", user.Username)
		assert.Equal(t, "admin", user.Role)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery(`SELECT id, username, password_hash, role, status, created_at FROM users WHERE username = \$1`).
			WithArgs("ghost").
			WillReturnError(sql.ErrNoRows)

		_, err := repo.GetUserByUsername("ghost")
		assert.ErrorIs(t, err, sql.ErrNoRows)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUserRepository_GetAllUsers(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewUserRepository(db)

	rows := sqlmock.NewRows([]string{"id", "username", "password_hash", "role", "status", "created_at"}).
		AddRow(1, "admin", "h1", "admin", "active", time.Now()).
		AddRow(2, "viewer", "h2", "user", "active", time.Now())

	mock.ExpectQuery(`SELECT id, username, password_hash, role, status, created_at FROM users ORDER BY id`).
		WillReturnRows(rows)

	users, err := repo.GetAllUsers()
	assert.NoError(t, err)
	assert.Len(t, users, 2)
	assert.Equal(t, "viewer", users[1].Username)
	assert.NoError(t, mock.ExpectationsWereMet())
}
