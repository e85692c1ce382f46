package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"market-analyzer/src/helpers"
	"market-analyzer/src/logger"
	"market-analyzer/src/models"

	"github.com/lib/pq"
)

// userTable holds the SQL shared by the SQLite and Postgres user stores.
// Queries use $n placeholders, which both drivers accept.
type userTable struct {
	DB     *sql.DB
	Table  string
	Logger *logger.Logger
}

const userColumns = "id, username, email, password_hash, created_at"

// -----------------------------------------------------------------------------

// CreateUser inserts user inside a transaction and fills in ID and CreatedAt.
func (t *userTable) CreateUser(ctx context.Context, user *models.MUser) error {
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	tx, err := t.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(
		`INSERT INTO %s (username, email, password_hash, created_at) VALUES ($1, $2, $3, $4) RETURNING id`, t.Table))
	if err != nil {
		return err
	}
	defer stmt.Close()

	var id int64
	err = stmt.QueryRowContext(ctx, user.Username, strings.ToLower(user.Email), user.PasswordHash, user.CreatedAt.Unix()).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return helpers.NewError(helpers.ErrDuplicateUser, "Username or email already exists", err)
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	user.ID = id
	user.Email = strings.ToLower(user.Email)
	user.CreatedAt = time.Unix(user.CreatedAt.Unix(), 0).UTC()
	t.Logger.Info("Created user %s (id %d)", user.Username, id)
	return nil
}

// -----------------------------------------------------------------------------

func (t *userTable) FindByUsername(ctx context.Context, username string) (*models.MUser, error) {
	return t.findOne(ctx, "username = $1", username)
}

// -----------------------------------------------------------------------------

func (t *userTable) FindByID(ctx context.Context, id int64) (*models.MUser, error) {
	return t.findOne(ctx, "id = $1", id)
}

// -----------------------------------------------------------------------------

func (t *userTable) findOne(ctx context.Context, where string, arg interface{}) (*models.MUser, error) {
	row := t.DB.QueryRowContext(ctx, fmt.Sprintf(`SELECT %s FROM %s WHERE %s`, userColumns, t.Table, where), arg)

	var u models.MUser
	var created int64
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	u.CreatedAt = time.Unix(created, 0).UTC()
	return &u, nil
}

// -----------------------------------------------------------------------------

// isUniqueViolation recognises duplicate-key errors from both drivers.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
