package interfaces

import (
	"context"

	"market-analyzer/src/models"
)

// -----------------------------------------------------------------------------
// IUserStore defines the contract for the user directory.
// -----------------------------------------------------------------------------

type IUserStore interface {

	// -----------------------------------------------------------------------------

	// Initialize sets up the database schema and tables.
	Initialize() error

	// -----------------------------------------------------------------------------

	// CreateUser inserts a user and fills in its ID and CreatedAt.
	// A taken username or email yields ErrDuplicateUser.
	CreateUser(ctx context.Context, user *models.MUser) error

	// -----------------------------------------------------------------------------

	// FindByUsername returns nil, nil when no user matches.
	FindByUsername(ctx context.Context, username string) (*models.MUser, error)

	// -----------------------------------------------------------------------------

	// FindByID returns nil, nil when no user matches.
	FindByID(ctx context.Context, id int64) (*models.MUser, error)

	// -----------------------------------------------------------------------------

	// Close the database connection
	Close() error
}
