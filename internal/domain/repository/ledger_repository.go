package repository

import (
	"context"

	"github.com/abhishekverma0700/eduavaa/internal/domain/entity"
)

// LedgerRepository persists users and their unlock grants.
// Implementations must enforce uniqueness of users.id and of
// (unlocks.user_id, unlocks.note_path) in the store itself.
type LedgerRepository interface {
	// UpsertUser inserts the user or refreshes non-empty name/email of an existing one.
	UpsertUser(ctx context.Context, u *entity.User) error
	// UpsertGrant inserts the grant unless the (user, asset) pair exists.
	// created reports whether a new row was written; an existing grant is left untouched.
	UpsertGrant(ctx context.Context, g *entity.Grant) (created bool, err error)
	// ListGrantsByUser returns the user's grants, newest first.
	ListGrantsByUser(ctx context.Context, userID string) ([]entity.Grant, error)
	// ListAllGrantsJoined returns at most limit grants joined with user data, newest first.
	ListAllGrantsJoined(ctx context.Context, limit int) ([]entity.Sale, error)
}
