package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/abhishekverma0700/eduavaa/internal/domain/entity"
	"github.com/abhishekverma0700/eduavaa/internal/domain/repository"
)

// DB is the subset of *pgxpool.Pool the ledger needs.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type LedgerRepository struct {
	db DB
}

func NewLedgerRepository(db DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

// UpsertUser inserts the user or refreshes name/email with non-empty values.
func (r *LedgerRepository) UpsertUser(ctx context.Context, u *entity.User) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO users (id, name, email)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET
			name  = CASE WHEN EXCLUDED.name  <> '' THEN EXCLUDED.name  ELSE users.name  END,
			email = CASE WHEN EXCLUDED.email <> '' THEN EXCLUDED.email ELSE users.email END
	`, u.ID, u.Name, u.Email)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// UpsertGrant inserts the grant unless one exists for (user, asset).
// An existing grant is never altered.
func (r *LedgerRepository) UpsertGrant(ctx context.Context, g *entity.Grant) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		INSERT INTO unlocks (user_id, note_path, payment_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, note_path) DO NOTHING
	`, g.UserID, g.AssetID, g.PaymentID)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *LedgerRepository) ListGrantsByUser(ctx context.Context, userID string) ([]entity.Grant, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, note_path, payment_id, created_at
		FROM unlocks
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	out := []entity.Grant{}
	for rows.Next() {
		var g entity.Grant
		if err := rows.Scan(&g.ID, &g.UserID, &g.AssetID, &g.PaymentID, &g.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

// ListAllGrantsJoined returns grants with buyer display data, newest first.
func (r *LedgerRepository) ListAllGrantsJoined(ctx context.Context, limit int) ([]entity.Sale, error) {
	rows, err := r.db.Query(ctx, `
		SELECT un.id, un.user_id, COALESCE(u.name, ''), COALESCE(u.email, ''),
		       un.note_path, un.payment_id, un.created_at
		FROM unlocks un
		JOIN users u ON u.id = un.user_id
		ORDER BY un.created_at DESC, un.id DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	out := []entity.Sale{}
	for rows.Next() {
		var s entity.Sale
		if err := rows.Scan(&s.GrantID, &s.UserID, &s.UserName, &s.UserEmail,
			&s.AssetID, &s.PaymentID, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

var _ repository.LedgerRepository = (*LedgerRepository)(nil)
