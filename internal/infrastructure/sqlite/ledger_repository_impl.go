package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/abhishekverma0700/eduavaa/internal/domain/entity"
	"github.com/abhishekverma0700/eduavaa/internal/domain/repository"
)

type LedgerRepository struct {
	db  DBTX
	now func() time.Time
}

func NewLedgerRepository(db DBTX) *LedgerRepository {
	return &LedgerRepository{db: db, now: func() time.Time { return time.Now().UTC() }}
}

func (r *LedgerRepository) UpsertUser(ctx context.Context, u *entity.User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, name, email, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name  = CASE WHEN excluded.name  <> '' THEN excluded.name  ELSE users.name  END,
			email = CASE WHEN excluded.email <> '' THEN excluded.email ELSE users.email END
	`, u.ID, u.Name, u.Email, r.now())
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *LedgerRepository) UpsertGrant(ctx context.Context, g *entity.Grant) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO unlocks (user_id, note_path, payment_id, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id, note_path) DO NOTHING
	`, g.UserID, g.AssetID, g.PaymentID, r.now())
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return n == 1, nil
}

// ListGrantsByUser orders by the autoincrement id, which follows insertion time.
func (r *LedgerRepository) ListGrantsByUser(ctx context.Context, userID string) ([]entity.Grant, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, note_path, payment_id, created_at
		FROM unlocks
		WHERE user_id = ?
		ORDER BY id DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := make([]entity.Grant, 0)
	for rows.Next() {
		var g entity.Grant
		if err := rows.Scan(&g.ID, &g.UserID, &g.AssetID, &g.PaymentID, timestamp{&g.CreatedAt}); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

func (r *LedgerRepository) ListAllGrantsJoined(ctx context.Context, limit int) ([]entity.Sale, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT un.id, un.user_id, u.name, u.email, un.note_path, un.payment_id, un.created_at
		FROM unlocks un
		JOIN users u ON u.id = un.user_id
		ORDER BY un.id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := make([]entity.Sale, 0)
	for rows.Next() {
		var s entity.Sale
		if err := rows.Scan(&s.GrantID, &s.UserID, &s.UserName, &s.UserEmail, &s.AssetID, &s.PaymentID, timestamp{&s.CreatedAt}); err != nil {
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
