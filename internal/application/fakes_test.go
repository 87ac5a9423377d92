package application

import (
	"context"
	"time"

	"github.com/abhishekverma0700/eduavaa/internal/domain/entity"
)

type mockLedgerRepo struct {
	UpsertUserFunc          func(ctx context.Context, u *entity.User) error
	UpsertGrantFunc         func(ctx context.Context, g *entity.Grant) (bool, error)
	ListGrantsByUserFunc    func(ctx context.Context, userID string) ([]entity.Grant, error)
	ListAllGrantsJoinedFunc func(ctx context.Context, limit int) ([]entity.Sale, error)

	userCalls  int
	grantCalls int
	listCalls  int
}

func (m *mockLedgerRepo) UpsertUser(ctx context.Context, u *entity.User) error {
	m.userCalls++
	if m.UpsertUserFunc != nil {
		return m.UpsertUserFunc(ctx, u)
	}
	return nil
}

func (m *mockLedgerRepo) UpsertGrant(ctx context.Context, g *entity.Grant) (bool, error) {
	m.grantCalls++
	if m.UpsertGrantFunc != nil {
		return m.UpsertGrantFunc(ctx, g)
	}
	return true, nil
}

func (m *mockLedgerRepo) ListGrantsByUser(ctx context.Context, userID string) ([]entity.Grant, error) {
	m.listCalls++
	if m.ListGrantsByUserFunc != nil {
		return m.ListGrantsByUserFunc(ctx, userID)
	}
	return []entity.Grant{}, nil
}

func (m *mockLedgerRepo) ListAllGrantsJoined(ctx context.Context, limit int) ([]entity.Sale, error) {
	m.listCalls++
	if m.ListAllGrantsJoinedFunc != nil {
		return m.ListAllGrantsJoinedFunc(ctx, limit)
	}
	return []entity.Sale{}, nil
}

type recordingCache struct {
	invalidated []string
}

func (c *recordingCache) Invalidate(_ context.Context, userID string) {
	c.invalidated = append(c.invalidated, userID)
}

type mockReceipts struct {
	err  error
	sent []Receipt
}

func (m *mockReceipts) PublishReceipt(_ context.Context, r Receipt) error {
	m.sent = append(m.sent, r)
	return m.err
}

type mockSigner struct {
	SignedURLFunc func(ctx context.Context, assetID string, ttl time.Duration) (string, error)
}

func (m *mockSigner) SignedURL(ctx context.Context, assetID string, ttl time.Duration) (string, error) {
	if m.SignedURLFunc != nil {
		return m.SignedURLFunc(ctx, assetID, ttl)
	}
	return "https://cdn.example.com/" + assetID + "?ttl=" + ttl.String(), nil
}
