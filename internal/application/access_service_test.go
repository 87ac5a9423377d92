package application

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhishekverma0700/eduavaa/internal/domain/entity"
)

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func grantsRepo(assets ...string) *mockLedgerRepo {
	return &mockLedgerRepo{ListGrantsByUserFunc: func(_ context.Context, userID string) ([]entity.Grant, error) {
		out := make([]entity.Grant, 0, len(assets))
		for i, a := range assets {
			out = append(out, entity.Grant{ID: int64(len(assets) - i), UserID: userID, AssetID: a})
		}
		return out, nil
	}}
}

func TestListUnlocked_PreservesStoreOrder(t *testing.T) {
	s := NewAccessService(grantsRepo("Notes/c.pdf", "Notes/a.pdf"), nil, 0, nil, 0, nil)
	assert.Equal(t, []string{"Notes/c.pdf", "Notes/a.pdf"}, s.ListUnlocked(context.Background(), "u1"))
}

func TestListUnlocked_FailsOpen(t *testing.T) {
	r := &mockLedgerRepo{ListGrantsByUserFunc: func(context.Context, string) ([]entity.Grant, error) {
		return nil, errors.New("connection reset")
	}}
	s := NewAccessService(r, nil, 0, nil, 0, nil)

	got := s.ListUnlocked(context.Background(), "u1")
	assert.NotNil(t, got)
	assert.Empty(t, got)

	for _, bad := range []string{"", strings.Repeat("x", 200), "bad\tid", "u 1", "u1 "} {
		assert.Equal(t, []string{}, s.ListUnlocked(context.Background(), bad))
	}
	assert.Equal(t, 1, r.listCalls, "invalid ids must not reach the store")
}

func TestListUnlocked_CacheAsideAndInvalidate(t *testing.T) {
	mr, rdb := newRedis(t)
	r := grantsRepo("Notes/a.pdf")
	s := NewAccessService(r, rdb, 5*time.Minute, nil, 0, nil)
	ctx := context.Background()

	assert.Equal(t, []string{"Notes/a.pdf"}, s.ListUnlocked(ctx, "u1"))
	assert.Equal(t, []string{"Notes/a.pdf"}, s.ListUnlocked(ctx, "u1"))
	assert.Equal(t, 1, r.listCalls)
	assert.True(t, mr.Exists("unlocks:user:u1"))
	assert.Equal(t, 5*time.Minute, mr.TTL("unlocks:user:u1"))

	s.Invalidate(ctx, "u1")
	assert.False(t, mr.Exists("unlocks:user:u1"))
	s.ListUnlocked(ctx, "u1")
	assert.Equal(t, 2, r.listCalls)
}

func TestListUnlocked_RedisDownFallsThrough(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 50 * time.Millisecond, MaxRetries: -1})
	t.Cleanup(func() { _ = rdb.Close() })
	r := grantsRepo("Notes/a.pdf")
	s := NewAccessService(r, rdb, time.Minute, nil, 0, nil)

	assert.Equal(t, []string{"Notes/a.pdf"}, s.ListUnlocked(context.Background(), "u1"))
	s.Invalidate(context.Background(), "u1")
}

func TestDownloadURL(t *testing.T) {
	ctx := context.Background()
	signer := &mockSigner{}
	s := NewAccessService(grantsRepo("Notes/a.pdf"), nil, 0, signer, 10*time.Minute, nil)

	url, err := s.DownloadURL(ctx, "u1", "Notes/a.pdf")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/Notes/a.pdf?ttl=10m0s", url)

	_, err = s.DownloadURL(ctx, "u1", "Notes/other.pdf")
	assert.ErrorIs(t, err, ErrNotUnlocked)

	_, err = s.DownloadURL(ctx, "", "Notes/a.pdf")
	assert.ErrorIs(t, err, ErrNotUnlocked)

	_, err = s.DownloadURL(ctx, "u1", "Notes/a.pdf ")
	assert.ErrorIs(t, err, ErrNotUnlocked)

	signer.SignedURLFunc = func(context.Context, string, time.Duration) (string, error) {
		return "", errors.New("no credentials")
	}
	_, err = s.DownloadURL(ctx, "u1", "Notes/a.pdf")
	assert.ErrorIs(t, err, ErrSigningUnavailable)

	s.Signer = nil
	_, err = s.DownloadURL(ctx, "u1", "Notes/a.pdf")
	assert.ErrorIs(t, err, ErrSigningUnavailable)
}

func TestListUnlocked_GrantDuringReadIsNotHiddenByCache(t *testing.T) {
	_, rdb := newRedis(t)
	ctx := context.Background()

	var mu sync.Mutex
	var granted []string
	snapshotTaken := make(chan struct{})
	release := make(chan struct{})
	first := true

	r := &mockLedgerRepo{
		ListGrantsByUserFunc: func(_ context.Context, userID string) ([]entity.Grant, error) {
			mu.Lock()
			out := make([]entity.Grant, 0, len(granted))
			for _, a := range granted {
				out = append(out, entity.Grant{UserID: userID, AssetID: a})
			}
			block := first
			first = false
			mu.Unlock()
			if block {
				close(snapshotTaken)
				<-release
			}
			return out, nil
		},
		UpsertGrantFunc: func(_ context.Context, g *entity.Grant) (bool, error) {
			mu.Lock()
			granted = append(granted, g.AssetID)
			mu.Unlock()
			return true, nil
		},
	}
	access := NewAccessService(r, rdb, 5*time.Minute, nil, 0, nil)
	ledger := NewLedgerService(r, access, nil, nil)

	done := make(chan []string)
	go func() { done <- access.ListUnlocked(ctx, "u1") }()

	<-snapshotTaken
	_, err := ledger.RecordUnlockBatch(ctx, BatchUnlockInput{UserID: "u1", PaymentID: "pay_1", AssetIDs: []string{"Notes/unit1.pdf"}})
	require.NoError(t, err)
	close(release)

	assert.Empty(t, <-done, "the in-flight read returns its own snapshot")
	assert.Equal(t, []string{"Notes/unit1.pdf"}, access.ListUnlocked(ctx, "u1"))
}

func TestDownloadURL_StaleCacheFallsBackToStore(t *testing.T) {
	mr, rdb := newRedis(t)
	ctx := context.Background()
	s := NewAccessService(grantsRepo("Notes/a.pdf"), rdb, 5*time.Minute, &mockSigner{}, time.Minute, nil)

	require.NoError(t, mr.Set(unlocksKey("u1"), `[]`))

	url, err := s.DownloadURL(ctx, "u1", "Notes/a.pdf")
	require.NoError(t, err)
	assert.Contains(t, url, "Notes/a.pdf")
	assert.False(t, mr.Exists(unlocksKey("u1")))
	assert.Equal(t, []string{"Notes/a.pdf"}, s.ListUnlocked(ctx, "u1"))
}

func TestInvalidate_BumpsGeneration(t *testing.T) {
	mr, rdb := newRedis(t)
	s := NewAccessService(grantsRepo(), rdb, 5*time.Minute, nil, 0, nil)

	s.Invalidate(context.Background(), "u1")
	s.Invalidate(context.Background(), "u1")
	got, err := mr.Get(unlocksGenKey("u1"))
	require.NoError(t, err)
	assert.Equal(t, "2", got)
	assert.Equal(t, time.Hour, mr.TTL(unlocksGenKey("u1")))
}
