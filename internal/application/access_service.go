package application

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/abhishekverma0700/eduavaa/internal/domain/entity"
	repo "github.com/abhishekverma0700/eduavaa/internal/domain/repository"
	"github.com/abhishekverma0700/eduavaa/pkg/helpers"
)

// AssetURLSigner produces a time-limited download link for an asset.
type AssetURLSigner interface {
	SignedURL(ctx context.Context, assetID string, ttl time.Duration) (string, error)
}

type AccessService struct {
	Repo     repo.LedgerRepository
	Redis    *redis.Client
	CacheTTL time.Duration
	Signer   AssetURLSigner
	LinkTTL  time.Duration
	Logger   *logrus.Logger
}

func NewAccessService(r repo.LedgerRepository, rdb *redis.Client, cacheTTL time.Duration, signer AssetURLSigner, linkTTL time.Duration, logger *logrus.Logger) *AccessService {
	return &AccessService{Repo: r, Redis: rdb, CacheTTL: cacheTTL, Signer: signer, LinkTTL: linkTTL, Logger: logger}
}

func unlocksKey(userID string) string {
	return "unlocks:user:" + userID
}

// unlocksGenKey is bumped on every invalidation. A reader only fills the
// cache if the generation it saw before querying the store is unchanged.
func unlocksGenKey(userID string) string {
	return "unlocks:gen:" + userID
}

// ListUnlocked returns the user's unlocked assets, newest grant first.
// It never fails: bad ids and store errors yield an empty list.
func (s *AccessService) ListUnlocked(ctx context.Context, userID string) []string {
	if !entity.ValidUserID(userID) {
		return []string{}
	}
	assets, err := s.unlocked(ctx, userID)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", userID).Warn("list unlocks failed")
		}
		return []string{}
	}
	return assets
}

func (s *AccessService) unlocked(ctx context.Context, userID string) ([]string, error) {
	key := unlocksKey(userID)
	caching := s.Redis != nil && s.CacheTTL > 0
	var gen string
	if caching {
		var cached []string
		if found, err := helpers.RedisGetJSON(ctx, s.Redis, key, &cached); err == nil && found && cached != nil {
			return cached, nil
		}
		g, err := s.Redis.Get(ctx, unlocksGenKey(userID)).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			caching = false
		}
		gen = g
	}

	assets, err := s.fromStore(ctx, userID)
	if err != nil {
		return nil, err
	}
	if caching {
		s.fill(ctx, userID, gen, assets)
	}
	return assets, nil
}

func (s *AccessService) fromStore(ctx context.Context, userID string) ([]string, error) {
	grants, err := s.Repo.ListGrantsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	assets := make([]string, 0, len(grants))
	for _, g := range grants {
		assets = append(assets, g.AssetID)
	}
	return assets, nil
}

// fill caches assets unless the user was invalidated since gen was read.
func (s *AccessService) fill(ctx context.Context, userID, gen string, assets []string) {
	key, genKey := unlocksKey(userID), unlocksGenKey(userID)
	err := s.Redis.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := tx.Get(ctx, genKey).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if cur != gen {
			return errStaleSnapshot
		}
		_, err = tx.TxPipelined(ctx, func(p redis.Pipeliner) error {
			return helpers.RedisSetJSON(ctx, p, key, assets, s.CacheTTL)
		})
		return err
	}, genKey)
	if err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("key", key).Debug("unlock cache fill skipped")
	}
}

var errStaleSnapshot = errors.New("unlocks changed during read")

// Invalidate drops the cached list and bumps the user's generation so that
// reads already in flight do not cache their older snapshot.
func (s *AccessService) Invalidate(ctx context.Context, userID string) {
	if s.Redis == nil {
		return
	}
	genKey := unlocksGenKey(userID)
	_, err := s.Redis.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Incr(ctx, genKey)
		p.Expire(ctx, genKey, genTTL(s.CacheTTL))
		p.Del(ctx, unlocksKey(userID))
		return nil
	})
	if err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("user_id", userID).Error("unlock cache invalidate failed")
	}
}

// The generation must outlive any cached list it guards.
func genTTL(cacheTTL time.Duration) time.Duration {
	if cacheTTL < time.Hour {
		return time.Hour
	}
	return 2 * cacheTTL
}

// DownloadURL returns a signed link to assetID if the user has unlocked it.
func (s *AccessService) DownloadURL(ctx context.Context, userID, assetID string) (string, error) {
	if !entity.ValidUserID(userID) || !entity.ValidAssetID(assetID) {
		return "", ErrNotUnlocked
	}
	if s.Signer == nil {
		return "", ErrSigningUnavailable
	}
	assets, err := s.unlocked(ctx, userID)
	if err != nil {
		return "", err
	}
	if !slices.Contains(assets, assetID) {
		// The cache may predate the grant; the store decides.
		if assets, err = s.fromStore(ctx, userID); err != nil {
			return "", err
		}
		if !slices.Contains(assets, assetID) {
			return "", ErrNotUnlocked
		}
		s.Invalidate(ctx, userID)
	}

	ttl := s.LinkTTL
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	url, err := s.Signer.SignedURL(ctx, assetID, ttl)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSigningUnavailable, err)
	}
	return url, nil
}
