package application

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/abhishekverma0700/eduavaa/internal/domain/entity"
	repo "github.com/abhishekverma0700/eduavaa/internal/domain/repository"
)

// CacheInvalidator drops cached access data for a user.
type CacheInvalidator interface {
	Invalidate(ctx context.Context, userID string)
}

// Receipt describes a completed purchase for the buyer's confirmation mail.
type Receipt struct {
	UserID    string   `json:"user_id"`
	UserName  string   `json:"user_name"`
	UserEmail string   `json:"user_email"`
	OrderID   string   `json:"order_id"`
	PaymentID string   `json:"payment_id"`
	AssetIDs  []string `json:"asset_ids"`
}

// ReceiptPublisher hands a receipt to the mail pipeline.
type ReceiptPublisher interface {
	PublishReceipt(ctx context.Context, r Receipt) error
}

type UnlockInput struct {
	UserID    string
	AssetID   string
	PaymentID string
	OrderID   string
	UserName  string
	UserEmail string
}

type BatchUnlockInput struct {
	UserID    string
	AssetIDs  []string
	PaymentID string
	OrderID   string
	UserName  string
	UserEmail string
}

// BatchResult reports per-asset outcomes. An asset that was already granted
// counts as unlocked.
type BatchResult struct {
	Requested int      `json:"requested"`
	Unlocked  []string `json:"unlocked_paths"`
	Failed    []string `json:"failed_paths"`
}

func (r BatchResult) Count() int { return len(r.Unlocked) }

type LedgerService struct {
	Repo     repo.LedgerRepository
	Cache    CacheInvalidator
	Receipts ReceiptPublisher
	Logger   *logrus.Logger
}

func NewLedgerService(r repo.LedgerRepository, cache CacheInvalidator, receipts ReceiptPublisher, logger *logrus.Logger) *LedgerService {
	return &LedgerService{Repo: r, Cache: cache, Receipts: receipts, Logger: logger}
}

// RecordUnlock grants one asset. It must only be called after the payment
// signature has been verified.
func (s *LedgerService) RecordUnlock(ctx context.Context, in UnlockInput) error {
	if !entity.ValidAssetID(in.AssetID) {
		return fmt.Errorf("%w: invalid asset id", ErrInvalidUnlock)
	}
	_, err := s.RecordUnlockBatch(ctx, BatchUnlockInput{
		UserID:    in.UserID,
		AssetIDs:  []string{in.AssetID},
		PaymentID: in.PaymentID,
		OrderID:   in.OrderID,
		UserName:  in.UserName,
		UserEmail: in.UserEmail,
	})
	return err
}

// NormalizeAssetIDs de-duplicates ids, keeping first-seen order. Ids are
// opaque: one that is not a valid asset id rejects the whole list.
func NormalizeAssetIDs(ids []string) ([]string, error) {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if !entity.ValidAssetID(id) {
			return nil, fmt.Errorf("%w: invalid asset id %q", ErrInvalidUnlock, id)
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out, nil
}

// RecordUnlockBatch grants every asset to the user, one upsert per asset.
// Grants are independent: failures are collected and the rest proceed.
// It fails only when nothing could be granted.
func (s *LedgerService) RecordUnlockBatch(ctx context.Context, in BatchUnlockInput) (BatchResult, error) {
	userID := in.UserID
	paymentID := strings.TrimSpace(in.PaymentID)
	if !entity.ValidUserID(userID) || paymentID == "" {
		return BatchResult{}, fmt.Errorf("%w: valid user and payment id required", ErrInvalidUnlock)
	}
	assets, err := NormalizeAssetIDs(in.AssetIDs)
	if err != nil {
		return BatchResult{}, err
	}
	if len(assets) == 0 {
		return BatchResult{}, fmt.Errorf("%w: no assets", ErrInvalidUnlock)
	}

	res := BatchResult{Requested: len(assets), Unlocked: []string{}, Failed: []string{}}
	log := s.logEntry().WithFields(logrus.Fields{"user_id": userID, "payment_id": paymentID})

	user := &entity.User{ID: userID, Name: strings.TrimSpace(in.UserName), Email: strings.TrimSpace(in.UserEmail)}
	if err := s.Repo.UpsertUser(ctx, user); err != nil {
		res.Failed = append(res.Failed, assets...)
		grantsTotal.WithLabelValues("failed").Add(float64(len(assets)))
		s.reconcile(log, assets, err)
		return res, fmt.Errorf("%w: upsert user: %v", ErrNothingUnlocked, err)
	}

	var lastErr error
	for _, a := range assets {
		created, err := s.Repo.UpsertGrant(ctx, &entity.Grant{UserID: userID, AssetID: a, PaymentID: paymentID})
		if err != nil {
			lastErr = err
			res.Failed = append(res.Failed, a)
			grantsTotal.WithLabelValues("failed").Inc()
			log.WithError(err).WithField("asset_id", a).Warn("grant failed")
			continue
		}
		res.Unlocked = append(res.Unlocked, a)
		if created {
			grantsTotal.WithLabelValues("created").Inc()
		} else {
			grantsTotal.WithLabelValues("existing").Inc()
		}
	}

	if len(res.Unlocked) == 0 {
		s.reconcile(log, assets, lastErr)
		return res, fmt.Errorf("%w: %v", ErrNothingUnlocked, lastErr)
	}

	if s.Cache != nil {
		s.Cache.Invalidate(ctx, userID)
	}
	log.WithFields(logrus.Fields{"unlocked": len(res.Unlocked), "failed": len(res.Failed)}).Info("unlock recorded")

	if s.Receipts != nil && user.Email != "" {
		err := s.Receipts.PublishReceipt(ctx, Receipt{
			UserID:    userID,
			UserName:  user.Name,
			UserEmail: user.Email,
			OrderID:   in.OrderID,
			PaymentID: paymentID,
			AssetIDs:  res.Unlocked,
		})
		if err != nil {
			log.WithError(err).Warn("receipt publish failed")
		}
	}
	return res, nil
}

// reconcile records a verified payment that left no grant behind.
func (s *LedgerService) reconcile(log *logrus.Entry, assets []string, err error) {
	manualReconciliationTotal.Inc()
	log.WithError(err).WithFields(logrus.Fields{
		"reconcile": "manual",
		"asset_ids": assets,
	}).Error("verified payment could not be recorded")
}

func (s *LedgerService) logEntry() *logrus.Entry {
	if s.Logger != nil {
		return logrus.NewEntry(s.Logger)
	}
	return logrus.NewEntry(logrus.StandardLogger())
}
