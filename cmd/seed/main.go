package main

import (
	"context"
	"fmt"

	"github.com/joho/godotenv"

	"github.com/abhishekverma0700/eduavaa/config"
	"github.com/abhishekverma0700/eduavaa/internal/application"
	"github.com/abhishekverma0700/eduavaa/internal/infrastructure/store"
	"github.com/abhishekverma0700/eduavaa/pkg/helpers"
)

// Seeds a demo buyer with a few unlocks so the storefront and the admin
// report have data in development. Safe to rerun.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env, cfg.LogLevel)
	ctx := context.Background()

	repo, closeFn, err := store.OpenLedger(ctx, cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("failed to open ledger")
	}
	defer closeFn()

	ledger := application.NewLedgerService(repo, nil, nil, logger)
	res, err := ledger.RecordUnlockBatch(ctx, application.BatchUnlockInput{
		UserID:    "demo-user",
		UserName:  "Demo Student",
		UserEmail: "demo@example.com",
		PaymentID: "pay_seed_demo",
		OrderID:   "order_seed_demo",
		AssetIDs: []string{
			"Notes/unit1.pdf",
			"Question-Papers/2023.pdf",
			"Quantum/quantum-1.pdf",
		},
	})
	if err != nil {
		logger.WithError(err).Fatal("failed to seed unlocks")
	}
	fmt.Printf("seeded user demo-user: %d unlocked, %d failed\n", res.Count(), len(res.Failed))
}
