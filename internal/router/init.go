package router

import (
	"github.com/abhishekverma0700/eduavaa/internal/application"
	"github.com/abhishekverma0700/eduavaa/internal/container"
	handlers "github.com/abhishekverma0700/eduavaa/internal/interface/http"
	"github.com/abhishekverma0700/eduavaa/internal/router/modules"
)

type StoreModuleDeps struct {
	Catalog  *application.CatalogService
	Orders   *application.OrderService
	Access   *application.AccessService
	Ledger   *application.LedgerService
	Payments *application.PaymentService
	Sales    *application.SalesService
}

func buildStoreDeps() StoreModuleDeps {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	repo := container.GetLedger()

	catalog := application.NewCatalogService(
		container.GetManifest(),
		application.DefaultCategories,
		container.GetES(),
		cfg.ESCatalogIndex,
		logger,
	)
	orders := application.NewOrderService(
		container.GetGateway(),
		catalog,
		cfg.Currency,
		cfg.ReceiptPrefix,
		cfg.GatewayTimeout,
		logger,
	)
	access := application.NewAccessService(
		repo,
		container.GetRedis(),
		cfg.UnlockCacheTTL,
		container.GetSigner(),
		cfg.DownloadURLTTL,
		logger,
	)
	ledger := application.NewLedgerService(repo, access, container.GetReceipts(), logger)
	payments := application.NewPaymentService(
		application.NewSignatureVerifier(cfg.PaymentSignatureSecret),
		ledger,
		logger,
	)
	sales := application.NewSalesService(
		repo,
		application.NewAllowList(cfg.AdminIdentifiers()),
		cfg.SalesMaxRows,
		logger,
	)

	return StoreModuleDeps{
		Catalog:  catalog,
		Orders:   orders,
		Access:   access,
		Ledger:   ledger,
		Payments: payments,
		Sales:    sales,
	}
}

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry) {
	deps := buildStoreDeps()
	logger := container.GetLogger()

	r.Add(modules.NewPingModule())
	r.Add(modules.NewCatalogModule(handlers.NewCatalogHandler(deps.Catalog, logger)))
	r.Add(modules.NewCheckoutModule(
		handlers.NewOrderHandler(deps.Orders, logger),
		handlers.NewPaymentHandler(deps.Payments, logger),
	))
	r.Add(modules.NewUnlockModule(handlers.NewUnlockHandler(deps.Access, logger)))
	r.Add(modules.NewAdminModule(handlers.NewAdminHandler(deps.Sales, logger)))
	if cfg := container.GetConfig(); cfg != nil && cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}
