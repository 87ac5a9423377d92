package container

import (
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/abhishekverma0700/eduavaa/config"
	"github.com/abhishekverma0700/eduavaa/internal/application"
	"github.com/abhishekverma0700/eduavaa/internal/domain/repository"
)

// app-level container to share constructed components across packages
// Router can auto-wire modules from these singletons.

var (
	cfg         *config.Config
	logger      *logrus.Logger
	ledger      repository.LedgerRepository
	redisClient *redis.Client
	esClient    *elasticsearch.Client

	gateway  application.OrderGateway
	signer   application.AssetURLSigner
	receipts application.ReceiptPublisher
	manifest application.Manifest
)

func SetConfig(c *config.Config)                 { cfg = c }
func GetConfig() *config.Config                  { return cfg }
func SetLogger(l *logrus.Logger)                 { logger = l }
func GetLogger() *logrus.Logger                  { return logger }
func SetLedger(r repository.LedgerRepository)    { ledger = r }
func GetLedger() repository.LedgerRepository     { return ledger }
func SetRedis(r *redis.Client)                   { redisClient = r }
func GetRedis() *redis.Client                    { return redisClient }
func SetES(c *elasticsearch.Client)              { esClient = c }
func GetES() *elasticsearch.Client               { return esClient }
func SetGateway(g application.OrderGateway)      { gateway = g }
func GetGateway() application.OrderGateway       { return gateway }
func SetSigner(s application.AssetURLSigner)     { signer = s }
func GetSigner() application.AssetURLSigner      { return signer }
func SetReceipts(p application.ReceiptPublisher) { receipts = p }
func GetReceipts() application.ReceiptPublisher  { return receipts }
func SetManifest(m application.Manifest)         { manifest = m }
func GetManifest() application.Manifest          { return manifest }
