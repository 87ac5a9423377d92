package main

import (
	"context"
	"errors"
	"io/fs"

	"github.com/sirupsen/logrus"

	"github.com/abhishekverma0700/eduavaa/config"
	"github.com/abhishekverma0700/eduavaa/internal/application"
	"github.com/abhishekverma0700/eduavaa/internal/infrastructure/gateway"
	"github.com/abhishekverma0700/eduavaa/internal/infrastructure/queue"
	"github.com/abhishekverma0700/eduavaa/pkg/helpers"
)

func newGateway(cfg *config.Config) (*gateway.Razorpay, error) {
	return gateway.NewRazorpay(cfg.RazorpayKeyID, cfg.RazorpayKeySecret)
}

// newAssetSigner picks the download link source for STORAGE_PROVIDER.
// A nil signer with a nil error means links are not configured.
func newAssetSigner(ctx context.Context, cfg *config.Config) (application.AssetURLSigner, func(), error) {
	noop := func() {}
	switch cfg.StorageProvider {
	case "s3":
		b, err := helpers.NewS3Bucket(ctx, cfg.R2Endpoint(), cfg.S3Region, cfg.R2AccessKeyID, cfg.R2SecretAccessKey, cfg.R2BucketName)
		if err != nil {
			return nil, noop, err
		}
		return b, noop, nil
	case "gcs":
		client, err := helpers.NewGCSClient(ctx, cfg.GCSCredentialsJSONPath)
		if err != nil {
			return nil, noop, err
		}
		b, err := helpers.NewGCSBucket(client, cfg.GCSBucket)
		if err != nil {
			_ = client.Close()
			return nil, noop, err
		}
		return b, func() { _ = client.Close() }, nil
	default:
		if cfg.PublicAssetBaseURL == "" {
			return nil, noop, nil
		}
		return helpers.PublicAssets{BaseURL: cfg.PublicAssetBaseURL}, noop, nil
	}
}

func newReceiptPublisher(cfg *config.Config) (*queue.ReceiptPublisher, func(), error) {
	if cfg.RabbitMQURL == "" || cfg.RabbitMQEmailQueue == "" {
		return nil, nil, errors.New("RabbitMQ not configured")
	}
	pub, err := helpers.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQEmailQueue)
	if err != nil {
		return nil, nil, err
	}
	return queue.NewReceiptPublisher(pub, cfg), pub.Close, nil
}

// loadManifest never fails startup; a missing file yields an empty catalog.
func loadManifest(cfg *config.Config, logger *logrus.Logger) application.Manifest {
	m, err := application.LoadManifest(cfg.ManifestPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		logger.WithField("path", cfg.ManifestPath).Warn("manifest not found; run cmd/manifest to generate it")
		return application.Manifest{}
	case err != nil:
		logger.WithError(err).WithField("path", cfg.ManifestPath).Error("manifest unreadable")
		return application.Manifest{}
	}
	total := 0
	for _, assets := range m {
		total += len(assets)
	}
	logger.WithFields(logrus.Fields{"path": cfg.ManifestPath, "assets": total}).Info("manifest loaded")
	return m
}
