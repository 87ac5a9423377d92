package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhishekverma0700/eduavaa/config"
	"github.com/abhishekverma0700/eduavaa/internal/application"
	"github.com/abhishekverma0700/eduavaa/pkg/helpers"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "manifest",
		Short: "Build and publish the notes catalog manifest",
		Long: `Scans the asset bucket for PDFs under each category prefix and writes
the manifest the storefront API serves from.

Examples:
  manifest generate
  manifest generate --out data/notes-manifest.json --index
  manifest index`,
		SilenceUsage: true,
	}
	root.AddCommand(newGenerateCmd(), newIndexCmd())
	return root
}

func newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "List the bucket and write the manifest file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.Load()
			out, _ := cmd.Flags().GetString("out")
			if out == "" {
				out = cfg.ManifestPath
			}
			timeout, _ := cmd.Flags().GetDuration("timeout")
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			lister, closeFn, err := newLister(ctx, cfg)
			if err != nil {
				return err
			}
			defer closeFn()

			m, err := application.BuildManifest(ctx, lister, application.DefaultCategories)
			if err != nil {
				return err
			}
			if err := application.WriteManifest(out, m); err != nil {
				return err
			}
			printSummary(cmd.OutOrStdout(), m)
			fmt.Fprintf(cmd.OutOrStdout(), "manifest written to %s\n", out)

			if index, _ := cmd.Flags().GetBool("index"); index {
				return indexManifest(ctx, cfg, m, cmd.OutOrStdout())
			}
			return nil
		},
	}
	cmd.Flags().String("out", "", "output path (default MANIFEST_PATH)")
	cmd.Flags().Bool("index", false, "also index the assets into Elasticsearch")
	cmd.Flags().Duration("timeout", 2*time.Minute, "overall bucket listing timeout")
	return cmd
}

func newIndexCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "index",
		Short: "Index the current manifest into Elasticsearch",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.Load()
			m, err := application.LoadManifest(cfg.ManifestPath)
			if err != nil {
				return err
			}
			return indexManifest(cmd.Context(), cfg, m, cmd.OutOrStdout())
		},
	}
}

func newLister(ctx context.Context, cfg *config.Config) (application.BucketLister, func(), error) {
	switch cfg.StorageProvider {
	case "s3":
		b, err := helpers.NewS3Bucket(ctx, cfg.R2Endpoint(), cfg.S3Region, cfg.R2AccessKeyID, cfg.R2SecretAccessKey, cfg.R2BucketName)
		return b, func() {}, err
	case "gcs":
		client, err := helpers.NewGCSClient(ctx, cfg.GCSCredentialsJSONPath)
		if err != nil {
			return nil, nil, err
		}
		b, err := helpers.NewGCSBucket(client, cfg.GCSBucket)
		if err != nil {
			_ = client.Close()
			return nil, nil, err
		}
		return b, func() { _ = client.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("STORAGE_PROVIDER %q cannot be listed; use s3 or gcs", cfg.StorageProvider)
	}
}

func indexManifest(ctx context.Context, cfg *config.Config, m application.Manifest, w io.Writer) error {
	addrs := cfg.ESAddrs()
	if len(addrs) == 0 {
		return errors.New("ELASTICSEARCH_ADDRS not set")
	}
	es, err := helpers.NewESClient(addrs, cfg.ElasticsearchUser, cfg.ElasticsearchPass)
	if err != nil {
		return err
	}
	if err := helpers.EnsureIndex(ctx, es, cfg.ESCatalogIndex, helpers.CatalogIndexMapping); err != nil {
		return err
	}
	svc := application.NewCatalogService(m, application.DefaultCategories, es, cfg.ESCatalogIndex, nil)
	n, err := svc.IndexAssets(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "indexed %d assets into %s\n", n, cfg.ESCatalogIndex)
	return nil
}

func printSummary(w io.Writer, m application.Manifest) {
	for _, c := range application.DefaultCategories {
		fmt.Fprintf(w, "%-16s %4d files\n", c.Key, len(m[c.Key]))
	}
}
