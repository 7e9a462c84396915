package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"cloud.google.com/go/storage"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	shared "github.com/pipesync/server/pkg"
	"github.com/pipesync/server/pkg/bootstrap"
	infrastorage "github.com/pipesync/server/pkg/infrastructure/storage"
	"github.com/pipesync/server/pkg/synchronizer"
	"github.com/pipesync/server/pkg/types"
)

var configPath string

// Replaced in tests.
var (
	newRunner = bootstrap.NewRunner
	openStore = openGCSStore
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Synchronize the integrations listed in a config file",
	Long: `Run every integration from the config file and print the response.

The config file lists integrations the same way the HTTP payload does:

  integrations:
    - name: vendas
      pipeId: "301"
      spreadsheetId: 1AbC...
      sheetId: 0
      columns:
        title: true
        currentPhase: true
        startFormFields: true`,
	Args: cobra.NoArgs,
	RunE: runSync,
}

func init() {
	runCmd.Flags().StringVarP(&configPath, "config", "c", "integrations.yaml", "Integrations file (yaml, json or toml)")
	rootCmd.AddCommand(runCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	req, err := loadRequest(configPath)
	if err != nil {
		return err
	}

	logger, closeLog := newLogger(cmd)
	defer closeLog()

	cfg := bootstrap.LoadConfig()
	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	runner, err := newRunner(ctx, cfg, store, logger)
	if err != nil {
		return err
	}

	resp, report := synchronizer.Synchronize(ctx, runner, req)
	if jsonOutput && report != nil {
		if err := outputJSON(cmd.OutOrStdout(), report); err != nil {
			return err
		}
	} else if err := outputJSON(cmd.OutOrStdout(), resp.Body); err != nil {
		return err
	}

	if resp.StatusCode >= http.StatusInternalServerError {
		return errors.New(resp.Body.Message)
	}
	return nil
}

// loadRequest reads the integrations list from a config file.
func loadRequest(path string) (*types.SyncRequest, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	req := &types.SyncRequest{}
	if err := v.UnmarshalKey("integrations", &req.Integrations); err != nil {
		return nil, fmt.Errorf("parse integrations in %s: %w", path, err)
	}
	if len(req.Integrations) == 0 {
		return nil, fmt.Errorf("%s: no integrations configured", path)
	}
	return req, nil
}

// openGCSStore returns nil when snapshots are not configured.
func openGCSStore(ctx context.Context, cfg *bootstrap.Config) (shared.BlobStore, error) {
	if cfg.GCSArtifactBucket == "" {
		return nil, nil
	}
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("storage init: %w", err)
	}
	return &infrastorage.StorageAdapter{Client: client}, nil
}
