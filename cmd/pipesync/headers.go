package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pipesync/server/pkg/bootstrap"
	"github.com/pipesync/server/pkg/domain/sheetrow"
	"github.com/pipesync/server/pkg/infrastructure/oauth"
	"github.com/pipesync/server/pkg/integrations/pipefy"
	"github.com/pipesync/server/pkg/synchronizer"
	"github.com/pipesync/server/pkg/types"
)

var headersPipe string

var headersCmd = &cobra.Command{
	Use:   "headers",
	Short: "Print the header row a pipe produces with every column enabled",
	Args:  cobra.NoArgs,
	RunE:  runHeaders,
}

func init() {
	headersCmd.Flags().StringVarP(&headersPipe, "pipe", "p", "", "Pipe ID")
	_ = headersCmd.MarkFlagRequired("pipe")
	rootCmd.AddCommand(headersCmd)
}

func runHeaders(cmd *cobra.Command, args []string) error {
	cfg := bootstrap.LoadConfig()
	if cfg.PipefyToken == "" {
		return errors.New("PIPEFY_PERSONAL_ACCESS_TOKEN is not set")
	}

	logger, closeLog := newLogger(cmd)
	defer closeLog()

	client := pipefy.NewClient(cfg.PipefyEndpoint, oauth.NewBearerClient(cfg.PipefyToken, bootstrap.PipefyTimeout), logger)
	columns := types.AllColumns()

	schema, err := synchronizer.ResolveSchema(cmd.Context(), client, headersPipe, columns)
	if err != nil {
		return err
	}
	headers := sheetrow.BuildHeaders(schema.Phases, schema.Fields, columns)

	if jsonOutput {
		return outputJSON(cmd.OutOrStdout(), headers)
	}
	for _, h := range headers {
		fmt.Fprintln(cmd.OutOrStdout(), h)
	}
	return nil
}
