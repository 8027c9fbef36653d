package main

import (
	"context"
	"fmt"

	"github.com/jonathan/ats-optimizer/internal/server"
	"github.com/spf13/cobra"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes text extraction, keyword analysis, optimization and scoring endpoints.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides PORT and the config file)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()
	a, err := newApp(ctx, true)
	if err != nil {
		return err
	}
	defer a.close()

	if cmd.Flags().Changed("port") {
		if servePort < 1 || servePort > 65535 {
			return fmt.Errorf("invalid port %d", servePort)
		}
		a.cfg.Port = servePort
	}

	deps := server.Deps{
		Extractor: a.extractor,
		Matcher:   a.engine,
		Optimizer: a.optimizer,
		Scorer:    a.scorer,
	}
	if a.db != nil {
		deps.Store = a.db
	} else {
		a.log.Info("DATABASE_URL not set; results will not be persisted")
	}

	return server.New(a.cfg, deps, a.log).Start()
}
