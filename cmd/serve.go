package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/urbandata-br/ruido-cli/internal/geofile"
	"github.com/urbandata-br/ruido-cli/internal/server"
)

var (
	serveIn   string
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve a classified file over a read-only HTTP API",
	Long: "Loads a classified GeoJSON file once and serves it to the presentation layer: " +
		"filtered record listings, frequency summaries, and ad hoc rule evaluation. " +
		"The dataset is immutable for the lifetime of the process; rerun the pipeline " +
		"and restart to pick up new data.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		records, err := geofile.Read(serveIn)
		if err != nil {
			return eris.Wrap(err, "serve: load input")
		}

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: server.New(records, cfg.Server).Router(),
		}

		errCh := make(chan error, 1)
		go func() {
			zap.L().Info("serving classified records",
				zap.Int("records", len(records)),
				zap.Int("port", port),
			)
			errCh <- srv.ListenAndServe()
		}()

		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return eris.Wrap(err, "serve: shutdown")
			}
			return nil
		case err := <-errCh:
			if err != nil && !eris.Is(err, http.ErrServerClosed) {
				return eris.Wrap(err, "serve: listen")
			}
			return nil
		}
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveIn, "in", "", "classified GeoJSON file (required)")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "listen port (default: from config)")
	_ = serveCmd.MarkFlagRequired("in")
	rootCmd.AddCommand(serveCmd)
}
