package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/perception-cli/internal/model"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start webhook server for perception queries",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return eris.Wrap(err, "migrate store")
		}

		p, err := initPipeline()
		if err != nil {
			return err
		}

		mux := http.NewServeMux()

		mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
		})

		mux.HandleFunc("POST /webhook/query", func(w http.ResponseWriter, r *http.Request) {
			var req struct {
				Brand       string   `json:"brand"`
				Question    string   `json:"question"`
				Products    []string `json:"products"`
				Competitors []string `json:"competitors"`
			}
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
				return
			}
			if req.Brand == "" {
				http.Error(w, `{"error":"brand is required"}`, http.StatusBadRequest)
				return
			}

			brand := model.Brand{
				Name:        req.Brand,
				Question:    req.Question,
				Products:    req.Products,
				Competitors: req.Competitors,
			}
			brand.Normalize()

			run, err := st.CreateRun(ctx, brand)
			if err != nil {
				http.Error(w, `{"error":"failed to queue run"}`, http.StatusInternalServerError)
				return
			}

			// Run the query asynchronously; status is tracked in the store.
			go func() {
				if err := st.UpdateRunStatus(ctx, run.ID, model.RunRunning); err != nil {
					zap.L().Warn("failed to mark run running", zap.String("run_id", run.ID), zap.Error(err))
				}
				result, err := p.Run(ctx, brand)
				if err != nil {
					zap.L().Error("webhook query failed",
						zap.String("brand", brand.Name),
						zap.String("run_id", run.ID),
						zap.Error(err),
					)
					if ferr := st.FailRun(ctx, run.ID, err); ferr != nil {
						zap.L().Warn("failed to record run failure", zap.String("run_id", run.ID), zap.Error(ferr))
					}
					return
				}
				if err := st.UpdateRunResult(ctx, run.ID, result); err != nil {
					zap.L().Error("failed to save run result", zap.String("run_id", run.ID), zap.Error(err))
					return
				}
				zap.L().Info("webhook query complete",
					zap.String("brand", brand.Name),
					zap.String("run_id", run.ID),
				)
			}()

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusAccepted)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "accepted",
				"run_id": run.ID,
				"brand":  brand.Name,
			})
		})

		mux.HandleFunc("GET /runs/{id}", func(w http.ResponseWriter, r *http.Request) {
			run, err := st.GetRun(r.Context(), r.PathValue("id"))
			if err != nil {
				http.Error(w, `{"error":"run not found"}`, http.StatusNotFound)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(run)
		})

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: mux,
		}

		// Graceful shutdown
		go awaitShutdown(ctx, srv)

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

// shutdownTimeout bounds how long in-flight requests may drain.
const shutdownTimeout = 10 * time.Second

// awaitShutdown blocks until ctx is done, then drains the server on a
// fresh timeout context. The trigger context is already expired at that
// point, so passing it to Shutdown would skip the drain entirely.
func awaitShutdown(ctx context.Context, srv *http.Server) {
	<-ctx.Done()
	zap.L().Info("shutting down server")

	drainCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(drainCtx); err != nil {
		zap.L().Warn("server shutdown", zap.Error(err))
	}
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
