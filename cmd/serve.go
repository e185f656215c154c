package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/gamejoin/internal/linkage"
	"github.com/sells-group/gamejoin/internal/match"
	"github.com/sells-group/gamejoin/internal/model"
	"github.com/sells-group/gamejoin/internal/store"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the match lookup server",
	Long:  "Loads the cleaned sales and ratings tables once and answers single-game match requests over HTTP.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := cfg.Validate("serve"); err != nil {
			return err
		}

		m, err := initMatcher()
		if err != nil {
			return err
		}

		tables, err := linkage.Load(ctx, linkage.Inputs{
			SalesPath:   cfg.Paths.Sales,
			RatingsPath: cfg.Paths.Ratings,
		})
		if err != nil {
			return eris.Wrap(err, "serve: load tables")
		}
		zap.L().Info("lookup tables loaded",
			zap.Int("sales", tables.Sales.Len()),
			zap.Int("ratings", tables.Ratings.Len()),
		)

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		if st != nil {
			defer st.Close() //nolint:errcheck
		}

		return startServer(ctx, buildRouter(tables, m, st), resolvePort(servePort, cfg.Server.Port))
	},
}

// resolvePort prefers the flag value over the configured port.
func resolvePort(flagPort, cfgPort int) int {
	if flagPort != 0 {
		return flagPort
	}
	return cfgPort
}

// startServer serves h on port until ctx is cancelled, then shuts down.
func startServer(ctx context.Context, h http.Handler, port int) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	go func() {
		<-ctx.Done()
		zap.L().Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	zap.L().Info("starting server", zap.Int("port", port))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return eris.Wrap(err, "server listen")
	}
	return nil
}

// matchRequest is the curated row to match. Only name is required; an
// omitted text field becomes model.NotAvailable.
type matchRequest struct {
	Name        string  `json:"name"`
	ReleaseYear *string `json:"release_year"`
	Developer   *string `json:"developer"`
	Publisher   *string `json:"publisher"`
	Rating      *string `json:"rating"`
	Review      *string `json:"review"`
}

func (r matchRequest) source() model.SourceRecord {
	text := func(s *string) model.Text {
		if s == nil {
			return model.NotAvailable
		}
		return model.Text(*s)
	}
	return model.SourceRecord{
		Game:        r.Name,
		ReleaseYear: text(r.ReleaseYear),
		Developer:   text(r.Developer),
		Publisher:   text(r.Publisher),
		Rating:      text(r.Rating),
		Review:      text(r.Review),
	}
}

type candidateJSON struct {
	Name     string  `json:"name,omitempty"`
	Score    float64 `json:"score"`
	Found    bool    `json:"found"`
	Accepted bool    `json:"accepted"`
	// HasData is set when the record carries at least one measure from
	// this table.
	HasData bool `json:"has_data"`
}

func newCandidateJSON(r match.Result, accepted, hasData bool) candidateJSON {
	return candidateJSON{Name: r.Name, Score: r.Score, Found: r.Found, Accepted: accepted, HasData: hasData}
}

type matchResponse struct {
	Record  model.CombinedRecord `json:"record"`
	Sales   candidateJSON        `json:"sales"`
	Ratings candidateJSON        `json:"ratings"`
}

// buildRouter wires the HTTP routes. st may be nil, in which case the run
// history routes answer 503.
func buildRouter(tables *linkage.Tables, m *linkage.Matcher, st store.Store) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Post("/v1/match", func(w http.ResponseWriter, req *http.Request) {
		var body matchRequest
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			respondError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if body.Name == "" {
			respondError(w, http.StatusBadRequest, "name is required")
			return
		}
		if tables == nil || m == nil {
			respondError(w, http.StatusServiceUnavailable, "lookup tables not loaded")
			return
		}

		out := m.Explain(body.source(), tables.Sales, tables.Ratings)
		respondJSON(w, http.StatusOK, matchResponse{
			Record:  out.Record,
			Sales:   newCandidateJSON(out.Sales, out.SalesAccepted, out.Record.HasSales()),
			Ratings: newCandidateJSON(out.Ratings, out.RatingsAccepted, out.Record.HasRatings()),
		})
	})

	r.Route("/v1/runs", func(r chi.Router) {
		r.Use(requireStoreMiddleware(st))

		r.Get("/", func(w http.ResponseWriter, req *http.Request) {
			filter := store.RunFilter{Status: model.RunStatus(req.URL.Query().Get("status"))}
			if v := req.URL.Query().Get("limit"); v != "" {
				n, err := strconv.Atoi(v)
				if err != nil || n < 0 {
					respondError(w, http.StatusBadRequest, "invalid limit")
					return
				}
				filter.Limit = n
			}
			runs, err := st.ListRuns(req.Context(), filter)
			if err != nil {
				storeError(w, err)
				return
			}
			if runs == nil {
				runs = []model.Run{}
			}
			respondJSON(w, http.StatusOK, runs)
		})

		r.Get("/{id}", func(w http.ResponseWriter, req *http.Request) {
			run, err := st.GetRun(req.Context(), chi.URLParam(req, "id"))
			if err != nil {
				storeError(w, err)
				return
			}
			respondJSON(w, http.StatusOK, run)
		})

		r.Get("/{id}/records", func(w http.ResponseWriter, req *http.Request) {
			records, err := st.Records(req.Context(), chi.URLParam(req, "id"))
			if err != nil {
				storeError(w, err)
				return
			}
			if records == nil {
				records = []model.CombinedRecord{}
			}
			respondJSON(w, http.StatusOK, records)
		})
	})

	return r
}

func requireStoreMiddleware(st store.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if st == nil {
				respondError(w, http.StatusServiceUnavailable, "run store not configured")
				return
			}
			next.ServeHTTP(w, req)
		})
	}
}

func storeError(w http.ResponseWriter, err error) {
	if errors.Is(err, store.ErrRunNotFound) {
		respondError(w, http.StatusNotFound, "run not found")
		return
	}
	zap.L().Error("store request failed", zap.Error(err))
	respondError(w, http.StatusInternalServerError, "internal error")
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
