package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/cobra"

	"github.com/scenemend/scenemend/pkg/archive"
	apperrors "github.com/scenemend/scenemend/pkg/errors"
	"github.com/scenemend/scenemend/pkg/observability"
	"github.com/scenemend/scenemend/pkg/pipeline"
)

// serveCommand creates the API server command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		listen   string
		mongoURI string
		noCache  bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the repair API server",
		Long: `Serve exposes the repair pipeline over HTTP.

Endpoints:
  POST /v1/repairs      repair a script, returns the result and a run ID
  GET  /v1/repairs/{id} fetch the metadata of a previous run
  GET  /healthz         liveness check

Run records are kept in MongoDB when server.mongo_uri is configured,
otherwise in memory.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if listen == "" {
				listen = c.Config.Server.Listen
			}
			if mongoURI == "" {
				mongoURI = c.Config.Server.MongoURI
			}

			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return fmt.Errorf("create runner: %w", err)
			}
			defer runner.Close()

			store, err := newArchiveStore(ctx, mongoURI)
			if err != nil {
				return fmt.Errorf("create run archive: %w", err)
			}
			defer store.Close(context.Background())

			srv := &server{runner: runner, store: store, cli: c}
			httpServer := &http.Server{
				Addr:              listen,
				Handler:           srv.routes(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				c.Logger.Info("listening", "addr", listen)
				errCh <- httpServer.ListenAndServe()
			}()

			select {
			case <-ctx.Done():
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				_ = httpServer.Shutdown(shutdownCtx)
				return ctx.Err()
			case err := <-errCh:
				if err == http.ErrServerClosed {
					return nil
				}
				return err
			}
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "", "listen address (overrides config)")
	cmd.Flags().StringVar(&mongoURI, "mongo", "", "MongoDB URI for the run archive (overrides config)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable result caching")

	return cmd
}

// newArchiveStore selects the run archive backend.
func newArchiveStore(ctx context.Context, mongoURI string) (archive.Store, error) {
	if mongoURI == "" {
		return archive.NewMemoryStore(), nil
	}
	return archive.NewMongoStore(ctx, mongoURI)
}

// =============================================================================
// HTTP Server
// =============================================================================

type server struct {
	runner *pipeline.Runner
	store  archive.Store
	cli    *CLI
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(s.observe)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/repairs", s.handleRepair)
		r.Get("/repairs/{id}", s.handleGetRun)
	})

	return r
}

// observe reports request and response events to the HTTP hooks and logs
// each served request.
func (s *server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		observability.HTTP().OnRequest(r.Context(), r.Method, r.URL.Path)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		elapsed := time.Since(start)
		observability.HTTP().OnResponse(r.Context(), r.Method, r.URL.Path, rec.status, elapsed)
		s.cli.Logger.Debug("served request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", elapsed)
	})
}

// statusRecorder captures the response status code for logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// =============================================================================
// Handlers
// =============================================================================

// repairRequest is the POST /v1/repairs request body.
type repairRequest struct {
	Source  string `json:"source"`
	Refresh bool   `json:"refresh,omitempty"`
}

// repairResponse is the POST /v1/repairs response body.
type repairResponse struct {
	ID        string `json:"id"`
	Output    string `json:"output"`
	Status    string `json:"status"`
	Lines     int    `json:"lines"`
	Cached    bool   `json:"cached"`
	InputHash string `json:"input_hash"`
}

func (s *server) handleRepair(w http.ResponseWriter, r *http.Request) {
	if ct := r.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(ct, "application/json") {
		writeError(w, http.StatusUnsupportedMediaType, apperrors.New(apperrors.ErrCodeUnsupported, "unsupported content type %q", ct))
		return
	}

	var req repairRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, apperrors.New(apperrors.ErrCodeInvalidInput, "invalid JSON body"))
		return
	}

	start := time.Now()
	result, err := s.runner.Execute(r.Context(), pipeline.Options{
		Source:  req.Source,
		Refresh: req.Refresh,
		Logger:  s.cli.Logger,
	})
	if err != nil {
		writeError(w, statusForError(err), err)
		return
	}

	run := archive.NewRun(result.InputHash, result.Status.String(),
		result.Stats.LineCount, time.Since(start), result.CacheInfo.RepairHit)
	if err := s.store.Put(r.Context(), run); err != nil {
		s.cli.Logger.Error("archive run", "err", err)
	}

	writeJSON(w, http.StatusOK, repairResponse{
		ID:        run.ID,
		Output:    result.Output,
		Status:    result.Status.String(),
		Lines:     result.Stats.LineCount,
		Cached:    result.CacheInfo.RepairHit,
		InputHash: result.InputHash,
	})
}

func (s *server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	run, err := s.store.Get(r.Context(), id)
	switch err {
	case nil:
		writeJSON(w, http.StatusOK, run)
	case archive.ErrNotFound, archive.ErrExpired:
		writeError(w, http.StatusNotFound, apperrors.New(apperrors.ErrCodeRunNotFound, "run %s not found", id))
	default:
		writeError(w, http.StatusInternalServerError, apperrors.Wrap(apperrors.ErrCodeInternal, err, "fetch run"))
	}
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// Responses
// =============================================================================

// errorBody is the JSON error envelope.
type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	var body errorBody
	body.Error.Code = string(apperrors.GetCode(err))
	if body.Error.Code == "" {
		body.Error.Code = string(apperrors.ErrCodeInternal)
	}
	body.Error.Message = apperrors.UserMessage(err)
	writeJSON(w, status, body)
}

// statusForError maps application error codes to HTTP status codes.
func statusForError(err error) int {
	switch apperrors.GetCode(err) {
	case apperrors.ErrCodeInvalidInput, apperrors.ErrCodeInvalidSource:
		return http.StatusBadRequest
	case apperrors.ErrCodeSourceTooLarge:
		return http.StatusRequestEntityTooLarge
	case apperrors.ErrCodeNotFound, apperrors.ErrCodeRunNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
