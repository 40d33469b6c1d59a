package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os/signal"
	"strings"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/resume-intel/internal/config"
	"github.com/sells-group/resume-intel/internal/doctext"
	"github.com/sells-group/resume-intel/internal/pipeline"
	"github.com/sells-group/resume-intel/pkg/github"
)

// maxUploadBytes caps resume payloads; anything larger is rejected before
// text extraction.
const maxUploadBytes = 20 << 20

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the resume analysis HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		gh := github.NewClient(cfg.GitHub.Token, github.WithBaseURL(cfg.GitHub.BaseURL))
		analyzer := pipeline.New(gh)
		docs := doctext.New(cfg.DocText.PdfToTextPath)

		r := newRouter(analyzer, docs, cfg.Server)

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: r,
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			srv.Shutdown(ctx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

// newRouter assembles the HTTP surface: health check plus the analyze
// endpoint, behind CORS and a global rate limit.
func newRouter(analyzer *pipeline.Analyzer, docs *doctext.Service, srvCfg config.ServerConfig) chi.Router {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))
	r.Use(rateLimit(rate.Limit(srvCfg.RequestsPerSecond)))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	r.Post("/api/analyze", analyzeHandler(analyzer, docs))

	return r
}

// rateLimit applies a global token-bucket limit across all callers. Each
// analyze request fans out to a bounded but nonzero number of GitHub API
// calls, so inbound pacing protects the upstream quota.
func rateLimit(limit rate.Limit) func(http.Handler) http.Handler {
	limiter := rate.NewLimiter(limit, int(limit)+1)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				http.Error(w, `{"error":"too many requests"}`, http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// analyzeHandler accepts either a JSON body {"text": ...} or a multipart
// form carrying a resume file, extracts text, and runs the pipeline.
func analyzeHandler(analyzer *pipeline.Analyzer, docs *doctext.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		text, err := requestText(r, docs)
		if err != nil {
			http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
			return
		}

		result, err := analyzer.AnalyzeText(r.Context(), text)
		if err != nil {
			zap.L().Error("serve: analysis failed", zap.Error(err))
			http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
			return
		}

		payload, err := json.Marshal(result)
		if err != nil {
			// The only fatal path: a result that cannot be serialized.
			zap.L().Error("serve: result serialization failed", zap.Error(err))
			http.Error(w, `{"error":"result serialization failed"}`, http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write(payload)
	}
}

// requestText pulls resume text out of the request. Multipart uploads check
// the conventional field names in order, then fall back to a bare text
// field; JSON bodies carry the text inline.
func requestText(r *http.Request, docs *doctext.Service) (string, error) {
	ct := r.Header.Get("Content-Type")

	if !isMultipart(ct) {
		var body struct {
			Text string `json:"text"`
		}
		if err := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxUploadBytes)).Decode(&body); err != nil {
			return "", eris.Wrap(err, "serve: decode json body")
		}
		return body.Text, nil
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return "", eris.Wrap(err, "serve: parse multipart form")
	}

	for _, field := range []string{"file", "resume", "resume-file"} {
		file, header, err := r.FormFile(field)
		if err != nil {
			continue
		}
		payload, readErr := readAllAndClose(file)
		if readErr != nil {
			return "", readErr
		}
		return docs.Extract(r.Context(), payload, header.Header.Get("Content-Type"), header.Filename), nil
	}

	return r.FormValue("text"), nil
}

func isMultipart(contentType string) bool {
	return strings.HasPrefix(contentType, "multipart/form-data")
}

func readAllAndClose(f io.ReadCloser) ([]byte, error) {
	defer f.Close() //nolint:errcheck
	payload, err := io.ReadAll(f)
	if err != nil {
		return nil, eris.Wrap(err, "serve: read upload")
	}
	return payload, nil
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
