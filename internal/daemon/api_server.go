package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"contentops/internal/api"
	"contentops/internal/config"
	"contentops/internal/logging"
	"contentops/internal/services"
	"contentops/internal/workflow"
)

// maxBodyBytes bounds request bodies; scripts are long but not that long.
const maxBodyBytes = 4 << 20

type apiServer struct {
	bind    string
	logger  *slog.Logger
	daemon  *Daemon
	engine  *workflow.Engine
	handler http.Handler

	mu       sync.Mutex
	listener net.Listener
	server   *http.Server
}

func newAPIServer(cfg *config.Config, d *Daemon, logger *slog.Logger) *apiServer {
	srv := &apiServer{
		bind:   strings.TrimSpace(cfg.API.Bind),
		logger: logging.NewComponentLogger(logger, "api-server"),
		daemon: d,
		engine: d.engine,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/status", srv.handleStatus)
	mux.HandleFunc("GET /api/templates", srv.handleTemplates)
	mux.HandleFunc("GET /api/timeline", srv.handleTimelinePreview)

	mux.HandleFunc("GET /api/episodes", srv.handleListEpisodes)
	mux.HandleFunc("POST /api/episodes", srv.handleScheduleEpisode)
	mux.HandleFunc("GET /api/episodes/{id}", srv.handleGetEpisode)
	mux.HandleFunc("POST /api/episodes/{id}/reschedule", srv.handleReschedule)
	mux.HandleFunc("GET /api/episodes/{id}/milestones", srv.handleListMilestones)
	mux.HandleFunc("GET /api/milestones/overdue", srv.handleOverdue)
	mux.HandleFunc("PATCH /api/milestones/{id}", srv.handleUpdateMilestone)
	mux.HandleFunc("POST /api/milestones/{id}/complete", srv.handleCompleteMilestone)

	mux.HandleFunc("GET /api/episodes/{id}/content/{type}", srv.handleGetContent)
	mux.HandleFunc("POST /api/episodes/{id}/content/{type}/versions", srv.handleSaveVersion)
	mux.HandleFunc("GET /api/episodes/{id}/content/{type}/versions/{n}/preview", srv.handlePreviewVersion)
	mux.HandleFunc("POST /api/episodes/{id}/content/{type}/{action}", srv.handleContentAction)
	mux.HandleFunc("POST /api/content/{id}/feedback", srv.handleAddFeedback)
	mux.HandleFunc("POST /api/feedback/{id}/resolve", srv.handleResolveFeedback)
	mux.HandleFunc("POST /api/feedback/{id}/unresolve", srv.handleUnresolveFeedback)

	mux.HandleFunc("POST /api/projects/{id}/stories", srv.handleRecordStory)
	mux.HandleFunc("GET /api/projects/{id}/clusters", srv.handlePreviewClusters)
	mux.HandleFunc("POST /api/projects/{id}/proposals/generate", srv.handleGenerateProposals)
	mux.HandleFunc("GET /api/projects/{id}/proposals", srv.handleListProposals)
	mux.HandleFunc("PATCH /api/proposals/{id}", srv.handleProposalStatus)

	srv.handler = requestMiddleware(authMiddleware(cfg.API.Token, mux))
	return srv
}

func (s *apiServer) start(ctx context.Context) error {
	if s.bind == "" {
		return nil
	}
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	server := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
	s.mu.Lock()
	s.listener = listener
	s.server = server
	s.mu.Unlock()

	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("api server error", logging.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		s.stop()
	}()

	s.logger.Info("api server listening", logging.String("address", listener.Addr().String()))
	return nil
}

func (s *apiServer) stop() {
	s.mu.Lock()
	server := s.server
	s.server = nil
	s.listener = nil
	s.mu.Unlock()
	if server == nil {
		return
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = server.Shutdown(shutdownCtx)
}

func (s *apiServer) address() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

func (s *apiServer) handleStatus(w http.ResponseWriter, r *http.Request) {
	status := s.daemon.Status(r.Context())
	payload := api.FromStatusSummary(status.Engine, status.PID, status.LockFilePath)
	payload.Running = status.Running
	s.writeJSON(w, http.StatusOK, payload)
}

func (s *apiServer) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to encode response", logging.Error(err))
	}
}

func (s *apiServer) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := api.StatusForError(err)
	if status >= http.StatusInternalServerError {
		logging.WithContext(r.Context(), s.logger).Error("api request failed",
			logging.String("method", r.Method),
			logging.String("path", r.URL.Path),
			logging.Int("status", status),
			logging.Error(err),
		)
	}
	s.writeJSON(w, status, api.NewErrorResponse(err))
}

// decodeJSON reads a JSON body into dst. An empty body is accepted only when
// optional is set.
func decodeJSON(r *http.Request, dst any, optional bool) error {
	decoder := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) && optional {
			return nil
		}
		return services.Validation("api", "decode body", "invalid JSON body: %v", err)
	}
	return nil
}

func pathID(r *http.Request, name string) (int64, error) {
	value := r.PathValue(name)
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil || id <= 0 {
		return 0, services.Validation("api", "parse path", "invalid %s %q", name, value)
	}
	return id, nil
}

func queryInt64(r *http.Request, name string) (int64, error) {
	value := strings.TrimSpace(r.URL.Query().Get(name))
	if value == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil || n < 0 {
		return 0, services.Validation("api", "parse query", "invalid %s %q", name, value)
	}
	return n, nil
}

func queryBool(r *http.Request, name string) bool {
	value := strings.TrimSpace(r.URL.Query().Get(name))
	return value == "1" || strings.EqualFold(value, "true")
}
