package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"frontier/internal/models"
	"frontier/internal/session"
	"frontier/internal/workflows"
	"frontier/pkg/log"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// DiscoveryRunner starts background discoveries. Nil disables the async routes.
type DiscoveryRunner interface {
	Start(ctx context.Context, in workflows.DiscoveryInput) (string, error)
	Progress(ctx context.Context, workflowID string) (workflows.DiscoveryProgress, error)
}

type Server struct {
	sessions      *session.Registry
	discoveries   DiscoveryRunner
	maxConcurrent int
	llmProviders  []string
	logger        *zerolog.Logger
}

var errAsyncDisabled = errors.New("async discovery is disabled")

func NewServer(ctx context.Context, sessions *session.Registry, discoveries DiscoveryRunner, maxConcurrent int) *Server {
	return &Server{
		sessions:      sessions,
		discoveries:   discoveries,
		maxConcurrent: maxConcurrent,
		llmProviders:  []string{},
		logger:        log.FromCtx(ctx),
	}
}

// WithProviders sets the completion providers reported by /healthz.
func (s *Server) WithProviders(names []string) *Server {
	if names != nil {
		s.llmProviders = names
	}
	return s
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealthz)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/sessions", s.handleSessions)
	mux.HandleFunc("/sessions/", s.handleSessionScoped)
	return withCORS(s.withLogger(mux))
}

func (s *Server) withLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(s.logger.WithContext(r.Context())))
	})
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":            true,
		"sessions":      s.sessions.Len(),
		"llm_providers": s.llmProviders,
	})
}

func (s *Server) handleSessions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErr(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed"))
		return
	}
	sess := s.sessions.Create(r.Context())
	writeJSON(w, http.StatusCreated, map[string]any{"session_id": sess.ID, "expertise": sess.Expertise()})
}

func (s *Server) handleSessionScoped(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.Trim(strings.TrimPrefix(r.URL.Path, "/sessions/"), "/"), "/")
	if len(parts) < 1 || parts[0] == "" {
		writeErr(w, http.StatusNotFound, fmt.Errorf("not found"))
		return
	}
	sessionID := parts[0]

	if len(parts) == 1 && r.Method == http.MethodDelete {
		if err := s.sessions.Delete(r.Context(), sessionID); err != nil {
			writeErr(w, http.StatusNotFound, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
		return
	}

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		writeErr(w, http.StatusNotFound, err)
		return
	}

	route := ""
	if len(parts) > 1 {
		route = parts[1]
	}
	switch {
	case len(parts) == 1:
		if r.Method != http.MethodGet {
			writeErr(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed"))
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"session_id": sess.ID,
			"stats":      sess.Stats(),
			"papers":     sess.Corpus().Entries(),
			"transcript": sess.Conversation().Transcript(),
		})
	case len(parts) == 2 && route == "topics":
		if !requireMethod(w, r, http.MethodPost) {
			return
		}
		s.handleTopic(w, r, sess)
	case len(parts) == 2 && route == "topics:async":
		if !requireMethod(w, r, http.MethodPost) {
			return
		}
		s.handleTopicAsync(w, r, sess)
	case len(parts) == 3 && route == "discoveries":
		if !requireMethod(w, r, http.MethodGet) {
			return
		}
		s.handleDiscoveryProgress(w, r, sess, parts[2])
	case len(parts) == 2 && route == "chat":
		if !requireMethod(w, r, http.MethodPost) {
			return
		}
		s.handleChat(w, r, sess)
	case len(parts) == 2 && route == "clear":
		if !requireMethod(w, r, http.MethodPost) {
			return
		}
		sess.HandleClearRequested(r.Context(), session.ClearRequested{})
		writeJSON(w, http.StatusOK, map[string]any{"stats": sess.Stats()})
	default:
		writeErr(w, http.StatusNotFound, fmt.Errorf("not found"))
	}
}

type topicRequest struct {
	Topic     string `json:"topic"`
	Expertise string `json:"expertise"`
	ResultCap int    `json:"result_cap"`
}

type paperResult struct {
	models.PaperRecord
	Summary string `json:"summary,omitempty"`
	Cached  bool   `json:"cached"`
	Failed  bool   `json:"failed"`
	Error   string `json:"error,omitempty"`
}

func (s *Server) decodeTopic(r *http.Request) (session.TopicSubmitted, error) {
	var req topicRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return session.TopicSubmitted{}, fmt.Errorf("invalid json: %w", err)
	}
	level, err := parseLevel(req.Expertise)
	if err != nil {
		return session.TopicSubmitted{}, err
	}
	if req.ResultCap < 0 {
		return session.TopicSubmitted{}, session.ErrInvalidResultCap
	}
	return session.TopicSubmitted{Topic: req.Topic, Expertise: level, ResultCap: req.ResultCap}, nil
}

func (s *Server) handleTopic(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	ev, err := s.decodeTopic(r)
	if err != nil {
		writeErr(w, http.StatusBadRequest, err)
		return
	}
	res, err := sess.HandleTopicSubmitted(r.Context(), ev, nil)
	if err != nil {
		writeErr(w, statusFor(err), err)
		return
	}
	if res.Empty {
		writeJSON(w, http.StatusOK, map[string]any{"status": "empty", "topic": res.Topic, "papers": []paperResult{}})
		return
	}
	papers := make([]paperResult, 0, len(res.Items))
	for _, it := range res.Items {
		pr := paperResult{PaperRecord: it.Paper, Cached: it.Cached}
		if it.Err != nil {
			pr.Failed = true
			pr.Error = it.Err.Error()
		} else {
			pr.Summary = it.Entry.Summary
		}
		papers = append(papers, pr)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"topic":  res.Topic,
		"papers": papers,
		"stats":  res.Stats,
	})
}

func (s *Server) handleTopicAsync(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	if s.discoveries == nil {
		writeErr(w, http.StatusConflict, errAsyncDisabled)
		return
	}
	ev, err := s.decodeTopic(r)
	if err != nil {
		writeErr(w, http.StatusBadRequest, err)
		return
	}
	ev, err = sess.PrepareDiscovery(ev)
	if err != nil {
		writeErr(w, http.StatusBadRequest, err)
		return
	}
	id, err := s.discoveries.Start(r.Context(), workflows.DiscoveryInput{
		SessionID:     sess.ID,
		Topic:         ev.Topic,
		Expertise:     ev.Expertise,
		ResultCap:     ev.ResultCap,
		MaxConcurrent: s.maxConcurrent,
	})
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]any{"workflow_id": id, "topic": ev.Topic})
}

func (s *Server) handleDiscoveryProgress(w http.ResponseWriter, r *http.Request, sess *session.Session, workflowID string) {
	if s.discoveries == nil {
		writeErr(w, http.StatusConflict, errAsyncDisabled)
		return
	}
	if !strings.HasPrefix(workflowID, "discovery-"+sess.ID+"-") {
		writeErr(w, http.StatusNotFound, fmt.Errorf("discovery %s not found", workflowID))
		return
	}
	p, err := s.discoveries.Progress(r.Context(), workflowID)
	if err != nil {
		writeErr(w, http.StatusNotFound, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	var req struct {
		Question  string `json:"question"`
		Expertise string `json:"expertise"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("invalid json: %w", err))
		return
	}
	level, err := parseLevel(req.Expertise)
	if err != nil {
		writeErr(w, http.StatusBadRequest, err)
		return
	}
	out := sess.HandleChatSubmitted(r.Context(), session.ChatSubmitted{Question: req.Question, Expertise: level})
	appended := out.Appended
	if appended == nil {
		appended = []models.ChatTurn{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":     out.Status,
		"appended":   appended,
		"transcript": sess.Conversation().Transcript(),
	})
}

func parseLevel(raw string) (models.Expertise, error) {
	if strings.TrimSpace(raw) == "" {
		return "", nil
	}
	return models.ParseExpertise(raw)
}

func requireMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		writeErr(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed"))
		return false
	}
	return true
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, session.ErrEmptyTopic), errors.Is(err, session.ErrInvalidResultCap), errors.Is(err, models.ErrUnknownExpertise):
		return http.StatusBadRequest
	case errors.Is(err, session.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, session.ErrFetch):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, err error) {
	apiErr := toAPIError(code, err)
	writeJSON(w, code, map[string]any{
		"error": map[string]any{
			"code":    apiErr.Code,
			"message": apiErr.Message,
		},
	})
}

type apiError struct {
	Code    string
	Message string
}

func toAPIError(status int, err error) apiError {
	msg := "Request failed."
	code := "FR-API-4000"

	switch {
	case status == http.StatusBadGateway:
		return apiError{Code: "FR-API-5020", Message: "Paper search is unavailable. Retry shortly."}
	case status >= 500:
		return apiError{Code: "FR-API-5000", Message: "Internal server error. Please retry or check service logs."}
	case status == http.StatusBadRequest:
		code = "FR-API-4001"
		msg = "Invalid request. Check inputs and retry."
	case status == http.StatusNotFound:
		code = "FR-API-4004"
		msg = "Requested resource was not found."
	case status == http.StatusConflict:
		code = "FR-API-4009"
		msg = "Operation conflicts with current state."
	case status == http.StatusMethodNotAllowed:
		code = "FR-API-4005"
		msg = "This endpoint does not support the requested method."
	}

	// For 4xx, keep user-safe validation context only.
	if err != nil {
		switch {
		case errors.Is(err, session.ErrEmptyTopic):
			msg = "Topic is required."
		case errors.Is(err, session.ErrInvalidResultCap):
			msg = "Result cap must be a positive number."
		case errors.Is(err, models.ErrUnknownExpertise):
			msg = "Expertise must be Beginner, Intermediate or Advanced."
		case errors.Is(err, session.ErrSessionNotFound):
			msg = "Session was not found."
		case errors.Is(err, errAsyncDisabled):
			msg = "Background discovery is not enabled on this server."
		case strings.Contains(strings.ToLower(err.Error()), "invalid json"):
			msg = "Malformed JSON request body."
		}
	}
	return apiError{Code: code, Message: msg}
}

func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,DELETE,OPTIONS")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
