package httpserver

import (
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	appanalysis "github.com/iterativai/empathic-venture-forge/internal/application/analysis"
	appchat "github.com/iterativai/empathic-venture-forge/internal/application/chat"
	appenrich "github.com/iterativai/empathic-venture-forge/internal/application/enrich"
	domai "github.com/iterativai/empathic-venture-forge/internal/domain/ai"
	domain "github.com/iterativai/empathic-venture-forge/internal/domain/analysis"
	domchat "github.com/iterativai/empathic-venture-forge/internal/domain/chat"
	"github.com/iterativai/empathic-venture-forge/internal/infra/notify"
	"github.com/iterativai/empathic-venture-forge/internal/middleware"
)

// maxUploadBytes bounds one multipart submission held in memory.
const maxUploadBytes = 32 << 20

type Router struct {
	analysesSvc *appanalysis.Service
	enrichSvc   *appenrich.Service
	chatSvc     *appchat.Service
	hub         *notify.Hub
	log         *zap.Logger
}

func NewRouter(analysesSvc *appanalysis.Service, enrichSvc *appenrich.Service, chatSvc *appchat.Service, hub *notify.Hub, log *zap.Logger) http.Handler {
	r := &Router{analysesSvc: analysesSvc, enrichSvc: enrichSvc, chatSvc: chatSvc, hub: hub, log: log}
	mux := chi.NewRouter()

	// Browser clients call the function endpoint directly, so CORS is
	// wide open with the headers the dashboard SDK sends.
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"authorization", "x-client-info", "apikey", "content-type"},
	}))

	mux.Route("/v1/{tenant}", func(rt chi.Router) {
		rt.Use(middleware.RequireTenantMatch)
		rt.Post("/functions/analyze-business-plan", r.wrap(r.handleAnalyzeFunction))
		rt.Post("/analyses", r.wrap(r.handleSubmit))
		rt.Get("/analyses", r.wrap(r.handleList))
		rt.Get("/analyses/latest", r.wrap(r.handleLatest))
		rt.Get("/analyses/{id}", r.wrap(r.handleGet))
		rt.Get("/analyses/{id}/view", r.wrap(r.handleView))
		rt.Get("/analyses/{id}/events", r.wrap(r.handleEvents))
		rt.Post("/chat", r.wrap(r.handleChat))
		rt.Post("/conversations", r.wrap(r.handleStartConversation))
		rt.Get("/conversations/{id}/messages", r.wrap(r.handleMessages))
	})

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if err := h(w, req); err != nil {
			switch {
			case errors.Is(err, sql.ErrNoRows):
				writeError(w, http.StatusNotFound, "not found")
			case errors.Is(err, appenrich.ErrMissingFields):
				writeError(w, http.StatusBadRequest, "Missing required fields")
			case errors.Is(err, domai.ErrRateLimited):
				writeError(w, http.StatusTooManyRequests, "Rate limit exceeded. Please try again later.")
			case errors.Is(err, domai.ErrPaymentRequired):
				writeError(w, http.StatusPaymentRequired, "AI credits depleted. Please add credits to continue.")
			default:
				writeError(w, http.StatusInternalServerError, err.Error())
			}
		}
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, v any) error {
	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(v)
}

// POST /v1/{tenant}/functions/analyze-business-plan
// Body: {"analysisId": "<id>", "fileContent": "<text>"}
// Synchronous variant of the worker: blocks until the report is ready.
func (r *Router) handleAnalyzeFunction(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		AnalysisID  string `json:"analysisId"`
		FileContent string `json:"fileContent"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return appenrich.ErrMissingFields
	}

	rep, err := r.enrichSvc.Analyze(req.Context(), domain.AnalysisID(body.AnalysisID), body.FileContent)
	if err != nil {
		return err
	}

	return writeJSON(w, map[string]any{
		"success":  true,
		"analysis": rep,
	})
}

// POST /v1/{tenant}/analyses
// Multipart form, field "files": one record per file, enrichment runs
// in the background.
func (r *Router) handleSubmit(w http.ResponseWriter, req *http.Request) error {
	tenant := chi.URLParam(req, "tenant")
	if err := middleware.ValidateTenantID(tenant); err != nil {
		return err
	}
	if err := req.ParseMultipartForm(maxUploadBytes); err != nil {
		return err
	}

	var files []appanalysis.UploadFile
	for _, fh := range req.MultipartForm.File["files"] {
		if err := middleware.ValidateFileName(fh.Filename); err != nil {
			return err
		}
		f, err := fh.Open()
		if err != nil {
			return err
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return err
		}
		files = append(files, appanalysis.UploadFile{
			Name:        fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Data:        data,
		})
	}
	if len(files) == 0 {
		return errors.New("no files provided")
	}

	results := r.analysesSvc.SubmitBatch(req.Context(), tenant, files)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	return json.NewEncoder(w).Encode(map[string]any{
		"results": results,
	})
}

// GET /v1/{tenant}/analyses?page=&page_size=
func (r *Router) handleList(w http.ResponseWriter, req *http.Request) error {
	tenant := chi.URLParam(req, "tenant")
	page, _ := strconv.Atoi(req.URL.Query().Get("page"))
	size, _ := strconv.Atoi(req.URL.Query().Get("page_size"))

	list, err := r.analysesSvc.Paginate(req.Context(), tenant, page, middleware.ValidatePageSize(size))
	if err != nil {
		return err
	}
	return writeJSON(w, list)
}

// GET /v1/{tenant}/analyses/latest?limit=20
func (r *Router) handleLatest(w http.ResponseWriter, req *http.Request) error {
	tenant := chi.URLParam(req, "tenant")
	limit, _ := strconv.Atoi(req.URL.Query().Get("limit"))

	list, err := r.analysesSvc.Latest(req.Context(), tenant, middleware.ValidateLimit(limit))
	if err != nil {
		return err
	}
	return writeJSON(w, list)
}

// GET /v1/{tenant}/analyses/{id}
func (r *Router) handleGet(w http.ResponseWriter, req *http.Request) error {
	tenant := chi.URLParam(req, "tenant")
	id := chi.URLParam(req, "id")
	if err := middleware.ValidateAnalysisID(id); err != nil {
		return err
	}

	rec, err := r.analysesSvc.Get(req.Context(), tenant, domain.AnalysisID(id))
	if err != nil {
		return err
	}
	return writeJSON(w, rec)
}

// GET /v1/{tenant}/analyses/{id}/view
// Rendered projection: dimension rows with tiers, verdict text.
func (r *Router) handleView(w http.ResponseWriter, req *http.Request) error {
	tenant := chi.URLParam(req, "tenant")
	id := chi.URLParam(req, "id")
	if err := middleware.ValidateAnalysisID(id); err != nil {
		return err
	}

	rec, err := r.analysesSvc.Get(req.Context(), tenant, domain.AnalysisID(id))
	if err != nil {
		return err
	}
	return writeJSON(w, domain.BuildView(rec))
}

// GET /v1/{tenant}/analyses/{id}/events (websocket)
func (r *Router) handleEvents(w http.ResponseWriter, req *http.Request) error {
	tenant := chi.URLParam(req, "tenant")
	id := chi.URLParam(req, "id")
	if err := middleware.ValidateAnalysisID(id); err != nil {
		return err
	}

	// Biar channel gak bisa dipakai ngintip record orang lain
	if _, err := r.analysesSvc.Get(req.Context(), tenant, domain.AnalysisID(id)); err != nil {
		return err
	}

	r.hub.Serve(w, req, domain.AnalysisID(id))
	return nil
}

// POST /v1/{tenant}/chat
// Body: {"agentType": "co_founder", "conversationId": "", "messages": [...]}
func (r *Router) handleChat(w http.ResponseWriter, req *http.Request) error {
	tenant := chi.URLParam(req, "tenant")
	var body struct {
		AgentType      string          `json:"agentType"`
		ConversationID string          `json:"conversationId"`
		Messages       []domai.Message `json:"messages"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return err
	}

	reply, err := r.chatSvc.Send(req.Context(), appchat.TurnCommand{
		UserID:         tenant,
		ConversationID: domchat.ConversationID(body.ConversationID),
		AgentType:      domchat.AgentType(body.AgentType),
		Messages:       body.Messages,
	})
	if err != nil {
		return err
	}
	return writeJSON(w, map[string]string{"message": reply})
}

// POST /v1/{tenant}/conversations
func (r *Router) handleStartConversation(w http.ResponseWriter, req *http.Request) error {
	tenant := chi.URLParam(req, "tenant")
	var body struct {
		AgentType string `json:"agentType"`
		Title     string `json:"title"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return err
	}

	conv, err := r.chatSvc.StartConversation(req.Context(), tenant, domchat.AgentType(body.AgentType), body.Title)
	if err != nil {
		return err
	}
	return writeJSON(w, conv)
}

// GET /v1/{tenant}/conversations/{id}/messages
func (r *Router) handleMessages(w http.ResponseWriter, req *http.Request) error {
	tenant := chi.URLParam(req, "tenant")
	id := chi.URLParam(req, "id")

	msgs, err := r.chatSvc.Messages(req.Context(), tenant, domchat.ConversationID(id))
	if err != nil {
		return err
	}
	return writeJSON(w, msgs)
}
