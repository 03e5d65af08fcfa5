package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"order-import-service/internal/config"
	"order-import-service/internal/fileio"
	"order-import-service/internal/importer/model"
	"order-import-service/internal/importer/service"
)

// Imports exposes the import session lifecycle over HTTP:
// upload+analyze, preview, commit, cancel.
type Imports struct {
	cfg config.Config
	log zerolog.Logger
	ds  service.Dataset
	reg *registry
}

func NewImports(cfg config.Config, logger zerolog.Logger, ds service.Dataset) *Imports {
	return &Imports{
		cfg: cfg,
		log: logger,
		ds:  ds,
		reg: newRegistry(time.Duration(cfg.SessionTTLMin) * time.Minute),
	}
}

func (h *Imports) Routes(r chi.Router) {
	r.Post("/", h.Create)
	r.Get("/{id}", h.Get)
	r.Post("/{id}/commit", h.Commit)
	r.Post("/{id}/cancel", h.Cancel)
}

type previewResponse struct {
	SessionID string            `json:"session_id"`
	State     service.State     `json:"state"`
	Plans     []model.MergePlan `json:"plans"`
	Inserts   int               `json:"inserts"`
	Merges    int               `json:"merges"`
	Skips     int               `json:"skips"`
}

// Create reads an uploaded order file, analyzes it against a fresh dataset
// snapshot and returns the frozen preview. Form fields: file (required),
// header_row (1-based, default 1), date_order ("dmy"/"mdy"), platform
// (default for rows with an empty platform cell).
func (h *Imports) Create(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	log := h.requestLog(r)

	defer r.Body.Close()
	if err := r.ParseMultipartForm(int64(h.cfg.MaxUploadMB) << 20); err != nil {
		http.Error(w, "bad multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing file: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	rows, err := fileio.ReadAnyMaps(file, header.Filename, atoi(r.FormValue("header_row"), 1))
	if err != nil {
		http.Error(w, "failed to read file: "+err.Error(), http.StatusBadRequest)
		return
	}
	if len(rows) == 0 {
		http.Error(w, "no rows found in file", http.StatusBadRequest)
		return
	}

	opts := model.Options{
		DayFirst:        dateOrder(r.FormValue("date_order"), h.cfg.DateOrder),
		DefaultPlatform: r.FormValue("platform"),
		Reference:       time.Now(),
	}

	sess := service.NewSession(rows, opts, h.log)
	if err := sess.Analyze(r.Context(), h.ds); err != nil {
		// structural errors surface once, before any per-row work
		http.Error(w, "analysis failed: "+err.Error(), http.StatusUnprocessableEntity)
		return
	}
	h.reg.put(sess)

	log.Info().
		Str("file", header.Filename).
		Int("rows", len(rows)).
		Dur("elapsed", time.Since(start)).
		Msg("import analyzed")

	h.writePreview(w, sess)
}

// Get returns the frozen preview of a previously analyzed session.
func (h *Imports) Get(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.reg.get(chi.URLParam(r, "id"))
	if !ok {
		http.Error(w, "unknown or expired session", http.StatusNotFound)
		return
	}
	h.writePreview(w, sess)
}

type commitRequest struct {
	Rows            []int                 `json:"rows"`
	DuplicateAction model.DuplicateAction `json:"duplicate_action"`
}

// Commit applies the approved subset of a previewed session. The response
// enumerates every row's outcome; failed rows never abort the rest.
func (h *Imports) Commit(w http.ResponseWriter, r *http.Request) {
	log := h.requestLog(r)
	sess, ok := h.reg.get(chi.URLParam(r, "id"))
	if !ok {
		http.Error(w, "unknown or expired session", http.StatusNotFound)
		return
	}

	var req commitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	switch req.DuplicateAction {
	case "", model.DuplicateMerge, model.DuplicateNew, model.DuplicateSkip:
	default:
		http.Error(w, "bad duplicate_action", http.StatusBadRequest)
		return
	}

	report, err := sess.Commit(r.Context(), h.ds, req.Rows, req.DuplicateAction)
	if err != nil {
		status := http.StatusConflict
		if !errors.Is(err, service.ErrNotPreviewed) && !errors.Is(err, service.ErrConsumed) {
			status = http.StatusInternalServerError
		}
		http.Error(w, err.Error(), status)
		return
	}
	h.reg.remove(sess.ID)

	log.Info().
		Str("session", sess.ID).
		Int("inserted", report.Inserted).
		Int("merged", report.Merged).
		Int("failed", report.Failed).
		Msg("import committed")

	writeJSON(w, report)
}

// Cancel discards a session without touching storage.
func (h *Imports) Cancel(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.reg.get(chi.URLParam(r, "id"))
	if !ok {
		http.Error(w, "unknown or expired session", http.StatusNotFound)
		return
	}
	if err := sess.Cancel(); err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	h.reg.remove(sess.ID)
	w.WriteHeader(http.StatusNoContent)
}

// Health is the liveness endpoint.
func Health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

func (h *Imports) writePreview(w http.ResponseWriter, sess *service.Session) {
	plans, err := sess.Plans()
	if err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	resp := previewResponse{SessionID: sess.ID, State: sess.State(), Plans: plans}
	for _, p := range plans {
		switch p.Decision {
		case model.DecisionInsert:
			resp.Inserts++
		case model.DecisionMerge:
			resp.Merges++
		case model.DecisionSkip:
			resp.Skips++
		}
	}
	writeJSON(w, resp)
}

func (h *Imports) requestLog(r *http.Request) zerolog.Logger {
	if rid := r.Header.Get("X-Request-ID"); rid != "" {
		return h.log.With().Str("req_id", rid).Logger()
	}
	return h.log
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
