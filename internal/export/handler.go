package export

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/schedit/schedit/backend-go/internal/auth"
	"github.com/schedit/schedit/backend-go/internal/document"
	"github.com/schedit/schedit/backend-go/internal/painter"
	"github.com/schedit/schedit/backend-go/internal/store"
)

const (
	maxUploadSize = 8 << 20
	maxScale      = 8
)

// Live is implemented by whatever holds open editor sessions, so that a
// document written over HTTP reaches an editor already showing it.
type Live interface {
	Replace(ctx context.Context, slot string, data []byte) (bool, error)
}

// Handler serves image export and the autosave slot API.
type Handler struct {
	painter painter.Painter
	store   store.Store
	live    Live
}

func NewHandler(p painter.Painter, st store.Store, live Live) *Handler {
	return &Handler{painter: p, store: st, live: live}
}

type exportRequest struct {
	Document json.RawMessage        `json:"document"`
	Options  *painter.ExportOptions `json:"options,omitempty"`
}

// Export renders an uploaded document. POST /export/{format}
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	format, err := painter.ParseFormat(mux.Vars(r)["format"])
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "format must be png or svg"})
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	opts := painter.DefaultExportOptions()
	req := exportRequest{Options: &opts}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if len(req.Document) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "document is required"})
		return
	}

	h.render(w, req.Document, format, opts, "schematic")
}

// ExportSlot renders a saved slot with options from the query string.
// GET /documents/{slot}/export/{format}
func (h *Handler) ExportSlot(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	format, err := painter.ParseFormat(vars["format"])
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "format must be png or svg"})
		return
	}
	opts, err := parseOptions(r.URL.Query())
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	data, err := h.store.Load(r.Context(), vars["slot"])
	if err != nil {
		handleServiceError(w, err)
		return
	}
	h.render(w, data, format, opts, vars["slot"])
}

func (h *Handler) render(w http.ResponseWriter, data []byte, format painter.Format, opts painter.ExportOptions, name string) {
	if opts.Scale > maxScale {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": fmt.Sprintf("scale must be at most %d", maxScale)})
		return
	}

	f, err := document.Decode(data)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	doc := document.New()
	doc.Load(f)

	out, err := h.painter.Export(doc, format, opts)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.%s"`, name, format))
	w.Header().Set("Content-Length", strconv.Itoa(len(out)))
	w.WriteHeader(http.StatusOK)
	w.Write(out)

	slog.Info("export complete", "format", format, "size", len(out))
}

// List returns the saved slots. GET /documents
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	entries, err := h.store.List(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// Get returns a slot's document. GET /api/documents/{slot}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	slot, ok := authorizedSlot(w, r)
	if !ok {
		return
	}
	data, err := h.store.Load(r.Context(), slot)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// Put replaces a slot's document. An open editor on the slot loads it as
// a fresh session. PUT /api/documents/{slot}
func (h *Handler) Put(w http.ResponseWriter, r *http.Request) {
	slot, ok := authorizedSlot(w, r)
	if !ok {
		return
	}

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxUploadSize))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "request too large"})
		return
	}
	if _, err := document.Decode(data); err != nil {
		handleServiceError(w, err)
		return
	}

	live := false
	if h.live != nil {
		live, err = h.live.Replace(r.Context(), slot, data)
		if err != nil {
			handleServiceError(w, err)
			return
		}
	}
	if !live {
		if err := h.store.Save(r.Context(), slot, data); err != nil {
			handleServiceError(w, err)
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{"slot": slot, "live": live})
}

// Delete removes a slot. DELETE /api/documents/{slot}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	slot, ok := authorizedSlot(w, r)
	if !ok {
		return
	}
	if err := h.store.Delete(r.Context(), slot); err != nil {
		handleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// authorizedSlot returns the path slot if the request's session token was
// issued for it.
func authorizedSlot(w http.ResponseWriter, r *http.Request) (string, bool) {
	slot := mux.Vars(r)["slot"]
	sess := auth.SessionFromContext(r.Context())
	if sess == nil || sess.Slot != slot {
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "token not valid for this slot"})
		return "", false
	}
	return slot, true
}

func parseOptions(q url.Values) (painter.ExportOptions, error) {
	opts := painter.DefaultExportOptions()
	flags := map[string]*bool{
		"transparent":  &opts.Transparent,
		"grid":         &opts.ShowGrid,
		"useWireColor": &opts.UseWireColor,
		"invert":       &opts.InvertColors,
	}
	for key, dst := range flags {
		if v := q.Get(key); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return opts, fmt.Errorf("invalid %s: %q", key, v)
			}
			*dst = b
		}
	}
	nums := map[string]*float64{
		"scale":   &opts.Scale,
		"padding": &opts.Padding,
	}
	for key, dst := range nums {
		if v := q.Get(key); v != "" {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil || f <= 0 {
				return opts, fmt.Errorf("invalid %s: %q", key, v)
			}
			*dst = f
		}
	}
	if v := q.Get("background"); v != "" {
		opts.Background = v
	}
	if v := q.Get("wireColor"); v != "" {
		opts.WireColor = v
		opts.UseWireColor = true
	}
	return opts, nil
}

func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	case errors.Is(err, document.ErrMalformed):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, painter.ErrNothingToExport):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": "nothing to export"})
	case errors.Is(err, painter.ErrTooLarge):
		writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{"error": err.Error()})
	default:
		slog.Error("service error", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
