// CLAUDE:SUMMARY Editor-facing JSON API: publish, auto-publish toggle, save notifications.
package viewer

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/showgrid/broadcast/columns"
	"github.com/showgrid/broadcast/publish"
	"github.com/showgrid/broadcast/snapshot"
)

// API exposes the publish flow over HTTP for the editor frontend. All
// routes expect the auth middleware upstream; an anonymous request
// surfaces as the coordinator's auth precondition failure (401).
type API struct {
	coord *publish.Coordinator
}

// NewAPI creates the editor-facing API over a coordinator.
func NewAPI(coord *publish.Coordinator) *API {
	return &API{coord: coord}
}

// Routes mounts the API under the given router.
func (a *API) Routes(r chi.Router) {
	r.Post("/api/broadcast", a.handlePublish)
	r.Get("/api/broadcast/autopublish", a.handleGetAutoPublish)
	r.Put("/api/broadcast/autopublish", a.handleSetAutoPublish)
	r.Post("/api/broadcast/saved", a.handleSaved)
}

type publishRequest struct {
	Title      string               `json:"title,omitempty"`
	AutoUpdate bool                 `json:"auto_update,omitempty"`
	Markup     string               `json:"markup"`
	Columns    []columns.ColumnSpec `json:"columns,omitempty"`
	DocTitle   string               `json:"doc_title,omitempty"`
}

func (r publishRequest) provider() snapshot.Provider {
	return &snapshot.StaticProvider{Source: &snapshot.Source{
		Markup:  r.Markup,
		Columns: r.Columns,
		Title:   r.DocTitle,
	}}
}

func (a *API) handlePublish(w http.ResponseWriter, r *http.Request) {
	var req publishRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	result, err := a.coord.PublishFrom(r.Context(), req.provider(), publish.Options{
		Title:      req.Title,
		AutoUpdate: req.AutoUpdate,
	})
	if err != nil {
		writeError(w, publishStatus(err), err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (a *API) handleGetAutoPublish(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{
		"enabled": a.coord.Session().AutoPublishEnabled(),
	})
}

func (a *API) handleSetAutoPublish(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Enabled bool `json:"enabled"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := a.coord.Session().SetAutoPublish(r.Context(), req.Enabled); err != nil {
		writeError(w, http.StatusBadGateway, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"enabled": req.Enabled})
}

// handleSaved is the save notification hook. It always answers 202: an
// auto-publish failure must never interrupt the editor's save workflow.
// The hook outcome is reported in the body for observability only.
func (a *API) handleSaved(w http.ResponseWriter, r *http.Request) {
	var req publishRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	hr := a.coord.OnSaveFrom(r.Context(), req.provider())
	resp := map[string]any{"published": hr.Published}
	if hr.Result != nil {
		resp["code"] = hr.Result.Code
		resp["url"] = hr.Result.URL
	}
	if hr.Err != nil {
		resp["error"] = hr.Err.Error()
	}
	writeJSON(w, http.StatusAccepted, resp)
}

// publishStatus maps the publish error taxonomy to HTTP statuses.
func publishStatus(err error) int {
	switch {
	case errors.Is(err, publish.ErrAuth):
		return http.StatusUnauthorized
	case errors.Is(err, publish.ErrCapture):
		return http.StatusUnprocessableEntity
	case errors.Is(err, publish.ErrStore):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, map[string]string{"error": err.Error()})
}
