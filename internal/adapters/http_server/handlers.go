// internal/adapters/http_server/handlers.go
package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"vayada_admin/internal/app"
	"vayada_admin/internal/domain"
)

type Handlers struct {
	Users          *app.UsersService
	Collaborations *app.CollaborationsService
	Marketplace    *app.MarketplaceService
	Stats          *app.StatsService
	Audit          *app.Auditor // optional
	PageSize       int
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	if h.PageSize <= 0 {
		h.PageSize = 20
	}
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Group(func(r chi.Router) {
		r.Use(ForwardToken)
		r.Get("/v1/stats", h.stats)
		r.Get("/v1/users", h.listUsers)
		r.Get("/v1/users/{id}", h.getUser)
		r.Get("/v1/collaborations", h.listCollaborations)
		r.Get("/v1/audit", h.recentAudit)
	})
	s.mux.Get("/v1/marketplace/listings", h.marketplaceListings)
	s.mux.Get("/v1/marketplace/creators", h.marketplaceCreators)
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// writeError mirrors the backend status; a missing backend is a 502.
func writeError(w http.ResponseWriter, r *http.Request, err error, collection bool, fallback string) {
	status := http.StatusInternalServerError
	var ae *domain.APIError
	switch {
	case errors.As(err, &ae):
		status = ae.Status
	case errors.Is(err, domain.ErrNetwork):
		status = http.StatusBadGateway
	}
	detail := app.ErrorMessage(err, fallback)
	if collection {
		detail = app.ListErrorMessage(err, fallback)
	}
	if status >= 500 {
		log.Error().Err(err).Str("path", r.URL.Path).Msg("backend call failed")
	}
	writeProblem(w, status, http.StatusText(status), detail)
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

// writeCached answers with an ETag and honors If-None-Match.
func writeCached(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write cached body")
	}
}

// positiveInt reads an optional positive integer query parameter.
func positiveInt(r *http.Request, name string, def, max int) (int, bool) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return def, true
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 || (max > 0 && n > max) {
		return 0, false
	}
	return n, true
}

func (h *Handlers) stats(w http.ResponseWriter, r *http.Request) {
	st, err := h.Stats.Dashboard(r.Context())
	if err != nil {
		writeError(w, r, err, true, "Failed to load dashboard stats")
		return
	}
	writeJSON(w, st)
}

func (h *Handlers) listUsers(w http.ResponseWriter, r *http.Request) {
	page, ok := positiveInt(r, "page", 1, 0)
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Invalid page", "page must be a positive integer")
		return
	}
	size, ok := positiveInt(r, "page_size", h.PageSize, 100)
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Invalid page_size", "page_size must be an integer between 1 and 100")
		return
	}
	q := r.URL.Query()
	query := domain.UsersQuery{
		Type:     domain.Role(q.Get("type")),
		Status:   domain.UserStatus(q.Get("status")),
		Search:   q.Get("search"),
		Page:     page,
		PageSize: size,
	}
	if query.Type != "" && query.Type != app.FilterAll && !query.Type.Valid() {
		writeProblem(w, http.StatusBadRequest, "Invalid type", "type must be hotel, creator, admin or all")
		return
	}
	if query.Status != "" && query.Status != app.FilterAll && !query.Status.Valid() {
		writeProblem(w, http.StatusBadRequest, "Invalid status", "status must be pending, verified, rejected, suspended or all")
		return
	}

	out, err := h.Users.List(r.Context(), query)
	if err != nil {
		writeError(w, r, err, true, "Failed to load users")
		return
	}
	if out.Users == nil {
		out.Users = []domain.User{}
	}
	writeJSON(w, out)
}

func (h *Handlers) getUser(w http.ResponseWriter, r *http.Request) {
	u, err := h.Users.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err, false, "Failed to load user")
		return
	}
	writeJSON(w, u)
}

func (h *Handlers) listCollaborations(w http.ResponseWriter, r *http.Request) {
	page, ok := positiveInt(r, "page", 1, 0)
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Invalid page", "page must be a positive integer")
		return
	}
	size, ok := positiveInt(r, "page_size", h.PageSize, 100)
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Invalid page_size", "page_size must be an integer between 1 and 100")
		return
	}
	q := r.URL.Query()
	status := domain.CollaborationStatus(q.Get("status"))
	if status != "" && status != app.FilterAll && !status.Valid() {
		writeProblem(w, http.StatusBadRequest, "Invalid status", "unknown collaboration status")
		return
	}
	out, err := h.Collaborations.List(r.Context(), domain.CollaborationsQuery{
		Page: page, PageSize: size, Status: status, Search: q.Get("search"),
	})
	if err != nil {
		writeError(w, r, err, true, "Failed to load collaborations")
		return
	}
	if out.Collaborations == nil {
		out.Collaborations = []domain.Collaboration{}
	}
	writeJSON(w, out)
}

func (h *Handlers) recentAudit(w http.ResponseWriter, r *http.Request) {
	limit, ok := positiveInt(r, "limit", 50, 500)
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Invalid limit", "limit must be an integer between 1 and 500")
		return
	}
	if h.Audit == nil {
		writeProblem(w, http.StatusNotFound, "Not Found", "audit log is not configured")
		return
	}
	out, err := h.Audit.Recent(r.Context(), limit)
	if err != nil {
		writeError(w, r, err, true, "Failed to load audit log")
		return
	}
	if out == nil {
		out = []domain.AuditEntry{}
	}
	writeJSON(w, out)
}

func (h *Handlers) marketplaceListings(w http.ResponseWriter, r *http.Request) {
	out, err := h.Marketplace.Listings(r.Context())
	if err != nil {
		writeError(w, r, err, true, "Failed to load marketplace listings")
		return
	}
	if out == nil {
		out = []domain.MarketplaceListing{}
	}
	writeCached(w, r, out)
}

func (h *Handlers) marketplaceCreators(w http.ResponseWriter, r *http.Request) {
	out, err := h.Marketplace.Creators(r.Context())
	if err != nil {
		writeError(w, r, err, true, "Failed to load marketplace creators")
		return
	}
	if out == nil {
		out = []domain.MarketplaceCreator{}
	}
	writeCached(w, r, out)
}
