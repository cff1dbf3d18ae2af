package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Moowses/stay-engine/internal/app"
	"github.com/Moowses/stay-engine/internal/domain"
)

type Handlers struct {
	Svc        *app.Service
	Sessions   domain.SessionStore
	SessionTTL time.Duration
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Get("/v1/availability", h.getAvailability)
	s.mux.Post("/v1/quote", h.postQuote)
	s.mux.Post("/v1/selections", h.createSelection)
	s.mux.Get("/v1/selections/{id}", h.getSelection)
	s.mux.Post("/v1/selections/{id}/taps", h.tapSelection)
	s.mux.Post("/v1/selections/{id}/apply", h.applySelection)
	s.mux.Post("/v1/selections/{id}/reset", h.resetSelection)
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// writeEngineError maps the error taxonomy onto HTTP statuses. Upstream
// status codes are kept in logs and metrics only; the user-facing detail is a
// generic retry message.
func writeEngineError(w http.ResponseWriter, err error) {
	var ue *domain.UpstreamError
	var sve *domain.StayRuleViolationError
	switch {
	case errors.Is(err, domain.ErrInvalidDateRange):
		writeProblem(w, http.StatusUnprocessableEntity, "Invalid date range", "checkOut must be at least one night after checkIn")
	case errors.As(err, &sve):
		writeProblem(w, http.StatusUnprocessableEntity, "Stay rules not met", sve.Error())
	case errors.Is(err, domain.ErrGapInAvailability):
		writeProblem(w, http.StatusUnprocessableEntity, "Dates unavailable", "one or more nights in the range are unavailable")
	case errors.Is(err, domain.ErrSessionNotFound):
		writeProblem(w, http.StatusNotFound, "Session not found", "selection session expired or never existed")
	case errors.As(err, &ue):
		log.Warn().Int("upstream_status", ue.Status).Msg("upstream availability call failed")
		writeProblem(w, http.StatusBadGateway, "Availability check failed", "couldn't check availability, please try again")
	case errors.Is(err, domain.ErrMalformedUpstream):
		log.Warn().Err(err).Msg("upstream payload unusable")
		writeProblem(w, http.StatusBadGateway, "Availability check failed", "availability is temporarily unavailable, please try again")
	default:
		writeProblem(w, http.StatusInternalServerError, "Internal error", "")
	}
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

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

type availabilityResponse struct {
	Success bool                            `json:"success"`
	Rooms   []domain.RoomAvailabilityRecord `json:"rooms"`
	Reason  string                          `json:"reason,omitempty"`
}

func availabilityQueryFromRequest(r *http.Request) domain.AvailabilityQuery {
	qp := r.URL.Query()
	atoi := func(k string) int {
		n, _ := strconv.Atoi(qp.Get(k))
		return n
	}
	return domain.AvailabilityQuery{
		PropertyID: qp.Get("propertyId"),
		RoomTypeID: qp.Get("roomTypeId"),
		StartDate:  qp.Get("startDate"),
		EndDate:    qp.Get("endDate"),
		Adults:     atoi("adults"),
		Children:   atoi("children"),
		Infants:    atoi("infants"),
		Pet:        qp.Get("pet") == "1" || qp.Get("pet") == "true",
		Currency:   qp.Get("currency"),
	}
}

func (h *Handlers) getAvailability(w http.ResponseWriter, r *http.Request) {
	q := availabilityQueryFromRequest(r)
	if q.PropertyID == "" {
		writeProblem(w, http.StatusBadRequest, "Missing propertyId", "propertyId is required")
		return
	}
	res, err := h.Svc.Search(r.Context(), q)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	resp := availabilityResponse{Success: true, Rooms: res.Rooms, Reason: string(res.Reason)}
	if resp.Rooms == nil {
		resp.Rooms = []domain.RoomAvailabilityRecord{}
	}
	etag, body := calcETagAndBody(resp)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write availability body")
	}
}

func (h *Handlers) postQuote(w http.ResponseWriter, r *http.Request) {
	var req app.QuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid body", "request body must be valid JSON")
		return
	}
	if req.PropertyID == "" || req.RoomTypeID == "" {
		writeProblem(w, http.StatusBadRequest, "Missing fields", "propertyId and roomTypeId are required")
		return
	}
	out, err := h.Svc.QuoteRoom(r.Context(), req)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}
