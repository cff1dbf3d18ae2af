package httpserver

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/Moowses/stay-engine/internal/app"
	"github.com/Moowses/stay-engine/internal/domain"
)

// selectionSession is the snapshot persisted between requests: the query that
// produced the record, the record itself, and the machine's state. The record
// is part of the session so taps validate against the exact data the calendar
// was rendered from; a new query always builds a new session.
type selectionSession struct {
	Query  domain.AvailabilityQuery      `json:"query"`
	Record domain.RoomAvailabilityRecord `json:"record"`
	State  app.SelectionSnapshot         `json:"state"`
}

type createSelectionRequest struct {
	domain.AvailabilityQuery
	// optional range carried over from a prior step of the flow
	CheckIn  string `json:"checkIn,omitempty"`
	CheckOut string `json:"checkOut,omitempty"`
}

type selectionResponse struct {
	SessionID string                `json:"sessionId"`
	State     app.SelectionSnapshot `json:"state"`
	Quote     *domain.Quote         `json:"quote,omitempty"`
	Available bool                  `json:"available,omitempty"`
}

func (h *Handlers) createSelection(w http.ResponseWriter, r *http.Request) {
	var req createSelectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid body", "request body must be valid JSON")
		return
	}
	if req.PropertyID == "" || req.RoomTypeID == "" {
		writeProblem(w, http.StatusBadRequest, "Missing fields", "propertyId and roomTypeId are required")
		return
	}

	res, err := h.Svc.Search(r.Context(), req.AvailabilityQuery)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	var rec *domain.RoomAvailabilityRecord
	for i := range res.Rooms {
		if res.Rooms[i].RoomTypeID == req.RoomTypeID {
			rec = &res.Rooms[i]
			break
		}
	}
	if rec == nil {
		writeProblem(w, http.StatusNotFound, "No availability", "no availability for the requested room type")
		return
	}

	sel := app.NewSelection(rec)
	if req.CheckIn != "" || req.CheckOut != "" {
		sel.Restore(domain.DateRange{CheckIn: req.CheckIn, CheckOut: req.CheckOut})
	}

	id := uuid.NewString()
	sess := selectionSession{Query: req.AvailabilityQuery, Record: *rec, State: sel.Snapshot()}
	if err := h.Sessions.Set(r.Context(), id, sess, h.SessionTTL); err != nil {
		log.Error().Err(err).Msg("store selection session failed")
		writeProblem(w, http.StatusInternalServerError, "Internal error", "")
		return
	}
	writeJSON(w, http.StatusCreated, selectionResponse{SessionID: id, State: sess.State})
}

// loadSession fetches and rebuilds the machine; nil selection means the
// response was already written.
func (h *Handlers) loadSession(w http.ResponseWriter, r *http.Request) (string, *selectionSession, *app.Selection) {
	id := chi.URLParam(r, "id")
	var sess selectionSession
	ok, err := h.Sessions.Get(r.Context(), id, &sess)
	if err != nil {
		log.Error().Err(err).Msg("load selection session failed")
		writeProblem(w, http.StatusInternalServerError, "Internal error", "")
		return "", nil, nil
	}
	if !ok {
		writeEngineError(w, domain.ErrSessionNotFound)
		return "", nil, nil
	}
	return id, &sess, app.FromSnapshot(&sess.Record, sess.State)
}

func (h *Handlers) saveAndRespond(w http.ResponseWriter, r *http.Request, id string, sess *selectionSession, sel *app.Selection, extra *selectionResponse) {
	sess.State = sel.Snapshot()
	if err := h.Sessions.Set(r.Context(), id, sess, h.SessionTTL); err != nil {
		log.Error().Err(err).Msg("store selection session failed")
		writeProblem(w, http.StatusInternalServerError, "Internal error", "")
		return
	}
	resp := selectionResponse{SessionID: id, State: sess.State}
	if extra != nil {
		resp.Quote, resp.Available = extra.Quote, extra.Available
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handlers) getSelection(w http.ResponseWriter, r *http.Request) {
	id, sess, sel := h.loadSession(w, r)
	if sel == nil {
		return
	}
	writeJSON(w, http.StatusOK, selectionResponse{SessionID: id, State: sess.State})
}

func (h *Handlers) tapSelection(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Date string `json:"date"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || !domain.IsDay(body.Date) {
		writeProblem(w, http.StatusBadRequest, "Invalid date", "date must be a YYYY-MM-DD string")
		return
	}
	id, sess, sel := h.loadSession(w, r)
	if sel == nil {
		return
	}
	sel.Tap(body.Date)
	h.saveAndRespond(w, r, id, sess, sel, nil)
}

func (h *Handlers) applySelection(w http.ResponseWriter, r *http.Request) {
	id, sess, sel := h.loadSession(w, r)
	if sel == nil {
		return
	}
	committed, err := sel.Apply()
	if err != nil {
		writeEngineError(w, err)
		return
	}
	quote, available, err := app.BuildQuote(&sess.Record, committed, sess.Query.Pet)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	h.saveAndRespond(w, r, id, sess, sel, &selectionResponse{Quote: &quote, Available: available})
}

func (h *Handlers) resetSelection(w http.ResponseWriter, r *http.Request) {
	id, sess, sel := h.loadSession(w, r)
	if sel == nil {
		return
	}
	sel.Reset()
	h.saveAndRespond(w, r, id, sess, sel, nil)
}
