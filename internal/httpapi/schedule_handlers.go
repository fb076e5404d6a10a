package httpapi

import (
	"net/http"
	"strconv"
	"strings"

	"drimer.pl/drimain/internal/apperr"
	"drimer.pl/drimain/internal/schedule"
)

func (a *API) listSchedules(w http.ResponseWriter, r *http.Request) {
	qv := r.URL.Query()
	year, err := optionalInt(qv.Get("year"), "year")
	if err != nil {
		a.handleError(w, r, err)
		return
	}
	month, err := optionalInt(qv.Get("month"), "month")
	if err != nil {
		a.handleError(w, r, err)
		return
	}
	out, err := a.schedules.List(r.Context(), schedule.Filter{
		Year:   year,
		Month:  month,
		Status: qv.Get("status"),
	})
	if err != nil {
		a.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (a *API) getSchedule(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		a.handleError(w, r, err)
		return
	}
	h, err := a.schedules.Get(r.Context(), id)
	if err != nil {
		a.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h)
}

func (a *API) createSchedule(w http.ResponseWriter, r *http.Request) {
	var req schedule.Request
	if err := decodeJSON(r, &req); err != nil {
		a.handleError(w, r, err)
		return
	}
	h, err := a.schedules.Create(r.Context(), req)
	if err != nil {
		a.handleError(w, r, err)
		return
	}
	_ = a.audit.Event(r.Context(), "harmonogram.created", map[string]any{"id": h.ID, "data": h.Date.String()})
	writeJSON(w, http.StatusCreated, h)
}

func (a *API) updateSchedule(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		a.handleError(w, r, err)
		return
	}
	var req schedule.Request
	if err := decodeJSON(r, &req); err != nil {
		a.handleError(w, r, err)
		return
	}
	h, err := a.schedules.Update(r.Context(), id, req)
	if err != nil {
		a.handleError(w, r, err)
		return
	}
	_ = a.audit.Event(r.Context(), "harmonogram.updated", map[string]any{"id": h.ID, "status": h.Status})
	writeJSON(w, http.StatusOK, h)
}

func (a *API) deleteSchedule(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		a.handleError(w, r, err)
		return
	}
	if err := a.schedules.Delete(r.Context(), id); err != nil {
		a.handleError(w, r, err)
		return
	}
	_ = a.audit.Event(r.Context(), "harmonogram.deleted", map[string]any{"id": id})
	w.WriteHeader(http.StatusNoContent)
}

func optionalInt(raw, name string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperr.Validation("%s must be an integer", name)
	}
	return v, nil
}
