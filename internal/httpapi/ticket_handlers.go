package httpapi

import (
	"net/http"

	"drimer.pl/drimain/internal/auth"
	"drimer.pl/drimain/internal/ticket"
)

func (a *API) listTickets(w http.ResponseWriter, r *http.Request) {
	qv := r.URL.Query()
	q, err := ticket.ParseQuery(ticket.RawQuery{
		Status:   qv.Get("status"),
		Priority: qv.Get("priorytet"),
		Type:     qv.Get("typ"),
		Dzial:    qv.Get("dzial"),
		Text:     qv.Get("q"),
		Page:     qv.Get("page"),
		Size:     qv.Get("size"),
		Sort:     qv.Get("sort"),
	})
	if err != nil {
		a.handleError(w, r, err)
		return
	}
	page, err := a.tickets.List(r.Context(), q)
	if err != nil {
		a.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (a *API) getTicket(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		a.handleError(w, r, err)
		return
	}
	t, err := a.tickets.Get(r.Context(), id)
	if err != nil {
		a.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (a *API) createTicket(w http.ResponseWriter, r *http.Request) {
	var req ticket.CreateRequest
	if err := decodeJSON(r, &req); err != nil {
		a.handleError(w, r, err)
		return
	}
	actor, _ := auth.IdentityFromContext(r.Context())
	t, err := a.tickets.Create(r.Context(), req, actor)
	if err != nil {
		a.handleError(w, r, err)
		return
	}
	_ = a.audit.Event(r.Context(), "zgloszenie.created", map[string]any{
		"id":     t.ID,
		"status": t.Status,
	})
	writeJSON(w, http.StatusCreated, t)
}

func (a *API) updateTicket(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		a.handleError(w, r, err)
		return
	}
	var req ticket.UpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		a.handleError(w, r, err)
		return
	}
	actor, _ := auth.IdentityFromContext(r.Context())
	t, err := a.tickets.Update(r.Context(), id, req, actor)
	if err != nil {
		a.handleError(w, r, err)
		return
	}
	_ = a.audit.Event(r.Context(), "zgloszenie.updated", map[string]any{
		"id":        t.ID,
		"status":    t.Status,
		"priorytet": t.Priority,
	})
	writeJSON(w, http.StatusOK, t)
}

func (a *API) deleteTicket(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		a.handleError(w, r, err)
		return
	}
	actor, _ := auth.IdentityFromContext(r.Context())
	if err := a.tickets.Delete(r.Context(), id, actor); err != nil {
		a.handleError(w, r, err)
		return
	}
	_ = a.audit.Event(r.Context(), "zgloszenie.deleted", map[string]any{"id": id})
	w.WriteHeader(http.StatusNoContent)
}
