package httpapi

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"drimer.pl/drimain/internal/auth"
)

// adminRoutes mounts the ADMIN-only reference data and user endpoints.
func (a *API) adminRoutes(r chi.Router) {
	r.Route("/dzialy", func(r chi.Router) {
		r.Get("/", listHandler(a, a.org.Departments))
		r.Post("/", createHandler(a, "admin.dzial.created", a.org.CreateDepartment))
		r.Get("/{id}", getHandler(a, a.org.Department))
		r.Put("/{id}", updateHandler(a, "admin.dzial.updated", a.org.UpdateDepartment))
		r.Delete("/{id}", deleteHandler(a, "admin.dzial.deleted", a.org.DeleteDepartment))
	})
	r.Route("/maszyny", func(r chi.Router) {
		r.Get("/", listHandler(a, a.org.Machines))
		r.Post("/", createHandler(a, "admin.maszyna.created", a.org.CreateMachine))
		r.Get("/{id}", getHandler(a, a.org.Machine))
		r.Put("/{id}", updateHandler(a, "admin.maszyna.updated", a.org.UpdateMachine))
		r.Delete("/{id}", deleteHandler(a, "admin.maszyna.deleted", a.org.DeleteMachine))
	})
	r.Route("/osoby", func(r chi.Router) {
		r.Get("/", listHandler(a, a.org.Persons))
		r.Post("/", createHandler(a, "admin.osoba.created", a.org.CreatePerson))
		r.Get("/{id}", getHandler(a, a.org.Person))
		r.Put("/{id}", updateHandler(a, "admin.osoba.updated", a.org.UpdatePerson))
		r.Delete("/{id}", deleteHandler(a, "admin.osoba.deleted", a.org.DeletePerson))
	})
	r.Get("/users", a.listUsers)
	r.Post("/users", a.createUser)
}

func (a *API) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := a.users.ListUsers(r.Context())
	if err != nil {
		a.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, auth.Summarize(users))
}

func (a *API) createUser(w http.ResponseWriter, r *http.Request) {
	var in auth.NewUser
	if err := decodeJSON(r, &in); err != nil {
		a.handleError(w, r, err)
		return
	}
	u, err := auth.Provision(r.Context(), a.users, in)
	if err != nil {
		a.handleError(w, r, err)
		return
	}
	_ = a.audit.Event(r.Context(), "admin.user.created", map[string]any{
		"user_id":  u.ID,
		"username": u.Username,
		"roles":    u.Roles.Strings(),
	})
	writeJSON(w, http.StatusCreated, auth.Summarize([]auth.User{u})[0])
}

func listHandler[T any](a *API, list func(context.Context) ([]T, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		out, err := list(r.Context())
		if err != nil {
			a.handleError(w, r, err)
			return
		}
		if out == nil {
			out = []T{}
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func getHandler[T any](a *API, get func(context.Context, int64) (T, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			a.handleError(w, r, err)
			return
		}
		out, err := get(r.Context(), id)
		if err != nil {
			a.handleError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func createHandler[In, Out any](a *API, event string, create func(context.Context, In) (Out, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in In
		if err := decodeJSON(r, &in); err != nil {
			a.handleError(w, r, err)
			return
		}
		out, err := create(r.Context(), in)
		if err != nil {
			a.handleError(w, r, err)
			return
		}
		_ = a.audit.Event(r.Context(), event, map[string]any{"record": out})
		writeJSON(w, http.StatusCreated, out)
	}
}

func updateHandler[In, Out any](a *API, event string, update func(context.Context, int64, In) (Out, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			a.handleError(w, r, err)
			return
		}
		var in In
		if err := decodeJSON(r, &in); err != nil {
			a.handleError(w, r, err)
			return
		}
		out, err := update(r.Context(), id, in)
		if err != nil {
			a.handleError(w, r, err)
			return
		}
		_ = a.audit.Event(r.Context(), event, map[string]any{"record": out})
		writeJSON(w, http.StatusOK, out)
	}
}

func deleteHandler(a *API, event string, del func(context.Context, int64) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			a.handleError(w, r, err)
			return
		}
		if err := del(r.Context(), id); err != nil {
			a.handleError(w, r, err)
			return
		}
		_ = a.audit.Event(r.Context(), event, map[string]any{"id": id})
		w.WriteHeader(http.StatusNoContent)
	}
}
