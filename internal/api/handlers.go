// Package api exposes the HTML handlers for the fitness tracker.
package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"example.com/fitnesstracker/internal/domain"
	"example.com/fitnesstracker/internal/logger"
	"example.com/fitnesstracker/internal/observability"
)

// Handler coordinates HTTP requests with the domain service.
type Handler struct {
	service *domain.Service
	catalog *domain.Catalog
	views   *views
	binder  *binder
	log     *logger.Logger
}

// NewHandler builds a Handler. It fails only if the embedded templates do not parse.
func NewHandler(service *domain.Service, catalog *domain.Catalog, log *logger.Logger) (*Handler, error) {
	v, err := loadViews()
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Handler{
		service: service,
		catalog: catalog,
		views:   v,
		binder:  newBinder(),
		log:     log,
	}, nil
}

// RegisterRoutes wires endpoints to the mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", h.home)
	mux.HandleFunc("GET /Entries", h.serve(h.index))
	mux.HandleFunc("GET /Entries/Add", h.serve(h.addForm))
	mux.HandleFunc("POST /Entries/Add", h.serve(h.addSubmit))
	mux.HandleFunc("GET /Entries/Edit", h.serve(h.editForm))
	mux.HandleFunc("GET /Entries/Edit/{id}", h.serve(h.editForm))
	mux.HandleFunc("POST /Entries/Edit", h.serve(h.editSubmit))
	mux.HandleFunc("POST /Entries/Edit/{id}", h.serve(h.editSubmit))
	mux.HandleFunc("GET /Entries/Delete", h.serve(h.deleteConfirm))
	mux.HandleFunc("GET /Entries/Delete/{id}", h.serve(h.deleteConfirm))
	mux.HandleFunc("GET /Entries/Chart", h.chart)
	mux.HandleFunc("GET /healthz", healthz)
}

// healthz reports a simple OK status for container health checks.
func healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (h *Handler) home(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/Entries", http.StatusFound)
}

// result is the outcome of one entries operation: a page to render, a
// redirect, or a bare status.
type result interface {
	isResult()
}

type viewResult struct {
	page string
	data any
}

type redirectResult struct {
	location string
}

type statusResult struct {
	status int
	err    error
}

func (viewResult) isResult()     {}
func (redirectResult) isResult() {}
func (statusResult) isResult()   {}

func view(page string, data any) result { return viewResult{page: page, data: data} }
func redirectTo(location string) result { return redirectResult{location: location} }
func badRequest() result                { return statusResult{status: http.StatusBadRequest} }
func notFound() result                  { return statusResult{status: http.StatusNotFound} }
func serverError(err error) result {
	return statusResult{status: http.StatusInternalServerError, err: err}
}

// serve adapts an operation to an http.HandlerFunc.
func (h *Handler) serve(op func(*http.Request) result) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.write(w, r, op(r))
	}
}

func (h *Handler) write(w http.ResponseWriter, r *http.Request, res result) {
	switch res := res.(type) {
	case viewResult:
		body, err := h.views.render(res.page, res.data)
		if err != nil {
			h.write(w, r, serverError(err))
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(body)
	case redirectResult:
		http.Redirect(w, r, res.location, http.StatusFound)
	case statusResult:
		if res.err != nil {
			h.log.Error("request failed", "path", r.URL.Path, "status", res.status, "error", res.err)
		}
		http.Error(w, http.StatusText(res.status), res.status)
	default:
		h.write(w, r, serverError(fmt.Errorf("unhandled result %T", res)))
	}
}

func (h *Handler) index(r *http.Request) result {
	list, err := h.service.ListEntries(r.Context())
	if err != nil {
		return serverError(err)
	}
	return view(pageIndex, newListView(list, h.catalog))
}

func (h *Handler) addForm(r *http.Request) result {
	entry := h.service.NewEntry()
	return view(pageForm, newFormView(r, "Add Entry", "/Entries/Add", valuesFromEntry(entry), nil, h.catalog))
}

func (h *Handler) addSubmit(r *http.Request) result {
	entry, raw, bindErrs, err := h.binder.bindEntry(r)
	if err != nil {
		return badRequest()
	}
	// The add form has no Id field; ignore whatever was posted for it.
	delete(bindErrs, fieldID)
	raw.ID = ""

	stored, errs, err := h.service.AddEntry(r.Context(), entry, bindErrs)
	if err != nil {
		return serverError(err)
	}
	if !errs.Valid() {
		recordValidation("add", errs)
		return view(pageForm, newFormView(r, "Add Entry", "/Entries/Add", raw, errs, h.catalog))
	}
	h.log.Debug("entry added", "entry_id", stored.ID)
	return redirectTo("/Entries")
}

func (h *Handler) editForm(r *http.Request) result {
	id, err := parseID(r)
	if err != nil {
		return badRequest()
	}
	entry, err := h.service.GetEntry(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrEntryNotFound) {
			return notFound()
		}
		return serverError(err)
	}
	return view(pageForm, newFormView(r, "Edit Entry", "/Entries/Edit", valuesFromEntry(*entry), nil, h.catalog))
}

func (h *Handler) editSubmit(r *http.Request) result {
	entry, raw, bindErrs, err := h.binder.bindEntry(r)
	if err != nil {
		return badRequest()
	}
	if bindErrs.Has(fieldID) {
		return badRequest()
	}
	// A posted Id wins, even 0; otherwise the {id} segment is used.
	if raw.ID == "" {
		id, err := parseID(r)
		if err != nil {
			return badRequest()
		}
		entry.ID = id
		raw.ID = strconv.Itoa(id)
	}

	errs, err := h.service.UpdateEntry(r.Context(), entry, bindErrs)
	if err != nil {
		if errors.Is(err, domain.ErrEntryNotFound) {
			return notFound()
		}
		return serverError(err)
	}
	if !errs.Valid() {
		recordValidation("edit", errs)
		return view(pageForm, newFormView(r, "Edit Entry", "/Entries/Edit", raw, errs, h.catalog))
	}
	h.log.Debug("entry updated", "entry_id", entry.ID)
	return redirectTo("/Entries")
}

// deleteConfirm only renders the confirmation page. Removal is not
// implemented, so nothing is looked up or changed here.
func (h *Handler) deleteConfirm(r *http.Request) result {
	id, err := parseID(r)
	if err != nil {
		return badRequest()
	}
	return view(pageDelete, deleteView{Title: "Delete Entry", ID: id})
}

func recordValidation(form string, errs domain.FieldErrors) {
	for _, field := range errs.Fields() {
		observability.RecordValidationFailure(form, field)
	}
}
