package main

import (
	"net/http"
	"net/url"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"
)

// Home renders the library page: the borrow form plus the sorted list of
// current lending records. A failed load falls back to the cached
// collection with a visible message, the renderer itself never deals
// with errors.
func (api *APIHandler) Home(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	requestID := GetValueFromContext(r.Context(), ContextRequestID)
	flash := r.URL.Query().Get("error")

	books, err := api.library.GetAll(r.Context())
	if err != nil {
		api.logger.Error("failed to load books for page", zap.String("request.id", requestID), zap.Error(err))
		books = api.library.Cached()
		if flash == "" {
			flash = "Failed to load books from the storage."
		}
	}

	stats, err := api.library.Statistics(r.Context())
	if err != nil {
		api.logger.Error("failed to load statistics for page", zap.String("request.id", requestID), zap.Error(err))
	}

	w.Header().Set("Content-Type", "text/html; charset=UTF-8")
	if err = api.renderer.RenderPage(w, books, stats, flash); err != nil {
		api.logger.Error("failed to render page", zap.String("request.id", requestID), zap.Error(err))
	}
}

// AddBookForm handles the borrow form submission then redirects back to
// the page so a reload never replays the mutation. Validation failures
// round-trip as a visible message and mutate nothing.
func (api *APIHandler) AddBookForm(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	requestID := GetValueFromContext(r.Context(), ContextRequestID)
	if err := r.ParseForm(); err != nil {
		api.logger.Error("failed to parse borrow form", zap.String("request.id", requestID), zap.Error(err))
		api.redirectHome(w, r, "Failed to read the submitted form.")
		return
	}

	book, err := api.library.Add(r.Context(), r.PostFormValue("title"), r.PostFormValue("author"), r.PostFormValue("dueDate"))
	if IsValidationError(err) {
		api.redirectHome(w, r, err.Error())
		return
	}
	if err != nil {
		api.logger.Error("failed to add book from form", zap.String("request.id", requestID), zap.Error(err))
		api.redirectHome(w, r, "Failed to register the book.")
		return
	}
	api.logger.Info("success to add book from form", zap.Int64("book.id", book.ID), zap.String("request.id", requestID))
	api.redirectHome(w, r, "")
}

// ReturnBookForm handles a confirmed return from the page. An id which
// is no longer part of the collection is a silent no-op.
func (api *APIHandler) ReturnBookForm(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	requestID := GetValueFromContext(r.Context(), ContextRequestID)
	id, err := ParseBookID(ps.ByName("id"))
	if err != nil {
		api.redirectHome(w, r, "")
		return
	}

	deleted, err := api.library.Return(r.Context(), id)
	if err != nil {
		api.logger.Error("failed to return book from form", zap.Int64("book.id", id), zap.String("request.id", requestID), zap.Error(err))
		api.redirectHome(w, r, "Failed to return the book.")
		return
	}
	if deleted {
		api.logger.Info("success to return book from form", zap.Int64("book.id", id), zap.String("request.id", requestID))
	}
	api.redirectHome(w, r, "")
}

func (api *APIHandler) redirectHome(w http.ResponseWriter, r *http.Request, flash string) {
	target := "/"
	if flash != "" {
		target = "/?error=" + url.QueryEscape(flash)
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}
