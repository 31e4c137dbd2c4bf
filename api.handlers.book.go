package main

import (
	"errors"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"
)

// CreateBook godoc
// @Summary Register a borrowed book
// @Accept json
// @Produce json
// @Param book body CreateBookRequest true "book to register"
// @Success 201 {object} APIResponse
// @Failure 400 {object} APIError
// @Failure 500 {object} APIError
// @Router /api/books [post]
func (api *APIHandler) CreateBook(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req CreateBookRequest
	requestID := GetValueFromContext(r.Context(), ContextRequestID)
	err := DecodeCreateBookRequestBody(r, &req)
	if err != nil {
		api.logger.Error("failed to create book", zap.String("request.id", requestID), zap.Error(err))
		if err = WriteErrorResponse(r.Context(), w, http.StatusBadRequest, NewAPIError("invalid create book request body")); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}

	book, err := api.library.Add(r.Context(), req.Title, req.Author, req.DueDate)
	if IsValidationError(err) {
		api.logger.Error("failed to create book", zap.String("request.id", requestID), zap.Error(err))
		if err = WriteErrorResponse(r.Context(), w, http.StatusBadRequest, NewAPIError(err.Error())); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}
	if err != nil {
		api.logger.Error("failed to create book", zap.String("request.id", requestID), zap.Error(err))
		if err = WriteErrorResponse(r.Context(), w, http.StatusInternalServerError, NewAPIError("failed to create the book")); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}
	api.logger.Info("success to create book", zap.Int64("book.id", book.ID), zap.String("request.id", requestID))
	if err = WriteResponse(r.Context(), w, http.StatusCreated, GenericResponse(nil, book)); err != nil {
		api.logger.Error("failed to send response", zap.String("request.id", requestID), zap.Error(err))
	}
}

// GetAllBooks godoc
// @Summary List all borrowed books sorted ascending by due date
// @Produce json
// @Success 200 {object} APIResponse
// @Failure 500 {object} APIError
// @Router /api/books [get]
func (api *APIHandler) GetAllBooks(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	requestID := GetValueFromContext(r.Context(), ContextRequestID)
	books, err := api.library.GetAll(r.Context())
	if err != nil {
		api.logger.Error("failed to get all books", zap.String("request.id", requestID), zap.Error(err))
		if err = WriteErrorResponse(r.Context(), w, http.StatusInternalServerError, NewAPIError("failed to get all books")); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}
	api.logger.Info("success to get all books", zap.String("request.id", requestID))
	total := len(books)
	if err = WriteResponse(r.Context(), w, http.StatusOK, GenericResponse(&total, SortBooksByDueDate(books))); err != nil {
		api.logger.Error("failed to send response", zap.String("request.id", requestID), zap.Error(err))
	}
}

// GetOneBook godoc
// @Summary Fetch one borrowed book by its id
// @Produce json
// @Param id path int true "book id"
// @Success 200 {object} APIResponse
// @Failure 404 {object} APIError
// @Failure 500 {object} APIError
// @Router /api/books/{id} [get]
func (api *APIHandler) GetOneBook(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	requestID := GetValueFromContext(r.Context(), ContextRequestID)
	id, err := ParseBookID(ps.ByName("id"))
	var book Book
	if err == nil {
		book, err = api.library.GetOne(r.Context(), id)
	}
	if errors.Is(err, ErrBookNotFound) {
		api.logger.Error("book does not exist", zap.String("book.id", ps.ByName("id")), zap.String("request.id", requestID))
		if err = WriteErrorResponse(r.Context(), w, http.StatusNotFound, NewAPIError("Book not found")); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}
	if err != nil {
		api.logger.Error("failed to get book", zap.Int64("book.id", id), zap.String("request.id", requestID), zap.Error(err))
		if err = WriteErrorResponse(r.Context(), w, http.StatusInternalServerError, NewAPIError("failed to get the book")); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}
	api.logger.Info("success to get book", zap.Int64("book.id", id), zap.String("request.id", requestID))
	if err = WriteResponse(r.Context(), w, http.StatusOK, GenericResponse(nil, book)); err != nil {
		api.logger.Error("failed to send response", zap.String("request.id", requestID), zap.Error(err))
	}
}

// DeleteOneBook godoc
// @Summary Return a borrowed book, removing it from the collection
// @Produce json
// @Param id path int true "book id"
// @Success 200 {object} APIResponse
// @Failure 404 {object} APIError
// @Failure 500 {object} APIError
// @Router /api/books/{id} [delete]
func (api *APIHandler) DeleteOneBook(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	requestID := GetValueFromContext(r.Context(), ContextRequestID)
	id, err := ParseBookID(ps.ByName("id"))
	var book Book
	if err == nil {
		book, err = api.library.Delete(r.Context(), id)
	}
	if errors.Is(err, ErrBookNotFound) {
		api.logger.Error("book does not exist", zap.String("book.id", ps.ByName("id")), zap.String("request.id", requestID))
		if err = WriteErrorResponse(r.Context(), w, http.StatusNotFound, NewAPIError("Book not found")); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}
	if err != nil {
		api.logger.Error("failed to delete book", zap.Int64("book.id", id), zap.String("request.id", requestID), zap.Error(err))
		if err = WriteErrorResponse(r.Context(), w, http.StatusInternalServerError, NewAPIError("failed to delete the book")); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}
	api.logger.Info("success to delete book", zap.Int64("book.id", id), zap.String("request.id", requestID))
	if err = WriteResponse(r.Context(), w, http.StatusOK, GenericResponse(nil, book)); err != nil {
		api.logger.Error("failed to send response", zap.String("request.id", requestID), zap.Error(err))
	}
}

// GetLendingStatistics godoc
// @Summary Aggregate counters of the collection
// @Produce json
// @Success 200 {object} APIResponse
// @Failure 500 {object} APIError
// @Router /api/statistics [get]
func (api *APIHandler) GetLendingStatistics(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	requestID := GetValueFromContext(r.Context(), ContextRequestID)
	stats, err := api.library.Statistics(r.Context())
	if err != nil {
		api.logger.Error("failed to get lending statistics", zap.String("request.id", requestID), zap.Error(err))
		if err = WriteErrorResponse(r.Context(), w, http.StatusInternalServerError, NewAPIError("failed to get lending statistics")); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}
	if err = WriteResponse(r.Context(), w, http.StatusOK, GenericResponse(nil, stats)); err != nil {
		api.logger.Error("failed to send response", zap.String("request.id", requestID), zap.Error(err))
	}
}
