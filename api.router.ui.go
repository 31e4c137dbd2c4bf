package main

import (
	"github.com/julienschmidt/httprouter"
)

// SetupUIRoutes injects the browser-facing page endpoints.
func (api *APIHandler) SetupUIRoutes(router *httprouter.Router, m *MiddlewareMap) *httprouter.Router {
	router.RedirectTrailingSlash = true
	router.GET("/", m.public(api.Home))
	router.POST("/books", m.public(api.AddBookForm))
	router.POST("/books/:id/return", m.public(api.ReturnBookForm))
	return router
}
