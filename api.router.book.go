package main

import (
	"github.com/julienschmidt/httprouter"
)

// SetupBookRoutes injects book related api endpoints.
func (api *APIHandler) SetupBookRoutes(router *httprouter.Router, m *MiddlewareMap) *httprouter.Router {
	router.RedirectTrailingSlash = true
	router.GET("/status", m.public(api.Status))
	router.POST("/api/books", m.public(api.CreateBook))
	router.GET("/api/books", m.public(api.GetAllBooks))
	router.GET("/api/books/:id", m.public(api.GetOneBook))
	router.DELETE("/api/books/:id", m.public(api.DeleteOneBook))
	router.GET("/api/statistics", m.public(api.GetLendingStatistics))
	return router
}
