package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
)

// APIResponse is the data model sent when a request succeed. The `total`
// field uses a pointer with omitempty so only the collection listing
// carries it.
type APIResponse struct {
	Success bool        `json:"success"`
	Total   *int        `json:"total,omitempty"`
	Data    interface{} `json:"data"`
}

// APIError is the data model sent when an error occurred during request
// processing: {success: false, error: message}.
type APIError struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func NewAPIError(message string) *APIError {
	return &APIError{
		Success: false,
		Error:   message,
	}
}

func GenericResponse(total *int, data interface{}) *APIResponse {
	return &APIResponse{
		Success: true,
		Total:   total,
		Data:    data,
	}
}

// WriteErrorResponse is used to send error response to client. In case the client closes the
// request, it logs the stats with the Nginx non standard status code 499 (Client Closed
// Request). In case of request processing timeout we set the status code to 504. In both
// situations the timeout middleware already kicked-in and sent a response to the client.
func WriteErrorResponse(ctx context.Context, w http.ResponseWriter, status int, errResp *APIError) error {
	if err := ctx.Err(); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			w.WriteHeader(http.StatusGatewayTimeout)
		} else {
			w.WriteHeader(499)
		}
		return ctx.Err()
	}
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(errResp)
}

// WriteResponse is used to send success api response to client. It sets the status code to 499
// in case client cancelled the request, and to 504 if the request processing timed out.
func WriteResponse(ctx context.Context, w http.ResponseWriter, status int, resp *APIResponse) error {
	if err := ctx.Err(); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			w.WriteHeader(http.StatusGatewayTimeout)
		} else {
			w.WriteHeader(499)
		}
		return ctx.Err()
	}
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(resp)
}

// StatusResponse is the data model sent when status endpoint is called.
type StatusResponse struct {
	RequestID string `json:"requestid"`
	Status    string `json:"status"`
	Message   string `json:"message"`
}
