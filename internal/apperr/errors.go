// Package apperr defines the error taxonomy surfaced at the request
// boundary and its mapping to HTTP status codes.
package apperr

import (
	"errors"
	"net/http"
)

var (
	ErrInternalServer     = errors.New("internal server error")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrCustomerExists     = errors.New("customer name already exists")
	ErrProductExists      = errors.New("product name already exists")
	ErrCustomerNotFound   = errors.New("customer not found")
	ErrProductNotFound    = errors.New("product not found")
	ErrEmptyUpdate        = errors.New("update payload is empty")
	ErrInvalidDateRange   = errors.New("start and end must be YYYY-MM-DD dates")
	ErrInvalidCoordinates = errors.New("longitude, latitude and maxDistance must be valid")
	ErrInvalidLimit       = errors.New("limit must be a positive integer")
	ErrMissingProductName = errors.New("productName is required")
	ErrMissingQuery       = errors.New("query is required")
	ErrInvalidLocation    = errors.New("location must be a GeoJSON point with [longitude, latitude]")
)

// Duplicate keys map to 400 rather than 409: the API contract reports
// every client fault, "already exists" included, as a bad request.
var errorMap = map[error]int{
	ErrInternalServer:     http.StatusInternalServerError,
	ErrInvalidCredentials: http.StatusBadRequest,
	ErrUsernameTaken:      http.StatusBadRequest,
	ErrCustomerExists:     http.StatusBadRequest,
	ErrProductExists:      http.StatusBadRequest,
	ErrCustomerNotFound:   http.StatusNotFound,
	ErrProductNotFound:    http.StatusNotFound,
	ErrEmptyUpdate:        http.StatusBadRequest,
	ErrInvalidDateRange:   http.StatusBadRequest,
	ErrInvalidCoordinates: http.StatusBadRequest,
	ErrInvalidLimit:       http.StatusBadRequest,
	ErrMissingProductName: http.StatusBadRequest,
	ErrMissingQuery:       http.StatusBadRequest,
	ErrInvalidLocation:    http.StatusBadRequest,
}

func StatusCode(err error) int {
	for sentinel, status := range errorMap {
		if errors.Is(err, sentinel) {
			return status
		}
	}
	return http.StatusInternalServerError
}
