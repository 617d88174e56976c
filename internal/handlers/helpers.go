package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"backoffice/internal/apperr"
)

const (
	customersCollection = "customers"
	productsCollection  = "products"
	authCollection      = "auth"

	queryTimeout = 5 * time.Second
)

func requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), queryTimeout)
}

// respondError maps a taxonomy error to its HTTP status. Errors are
// surfaced as-is; nothing is retried or recovered here.
func respondError(c *gin.Context, route string, err error) {
	status := apperr.StatusCode(err)
	log.Ctx(c.Request.Context()).Error().
		Str("route", route).
		Int("status", status).
		Err(err).
		Msg("request failed")
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}

// respondInternal logs the underlying cause but never leaks it to the
// client.
func respondInternal(c *gin.Context, route string, cause error) {
	log.Ctx(c.Request.Context()).Error().
		Str("route", route).
		Err(cause).
		Msg("store call failed")
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": apperr.ErrInternalServer.Error()})
}

func respondValidationError(c *gin.Context, err error) {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		details := make([]string, 0, len(validationErrors))
		for _, fieldError := range validationErrors {
			field := lowerCamel(fieldError.Field())
			switch fieldError.Tag() {
			case "required":
				details = append(details, fmt.Sprintf("%s is required", field))
			default:
				details = append(details, fmt.Sprintf("%s is invalid", field))
			}
		}
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":   "validation failed",
			"details": details,
		})
		return
	}

	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid body", "details": err.Error()})
}

func lowerCamel(field string) string {
	if field == "" {
		return field
	}
	return strings.ToLower(field[:1]) + field[1:]
}
