package httpserver

import (
	"errors"
	"net/http"

	"pos-backoffice/internal/domain"
	"pos-backoffice/internal/draft"
	"pos-backoffice/internal/service/purchase"
	"pos-backoffice/internal/service/sale"
	"pos-backoffice/internal/upstream"

	"github.com/gin-gonic/gin"
)

// respondError maps service errors onto HTTP statuses: unknown ids are 404,
// algebra validation failures are 422, upstream auth expiry passes through as
// 401, other upstream rejections become 502.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, draft.ErrInvalidAmount),
		errors.Is(err, draft.ErrInvalidInstallment),
		errors.Is(err, sale.ErrEmptyDraft),
		errors.Is(err, purchase.ErrEmptyDraft):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, upstream.ErrNotAuthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
	default:
		var statusErr *upstream.StatusError
		if errors.As(err, &statusErr) {
			if statusErr.StatusCode == http.StatusUnauthorized {
				c.JSON(http.StatusUnauthorized, gin.H{"error": statusErr.Message})
				return
			}
			c.JSON(http.StatusBadGateway, gin.H{"error": statusErr.Message})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}
