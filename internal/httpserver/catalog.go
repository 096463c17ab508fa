package httpserver

import (
	"net/http"
	"strconv"

	"pos-backoffice/internal/domain"

	"github.com/gin-gonic/gin"
)

func searchVariantsHandler(svc catalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, _ := strconv.Atoi(c.Query("limit"))
		variants, err := svc.Search(c.Request.Context(), c.Query("q"), limit)
		if err != nil {
			if err.Error() == "query required" {
				badRequest(c, err)
				return
			}
			respondError(c, err)
			return
		}
		if variants == nil {
			variants = []domain.Variant{}
		}
		c.JSON(http.StatusOK, gin.H{"results": variants, "count": len(variants)})
	}
}

func getVariantHandler(svc catalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, err := svc.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, v)
	}
}
