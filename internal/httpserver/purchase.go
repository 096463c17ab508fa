package httpserver

import (
	"errors"
	"net/http"

	"pos-backoffice/internal/service/purchase"

	"github.com/gin-gonic/gin"
)

func createPurchaseDraftHandler(svc purchaseService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := svc.Create(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"id": id})
	}
}

func listPurchaseDraftsHandler(svc purchaseService) gin.HandlerFunc {
	return func(c *gin.Context) {
		ids, err := svc.List(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		if ids == nil {
			ids = []string{}
		}
		c.JSON(http.StatusOK, gin.H{"ids": ids})
	}
}

func getPurchaseDraftHandler(svc purchaseService) gin.HandlerFunc {
	return func(c *gin.Context) {
		view, err := svc.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, view)
	}
}

type addPurchaseLineRequest struct {
	VariantID      string `json:"variantId" binding:"required"`
	UnitPriceCents *int64 `json:"unitPriceCents"`
}

func addPurchaseLineHandler(svc purchaseService, catalog catalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req addPurchaseLineRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		variant, err := catalog.Lookup(c.Request.Context(), req.VariantID)
		if err != nil {
			respondError(c, err)
			return
		}
		view, err := svc.AddLine(c.Request.Context(), c.Param("id"), *variant, req.UnitPriceCents)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, view)
	}
}

type purchaseQuantityRequest struct {
	VariantID string `json:"variantId" binding:"required"`
	Quantity  *int   `json:"quantity" binding:"required"`
}

func updatePurchaseQuantityHandler(svc purchaseService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req purchaseQuantityRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		view, err := svc.UpdateQuantity(c.Request.Context(), c.Param("id"), req.VariantID, *req.Quantity)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, view)
	}
}

type purchasePriceRequest struct {
	VariantID      string `json:"variantId" binding:"required"`
	UnitPriceCents *int64 `json:"unitPriceCents" binding:"required"`
}

func updatePurchasePriceHandler(svc purchaseService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req purchasePriceRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		view, err := svc.UpdatePrice(c.Request.Context(), c.Param("id"), req.VariantID, *req.UnitPriceCents)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, view)
	}
}

type purchaseDiscountRequest struct {
	VariantID         string `json:"variantId" binding:"required"`
	UnitDiscountCents *int64 `json:"unitDiscountCents" binding:"required"`
}

func updatePurchaseDiscountHandler(svc purchaseService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req purchaseDiscountRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		view, err := svc.UpdateDiscount(c.Request.Context(), c.Param("id"), req.VariantID, *req.UnitDiscountCents)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, view)
	}
}

type purchaseBatchRequest struct {
	VariantID   string `json:"variantId" binding:"required"`
	BatchNumber string `json:"batchNumber"`
	ExpiryDate  string `json:"expiryDate"`
}

func updatePurchaseBatchHandler(svc purchaseService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req purchaseBatchRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		view, err := svc.SetBatch(c.Request.Context(), c.Param("id"), req.VariantID, req.BatchNumber, req.ExpiryDate)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, view)
	}
}

func removePurchaseLineHandler(svc purchaseService) gin.HandlerFunc {
	return func(c *gin.Context) {
		variantID := c.Query("variantId")
		if variantID == "" {
			badRequest(c, errors.New("variantId required"))
			return
		}
		view, err := svc.RemoveLine(c.Request.Context(), c.Param("id"), variantID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, view)
	}
}

func updatePurchaseFieldsHandler(svc purchaseService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req purchase.FieldsInput
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		view, err := svc.SetFields(c.Request.Context(), c.Param("id"), req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, view)
	}
}

func resetPurchaseDraftHandler(svc purchaseService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.Reset(c.Request.Context(), c.Param("id")); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func submitPurchaseDraftHandler(svc purchaseService) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, err := svc.Submit(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, res)
	}
}
