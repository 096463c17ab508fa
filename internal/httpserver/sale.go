package httpserver

import (
	"errors"
	"net/http"

	"pos-backoffice/internal/draft"
	"pos-backoffice/internal/service/sale"

	"github.com/gin-gonic/gin"
)

type saleDraftResponse struct {
	ID string `json:"id"`
	draft.CartSnapshot
	TotalCents int64 `json:"totalCents"`
}

func saleResponse(id string, snap draft.CartSnapshot) saleDraftResponse {
	var total int64
	for _, line := range snap.Lines {
		total += line.TotalCents
	}
	if snap.Lines == nil {
		snap.Lines = []draft.Line{}
	}
	return saleDraftResponse{ID: id, CartSnapshot: snap, TotalCents: total}
}

func createSaleDraftHandler(svc saleService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := svc.Create(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"id": id})
	}
}

func listSaleDraftsHandler(svc saleService) gin.HandlerFunc {
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

func getSaleDraftHandler(svc saleService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		snap, err := svc.Get(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, saleResponse(id, snap))
	}
}

type addSaleLineRequest struct {
	VariantID      string `json:"variantId" binding:"required"`
	InstanceID     string `json:"instanceId"`
	UnitPriceCents *int64 `json:"unitPriceCents"`
}

func addSaleLineHandler(svc saleService, catalog catalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req addSaleLineRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		variant, err := catalog.Lookup(c.Request.Context(), req.VariantID)
		if err != nil {
			respondError(c, err)
			return
		}
		id := c.Param("id")
		snap, err := svc.AddLine(c.Request.Context(), id, *variant, req.UnitPriceCents, req.InstanceID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, saleResponse(id, snap))
	}
}

type saleQuantityRequest struct {
	VariantID  string `json:"variantId" binding:"required"`
	InstanceID string `json:"instanceId"`
	Quantity   *int   `json:"quantity" binding:"required"`
}

func updateSaleQuantityHandler(svc saleService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req saleQuantityRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		id := c.Param("id")
		key := draft.LineKey{VariantID: req.VariantID, InstanceID: req.InstanceID}
		snap, err := svc.UpdateQuantity(c.Request.Context(), id, key, *req.Quantity)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, saleResponse(id, snap))
	}
}

type salePriceRequest struct {
	VariantID      string `json:"variantId" binding:"required"`
	InstanceID     string `json:"instanceId"`
	UnitPriceCents *int64 `json:"unitPriceCents" binding:"required"`
}

func updateSalePriceHandler(svc saleService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req salePriceRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		id := c.Param("id")
		key := draft.LineKey{VariantID: req.VariantID, InstanceID: req.InstanceID}
		snap, err := svc.UpdatePrice(c.Request.Context(), id, key, *req.UnitPriceCents)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, saleResponse(id, snap))
	}
}

func removeSaleLineHandler(svc saleService) gin.HandlerFunc {
	return func(c *gin.Context) {
		variantID := c.Query("variantId")
		if variantID == "" {
			badRequest(c, errors.New("variantId required"))
			return
		}
		id := c.Param("id")
		key := draft.LineKey{VariantID: variantID, InstanceID: c.Query("instanceId")}
		snap, err := svc.RemoveLine(c.Request.Context(), id, key)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, saleResponse(id, snap))
	}
}

func updateSaleFieldsHandler(svc saleService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req sale.FieldsInput
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		id := c.Param("id")
		snap, err := svc.SetFields(c.Request.Context(), id, req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, saleResponse(id, snap))
	}
}

type installmentRequest struct {
	TotalCents          *int64 `json:"totalCents" binding:"required"`
	InitialPaymentCents int64  `json:"initialPaymentCents"`
	TotalMonths         int    `json:"totalMonths" binding:"required"`
	DueDate             string `json:"dueDate"`
	Notes               string `json:"notes"`
}

func setInstallmentHandler(svc saleService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req installmentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		id := c.Param("id")
		in := &draft.Installment{
			TotalCents:          *req.TotalCents,
			InitialPaymentCents: req.InitialPaymentCents,
			TotalMonths:         req.TotalMonths,
			DueDate:             req.DueDate,
			Notes:               req.Notes,
		}
		if _, err := in.PreviewSchedule(); err != nil {
			respondError(c, err)
			return
		}
		snap, err := svc.SetInstallment(c.Request.Context(), id, in)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, saleResponse(id, snap))
	}
}

func clearInstallmentHandler(svc saleService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		snap, err := svc.SetInstallment(c.Request.Context(), id, nil)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, saleResponse(id, snap))
	}
}

func installmentPreviewHandler(svc saleService) gin.HandlerFunc {
	return func(c *gin.Context) {
		snap, err := svc.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		if snap.Installment == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "no installment attached"})
			return
		}
		schedule, err := snap.Installment.PreviewSchedule()
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"schedule": schedule})
	}
}

func resetSaleDraftHandler(svc saleService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.Reset(c.Request.Context(), c.Param("id")); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func submitSaleDraftHandler(svc saleService) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, err := svc.Submit(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, res)
	}
}
