package httpserver

import (
	"context"
	"log"
	"time"

	"pos-backoffice/internal/domain"
	"pos-backoffice/internal/draft"
	"pos-backoffice/internal/service/purchase"
	"pos-backoffice/internal/service/sale"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

type catalogService interface {
	Get(ctx context.Context, id string) (*domain.Variant, error)
	Lookup(ctx context.Context, ref string) (*domain.Variant, error)
	Search(ctx context.Context, query string, limit int) ([]domain.Variant, error)
}

type saleService interface {
	Create(ctx context.Context) (string, error)
	Get(ctx context.Context, id string) (draft.CartSnapshot, error)
	List(ctx context.Context) ([]string, error)
	AddLine(ctx context.Context, id string, v domain.Variant, unitPriceCents *int64, instanceID string) (draft.CartSnapshot, error)
	UpdateQuantity(ctx context.Context, id string, key draft.LineKey, quantity int) (draft.CartSnapshot, error)
	UpdatePrice(ctx context.Context, id string, key draft.LineKey, unitPriceCents int64) (draft.CartSnapshot, error)
	RemoveLine(ctx context.Context, id string, key draft.LineKey) (draft.CartSnapshot, error)
	SetFields(ctx context.Context, id string, in sale.FieldsInput) (draft.CartSnapshot, error)
	SetInstallment(ctx context.Context, id string, in *draft.Installment) (draft.CartSnapshot, error)
	Reset(ctx context.Context, id string) error
	Submit(ctx context.Context, id string) (*sale.SubmitResult, error)
}

type purchaseService interface {
	Create(ctx context.Context) (string, error)
	Get(ctx context.Context, id string) (purchase.View, error)
	List(ctx context.Context) ([]string, error)
	AddLine(ctx context.Context, id string, v domain.Variant, unitPriceCents *int64) (purchase.View, error)
	UpdateQuantity(ctx context.Context, id, variantID string, quantity int) (purchase.View, error)
	UpdatePrice(ctx context.Context, id, variantID string, unitPriceCents int64) (purchase.View, error)
	UpdateDiscount(ctx context.Context, id, variantID string, unitDiscountCents int64) (purchase.View, error)
	SetBatch(ctx context.Context, id, variantID, batchNumber, expiryDate string) (purchase.View, error)
	RemoveLine(ctx context.Context, id, variantID string) (purchase.View, error)
	SetFields(ctx context.Context, id string, in purchase.FieldsInput) (purchase.View, error)
	Reset(ctx context.Context, id string) error
	Submit(ctx context.Context, id string) (*purchase.SubmitResult, error)
}

type authClient interface {
	Login(ctx context.Context, email, password string) error
	Logout()
	Authenticated() bool
	TokenExpiry() time.Time
}

// Deps carries the services the router exposes.
type Deps struct {
	CatalogSvc  catalogService
	SaleSvc     saleService
	PurchaseSvc purchaseService
	Auth        authClient
}

// buildRouter wires routes for the terminal API.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps) (*gin.Engine, error) {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowAllOrigins = true
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
	router.Use(cors.New(corsCfg))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	v1 := router.Group("/v1")

	v1.POST("/auth/login", loginHandler(deps.Auth))
	v1.POST("/auth/logout", logoutHandler(deps.Auth))
	v1.GET("/auth/session", sessionHandler(deps.Auth))

	v1.GET("/variants", searchVariantsHandler(deps.CatalogSvc))
	v1.GET("/variants/:id", getVariantHandler(deps.CatalogSvc))

	sales := v1.Group("/sale-drafts")
	sales.POST("", createSaleDraftHandler(deps.SaleSvc))
	sales.GET("", listSaleDraftsHandler(deps.SaleSvc))
	sales.GET("/:id", getSaleDraftHandler(deps.SaleSvc))
	sales.PATCH("/:id", updateSaleFieldsHandler(deps.SaleSvc))
	sales.DELETE("/:id", resetSaleDraftHandler(deps.SaleSvc))
	sales.POST("/:id/lines", addSaleLineHandler(deps.SaleSvc, deps.CatalogSvc))
	sales.PATCH("/:id/lines/quantity", updateSaleQuantityHandler(deps.SaleSvc))
	sales.PATCH("/:id/lines/price", updateSalePriceHandler(deps.SaleSvc))
	sales.DELETE("/:id/lines", removeSaleLineHandler(deps.SaleSvc))
	sales.PUT("/:id/installment", setInstallmentHandler(deps.SaleSvc))
	sales.DELETE("/:id/installment", clearInstallmentHandler(deps.SaleSvc))
	sales.GET("/:id/installment/preview", installmentPreviewHandler(deps.SaleSvc))
	sales.POST("/:id/submit", submitSaleDraftHandler(deps.SaleSvc))

	purchases := v1.Group("/purchase-drafts")
	purchases.POST("", createPurchaseDraftHandler(deps.PurchaseSvc))
	purchases.GET("", listPurchaseDraftsHandler(deps.PurchaseSvc))
	purchases.GET("/:id", getPurchaseDraftHandler(deps.PurchaseSvc))
	purchases.PATCH("/:id", updatePurchaseFieldsHandler(deps.PurchaseSvc))
	purchases.DELETE("/:id", resetPurchaseDraftHandler(deps.PurchaseSvc))
	purchases.POST("/:id/lines", addPurchaseLineHandler(deps.PurchaseSvc, deps.CatalogSvc))
	purchases.PATCH("/:id/lines/quantity", updatePurchaseQuantityHandler(deps.PurchaseSvc))
	purchases.PATCH("/:id/lines/price", updatePurchasePriceHandler(deps.PurchaseSvc))
	purchases.PATCH("/:id/lines/discount", updatePurchaseDiscountHandler(deps.PurchaseSvc))
	purchases.PATCH("/:id/lines/batch", updatePurchaseBatchHandler(deps.PurchaseSvc))
	purchases.DELETE("/:id/lines", removePurchaseLineHandler(deps.PurchaseSvc))
	purchases.POST("/:id/submit", submitPurchaseDraftHandler(deps.PurchaseSvc))

	return router, nil
}
