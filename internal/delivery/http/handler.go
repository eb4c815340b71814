package http

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/efteilucian/price-comaprator-backend/internal/domain"
	"github.com/efteilucian/price-comaprator-backend/internal/usecase"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// Services bundles the use cases the HTTP layer exposes
type Services struct {
	Catalog         *usecase.CatalogService
	Basket          *usecase.BasketService
	Discounts       *usecase.DiscountService
	Recommendations *usecase.RecommendationService
	Alerts          *usecase.AlertService
	History         *usecase.HistoryService
}

// HandlerConfig holds query defaults for the HTTP handlers
type HandlerConfig struct {
	BestDiscountsLimit int
	NewDiscountsDays   int
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	services Services
	config   HandlerConfig
}

// NewHandler creates a new HTTP handler
func NewHandler(services Services, config HandlerConfig) *Handler {
	if config.BestDiscountsLimit <= 0 {
		config.BestDiscountsLimit = 10
	}
	if config.NewDiscountsDays < 0 {
		config.NewDiscountsDays = 1
	}
	return &Handler{services: services, config: config}
}

// createAlertRequest is the body of POST /alerts
type createAlertRequest struct {
	ProductName string          `json:"productName" binding:"required"`
	TargetPrice decimal.Decimal `json:"targetPrice"`
	Currency    string          `json:"currency" binding:"required"`
}

// reloadResponse describes the snapshot published by a reload
type reloadResponse struct {
	Version   uint64    `json:"version"`
	Products  int       `json:"products"`
	Discounts int       `json:"discounts"`
	LoadedAt  time.Time `json:"loadedAt"`
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	snapshot := h.services.Catalog.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"status":         "healthy",
		"service":        "price-comparator-backend",
		"version":        "1.0.0",
		"catalogVersion": snapshot.Version,
		"products":       len(snapshot.Products),
	})
}

// ListProducts returns the catalog, optionally filtered by store and category
func (h *Handler) ListProducts(c *gin.Context) {
	store := usecase.NormalizeKey(c.Query("store"))
	category := strings.TrimSpace(c.Query("category"))

	products := []domain.Product{}
	for _, p := range h.services.Catalog.Snapshot().Products {
		if store != "" && usecase.NormalizeKey(p.Source) != store {
			continue
		}
		if category != "" && !strings.EqualFold(strings.TrimSpace(p.ProductCategory), category) {
			continue
		}
		products = append(products, p)
	}

	c.JSON(http.StatusOK, products)
}

// OptimizeBasket picks the cheapest offer for every basket item
func (h *Handler) OptimizeBasket(c *gin.Context) {
	var basket domain.Basket
	if err := c.ShouldBindJSON(&basket); err != nil {
		respondError(c, invalidRequest(err))
		return
	}

	result, err := h.services.Basket.OptimizeDetailed(c.Request.Context(), basket.Items, h.services.Catalog.Snapshot().Products)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// OptimizeBasketByStore returns the optimized basket as one shopping list per store
func (h *Handler) OptimizeBasketByStore(c *gin.Context) {
	var basket domain.Basket
	if err := c.ShouldBindJSON(&basket); err != nil {
		respondError(c, invalidRequest(err))
		return
	}

	lists, err := h.services.Basket.OptimizeAndSplitByStore(c.Request.Context(), basket.Items, h.services.Catalog.Snapshot().Products)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, lists)
}

// BasketDiscounts returns the discounts applying to basket items.
// With activeOnly=true only discounts running today are kept.
func (h *Handler) BasketDiscounts(c *gin.Context) {
	var basket domain.Basket
	if err := c.ShouldBindJSON(&basket); err != nil {
		respondError(c, invalidRequest(err))
		return
	}

	activeOnly, err := boolQuery(c, "activeOnly")
	if err != nil {
		respondError(c, err)
		return
	}

	svc := h.services.Discounts
	discounts := svc.FindDiscountsForBasket(basket.Items, h.services.Catalog.Snapshot().Discounts)
	if activeOnly {
		discounts = svc.ActiveDiscounts(discounts, svc.Today())
	}

	c.JSON(http.StatusOK, discounts)
}

// BestDiscounts returns the highest discount per product
func (h *Handler) BestDiscounts(c *gin.Context) {
	limit, err := intQuery(c, "limit", h.config.BestDiscountsLimit)
	if err != nil {
		respondError(c, err)
		return
	}
	activeOnly, err := boolQuery(c, "activeOnly")
	if err != nil {
		respondError(c, err)
		return
	}

	svc := h.services.Discounts
	discounts := h.services.Catalog.Snapshot().Discounts
	if activeOnly {
		discounts = svc.ActiveDiscounts(discounts, svc.Today())
	}

	c.JSON(http.StatusOK, svc.BestDiscounts(discounts, limit))
}

// NewDiscounts returns discounts that started within the last days
func (h *Handler) NewDiscounts(c *gin.Context) {
	days, err := intQuery(c, "days", h.config.NewDiscountsDays)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.services.Discounts.NewDiscounts(h.services.Catalog.Snapshot().Discounts, days))
}

// ActiveDiscounts returns discounts running today
func (h *Handler) ActiveDiscounts(c *gin.Context) {
	svc := h.services.Discounts
	c.JSON(http.StatusOK, svc.ActiveDiscounts(h.services.Catalog.Snapshot().Discounts, svc.Today()))
}

// Recommendations suggests better-value products for the q query parameter
func (h *Handler) Recommendations(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		respondError(c, invalidRequestf("query parameter 'q' is required"))
		return
	}

	products, err := h.services.Recommendations.Recommend(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, products)
}

// CreateAlert registers a price alert
func (h *Handler) CreateAlert(c *gin.Context) {
	var req createAlertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, invalidRequest(err))
		return
	}

	alert, err := h.services.Alerts.Add(c.Request.Context(), domain.PriceAlert{
		ProductName: req.ProductName,
		TargetPrice: req.TargetPrice,
		Currency:    req.Currency,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, alert)
}

// ListAlerts returns the registered price alerts
func (h *Handler) ListAlerts(c *gin.Context) {
	alerts, err := h.services.Alerts.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, alerts)
}

// CheckAlerts returns the alerts triggered by the current catalog
func (h *Handler) CheckAlerts(c *gin.Context) {
	triggered, err := h.services.Alerts.CheckAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, triggered)
}

// PriceHistory returns the observed prices matching the query filters
func (h *Handler) PriceHistory(c *gin.Context) {
	var filter domain.HistoryFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		respondError(c, invalidRequest(err))
		return
	}

	c.JSON(http.StatusOK, h.services.History.History(filter, h.services.Catalog.Snapshot().Products))
}

// ReloadCatalog loads the catalog files again and publishes a new snapshot
func (h *Handler) ReloadCatalog(c *gin.Context) {
	snapshot, err := h.services.Catalog.Reload(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, reloadResponse{
		Version:   snapshot.Version,
		Products:  len(snapshot.Products),
		Discounts: len(snapshot.Discounts),
		LoadedAt:  snapshot.LoadedAt,
	})
}

// requestError carries a client-facing message for a bad request.
type requestError struct {
	msg string
}

func (e *requestError) Error() string { return e.msg }

func (e *requestError) Unwrap() error { return domain.ErrInvalidRequest }

func invalidRequest(err error) error {
	return &requestError{msg: "invalid request body: " + err.Error()}
}

func invalidRequestf(msg string) error {
	return &requestError{msg: msg}
}

func intQuery(c *gin.Context, name string, fallback int) (int, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, invalidRequestf("query parameter '" + name + "' must be an integer")
	}
	return n, nil
}

func boolQuery(c *gin.Context, name string) (bool, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, invalidRequestf("query parameter '" + name + "' must be a boolean")
	}
	return b, nil
}

// respondError maps domain errors to HTTP status codes
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrInvalidRequest), errors.Is(err, domain.ErrInvalidAlert):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrCatalogUnavailable):
		status = http.StatusServiceUnavailable
	}

	if status == http.StatusInternalServerError {
		log.Printf("[HTTP] %s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
	}

	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}
