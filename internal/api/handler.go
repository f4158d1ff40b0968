package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"legalcrm/internal/errs"
	"legalcrm/internal/models"
	"legalcrm/internal/redisclient"
	"legalcrm/internal/service"
	"legalcrm/internal/store"
	"legalcrm/internal/util"
)

// Handler contains HTTP handlers
type Handler struct {
	orderService     *service.OrderService
	paymentService   *service.PaymentService
	clientService    *service.ClientService
	dashboardService *service.DashboardService
	redis            *redisclient.Client
}

// NewHandler creates a new HTTP handler
func NewHandler(
	orderService *service.OrderService,
	paymentService *service.PaymentService,
	clientService *service.ClientService,
	dashboardService *service.DashboardService,
	redis *redisclient.Client,
) *Handler {
	return &Handler{
		orderService:     orderService,
		paymentService:   paymentService,
		clientService:    clientService,
		dashboardService: dashboardService,
		redis:            redis,
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.POST("/clients", h.createClient)
		v1.GET("/clients", h.listClients)
		v1.GET("/clients/:id", h.getClient)

		v1.POST("/orders", h.createOrder)
		v1.GET("/orders", h.listOrders)
		v1.GET("/orders/:id", h.getOrder)
		v1.PATCH("/orders/:id", h.updateOrder)
		v1.POST("/orders/:id/services", h.addService)
		v1.POST("/orders/:id/payments", h.registerPayment)
		v1.POST("/orders/:id/request-payment", h.requestPayment)
		v1.GET("/orders/:id/invoice", h.generateInvoice)
		v1.GET("/orders/:id/activity", h.listActivity)

		v1.PATCH("/items/:id/status", h.changeItemStatus)
		v1.GET("/items/:id/progress", h.itemProgress)

		v1.GET("/queue", h.smartQueue)
		v1.GET("/dashboard", h.dashboardStats)
		v1.GET("/kanban", h.kanbanBoard)
	}
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck handles readiness check requests
func (h *Handler) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

// createClient handles client registration
func (h *Handler) createClient(c *gin.Context) {
	var req service.CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	client, err := h.clientService.CreateClient(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, client)
}

// listClients handles client listing
func (h *Handler) listClients(c *gin.Context) {
	clients, err := h.clientService.ListClients(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"clients": clients})
}

// getClient handles get client by ID
func (h *Handler) getClient(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	client, err := h.clientService.GetClient(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, client)
}

// createOrder handles order creation with initial items. Creation
// itself is not idempotent; an Idempotency-Key header gives callers
// transport-level retry protection.
func (h *Handler) createOrder(c *gin.Context) {
	var req service.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	idemKey := c.GetHeader("Idempotency-Key")
	if idemKey != "" && h.redis != nil {
		seen, err := h.redis.CheckIdempotencyKey(c.Request.Context(), idemKey)
		if err == nil && seen {
			c.JSON(http.StatusConflict, gin.H{"error": "Duplicate request", "idempotency_key": idemKey})
			return
		}
	}

	detail, err := h.orderService.CreateOrder(c.Request.Context(), &req, actingUser(c))
	if err != nil {
		respondError(c, err)
		return
	}

	if idemKey != "" && h.redis != nil {
		_ = h.redis.SetIdempotencyKey(c.Request.Context(), idemKey, detail.Order.ID, 24*time.Hour)
	}

	c.JSON(http.StatusCreated, detail)
}

// listOrders handles order listing, optionally by client email
func (h *Handler) listOrders(c *gin.Context) {
	orders, err := h.orderService.ListOrders(c.Request.Context(), c.Query("client_email"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

// getOrder handles get order by ID with its full aggregate
func (h *Handler) getOrder(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	detail, err := h.orderService.GetOrderDetail(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// updateOrder handles order-level field changes
func (h *Handler) updateOrder(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var patch service.OrderPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	order, err := h.orderService.UpdateOrderFields(c.Request.Context(), id, &patch, actingUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// addService handles adding an item to an existing order
func (h *Handler) addService(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req service.ServiceItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	item, err := h.orderService.AddItem(c.Request.Context(), id, &req, actingUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

// registerPayment handles payment registration against an order
func (h *Handler) registerPayment(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req service.RegisterPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	payment, err := h.paymentService.RegisterPayment(c.Request.Context(), id, &req, actingUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, payment)
}

// requestPayment handles the payment-request side effect
func (h *Handler) requestPayment(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.orderService.RequestPayment(c.Request.Context(), id, actingUser(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "payment request recorded"})
}

// generateInvoice handles the mock invoice download. PDF rendering is
// external; the response is a placeholder named after the order.
func (h *Handler) generateInvoice(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	order, err := h.orderService.GenerateInvoice(c.Request.Context(), id, actingUser(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, invoiceFilename(order.FriendlyID)))
	c.Data(http.StatusOK, "text/plain", []byte("PDF CONTENT MOCK"))
}

func invoiceFilename(friendlyID string) string {
	return fmt.Sprintf("invoice_%s.txt", friendlyID)
}

// listActivity handles listing an order's audit trail
func (h *Handler) listActivity(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	activity, err := h.orderService.ListActivity(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"activity": activity})
}

// changeItemStatus handles item status/location/assignee changes
func (h *Handler) changeItemStatus(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var patch service.ItemStatusPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	item, err := h.orderService.ChangeItemStatus(c.Request.Context(), id, &patch, actingUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// itemProgress returns an item's workflow path and overdue flag
func (h *Handler) itemProgress(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	item, err := h.orderService.GetItem(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	phases, overdue := h.orderService.ItemProgress(item, time.Now())
	c.JSON(http.StatusOK, gin.H{
		"item":    item,
		"phases":  phases,
		"overdue": overdue,
	})
}

// smartQueue returns the urgency-ranked open items
func (h *Handler) smartQueue(c *gin.Context) {
	queue, err := h.dashboardService.SmartQueue(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"queue": queue})
}

// dashboardStats returns the aggregate dashboard counters
func (h *Handler) dashboardStats(c *gin.Context) {
	stats, err := h.dashboardService.Stats(c.Request.Context(), models.Currency(c.Query("currency")))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// kanbanBoard returns orders grouped into the board columns
func (h *Handler) kanbanBoard(c *gin.Context) {
	var filter store.OrderFilter
	if v := c.Query("assigned_to"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid assigned_to"})
			return
		}
		filter.AssignedTo = &id
	}
	filter.WithDebt = c.Query("with_debt") == "true"
	filter.Urgent = c.Query("urgent") == "true"
	filter.Location = models.Location(c.Query("location"))

	columns, err := h.dashboardService.Kanban(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"columns": columns})
}

// pathID parses the :id path parameter, writing the 400 itself
func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID"})
		return 0, false
	}
	return id, true
}

// actingUser extracts the acting user from the X-User-ID header; nil
// when absent or malformed. Authentication itself sits in front of this
// service.
func actingUser(c *gin.Context) *int64 {
	v := c.GetHeader("X-User-ID")
	if v == "" {
		return nil
	}
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return nil
	}
	return &id
}

// respondError maps domain errors onto HTTP statuses
func respondError(c *gin.Context, err error) {
	var vErr *errs.ValidationError
	if errors.As(err, &vErr) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "fields": vErr.Fields})
		return
	}

	switch {
	case errors.Is(err, errs.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, errs.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, errs.ErrInvariantViolation):
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error", "details": err.Error()})
	}
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}
