package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/andresuchdata/stockcast/internal/domain"
	"github.com/andresuchdata/stockcast/internal/replenishment"
	"github.com/andresuchdata/stockcast/internal/service"
	"github.com/gin-gonic/gin"
)

type ReplenishmentHandler struct {
	service *service.ReplenishmentService
}

func NewReplenishmentHandler(service *service.ReplenishmentService) *ReplenishmentHandler {
	return &ReplenishmentHandler{service: service}
}

// statusRequest carries days untyped: any unusable value means no
// quantity_needed, not a bad request.
type statusRequest struct {
	Product string `json:"product" binding:"required"`
	Days    any    `json:"days"`
}

type reorderRequest struct {
	Product      string `json:"product" binding:"required"`
	Quantity     int    `json:"quantity" binding:"required,gt=0"`
	DeliveryDate string `json:"delivery_date"`
}

func (h *ReplenishmentHandler) GetStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	payload, err := h.service.Status(c.Request.Context(), strings.TrimSpace(req.Product), replenishment.ParseHorizon(req.Days))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, payload)
}

func (h *ReplenishmentHandler) GetOverview(c *gin.Context) {
	summaries, err := h.service.Overview(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": summaries})
}

func (h *ReplenishmentHandler) GetProducts(c *gin.Context) {
	products, err := h.service.Products(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": products})
}

func (h *ReplenishmentHandler) SendReorder(c *gin.Context) {
	var req reorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.service.SendReorder(c.Request.Context(), service.ReorderInput{
		Product:      strings.TrimSpace(req.Product),
		Quantity:     req.Quantity,
		DeliveryDate: strings.TrimSpace(req.DeliveryDate),
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotificationFailure) {
			c.Error(err)
			c.JSON(http.StatusBadGateway, result)
			return
		}
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func respondError(c *gin.Context, err error) {
	c.Error(err)
	c.JSON(statusFor(err), gin.H{"error": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrProductNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInsufficientHistory):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrArtifactMissing):
		return http.StatusServiceUnavailable
	case errors.Is(err, domain.ErrNotificationFailure):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
