package order

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// --------------------------------------------------
// Order details with total
// --------------------------------------------------
func (h *Handler) Get(c *gin.Context) {
	o, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch order"})
		return
	}

	c.JSON(http.StatusOK, o)
}

// --------------------------------------------------
// Delivery calendar: ?view=month|week&date=YYYY-MM-DD
// --------------------------------------------------
func (h *Handler) Calendar(c *gin.Context) {
	date := time.Now().In(h.service.loc)
	if v := c.Query("date"); v != "" {
		d, err := time.ParseInLocation(dayLayout, v, h.service.loc)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
			return
		}
		date = d
	}

	cal, err := h.service.Calendar(c.Request.Context(), c.DefaultQuery("view", ViewMonth), date)
	if err != nil {
		if errors.Is(err, ErrUnknownView) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build calendar"})
		return
	}

	c.JSON(http.StatusOK, cal)
}
