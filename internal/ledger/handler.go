package ledger

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
// Cash flow: ?from=YYYY-MM-DD&to=YYYY-MM-DD (to inclusive)
// Defaults to the current month.
// --------------------------------------------------
func (h *Handler) Summary(c *gin.Context) {
	now := time.Now().In(h.service.loc)
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, h.service.loc)
	to := from.AddDate(0, 1, 0)

	if v := c.Query("from"); v != "" {
		d, err := time.ParseInLocation(dayLayout, v, h.service.loc)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "from must be YYYY-MM-DD"})
			return
		}
		from = d
	}
	if v := c.Query("to"); v != "" {
		d, err := time.ParseInLocation(dayLayout, v, h.service.loc)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "to must be YYYY-MM-DD"})
			return
		}
		to = d.AddDate(0, 0, 1)
	}

	sum, err := h.service.Summary(c.Request.Context(), from, to)
	if err != nil {
		if errors.Is(err, ErrInvalidPeriod) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to summarize ledger"})
		return
	}

	c.JSON(http.StatusOK, sum)
}
