package checklist

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/vcambrosio/experimentepro-sub000/internal/middleware"
)

type Handler struct {
	service *Service
}

type AdminHandler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func NewAdminHandler(service *Service) *AdminHandler {
	return &AdminHandler{service: service}
}

// --------------------------------------------------
// Build checklist of an order (no completion state)
// --------------------------------------------------
func (h *Handler) Get(c *gin.Context) {
	orderID := c.Param("id")

	groups, err := h.service.BuildForOrder(c.Request.Context(), orderID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"order_id":  orderID,
		"available": len(groups) > 0,
		"groups":    groups,
	})
}

// --------------------------------------------------
// Open a checklist view
// --------------------------------------------------
func (h *Handler) OpenSession(c *gin.Context) {
	sess, view, err := h.service.OpenSession(c.Request.Context(), c.Param("id"), middleware.UserID(c))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"session_id": sess.ID,
		"view":       view,
	})
}

func (h *Handler) GetSession(c *gin.Context) {
	view, err := h.service.Snapshot(c.Request.Context(), c.Param("sid"), middleware.UserID(c))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

func (h *Handler) Toggle(c *gin.Context) {
	view, err := h.service.Toggle(c.Request.Context(), c.Param("sid"), c.Param("eid"), middleware.UserID(c))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

func (h *Handler) CloseSession(c *gin.Context) {
	if err := h.service.CloseSession(c.Request.Context(), c.Param("sid"), middleware.UserID(c)); err != nil {
		writeError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// --------------------------------------------------
// Export (receipt | document)
// --------------------------------------------------
func (h *Handler) Export(c *gin.Context) {
	rows := 0
	if v := c.Query("rows"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "rows must be a positive integer"})
			return
		}
		rows = n
	}

	export, err := h.service.Export(
		c.Request.Context(),
		c.Param("sid"),
		middleware.UserID(c),
		c.DefaultQuery("format", FormatReceipt),
		rows,
	)
	if err != nil {
		writeError(c, err)
		return
	}

	if c.Query("raw") == "true" {
		c.Data(http.StatusOK, export.ContentType, export.Body)
		return
	}

	c.JSON(http.StatusOK, export)
}

// --------------------------------------------------
// Admin: checklist definitions of a product
// --------------------------------------------------
func (h *AdminHandler) List(c *gin.Context) {
	defs, err := h.service.ListDefinitions(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": defs})
}

func (h *AdminHandler) Save(c *gin.Context) {
	var req DefinitionInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	def, err := h.service.SaveDefinition(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		writeError(c, err)
		return
	}

	status := http.StatusCreated
	if req.ID != "" {
		status = http.StatusOK
	}
	c.JSON(status, def)
}

func (h *AdminHandler) Delete(c *gin.Context) {
	if err := h.service.DeleteDefinition(c.Request.Context(), c.Param("id"), c.Param("itemId")); err != nil {
		writeError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrSessionNotFound),
		errors.Is(err, ErrEntryNotFound),
		errors.Is(err, ErrDefinitionNotFound),
		errors.Is(err, ErrUnknownOrder):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, ErrInvalidDefinition),
		errors.Is(err, ErrUnknownFormat):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load checklist"})
	}
}
