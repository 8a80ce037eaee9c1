package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/roomkeep/dataroom/internal/config"
)

// CategoryHandler exposes the category taxonomy the UI picker offers.
type CategoryHandler struct {
	taxonomy []config.Category
}

// NewCategoryHandler creates the handler with the taxonomy loaded at
// boot.
func NewCategoryHandler(taxonomy []config.Category) *CategoryHandler {
	return &CategoryHandler{taxonomy: taxonomy}
}

// List returns the taxonomy.
func (h *CategoryHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, h.taxonomy)
}
