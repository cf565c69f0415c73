package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/greenbasket/greenbasket/internal/server/http/dto"
)

// SalesHandler serves sales rollups to operators.
type SalesHandler struct {
	facade SalesFacade
}

// NewSalesHandler constructs SalesHandler.
func NewSalesHandler(facade SalesFacade) *SalesHandler {
	return &SalesHandler{facade: facade}
}

// Report handles GET /api/admin/sales?date=... or ?start=...&end=...
func (h *SalesHandler) Report(c *gin.Context) {
	rows, err := h.facade.SalesReport(c.Request.Context(),
		c.Query("date"), c.Query("start"), c.Query("end"))
	if err != nil {
		c.Status(statusForError(err))
		return
	}

	response := make([]dto.CategorySalesResponse, 0, len(rows))
	for _, row := range rows {
		response = append(response, dto.CategorySalesResponse{
			Category:      row.Category,
			TotalSales:    row.TotalSales,
			TotalQuantity: row.TotalQuantity,
		})
	}
	c.JSON(http.StatusOK, response)
}
