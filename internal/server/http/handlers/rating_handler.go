package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/greenbasket/greenbasket/internal/domain/model"
	"github.com/greenbasket/greenbasket/internal/server/http/dto"
)

// RatingHandler manages rating ledger endpoints.
type RatingHandler struct {
	facade RatingFacade
}

// NewRatingHandler constructs RatingHandler.
func NewRatingHandler(facade RatingFacade) *RatingHandler {
	return &RatingHandler{facade: facade}
}

// Upsert handles POST /api/items/:itemID/ratings.
func (h *RatingHandler) Upsert(c *gin.Context) {
	userID := CurrentUserID(c)
	itemID := c.Param("itemID")
	var req dto.UpsertRatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	rating, average, err := h.facade.UpsertRating(c.Request.Context(), userID, req.OrderID, itemID, req.Score, req.Review)
	if err != nil {
		c.Status(statusForError(err))
		return
	}

	c.JSON(http.StatusOK, dto.UpsertRatingResponse{
		Rating:        toRatingResponse(*rating),
		AverageRating: average,
	})
}

// Eligibility handles GET /api/items/:itemID/ratings/eligibility?order_id=...
func (h *RatingHandler) Eligibility(c *gin.Context) {
	userID := CurrentUserID(c)
	itemID := c.Param("itemID")
	orderID := c.Query("order_id")
	if orderID == "" {
		c.Status(http.StatusBadRequest)
		return
	}

	eligibility, err := h.facade.RatingEligibility(c.Request.Context(), userID, orderID, itemID)
	if err != nil {
		c.Status(statusForError(err))
		return
	}
	c.JSON(http.StatusOK, dto.EligibilityResponse{
		Allowed:      eligibility.Allowed,
		AlreadyRated: eligibility.AlreadyRated,
	})
}

// List handles GET /api/items/:itemID/ratings.
func (h *RatingHandler) List(c *gin.Context) {
	itemID := c.Param("itemID")
	ratings, err := h.facade.ItemRatings(c.Request.Context(), itemID)
	if err != nil {
		c.Status(statusForError(err))
		return
	}

	response := make([]dto.RatingResponse, 0, len(ratings))
	for _, rating := range ratings {
		response = append(response, toRatingResponse(rating))
	}
	c.JSON(http.StatusOK, response)
}

// Batch handles POST /api/ratings/batch.
func (h *RatingHandler) Batch(c *gin.Context) {
	var req dto.RatingsBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	grouped, err := h.facade.ItemRatingsBatch(c.Request.Context(), req.ItemIDs)
	if err != nil {
		c.Status(statusForError(err))
		return
	}

	response := make(map[string][]dto.RatingResponse, len(grouped))
	for itemID, ratings := range grouped {
		rows := make([]dto.RatingResponse, 0, len(ratings))
		for _, rating := range ratings {
			rows = append(rows, toRatingResponse(rating))
		}
		response[itemID] = rows
	}
	c.JSON(http.StatusOK, response)
}

func toRatingResponse(rating model.Rating) dto.RatingResponse {
	return dto.RatingResponse{
		ItemID:    rating.ItemID,
		Score:     rating.Score,
		Review:    rating.Review,
		CreatedAt: rating.CreatedAt,
		UpdatedAt: rating.UpdatedAt,
	}
}
