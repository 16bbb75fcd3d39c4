package reviews

import (
	"time"

	"github.com/google/uuid"

	"github.com/willowrootwellness/willowroot-backend/pkg/db/models"
)

// SaveReviewInput carries the customer-submitted review fields.
type SaveReviewInput struct {
	ProductID uuid.UUID `json:"product_id"`
	Rating    int       `json:"rating"`
	Title     *string   `json:"title,omitempty"`
	Body      *string   `json:"body,omitempty"`
}

// ReviewDTO is the public shape of a review.
type ReviewDTO struct {
	ID        uuid.UUID `json:"id"`
	ProductID uuid.UUID `json:"product_id"`
	Rating    int       `json:"rating"`
	Title     *string   `json:"title,omitempty"`
	Body      *string   `json:"body,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ProductSummary aggregates the published reviews of one product.
type ProductSummary struct {
	ReviewCount   int64   `json:"review_count"`
	AverageRating float64 `json:"average_rating"`
}

// NewReviewDTO maps a review row to its public shape.
func NewReviewDTO(row *models.Review) *ReviewDTO {
	return &ReviewDTO{
		ID:        row.ID,
		ProductID: row.ProductID,
		Rating:    row.Rating,
		Title:     row.Title,
		Body:      row.Body,
		CreatedAt: row.CreatedAt,
	}
}
