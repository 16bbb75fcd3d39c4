package reviews

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/willowrootwellness/willowroot-backend/pkg/db"
	"github.com/willowrootwellness/willowroot-backend/pkg/db/models"
	pkgerrors "github.com/willowrootwellness/willowroot-backend/pkg/errors"
	"github.com/willowrootwellness/willowroot-backend/pkg/logger"
)

// productCatalog is the slice of the catalog reviews need.
type productCatalog interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// Service manages customer product reviews.
type Service interface {
	SubmitReview(ctx context.Context, userID uuid.UUID, input SaveReviewInput) (*ReviewDTO, error)
	UpdateReview(ctx context.Context, userID, reviewID uuid.UUID, input SaveReviewInput) (*ReviewDTO, error)
	DeleteReview(ctx context.Context, userID, reviewID uuid.UUID) error
	ListProductReviews(ctx context.Context, productID uuid.UUID) ([]ReviewDTO, ProductSummary, error)
}

type service struct {
	repo    *Repository
	catalog productCatalog
	logg    *logger.Logger
}

// NewService constructs a review service instance.
func NewService(repo *Repository, catalog productCatalog, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("review repository required")
	}
	if catalog == nil {
		return nil, fmt.Errorf("product catalog required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, catalog: catalog, logg: logg}, nil
}

// SubmitReview records one review per user per product.
func (s *service) SubmitReview(ctx context.Context, userID uuid.UUID, input SaveReviewInput) (*ReviewDTO, error) {
	if err := validateReviewFields(input); err != nil {
		return nil, err
	}

	product, err := s.catalog.FindByID(ctx, input.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: find product")
	}
	if !product.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}

	row := &models.Review{
		ID:        uuid.New(),
		UserID:    userID,
		ProductID: product.ID,
		Rating:    input.Rating,
		Title:     trimOptional(input.Title),
		Body:      trimOptional(input.Body),
	}
	created, err := s.repo.Create(ctx, row)
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "you have already reviewed this product")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert review")
	}

	logCtx := s.logg.WithFields(ctx, map[string]any{
		"review_id":  created.ID.String(),
		"product_id": product.ID.String(),
	})
	s.logg.Info(logCtx, "review submitted")
	return NewReviewDTO(created), nil
}

// UpdateReview rewrites the rating and text of the caller's own review.
func (s *service) UpdateReview(ctx context.Context, userID, reviewID uuid.UUID, input SaveReviewInput) (*ReviewDTO, error) {
	if input.Rating < 1 || input.Rating > 5 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rating must be between 1 and 5")
	}

	row, err := s.loadOwned(ctx, userID, reviewID)
	if err != nil {
		return nil, err
	}

	row.Rating = input.Rating
	row.Title = trimOptional(input.Title)
	row.Body = trimOptional(input.Body)
	updated, err := s.repo.Update(ctx, row)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update review")
	}
	return NewReviewDTO(updated), nil
}

func (s *service) DeleteReview(ctx context.Context, userID, reviewID uuid.UUID) error {
	row, err := s.loadOwned(ctx, userID, reviewID)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, row.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete review")
	}
	logCtx := s.logg.WithField(ctx, "review_id", row.ID.String())
	s.logg.Info(logCtx, "review deleted")
	return nil
}

func (s *service) ListProductReviews(ctx context.Context, productID uuid.UUID) ([]ReviewDTO, ProductSummary, error) {
	rows, err := s.repo.ListByProduct(ctx, productID)
	if err != nil {
		return nil, ProductSummary{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list reviews")
	}
	summary, err := s.repo.SummarizeProduct(ctx, productID)
	if err != nil {
		return nil, ProductSummary{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: summarize reviews")
	}
	out := make([]ReviewDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *NewReviewDTO(&rows[i]))
	}
	return out, summary, nil
}

func (s *service) loadOwned(ctx context.Context, userID, reviewID uuid.UUID) (*models.Review, error) {
	row, err := s.repo.FindByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "review not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: find review")
	}
	if row.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "review not found")
	}
	return row, nil
}

func validateReviewFields(input SaveReviewInput) error {
	if input.ProductID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "product_id is required")
	}
	if input.Rating < 1 || input.Rating > 5 {
		return pkgerrors.New(pkgerrors.CodeValidation, "rating must be between 1 and 5")
	}
	return nil
}

func trimOptional(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
