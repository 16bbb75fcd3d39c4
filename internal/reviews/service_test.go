package reviews

import (
	"context"
	"io"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/willowrootwellness/willowroot-backend/internal/catalog"
	"github.com/willowrootwellness/willowroot-backend/pkg/db/models"
	"github.com/willowrootwellness/willowroot-backend/pkg/enums"
	pkgerrors "github.com/willowrootwellness/willowroot-backend/pkg/errors"
	"github.com/willowrootwellness/willowroot-backend/pkg/logger"
)

func newTestService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	dsn := "file:review_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := conn.AutoMigrate(&models.Product{}, &models.Review{}); err != nil {
		t.Fatalf("migrate review tables: %v", err)
	}
	svc, err := NewService(
		NewRepository(conn),
		catalog.NewRepository(conn),
		logger.New(logger.Options{ServiceName: "test", Output: io.Discard}),
	)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, conn
}

func seedProduct(t *testing.T, conn *gorm.DB, active bool) *models.Product {
	t.Helper()
	row := &models.Product{
		ID:            uuid.New(),
		Slug:          "elderberry-syrup-" + uuid.NewString()[:8],
		Name:          "Elderberry Syrup",
		Category:      enums.ProductCategoryTincture,
		Price:         24.50,
		StockQuantity: 10,
		IsActive:      active,
	}
	if err := conn.Create(row).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return row
}

func TestSubmitReviewOncePerProduct(t *testing.T) {
	t.Parallel()

	svc, conn := newTestService(t)
	ctx := context.Background()
	product := seedProduct(t, conn, true)
	userID := uuid.New()
	title := "Gentle and effective"

	dto, err := svc.SubmitReview(ctx, userID, SaveReviewInput{
		ProductID: product.ID,
		Rating:    5,
		Title:     &title,
	})
	if err != nil {
		t.Fatalf("submit review: %v", err)
	}
	if dto.Rating != 5 || dto.Title == nil || *dto.Title != title {
		t.Fatalf("unexpected review: %+v", dto)
	}

	_, err = svc.SubmitReview(ctx, userID, SaveReviewInput{ProductID: product.ID, Rating: 3})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeConflict {
		t.Fatalf("second review should conflict, got %v", err)
	}
}

func TestSubmitReviewRejectsInactiveProduct(t *testing.T) {
	t.Parallel()

	svc, conn := newTestService(t)
	product := seedProduct(t, conn, false)

	_, err := svc.SubmitReview(context.Background(), uuid.New(), SaveReviewInput{
		ProductID: product.ID,
		Rating:    4,
	})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("inactive product should read as not found, got %v", err)
	}
}

func TestSubmitReviewValidatesRating(t *testing.T) {
	t.Parallel()

	svc, conn := newTestService(t)
	product := seedProduct(t, conn, true)

	for _, rating := range []int{0, 6, -1} {
		_, err := svc.SubmitReview(context.Background(), uuid.New(), SaveReviewInput{
			ProductID: product.ID,
			Rating:    rating,
		})
		appErr := pkgerrors.As(err)
		if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
			t.Fatalf("rating %d should be rejected, got %v", rating, err)
		}
	}
}

func TestListProductReviewsSummarizes(t *testing.T) {
	t.Parallel()

	svc, conn := newTestService(t)
	ctx := context.Background()
	product := seedProduct(t, conn, true)

	for _, rating := range []int{5, 4, 3} {
		if _, err := svc.SubmitReview(ctx, uuid.New(), SaveReviewInput{
			ProductID: product.ID,
			Rating:    rating,
		}); err != nil {
			t.Fatalf("submit review: %v", err)
		}
	}

	reviews, summary, err := svc.ListProductReviews(ctx, product.ID)
	if err != nil {
		t.Fatalf("list reviews: %v", err)
	}
	if len(reviews) != 3 {
		t.Fatalf("expected 3 reviews, got %d", len(reviews))
	}
	if summary.ReviewCount != 3 {
		t.Fatalf("expected count 3, got %d", summary.ReviewCount)
	}
	if summary.AverageRating != 4 {
		t.Fatalf("expected average 4, got %f", summary.AverageRating)
	}
}

func TestUpdateAndDeleteOwnReviewOnly(t *testing.T) {
	t.Parallel()

	svc, conn := newTestService(t)
	ctx := context.Background()
	product := seedProduct(t, conn, true)
	owner := uuid.New()

	created, err := svc.SubmitReview(ctx, owner, SaveReviewInput{ProductID: product.ID, Rating: 2})
	if err != nil {
		t.Fatalf("submit review: %v", err)
	}

	_, err = svc.UpdateReview(ctx, uuid.New(), created.ID, SaveReviewInput{Rating: 5})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("foreign update should read as not found, got %v", err)
	}

	updated, err := svc.UpdateReview(ctx, owner, created.ID, SaveReviewInput{Rating: 4})
	if err != nil {
		t.Fatalf("update review: %v", err)
	}
	if updated.Rating != 4 {
		t.Fatalf("expected rating 4, got %d", updated.Rating)
	}

	if err := svc.DeleteReview(ctx, uuid.New(), created.ID); err == nil {
		t.Fatal("foreign delete should fail")
	}
	if err := svc.DeleteReview(ctx, owner, created.ID); err != nil {
		t.Fatalf("delete review: %v", err)
	}

	reviews, _, err := svc.ListProductReviews(ctx, product.ID)
	if err != nil {
		t.Fatalf("list reviews: %v", err)
	}
	if len(reviews) != 0 {
		t.Fatalf("expected no reviews after delete, got %d", len(reviews))
	}
}
