package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/willowrootwellness/willowroot-backend/api/controllers"
	"github.com/willowrootwellness/willowroot-backend/api/middleware"
	"github.com/willowrootwellness/willowroot-backend/internal/assessment"
	"github.com/willowrootwellness/willowroot-backend/internal/bookings"
	"github.com/willowrootwellness/willowroot-backend/internal/catalog"
	"github.com/willowrootwellness/willowroot-backend/internal/compounds"
	"github.com/willowrootwellness/willowroot-backend/internal/enrolments"
	"github.com/willowrootwellness/willowroot-backend/internal/guidance"
	"github.com/willowrootwellness/willowroot-backend/internal/orders"
	"github.com/willowrootwellness/willowroot-backend/internal/reviews"
	pkgauth "github.com/willowrootwellness/willowroot-backend/pkg/auth"
	"github.com/willowrootwellness/willowroot-backend/pkg/config"
	"github.com/willowrootwellness/willowroot-backend/pkg/db"
	"github.com/willowrootwellness/willowroot-backend/pkg/logger"
	"github.com/willowrootwellness/willowroot-backend/pkg/redis"
)

// Services bundles the domain services the router mounts.
type Services struct {
	Catalog     catalog.Service
	Compounds   compounds.Service
	Orders      orders.Service
	Assessments assessment.Service
	Guidance    guidance.Service
	Bookings    bookings.Service
	Enrolments  enrolments.Service
	Reviews     reviews.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()

	var cachePinger redis.Pinger
	var idemStore redis.IdempotencyStore
	if redisClient != nil {
		cachePinger = redisClient
		idemStore = redisClient
	}

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, cachePinger))
	})

	r.Route("/api/public/v1", func(r chi.Router) {
		r.Get("/products", controllers.BrowseProducts(svcs.Catalog, logg))
		r.Get("/products/{productRef}", controllers.ProductDetail(svcs.Catalog, logg))
		r.Get("/products/{productId}/reviews", controllers.ProductReviews(svcs.Reviews, logg))
		r.Get("/packages", controllers.ListPackages(svcs.Enrolments, logg))
		r.Post("/assessments", controllers.SubmitAssessment(svcs.Assessments, logg))
		r.Post("/guidance/recommendations", controllers.GuidedRecommendations(svcs.Guidance, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.Auth, logg))
		r.Use(middleware.Idempotency(idemStore, logg))

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", controllers.Checkout(svcs.Orders, logg))
			r.Get("/", controllers.ListOrders(svcs.Orders, logg))
			r.Get("/{orderId}", controllers.OrderDetail(svcs.Orders, logg))
			r.Post("/{orderId}/cancel", controllers.CancelOrder(svcs.Orders, logg))
		})

		r.Route("/compounds", func(r chi.Router) {
			r.Post("/", controllers.SaveCompound(svcs.Compounds, logg))
			r.Get("/", controllers.ListCompounds(svcs.Compounds, logg))
			r.Get("/{compoundId}", controllers.CompoundDetail(svcs.Compounds, logg))
			r.Put("/{compoundId}", controllers.ResaveCompound(svcs.Compounds, logg))
		})

		r.Route("/bookings", func(r chi.Router) {
			r.Post("/", controllers.CreateBooking(svcs.Bookings, logg))
			r.Get("/", controllers.ListBookings(svcs.Bookings, logg))
			r.Get("/{bookingId}", controllers.BookingDetail(svcs.Bookings, logg))
			r.Post("/{bookingId}/cancel", controllers.CancelBooking(svcs.Bookings, logg))
		})

		r.Route("/enrolments", func(r chi.Router) {
			r.Post("/", controllers.Enrol(svcs.Enrolments, logg))
			r.Get("/", controllers.ListEnrolments(svcs.Enrolments, logg))
			r.Get("/{enrolmentId}", controllers.EnrolmentDetail(svcs.Enrolments, logg))
		})

		r.Route("/reviews", func(r chi.Router) {
			r.Post("/", controllers.SubmitReview(svcs.Reviews, logg))
			r.Put("/{reviewId}", controllers.UpdateReview(svcs.Reviews, logg))
			r.Delete("/{reviewId}", controllers.DeleteReview(svcs.Reviews, logg))
		})

		r.Route("/assessments", func(r chi.Router) {
			r.Post("/", controllers.SubmitAssessment(svcs.Assessments, logg))
			r.Get("/", controllers.ListAssessments(svcs.Assessments, logg))
			r.Get("/{assessmentId}", controllers.AssessmentDetail(svcs.Assessments, logg))
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.Auth, logg))
		r.Use(middleware.RequireRole(pkgauth.RoleAdmin.String(), logg))
		r.Use(middleware.Idempotency(idemStore, logg))

		r.Route("/products", func(r chi.Router) {
			r.Post("/", controllers.AdminCreateProduct(svcs.Catalog, logg))
			r.Patch("/{productId}", controllers.AdminUpdateProduct(svcs.Catalog, logg))
			r.Delete("/{productId}", controllers.AdminDeactivateProduct(svcs.Catalog, logg))
		})

		r.Route("/batches", func(r chi.Router) {
			r.Post("/", controllers.AdminRegisterBatch(svcs.Compounds, logg))
			r.Delete("/{batchId}", controllers.AdminDiscardBatch(svcs.Compounds, logg))
		})

		r.Patch("/orders/{orderId}/status", controllers.AdminUpdateOrderStatus(svcs.Orders, logg))
		r.Get("/compounds/{compoundId}/batches", controllers.AdminListBatches(svcs.Compounds, logg))
	})

	return r
}
