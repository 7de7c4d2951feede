package http

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/sparkhq/spark-backend-go/internal/domain/user"
	"github.com/sparkhq/spark-backend-go/internal/handler/http/middleware"
	"github.com/sparkhq/spark-backend-go/internal/pkg/jwt"
)

func NewRouter(
	jwtService jwt.Service,
	authHandler AuthHandler,
	rateHandler RateHandler,
	saleHandler SaleHandler,
	allocationHandler AllocationHandler,
	payrollBatchHandler PayrollBatchHandler,
	teamHandler TeamHandler,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "spark-commissions"),
		slog.String("version", "v1.0.0"),
		slog.String("env", "development"),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.RefreshToken)

			r.Group(func(r chi.Router) {
				r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
				r.Use(middleware.AuthRequired(jwtService.JWTAuth()))
				r.Post("/logout", authHandler.Logout)
			})
		})

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
			r.Use(middleware.AuthRequired(jwtService.JWTAuth()))

			r.Route("/industries/{industry}/rates", func(r chi.Router) {
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireAuthority(user.AuthorityManager))
					r.Get("/", rateHandler.ListRates)
					r.Get("/{id}", rateHandler.GetRate)
				})
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireAuthority(user.AuthorityDirector))
					r.Post("/", rateHandler.CreateRate)
					r.Put("/{id}", rateHandler.UpdateRate)
					r.Delete("/{id}", rateHandler.DeactivateRate)
				})
			})

			r.Route("/sales", func(r chi.Router) {
				r.Get("/", saleHandler.ListSales)
				r.Get("/{id}", saleHandler.GetSale)
				r.Get("/{id}/allocations", allocationHandler.ListForSale)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireAuthority(user.AuthorityDirector))
					r.Post("/{id}/cancel", saleHandler.CancelSale)
					r.Post("/{id}/milestones/{milestone}", saleHandler.RunMilestone)
				})
			})

			r.Route("/allocations", func(r chi.Router) {
				r.Get("/", allocationHandler.List)
				r.Get("/pending", allocationHandler.PendingApprovals)
				r.Get("/paystub", allocationHandler.Paystub)
				r.Get("/clawbacks", allocationHandler.ListClawbacks)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireAuthority(user.AuthorityDirector))
					r.Post("/approve", allocationHandler.BatchApprove)
					r.Post("/{industry}/{id}/approve", allocationHandler.Approve)
					r.Post("/overrides/{id}/approve", allocationHandler.ApproveOverride)
				})
			})

			r.Route("/payroll/batches", func(r chi.Router) {
				r.Use(middleware.RequireAuthority(user.AuthorityAdmin))
				r.Post("/", payrollBatchHandler.CreateBatch)
				r.Get("/", payrollBatchHandler.ListBatches)
				r.Get("/{id}", payrollBatchHandler.GetBatch)
				r.Put("/{id}", payrollBatchHandler.UpdateBatch)
				r.Post("/{id}/allocations", payrollBatchHandler.AddAllocations)
				r.Post("/{id}/submit", payrollBatchHandler.SubmitBatch)
				r.Post("/{id}/approve", payrollBatchHandler.ApproveBatch)
				r.Post("/{id}/export", payrollBatchHandler.ExportBatch)
				r.Post("/{id}/pay", payrollBatchHandler.MarkBatchPaid)
				r.Post("/{id}/cancel", payrollBatchHandler.CancelBatch)
				r.Post("/{id}/recalculate", payrollBatchHandler.RecalculateTotals)
			})

			r.Route("/team", func(r chi.Router) {
				r.Get("/", teamHandler.GetMyTeam)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireAuthority(user.AuthorityManager))
					r.Get("/{userId}", teamHandler.GetTeam)
				})
			})
		})
	})

	return r
}
