package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sparkhq/spark-backend-go/internal/config"
	appHTTP "github.com/sparkhq/spark-backend-go/internal/handler/http"
	"github.com/sparkhq/spark-backend-go/internal/pkg/cron"
	"github.com/sparkhq/spark-backend-go/internal/pkg/database"
	"github.com/sparkhq/spark-backend-go/internal/pkg/jwt"
	"github.com/sparkhq/spark-backend-go/internal/pkg/storage"
	"github.com/sparkhq/spark-backend-go/internal/repository/postgresql"
	allocationService "github.com/sparkhq/spark-backend-go/internal/service/allocation"
	authService "github.com/sparkhq/spark-backend-go/internal/service/auth"
	commissionService "github.com/sparkhq/spark-backend-go/internal/service/commission"
	employeeService "github.com/sparkhq/spark-backend-go/internal/service/employee"
	payrollService "github.com/sparkhq/spark-backend-go/internal/service/payroll"
	rateService "github.com/sparkhq/spark-backend-go/internal/service/rate"
	saleService "github.com/sparkhq/spark-backend-go/internal/service/sale"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	dsn := cfg.DatabaseURL()
	db, err := database.NewPostgreSQLDB(dsn)
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}
	defer db.Close()

	userRepo := postgresql.NewUserRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	rateRepo := postgresql.NewRateRepository(db)
	saleRepo := postgresql.NewSaleRepository(db)
	allocationRepo := postgresql.NewAllocationRepository(db)
	overrideRepo := postgresql.NewOverrideRepository(db)
	clawbackRepo := postgresql.NewClawbackRepository(db)
	batchRepo := postgresql.NewBatchRepository(db)

	jwtSvc := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration)

	fileStorage, err := storage.NewLocalStorage(cfg.Storage.BasePath, cfg.Storage.BaseURL)
	if err != nil {
		log.Fatal("Failed to initialize local storage:", err)
	}

	authSvc := authService.NewAuthService(userRepo, jwtSvc)
	teamSvc := employeeService.NewTeamService(employeeRepo)
	rateSvc := rateService.NewRateService(db, rateRepo)
	commissionSvc := commissionService.NewCommissionService(db, saleRepo, rateSvc, allocationRepo, overrideRepo, employeeRepo, userRepo)
	saleSvc := saleService.NewSaleService(db, saleRepo, allocationRepo, overrideRepo)
	allocationSvc := allocationService.NewAllocationService(db, allocationRepo, overrideRepo, clawbackRepo)
	batchSvc := payrollService.NewBatchService(db, batchRepo, allocationRepo, overrideRepo, fileStorage)

	authHandler := appHTTP.NewAuthHandler(jwtSvc, authSvc)
	rateHandler := appHTTP.NewRateHandler(rateSvc)
	saleHandler := appHTTP.NewSaleHandler(saleSvc, commissionSvc, teamSvc)
	allocationHandler := appHTTP.NewAllocationHandler(allocationSvc, teamSvc)
	payrollBatchHandler := appHTTP.NewPayrollBatchHandler(batchSvc)
	teamHandler := appHTTP.NewTeamHandler(teamSvc)

	router := appHTTP.NewRouter(
		jwtSvc,
		authHandler,
		rateHandler,
		saleHandler,
		allocationHandler,
		payrollBatchHandler,
		teamHandler,
	)

	scheduler := cron.NewScheduler()
	if cfg.Cron.Enabled {
		interval, err := time.ParseDuration(cfg.Cron.ReconcileExpression)
		if err != nil {
			log.Fatal("Invalid CRON_RECONCILE_INTERVAL:", err)
		}
		batchJobs := cron.NewBatchJobs(batchSvc, batchRepo, interval)
		batchJobs.RegisterJobs(scheduler)
		scheduler.Start()
	}

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.App.Port),
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on port %d", cfg.App.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server error:", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")
	scheduler.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server shutdown error:", err)
	}

	log.Println("Server stopped")
}
