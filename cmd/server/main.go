package main

import (
	"log"
	"net/http"

	"plantcare-be/internal/admin"
	"plantcare-be/internal/assignment"
	"plantcare-be/internal/catalog"
	"plantcare-be/internal/config"
	"plantcare-be/internal/db"
	"plantcare-be/internal/handler"
	"plantcare-be/internal/income"
	"plantcare-be/internal/logger"
	"plantcare-be/internal/middleware"
	"plantcare-be/internal/order"
	"plantcare-be/internal/payment"
	"plantcare-be/internal/plant"
	"plantcare-be/internal/task"
	"plantcare-be/internal/user"
	"plantcare-be/internal/voucher"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg := config.LoadConfig()
	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	database := db.InitDB(cfg)
	defer database.Close()

	userRepo := user.NewRepository(database)
	userSvc := user.NewService(userRepo)

	catalogRepo := catalog.NewRepository(database)
	catalogSvc := catalog.NewService(catalogRepo)

	plantRepo := plant.NewRepository(database)
	plantSvc := plant.NewService(plantRepo)

	voucherRepo := voucher.NewRepository(database)
	paymentRepo := payment.NewRepository(database)

	orderRepo := order.NewRepository(database)
	orderSvc := order.NewService(orderRepo, catalogRepo, plantRepo, voucherRepo, paymentRepo)

	assignmentRepo := assignment.NewRepository(database)
	assignmentSvc := assignment.NewService(assignmentRepo, orderRepo, userRepo)

	incomeRepo := income.NewRepository(database)
	incomeSvc := income.NewService(incomeRepo, cfg.BonusAmount)

	taskSvc := task.NewService(orderRepo, assignmentSvc, assignmentRepo, incomeSvc)
	adminSvc := admin.NewService(orderRepo, userRepo, paymentRepo)

	authHandler := handler.NewAuthHandler(userSvc)
	catalogHandler := handler.NewCatalogHandler(catalogSvc)
	plantHandler := handler.NewPlantHandler(plantSvc)
	orderHandler := handler.NewOrderHandler(orderSvc)
	staffHandler := handler.NewStaffHandler(taskSvc, incomeSvc)
	adminHandler := handler.NewAdminHandler(adminSvc, assignmentSvc, voucherRepo)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(middleware.Metrics)
	r.Use(middleware.RateLimit)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Mount("/auth", authHandler.Routes())
	r.Mount("/services", catalogHandler.Routes())

	r.Route("/v1", func(r chi.Router) {
		r.Use(middleware.RequireAuth)

		r.Mount("/profile", authHandler.ProfileRoutes())

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(user.RoleCustomer))
			r.Mount("/orders", orderHandler.Routes())
			r.Mount("/plants", plantHandler.Routes())
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(user.RoleStaff))
			r.Mount("/tasks", staffHandler.Routes())
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(user.RoleAdmin))
			r.Mount("/admin", adminHandler.Routes())
			r.Mount("/services", catalogHandler.AdminRoutes())
		})
	})

	log.Printf("server running at http://localhost:%s/", cfg.AppPort)
	log.Fatal(http.ListenAndServe(":"+cfg.AppPort, r))
}
