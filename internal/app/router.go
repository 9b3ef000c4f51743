package app

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	deliveryhandler "github.com/renanjardim/back-end-rota-certa/internal/handler/delivery"
	"github.com/renanjardim/back-end-rota-certa/internal/handler/middleware"
	userhandler "github.com/renanjardim/back-end-rota-certa/internal/handler/user"
	"github.com/renanjardim/back-end-rota-certa/internal/mailer"
	"github.com/renanjardim/back-end-rota-certa/internal/postgres"
	"github.com/renanjardim/back-end-rota-certa/internal/service"
	"github.com/renanjardim/back-end-rota-certa/pkg/dto"
	"github.com/renanjardim/back-end-rota-certa/pkg/logger"
)

func (app App) Router() *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.Compress(5))
	r.Use(middleware.WithAuth(app.Config))

	p := postgres.New(app.DB)
	m := mailer.New(app.Config)

	userService := service.NewUserService(p, m, app.Config)
	userHandler := userhandler.New(userService)

	deliveryService := service.NewDeliveryService(p)
	deliveryHandler := deliveryhandler.New(deliveryService)

	r.Get("/", health)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", userHandler.Register)
		r.Post("/login", userHandler.Login)
		r.Post("/forgot-password", userHandler.ForgotPassword)
	})

	r.Patch("/users/{id}", userHandler.UpdateProfile)

	r.Route("/deliveries", func(r chi.Router) {
		r.Post("/", deliveryHandler.Create)
		r.Get("/", deliveryHandler.List)
		r.Patch("/{id}/accept", deliveryHandler.Accept)
		r.Post("/{id}/complete", deliveryHandler.Complete)
		r.Patch("/{id}/fail", deliveryHandler.Fail)
		r.Post("/{id}/complete-return", deliveryHandler.CompleteReturn)
	})

	return r
}

func health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	err := json.NewEncoder(w).Encode(dto.Health{
		Status:  "online",
		Message: "Servidor do Rota Certa está a funcionar corretamente!",
	})
	if err != nil {
		logger.Log.Error("error while encoding health response", logger.Error(err))
	}
}
