package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/tasktrack-api/internal/api"
	"github.com/phrazzld/tasktrack-api/internal/api/middleware"
)

// setupRouter creates the router with every route and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.TraceMiddleware(app.logger))

	identity := middleware.NewIdentityMiddleware(app.jwtService, app.userService)
	taskHandler := api.NewTaskHandler(app.taskService)
	authHandler := api.NewAuthHandler(app.userService)
	subscriptionHandler := api.NewSubscriptionHandler(app.subscriptionService)

	r.Group(func(r chi.Router) {
		r.Use(app.limiter.Limit)
		r.Post("/signup", authHandler.Signup)
		r.Post("/login", authHandler.Login)
	})

	r.Post("/subscribe", subscriptionHandler.Subscribe)
	r.Post("/unsubscribe", subscriptionHandler.Unsubscribe)

	r.Route("/tasks", func(r chi.Router) {
		r.Use(identity.Identify)

		r.With(identity.RequireExistingUser).Post("/", taskHandler.CreateTask)
		r.Get("/", taskHandler.ListTasks)

		// Static segments take precedence over {id}.
		r.With(identity.RequireExistingUser).Delete("/batch_delete", taskHandler.BatchDeleteTasks)
		r.Post("/restore_last", taskHandler.RestoreLastDeleted)

		r.Get("/{id}", taskHandler.GetTask)
		r.Put("/{id}", taskHandler.UpdateTask)
		r.Delete("/{id}", taskHandler.DeleteTask)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}
