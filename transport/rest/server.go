package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

// NewRouter wires every route onto a fresh router.
func NewRouter(handlers *Handlers) *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/ping", handlers.Ping).Methods(http.MethodGet)

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/users", handlers.CreateUser).Methods(http.MethodPost)
	api.HandleFunc("/games", handlers.CreateGame).Methods(http.MethodPost)
	api.HandleFunc("/games/{code}", handlers.GetGame).Methods(http.MethodGet)
	api.HandleFunc("/games/{code}/join", handlers.JoinGame).Methods(http.MethodPost)
	api.HandleFunc("/games/{code}/moves", handlers.MakeMove).Methods(http.MethodPost)

	return router
}

// Start runs the HTTP boundary until the context is canceled.
func Start(ctx context.Context, logger *slog.Logger, port string, handlers *Handlers) error {
	router := NewRouter(handlers)

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      cors.AllowAll().Handler(router),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("failed to shut down HTTP server", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}
