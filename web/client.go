package web

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/mbocsi/smdp/services"
)

// WebClient serves a read-only JSON view of the hub and a live event stream
type WebClient struct {
	services *services.ServiceContainer
	server   *http.Server
}

// NewWebClient creates a new web client backed by the service layer
func NewWebClient(serviceContainer *services.ServiceContainer) *WebClient {
	return &WebClient{services: serviceContainer}
}

// Routes returns the HTTP routes for the web API
func (w *WebClient) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/", w.HandleHome)
	r.Get("/api/devices", w.HandleDevices)
	r.Get("/api/devices/{id}", w.HandleDeviceDetail)
	r.Get("/api/stats", w.HandleStats)
	r.Get("/api/transports", w.HandleTransports)
	r.Get("/api/transports/{i}", w.HandleTransportDetail)
	r.Get("/ws/events", w.HandleEvents)
	return r
}

// Start serves HTTP on addr until Shutdown is called
func (w *WebClient) Start(addr string) error {
	w.server = &http.Server{
		Addr:              addr,
		Handler:           w.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	slog.Info("Starting web server", "addr", addr)
	err := w.server.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the HTTP server
func (w *WebClient) Shutdown() error {
	if w.server == nil {
		return nil
	}
	slog.Info("Shutting down web server", "addr", w.server.Addr)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return w.server.Shutdown(ctx)
}
