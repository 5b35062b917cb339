package web

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/mbocsi/smdp/services"
)

func (w *WebClient) HandleHome(wr http.ResponseWriter, r *http.Request) {
	http.Redirect(wr, r, "/api/devices", http.StatusMovedPermanently)
}

func (w *WebClient) HandleDevices(wr http.ResponseWriter, r *http.Request) {
	devices, err := w.services.Device.ListDevices()
	if err != nil {
		w.handleError(wr, err)
		return
	}
	writeJSON(wr, http.StatusOK, devices)
}

func (w *WebClient) HandleDeviceDetail(wr http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	device, err := w.services.Device.GetDevice(id)
	if err != nil {
		w.handleError(wr, err)
		return
	}
	writeJSON(wr, http.StatusOK, device)
}

func (w *WebClient) HandleStats(wr http.ResponseWriter, r *http.Request) {
	stats, err := w.services.Hub.GetStats()
	if err != nil {
		w.handleError(wr, err)
		return
	}
	transportStats, err := w.services.Transport.GetTransportStats()
	if err != nil {
		w.handleError(wr, err)
		return
	}
	writeJSON(wr, http.StatusOK, map[string]any{
		"hub":        stats,
		"transports": transportStats,
	})
}

func (w *WebClient) HandleTransports(wr http.ResponseWriter, r *http.Request) {
	transports, err := w.services.Transport.ListTransports()
	if err != nil {
		w.handleError(wr, err)
		return
	}
	writeJSON(wr, http.StatusOK, transports)
}

func (w *WebClient) HandleTransportDetail(wr http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "i"))
	if err != nil {
		w.handleError(wr, services.ServiceError{Code: services.ErrCodeInvalidInput, Message: "Transport index must be a number"})
		return
	}
	transport, err := w.services.Transport.GetTransport(index)
	if err != nil {
		w.handleError(wr, err)
		return
	}
	writeJSON(wr, http.StatusOK, transport)
}

func writeJSON(wr http.ResponseWriter, status int, v any) {
	wr.Header().Set("Content-Type", "application/json")
	wr.WriteHeader(status)
	if err := json.NewEncoder(wr).Encode(v); err != nil {
		slog.Warn("Failed to write response", "error", err)
	}
}

// handleError handles service errors with proper HTTP status codes
func (w *WebClient) handleError(wr http.ResponseWriter, err error) {
	var serviceErr services.ServiceError
	if errors.As(err, &serviceErr) {
		status := http.StatusInternalServerError
		switch serviceErr.Code {
		case services.ErrCodeNotFound:
			status = http.StatusNotFound
		case services.ErrCodeInvalidInput:
			status = http.StatusBadRequest
		}
		if status == http.StatusInternalServerError {
			slog.Error("Service error", "error", err)
		}
		writeJSON(wr, status, serviceErr)
		return
	}

	slog.Error("Service error", "error", err)
	writeJSON(wr, http.StatusInternalServerError, services.ServiceError{
		Code:    services.ErrCodeInternal,
		Message: "Internal server error",
	})
}
