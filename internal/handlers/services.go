package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/barbearia-nativa/bookingd/internal/booking"
	"github.com/barbearia-nativa/bookingd/internal/catalog"
	"github.com/barbearia-nativa/bookingd/internal/model"
)

type ServiceHandler struct {
	svc     *catalog.Service
	booking *booking.Service
	logger  *slog.Logger
}

func NewServiceHandler(svc *catalog.Service, bookingSvc *booking.Service, logger *slog.Logger) *ServiceHandler {
	return &ServiceHandler{svc: svc, booking: bookingSvc, logger: logger}
}

func boolQuery(r *http.Request, key string) *bool {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return nil
	}
	return &b
}

func (h *ServiceHandler) List(w http.ResponseWriter, r *http.Request) {
	services, err := h.svc.List(r.Context(), boolQuery(r, "active"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if services == nil {
		services = []model.Service{}
	}
	writeJSON(w, http.StatusOK, services)
}

func (h *ServiceHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	svc, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, svc)
}

func (h *ServiceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req catalog.UpsertRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	svc, err := h.svc.Create(r.Context(), req)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, svc)
}

func (h *ServiceHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req catalog.UpsertRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	svc, err := h.svc.Update(r.Context(), id, req)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, svc)
}

func (h *ServiceHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.svc.Deactivate(r.Context(), id); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"id":     id,
		"active": false,
	})
}

func (h *ServiceHandler) Appointments(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	date := strings.TrimSpace(r.URL.Query().Get("date"))
	status := strings.TrimSpace(r.URL.Query().Get("status"))

	appts, err := h.booking.ListByService(r.Context(), id, date, status)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if appts == nil {
		appts = []model.Appointment{}
	}
	writeJSON(w, http.StatusOK, appts)
}
