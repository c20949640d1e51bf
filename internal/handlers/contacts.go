package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/barbearia-nativa/bookingd/internal/contact"
	"github.com/barbearia-nativa/bookingd/internal/model"
)

type ContactHandler struct {
	svc    *contact.Service
	logger *slog.Logger
}

func NewContactHandler(svc *contact.Service, logger *slog.Logger) *ContactHandler {
	return &ContactHandler{svc: svc, logger: logger}
}

func (h *ContactHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req contact.CreateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	msg, err := h.svc.Create(r.Context(), req)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, msg)
}

func (h *ContactHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	msgs, err := h.svc.List(r.Context(), boolQuery(r, "read"), limit, offset)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if msgs == nil {
		msgs = []model.ContactMessage{}
	}
	writeJSON(w, http.StatusOK, msgs)
}

func (h *ContactHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	msg, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, msg)
}

func (h *ContactHandler) SetRead(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req struct {
		Read *bool `json:"read"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Read == nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "read must be a boolean"})
		return
	}
	if err := h.svc.SetRead(r.Context(), id, *req.Read); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"id":   id,
		"read": *req.Read,
	})
}

func (h *ContactHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.svc.Delete(r.Context(), id); err != nil {
		writeError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ContactHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Stats(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *ContactHandler) Recent(w http.ResponseWriter, r *http.Request) {
	limit := 10
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}
	msgs, err := h.svc.Recent(r.Context(), limit)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if msgs == nil {
		msgs = []model.ContactMessage{}
	}
	writeJSON(w, http.StatusOK, msgs)
}
