package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"roombook/internal/availability/service"
	apperrors "roombook/pkg/errors"
	httputil "roombook/pkg/http"
	"roombook/pkg/logger"
	"roombook/pkg/timeslot"
)

type AvailabilityHandler struct {
	service service.AvailabilityService
	log     *logger.Logger
}

func NewAvailabilityHandler(service service.AvailabilityService, log *logger.Logger) *AvailabilityHandler {
	return &AvailabilityHandler{
		service: service,
		log:     log,
	}
}

func (h *AvailabilityHandler) Get(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query()

	interval, err := timeslot.New(
		query.Get("date"),
		query.Get("start_time"),
		query.Get("end_time"),
	)
	if err != nil {
		httputil.WriteError(w, apperrors.InvalidInput(err.Error()))
		return
	}

	result, err := h.service.ComputeAvailability(r.Context(), interval)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, result)
}

func (h *AvailabilityHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/availability", h.Get)
}
