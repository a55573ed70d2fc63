package handlers

import (
	"net/http"

	"devtrack-backend/internal/middleware"
	"devtrack-backend/internal/services"
)

type DashboardHandler struct {
	dashboardService *services.DashboardService
}

func NewDashboardHandler(dashboardService *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

func (h *DashboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	data, err := h.dashboardService.Data(r.Context(), userID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, data)
}

func (h *DashboardHandler) Graph(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	graph, err := h.dashboardService.Graph(r.Context(), userID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, graph)
}
