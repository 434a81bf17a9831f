package handlers

import (
	"context"
	"net/http"
	"time"

	middleware "impactplanner/middlewares"
	service "impactplanner/services"
	"impactplanner/utils"
)

type ImpactHandler struct {
	service service.ImpactService
}

func NewImpactHandler(service service.ImpactService) *ImpactHandler {
	return &ImpactHandler{service: service}
}

// RecomputeImpact runs the full propagation pass for the caller's owner
// scope. Callers hit this after onboarding completes or a mapping or target
// value changes.
func (h *ImpactHandler) RecomputeImpact(w http.ResponseWriter, r *http.Request) {
	ownerID := middleware.GetOwnerFromContext(r.Context())

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	result, err := h.service.RecomputeImpact(ctx, ownerID)
	if err != nil {
		utils.HandleServiceError(w, err)
		return
	}

	utils.HandleDataResponse(w, "Impact recomputed successfully", result, http.StatusOK)
}
