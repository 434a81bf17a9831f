package handlers

import (
	"context"
	"net/http"
	"time"

	middleware "impactplanner/middlewares"
	"impactplanner/models"
	repository "impactplanner/repositories"
	"impactplanner/utils"
)

type PIHandler struct {
	piRepo repository.PIRepository
}

func NewPIHandler(piRepo repository.PIRepository) *PIHandler {
	return &PIHandler{piRepo: piRepo}
}

func (h *PIHandler) CreatePI(w http.ResponseWriter, r *http.Request) {
	var pi models.PI
	if err := utils.DecodeAndValidate(w, r, &pi); err != nil {
		return
	}

	pi.OwnerID = middleware.GetOwnerFromContext(r.Context())
	pi.Metadata = models.NewMetadata(middleware.GetUsernameFromContext(r.Context()))
	pi.IsDeleted = false

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if err := h.piRepo.Create(ctx, &pi); err != nil {
		utils.HandleMessageResponse(w, err.Error(), http.StatusInternalServerError)
		return
	}

	utils.HandleDataResponse(w, "PI created successfully", pi, http.StatusCreated)
}

func (h *PIHandler) GetAllPIs(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	pis, err := h.piRepo.GetAllByOwner(ctx, middleware.GetOwnerFromContext(r.Context()))
	if err != nil {
		utils.HandleMessageResponse(w, err.Error(), http.StatusInternalServerError)
		return
	}

	utils.HandleDataResponse(w, "PIs retrieved successfully", pis, http.StatusOK)
}
