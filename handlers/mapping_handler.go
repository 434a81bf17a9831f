package handlers

import (
	"context"
	"net/http"
	"time"

	middleware "impactplanner/middlewares"
	"impactplanner/models"
	repository "impactplanner/repositories"
	service "impactplanner/services"
	"impactplanner/utils"
)

// MappingHandler persists the two mapping collections. Every mapping change
// reshapes the propagation graph, so each create triggers a full impact
// recompute for the owner.
type MappingHandler struct {
	jobPIRepo repository.JobPIMappingRepository
	piQBORepo repository.PIQBOMappingRepository
	impact    service.ImpactService
}

func NewMappingHandler(jobPIRepo repository.JobPIMappingRepository, piQBORepo repository.PIQBOMappingRepository, impact service.ImpactService) *MappingHandler {
	return &MappingHandler{
		jobPIRepo: jobPIRepo,
		piQBORepo: piQBORepo,
		impact:    impact,
	}
}

func (h *MappingHandler) CreateJobPIMapping(w http.ResponseWriter, r *http.Request) {
	var mapping models.JobPIMapping
	if err := utils.DecodeAndValidate(w, r, &mapping); err != nil {
		return
	}

	ownerID := middleware.GetOwnerFromContext(r.Context())
	mapping.OwnerID = ownerID
	mapping.Metadata = models.NewMetadata(middleware.GetUsernameFromContext(r.Context()))
	mapping.DuplicatedFrom = nil
	mapping.IsDeleted = false

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	if err := h.jobPIRepo.Create(ctx, &mapping); err != nil {
		utils.HandleMessageResponse(w, err.Error(), http.StatusInternalServerError)
		return
	}

	impactResult, err := h.impact.RecomputeImpact(ctx, ownerID)
	if err != nil {
		utils.HandleServiceError(w, err)
		return
	}

	utils.HandleDataResponse(w, "Mapping created successfully", map[string]interface{}{
		"mapping": mapping,
		"impact":  impactResult,
	}, http.StatusCreated)
}

func (h *MappingHandler) CreatePIQBOMapping(w http.ResponseWriter, r *http.Request) {
	var mapping models.PIQBOMapping
	if err := utils.DecodeAndValidate(w, r, &mapping); err != nil {
		return
	}

	ownerID := middleware.GetOwnerFromContext(r.Context())
	mapping.OwnerID = ownerID
	mapping.Metadata = models.NewMetadata(middleware.GetUsernameFromContext(r.Context()))
	mapping.IsDeleted = false

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	if err := h.piQBORepo.Create(ctx, &mapping); err != nil {
		utils.HandleMessageResponse(w, err.Error(), http.StatusInternalServerError)
		return
	}

	impactResult, err := h.impact.RecomputeImpact(ctx, ownerID)
	if err != nil {
		utils.HandleServiceError(w, err)
		return
	}

	utils.HandleDataResponse(w, "Mapping created successfully", map[string]interface{}{
		"mapping": mapping,
		"impact":  impactResult,
	}, http.StatusCreated)
}
