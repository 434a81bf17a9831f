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

type QBOHandler struct {
	qboRepo repository.QBORepository
}

func NewQBOHandler(qboRepo repository.QBORepository) *QBOHandler {
	return &QBOHandler{qboRepo: qboRepo}
}

func (h *QBOHandler) CreateQBO(w http.ResponseWriter, r *http.Request) {
	var qbo models.QBO
	if err := utils.DecodeAndValidate(w, r, &qbo); err != nil {
		return
	}

	qbo.OwnerID = middleware.GetOwnerFromContext(r.Context())
	qbo.Metadata = models.NewMetadata(middleware.GetUsernameFromContext(r.Context()))
	qbo.IsDeleted = false

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if err := h.qboRepo.Create(ctx, &qbo); err != nil {
		utils.HandleMessageResponse(w, err.Error(), http.StatusInternalServerError)
		return
	}

	utils.HandleDataResponse(w, "QBO created successfully", qbo, http.StatusCreated)
}

func (h *QBOHandler) GetAllQBOs(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	qbos, err := h.qboRepo.GetAllByOwner(ctx, middleware.GetOwnerFromContext(r.Context()))
	if err != nil {
		utils.HandleMessageResponse(w, err.Error(), http.StatusInternalServerError)
		return
	}

	utils.HandleDataResponse(w, "QBOs retrieved successfully", qbos, http.StatusOK)
}
