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

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type JobHandler struct {
	jobRepo     repository.JobRepository
	sequencing  service.SequencingService
	duplication service.DuplicationService
}

func NewJobHandler(jobRepo repository.JobRepository, sequencing service.SequencingService, duplication service.DuplicationService) *JobHandler {
	return &JobHandler{
		jobRepo:     jobRepo,
		sequencing:  sequencing,
		duplication: duplication,
	}
}

// ownedJob loads a job and hides it behind a 404 when it belongs to another
// owner. Returns nil after writing the response on failure.
func (h *JobHandler) ownedJob(ctx context.Context, w http.ResponseWriter, r *http.Request) *models.Job {
	id := r.PathValue("id")
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		utils.HandleMessageResponse(w, "Invalid job ID format", http.StatusBadRequest)
		return nil
	}

	job, err := h.jobRepo.GetByID(ctx, objectID)
	if err != nil {
		utils.HandleServiceError(w, err)
		return nil
	}
	if job.OwnerID != middleware.GetOwnerFromContext(r.Context()) {
		utils.HandleMessageResponse(w, "Job not found", http.StatusNotFound)
		return nil
	}
	return job
}

func (h *JobHandler) CreateJob(w http.ResponseWriter, r *http.Request) {
	var job models.Job
	if err := utils.DecodeAndValidate(w, r, &job); err != nil {
		return
	}

	job.OwnerID = middleware.GetOwnerFromContext(r.Context())
	job.Metadata = models.NewMetadata(middleware.GetUsernameFromContext(r.Context()))
	job.TaskIDs = []primitive.ObjectID{}
	job.NextTaskID = nil
	job.Impact = 0
	job.IsDone = false
	job.IsDeleted = false

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if err := h.jobRepo.Create(ctx, &job); err != nil {
		utils.HandleMessageResponse(w, err.Error(), http.StatusInternalServerError)
		return
	}

	utils.HandleDataResponse(w, "Job created successfully", job, http.StatusCreated)
}

func (h *JobHandler) GetAllJobs(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	jobs, err := h.jobRepo.GetAllByOwner(ctx, middleware.GetOwnerFromContext(r.Context()))
	if err != nil {
		utils.HandleMessageResponse(w, err.Error(), http.StatusInternalServerError)
		return
	}

	utils.HandleDataResponse(w, "Jobs retrieved successfully", jobs, http.StatusOK)
}

func (h *JobHandler) GetJobByID(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	job := h.ownedJob(ctx, w, r)
	if job == nil {
		return
	}

	utils.HandleDataResponse(w, "Job retrieved successfully", job, http.StatusOK)
}

func (h *JobHandler) SetNextTask(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	job := h.ownedJob(ctx, w, r)
	if job == nil {
		return
	}

	var req models.SetNextTaskRequest
	if err := utils.DecodeAndValidate(w, r, &req); err != nil {
		return
	}

	var taskID *primitive.ObjectID
	if req.TaskID != nil {
		parsed, err := primitive.ObjectIDFromHex(*req.TaskID)
		if err != nil {
			utils.HandleMessageResponse(w, "Invalid task ID format", http.StatusBadRequest)
			return
		}
		taskID = &parsed
	}

	updated, err := h.sequencing.SetNextTask(ctx, job.ID, taskID)
	if err != nil {
		utils.HandleServiceError(w, err)
		return
	}

	utils.HandleDataResponse(w, "Next task updated successfully", updated, http.StatusOK)
}

func (h *JobHandler) ReorderTasks(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	job := h.ownedJob(ctx, w, r)
	if job == nil {
		return
	}

	var req models.ReorderTasksRequest
	if err := utils.DecodeAndValidate(w, r, &req); err != nil {
		return
	}

	orderedIDs := make([]primitive.ObjectID, 0, len(req.TaskIDs))
	for _, hex := range req.TaskIDs {
		parsed, err := primitive.ObjectIDFromHex(hex)
		if err != nil {
			utils.HandleMessageResponse(w, "Invalid task ID format", http.StatusBadRequest)
			return
		}
		orderedIDs = append(orderedIDs, parsed)
	}

	updated, err := h.sequencing.ReorderTasks(ctx, job.ID, orderedIDs)
	if err != nil {
		utils.HandleServiceError(w, err)
		return
	}

	utils.HandleDataResponse(w, "Tasks reordered successfully", updated, http.StatusOK)
}

func (h *JobHandler) DuplicateJob(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	job := h.ownedJob(ctx, w, r)
	if job == nil {
		return
	}

	var req models.DuplicateJobRequest
	if err := utils.DecodeAndValidate(w, r, &req); err != nil {
		return
	}

	overrides := service.JobOverrides{
		Title:   req.Title,
		Notes:   req.Notes,
		DueDate: req.DueDate,
	}
	ownerID := middleware.GetOwnerFromContext(r.Context())
	actor := middleware.GetUsernameFromContext(r.Context())

	result, err := h.duplication.DuplicateJob(ctx, job.ID, overrides, ownerID, actor)
	if err != nil {
		utils.HandleServiceError(w, err)
		return
	}

	utils.HandleDataResponse(w, "Job duplicated successfully", result, http.StatusCreated)
}
