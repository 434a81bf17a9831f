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

// TaskHandler persists task documents and drives the sequencing hooks:
// every lifecycle event goes through exactly one sequencing transition.
type TaskHandler struct {
	taskRepo   repository.TaskRepository
	jobRepo    repository.JobRepository
	sequencing service.SequencingService
}

func NewTaskHandler(taskRepo repository.TaskRepository, jobRepo repository.JobRepository, sequencing service.SequencingService) *TaskHandler {
	return &TaskHandler{
		taskRepo:   taskRepo,
		jobRepo:    jobRepo,
		sequencing: sequencing,
	}
}

func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	jobID, err := primitive.ObjectIDFromHex(r.PathValue("id"))
	if err != nil {
		utils.HandleMessageResponse(w, "Invalid job ID format", http.StatusBadRequest)
		return
	}

	var req models.CreateTaskRequest
	if err := utils.DecodeAndValidate(w, r, &req); err != nil {
		return
	}

	ownerID := middleware.GetOwnerFromContext(r.Context())

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	job, err := h.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		utils.HandleServiceError(w, err)
		return
	}
	if job.OwnerID != ownerID {
		utils.HandleMessageResponse(w, "Job not found", http.StatusNotFound)
		return
	}

	task := models.Task{
		OwnerID:       ownerID,
		JobID:         jobID,
		Title:         req.Title,
		Notes:         req.Notes,
		ScheduledDate: req.ScheduledDate,
		Metadata:      models.NewMetadata(middleware.GetUsernameFromContext(r.Context())),
	}
	if err := h.taskRepo.Create(ctx, &task); err != nil {
		utils.HandleMessageResponse(w, err.Error(), http.StatusInternalServerError)
		return
	}

	updatedJob, err := h.sequencing.OnTaskCreated(ctx, task.ID, jobID)
	if err != nil {
		utils.HandleServiceError(w, err)
		return
	}

	utils.HandleDataResponse(w, "Task created successfully", map[string]interface{}{
		"task": task,
		"job":  updatedJob,
	}, http.StatusCreated)
}

// ownedTask resolves the path id to a task in the caller's owner scope.
// Returns the nil ObjectID after writing the response on failure.
func (h *TaskHandler) ownedTask(ctx context.Context, w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	taskID, err := primitive.ObjectIDFromHex(r.PathValue("id"))
	if err != nil {
		utils.HandleMessageResponse(w, "Invalid task ID format", http.StatusBadRequest)
		return primitive.NilObjectID, false
	}

	task, err := h.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		utils.HandleServiceError(w, err)
		return primitive.NilObjectID, false
	}
	if task.OwnerID != middleware.GetOwnerFromContext(r.Context()) {
		utils.HandleMessageResponse(w, "Task not found", http.StatusNotFound)
		return primitive.NilObjectID, false
	}
	return taskID, true
}

func (h *TaskHandler) CompleteTask(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	taskID, ok := h.ownedTask(ctx, w, r)
	if !ok {
		return
	}

	job, err := h.sequencing.OnTaskCompleted(ctx, taskID)
	if err != nil {
		utils.HandleServiceError(w, err)
		return
	}

	utils.HandleDataResponse(w, "Task completed successfully", job, http.StatusOK)
}

func (h *TaskHandler) ReopenTask(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	taskID, ok := h.ownedTask(ctx, w, r)
	if !ok {
		return
	}

	job, err := h.sequencing.OnTaskReopened(ctx, taskID)
	if err != nil {
		utils.HandleServiceError(w, err)
		return
	}

	utils.HandleDataResponse(w, "Task reopened successfully", job, http.StatusOK)
}

func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	taskID, ok := h.ownedTask(ctx, w, r)
	if !ok {
		return
	}

	job, err := h.sequencing.OnTaskDeleted(ctx, taskID)
	if err != nil {
		utils.HandleServiceError(w, err)
		return
	}

	utils.HandleDataResponse(w, "Task deleted successfully", job, http.StatusOK)
}
