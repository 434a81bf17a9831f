package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"impactplanner/apperrors"
	"impactplanner/models"
	repository "impactplanner/repositories"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// JobOverrides are the caller-supplied fields for the copy. Empty fields
// fall back to the source job's values.
type JobOverrides struct {
	Title   string
	Notes   string
	DueDate time.Time
}

// DuplicationResult reports the copy. Duplication is best-effort per
// sub-item: individual task or mapping copies that fail are logged, counted
// and skipped, and the operation still reports success as long as the job
// shell was created. The skip counts make the degraded copy observable.
type DuplicationResult struct {
	Job             *models.Job  `json:"job"`
	CopiedTasks     int          `json:"copied_tasks"`
	SkippedTasks    int          `json:"skipped_tasks"`
	CopiedMappings  int          `json:"copied_mappings"`
	SkippedMappings int          `json:"skipped_mappings"`
	Impact          ImpactResult `json:"impact"`
}

type DuplicationService interface {
	DuplicateJob(ctx context.Context, sourceJobID primitive.ObjectID, overrides JobOverrides, ownerID, actor string) (*DuplicationResult, error)
}

type duplicationService struct {
	jobRepo   repository.JobRepository
	taskRepo  repository.TaskRepository
	jobPIRepo repository.JobPIMappingRepository
	impact    ImpactService
}

func NewDuplicationService(
	jobRepo repository.JobRepository,
	taskRepo repository.TaskRepository,
	jobPIRepo repository.JobPIMappingRepository,
	impact ImpactService,
) DuplicationService {
	return &duplicationService{
		jobRepo:   jobRepo,
		taskRepo:  taskRepo,
		jobPIRepo: jobPIRepo,
		impact:    impact,
	}
}

func (s *duplicationService) DuplicateJob(ctx context.Context, sourceJobID primitive.ObjectID, overrides JobOverrides, ownerID, actor string) (*DuplicationResult, error) {
	fmt.Printf("Starting job duplication for source %s\n", sourceJobID.Hex())

	source, err := s.jobRepo.GetByID(ctx, sourceJobID)
	if err != nil {
		return nil, storeErr("read source job", err)
	}
	if source.OwnerID != ownerID {
		return nil, apperrors.NewNotFound("job", sourceJobID.Hex())
	}
	fmt.Printf("Source job found: %s\n", source.Title)

	// Step 1: the shell. This is the only step that must succeed.
	clone := &models.Job{
		OwnerID:  ownerID,
		Title:    source.Title,
		Notes:    source.Notes,
		DueDate:  source.DueDate,
		TaskIDs:  []primitive.ObjectID{},
		Metadata: models.NewMetadata(actor),
	}
	if overrides.Title != "" {
		clone.Title = overrides.Title
	}
	if overrides.Notes != "" {
		clone.Notes = overrides.Notes
	}
	if !overrides.DueDate.IsZero() {
		clone.DueDate = overrides.DueDate
	}
	if err := s.jobRepo.Create(ctx, clone); err != nil {
		return nil, storeErr("create job clone", err)
	}
	fmt.Printf("Job shell created: %s\n", clone.ID.Hex())

	result := &DuplicationResult{Job: clone}

	// Step 2: clone tasks in source order. Each copy is pending again:
	// completion state and schedule are reset. The source's next task is
	// resolved by identity here, not by title, so duplicate titles cannot
	// mis-resolve the cursor on the copy.
	sourceTasks, err := s.taskRepo.GetByJob(ctx, sourceJobID)
	if err != nil {
		log.Printf("Warning: could not read tasks of source job %s: %v", sourceJobID.Hex(), err)
		sourceTasks = nil
	}
	tasksByID := make(map[primitive.ObjectID]*models.Task, len(sourceTasks))
	for i := range sourceTasks {
		tasksByID[sourceTasks[i].ID] = &sourceTasks[i]
	}

	newTaskIDs := make([]primitive.ObjectID, 0, len(source.TaskIDs))
	var newNext *primitive.ObjectID
	for _, sourceTaskID := range source.TaskIDs {
		sourceTask, ok := tasksByID[sourceTaskID]
		if !ok {
			continue
		}

		taskCopy := &models.Task{
			OwnerID:  ownerID,
			JobID:    clone.ID,
			Title:    sourceTask.Title,
			Notes:    sourceTask.Notes,
			Metadata: models.NewMetadata(actor),
		}
		if err := s.taskRepo.Create(ctx, taskCopy); err != nil {
			log.Printf("Warning: skipping task %s during duplication: %v", sourceTaskID.Hex(), err)
			result.SkippedTasks++
			continue
		}
		newTaskIDs = append(newTaskIDs, taskCopy.ID)
		result.CopiedTasks++

		if source.NextTaskID != nil && *source.NextTaskID == sourceTaskID {
			id := taskCopy.ID
			newNext = &id
		}
	}
	fmt.Printf("Copied %d tasks (%d skipped)\n", result.CopiedTasks, result.SkippedTasks)

	// Step 3: persist the ordering; fall back to the selection rule when
	// the source next task did not survive the copy. All copies are
	// pending, so the first one wins.
	if newNext == nil && len(newTaskIDs) > 0 {
		id := newTaskIDs[0]
		newNext = &id
	}
	if err := s.jobRepo.UpdateSequencing(ctx, clone.ID, newTaskIDs, newNext); err != nil {
		log.Printf("Warning: could not persist task order on job clone %s: %v", clone.ID.Hex(), err)
	} else {
		clone.TaskIDs = newTaskIDs
		clone.NextTaskID = newNext
	}

	// Step 4: clone the Job↔PI mappings, annotated with their provenance.
	sourceMappings, err := s.jobPIRepo.GetByJob(ctx, sourceJobID)
	if err != nil {
		log.Printf("Warning: could not read mappings of source job %s: %v", sourceJobID.Hex(), err)
		sourceMappings = nil
	}
	for _, sourceMapping := range sourceMappings {
		originID := sourceMapping.ID
		mappingCopy := &models.JobPIMapping{
			OwnerID:        ownerID,
			JobID:          clone.ID,
			PIID:           sourceMapping.PIID,
			PIImpactValue:  sourceMapping.PIImpactValue,
			PITarget:       sourceMapping.PITarget,
			DuplicatedFrom: &originID,
			Metadata:       models.NewMetadata(actor),
		}
		if err := s.jobPIRepo.Create(ctx, mappingCopy); err != nil {
			log.Printf("Warning: skipping mapping %s during duplication: %v", sourceMapping.ID.Hex(), err)
			result.SkippedMappings++
			continue
		}
		result.CopiedMappings++
	}
	fmt.Printf("Copied %d mappings (%d skipped)\n", result.CopiedMappings, result.SkippedMappings)

	// Step 5: recompute impact so the copy reflects its fresh mappings. A
	// failure here leaves impact stale until the next run; the duplication
	// itself already succeeded.
	impactResult, err := s.impact.RecomputeImpact(ctx, ownerID)
	if err != nil {
		log.Printf("Warning: impact recompute after duplication failed: %v", err)
	} else {
		result.Impact = impactResult
	}

	fmt.Printf("Job duplication completed: %s\n", clone.ID.Hex())
	return result, nil
}
