package services

import (
	"context"
	"sync"

	"impactplanner/apperrors"
	"impactplanner/models"
	repository "impactplanner/repositories"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SequencingService keeps each job's next-task cursor and task ordering
// consistent as tasks move through their lifecycle. After any transition
// the invariant holds: next_task_id is unset, or it references a live,
// pending task belonging to that job.
type SequencingService interface {
	OnTaskCreated(ctx context.Context, taskID, jobID primitive.ObjectID) (*models.Job, error)
	OnTaskCompleted(ctx context.Context, taskID primitive.ObjectID) (*models.Job, error)
	OnTaskReopened(ctx context.Context, taskID primitive.ObjectID) (*models.Job, error)
	OnTaskDeleted(ctx context.Context, taskID primitive.ObjectID) (*models.Job, error)
	// SetNextTask overrides the selection rule with an explicit choice, or
	// clears the cursor when taskID is nil.
	SetNextTask(ctx context.Context, jobID primitive.ObjectID, taskID *primitive.ObjectID) (*models.Job, error)
	// ReorderTasks replaces the ordering with a permutation of the same id
	// set. Moving the current next task out of first position is rejected.
	ReorderTasks(ctx context.Context, jobID primitive.ObjectID, orderedTaskIDs []primitive.ObjectID) (*models.Job, error)
}

type sequencingService struct {
	jobRepo  repository.JobRepository
	taskRepo repository.TaskRepository

	mu       sync.Mutex
	jobLocks map[primitive.ObjectID]*sync.Mutex
}

func NewSequencingService(jobRepo repository.JobRepository, taskRepo repository.TaskRepository) SequencingService {
	return &sequencingService{
		jobRepo:  jobRepo,
		taskRepo: taskRepo,
		jobLocks: make(map[primitive.ObjectID]*sync.Mutex),
	}
}

// lockJob serializes mutations per job: two concurrent transitions would
// otherwise race the read-modify-write of task_ids and next_task_id.
func (s *sequencingService) lockJob(id primitive.ObjectID) func() {
	s.mu.Lock()
	lock, ok := s.jobLocks[id]
	if !ok {
		lock = &sync.Mutex{}
		s.jobLocks[id] = lock
	}
	s.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}

// selectNext applies the selection rule: the first task in the job's
// ordering that is still pending, or nil when none remains.
func selectNext(order []primitive.ObjectID, tasksByID map[primitive.ObjectID]*models.Task) *primitive.ObjectID {
	for _, id := range order {
		if task, ok := tasksByID[id]; ok && task.Pending() {
			next := id
			return &next
		}
	}
	return nil
}

func (s *sequencingService) jobTasks(ctx context.Context, jobID primitive.ObjectID) (map[primitive.ObjectID]*models.Task, error) {
	tasks, err := s.taskRepo.GetByJob(ctx, jobID)
	if err != nil {
		return nil, storeErr("read job tasks", err)
	}

	byID := make(map[primitive.ObjectID]*models.Task, len(tasks))
	for i := range tasks {
		byID[tasks[i].ID] = &tasks[i]
	}
	return byID, nil
}

// OnTaskCreated appends the task to the end of the job's ordering. The new
// task only becomes next when the job has no next task at all, and then via
// a full selection pass, so an earlier pending task still wins.
func (s *sequencingService) OnTaskCreated(ctx context.Context, taskID, jobID primitive.ObjectID) (*models.Job, error) {
	unlock := s.lockJob(jobID)
	defer unlock()

	task, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		return nil, storeErr("read task", err)
	}
	if task.JobID != jobID {
		return nil, apperrors.NewValidation("task %s does not belong to job %s", taskID.Hex(), jobID.Hex())
	}

	job, err := s.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		return nil, storeErr("read job", err)
	}

	order := job.TaskIDs
	if !containsID(order, taskID) {
		order = append(order, taskID)
	}

	next := job.NextTaskID
	if next == nil {
		tasksByID, err := s.jobTasks(ctx, jobID)
		if err != nil {
			return nil, err
		}
		next = selectNext(order, tasksByID)
	}

	if err := s.jobRepo.UpdateSequencing(ctx, job.ID, order, next); err != nil {
		return nil, storeErr("write job sequencing", err)
	}
	job.TaskIDs = order
	job.NextTaskID = next
	return job, nil
}

// OnTaskCompleted marks the task completed; if it was the next task, the
// selection rule picks a replacement (or clears the cursor).
func (s *sequencingService) OnTaskCompleted(ctx context.Context, taskID primitive.ObjectID) (*models.Job, error) {
	task, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		return nil, storeErr("read task", err)
	}

	unlock := s.lockJob(task.JobID)
	defer unlock()

	if err := s.taskRepo.SetCompleted(ctx, taskID, true); err != nil {
		return nil, storeErr("complete task", err)
	}

	job, err := s.jobRepo.GetByID(ctx, task.JobID)
	if err != nil {
		return nil, storeErr("read job", err)
	}

	if job.NextTaskID != nil && *job.NextTaskID == taskID {
		tasksByID, err := s.jobTasks(ctx, job.ID)
		if err != nil {
			return nil, err
		}
		next := selectNext(job.TaskIDs, tasksByID)
		if err := s.jobRepo.UpdateSequencing(ctx, job.ID, job.TaskIDs, next); err != nil {
			return nil, storeErr("write job sequencing", err)
		}
		job.NextTaskID = next
	}
	return job, nil
}

// OnTaskReopened does not reclaim the next designation; the cursor only
// moves if it was unset, in which case the selection rule re-runs.
func (s *sequencingService) OnTaskReopened(ctx context.Context, taskID primitive.ObjectID) (*models.Job, error) {
	task, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		return nil, storeErr("read task", err)
	}

	unlock := s.lockJob(task.JobID)
	defer unlock()

	if err := s.taskRepo.SetCompleted(ctx, taskID, false); err != nil {
		return nil, storeErr("reopen task", err)
	}

	job, err := s.jobRepo.GetByID(ctx, task.JobID)
	if err != nil {
		return nil, storeErr("read job", err)
	}

	if job.NextTaskID == nil {
		tasksByID, err := s.jobTasks(ctx, job.ID)
		if err != nil {
			return nil, err
		}
		if next := selectNext(job.TaskIDs, tasksByID); next != nil {
			if err := s.jobRepo.UpdateSequencing(ctx, job.ID, job.TaskIDs, next); err != nil {
				return nil, storeErr("write job sequencing", err)
			}
			job.NextTaskID = next
		}
	}
	return job, nil
}

// OnTaskDeleted removes the task from the job's ordering; if it was the
// next task, the selection rule runs over the remaining tasks.
func (s *sequencingService) OnTaskDeleted(ctx context.Context, taskID primitive.ObjectID) (*models.Job, error) {
	task, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		return nil, storeErr("read task", err)
	}

	unlock := s.lockJob(task.JobID)
	defer unlock()

	if err := s.taskRepo.SoftDelete(ctx, taskID); err != nil {
		return nil, storeErr("delete task", err)
	}

	job, err := s.jobRepo.GetByID(ctx, task.JobID)
	if err != nil {
		return nil, storeErr("read job", err)
	}

	order := removeID(job.TaskIDs, taskID)
	next := job.NextTaskID
	if next != nil && *next == taskID {
		tasksByID, err := s.jobTasks(ctx, job.ID)
		if err != nil {
			return nil, err
		}
		next = selectNext(order, tasksByID)
	}

	if err := s.jobRepo.UpdateSequencing(ctx, job.ID, order, next); err != nil {
		return nil, storeErr("write job sequencing", err)
	}
	job.TaskIDs = order
	job.NextTaskID = next
	return job, nil
}

func (s *sequencingService) SetNextTask(ctx context.Context, jobID primitive.ObjectID, taskID *primitive.ObjectID) (*models.Job, error) {
	unlock := s.lockJob(jobID)
	defer unlock()

	job, err := s.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		return nil, storeErr("read job", err)
	}

	if taskID == nil {
		if err := s.jobRepo.UpdateSequencing(ctx, job.ID, job.TaskIDs, nil); err != nil {
			return nil, storeErr("write job sequencing", err)
		}
		job.NextTaskID = nil
		return job, nil
	}

	task, err := s.taskRepo.GetByID(ctx, *taskID)
	if err != nil {
		return nil, storeErr("read task", err)
	}
	if task.JobID != jobID {
		return nil, apperrors.NewValidation("task %s does not belong to job %s", taskID.Hex(), jobID.Hex())
	}
	if !task.Pending() {
		return nil, apperrors.NewValidation("task %s is not pending and cannot be the next task", taskID.Hex())
	}

	if err := s.jobRepo.UpdateSequencing(ctx, job.ID, job.TaskIDs, taskID); err != nil {
		return nil, storeErr("write job sequencing", err)
	}
	job.NextTaskID = taskID
	return job, nil
}

func (s *sequencingService) ReorderTasks(ctx context.Context, jobID primitive.ObjectID, orderedTaskIDs []primitive.ObjectID) (*models.Job, error) {
	unlock := s.lockJob(jobID)
	defer unlock()

	job, err := s.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		return nil, storeErr("read job", err)
	}

	if !sameIDSet(job.TaskIDs, orderedTaskIDs) {
		return nil, apperrors.NewValidation("ordering must be a permutation of the job's current tasks")
	}
	if job.NextTaskID != nil && (len(orderedTaskIDs) == 0 || orderedTaskIDs[0] != *job.NextTaskID) {
		return nil, apperrors.NewValidation("the next task must stay first; move it explicitly before reordering")
	}

	if err := s.jobRepo.UpdateSequencing(ctx, job.ID, orderedTaskIDs, job.NextTaskID); err != nil {
		return nil, storeErr("write job sequencing", err)
	}
	job.TaskIDs = orderedTaskIDs
	return job, nil
}

func containsID(ids []primitive.ObjectID, id primitive.ObjectID) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}

func removeID(ids []primitive.ObjectID, id primitive.ObjectID) []primitive.ObjectID {
	kept := make([]primitive.ObjectID, 0, len(ids))
	for _, candidate := range ids {
		if candidate != id {
			kept = append(kept, candidate)
		}
	}
	return kept
}

func sameIDSet(current, proposed []primitive.ObjectID) bool {
	if len(current) != len(proposed) {
		return false
	}
	counts := make(map[primitive.ObjectID]int, len(current))
	for _, id := range current {
		counts[id]++
	}
	for _, id := range proposed {
		counts[id]--
		if counts[id] < 0 {
			return false
		}
	}
	return true
}
