package services_test

import (
	"context"
	"testing"

	"impactplanner/apperrors"
	"impactplanner/models"
	services "impactplanner/services"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type seqEnv struct {
	jobs  *fakeJobRepo
	tasks *fakeTaskRepo
	svc   services.SequencingService
	ctx   context.Context
}

func newSeqEnv() *seqEnv {
	env := &seqEnv{
		jobs:  &fakeJobRepo{},
		tasks: &fakeTaskRepo{},
		ctx:   context.Background(),
	}
	env.svc = services.NewSequencingService(env.jobs, env.tasks)
	return env
}

func (e *seqEnv) addJob(t *testing.T) primitive.ObjectID {
	t.Helper()
	job := models.Job{OwnerID: testOwner, Title: "job"}
	require.NoError(t, e.jobs.Create(e.ctx, &job))
	return job.ID
}

// addTask persists a task document and drives it through the creation hook,
// the way the task handler does.
func (e *seqEnv) addTask(t *testing.T, jobID primitive.ObjectID, title string) primitive.ObjectID {
	t.Helper()
	task := models.Task{OwnerID: testOwner, JobID: jobID, Title: title}
	require.NoError(t, e.tasks.Create(e.ctx, &task))
	_, err := e.svc.OnTaskCreated(e.ctx, task.ID, jobID)
	require.NoError(t, err)
	return task.ID
}

// requireInvariant asserts the sequencing invariant: the cursor is unset or
// references a live, pending task in the job's ordering.
func (e *seqEnv) requireInvariant(t *testing.T, jobID primitive.ObjectID) {
	t.Helper()
	job, err := e.jobs.GetByID(e.ctx, jobID)
	require.NoError(t, err)
	if job.NextTaskID == nil {
		return
	}
	require.Contains(t, job.TaskIDs, *job.NextTaskID)
	task, err := e.tasks.GetByID(e.ctx, *job.NextTaskID)
	require.NoError(t, err)
	require.True(t, task.Pending())
}

func (e *seqEnv) next(t *testing.T, jobID primitive.ObjectID) *primitive.ObjectID {
	t.Helper()
	job, err := e.jobs.GetByID(e.ctx, jobID)
	require.NoError(t, err)
	return job.NextTaskID
}

func TestSequencing_LifecycleMovesCursor(t *testing.T) {
	env := newSeqEnv()
	jobID := env.addJob(t)

	t1 := env.addTask(t, jobID, "first")
	t2 := env.addTask(t, jobID, "second")
	t3 := env.addTask(t, jobID, "third")

	// Creation assigned the first pending task and later creations did not
	// steal the designation.
	require.NotNil(t, env.next(t, jobID))
	require.Equal(t, t1, *env.next(t, jobID))
	env.requireInvariant(t, jobID)

	// Completing the next task advances the cursor.
	_, err := env.svc.OnTaskCompleted(env.ctx, t1)
	require.NoError(t, err)
	require.Equal(t, t2, *env.next(t, jobID))
	env.requireInvariant(t, jobID)

	// Deleting the next task advances it again and removes the task from
	// the ordering.
	job, err := env.svc.OnTaskDeleted(env.ctx, t2)
	require.NoError(t, err)
	require.Equal(t, t3, *env.next(t, jobID))
	require.NotContains(t, job.TaskIDs, t2)
	env.requireInvariant(t, jobID)

	// Completing the last pending task clears the cursor.
	_, err = env.svc.OnTaskCompleted(env.ctx, t3)
	require.NoError(t, err)
	require.Nil(t, env.next(t, jobID))
	env.requireInvariant(t, jobID)
}

func TestSequencing_CompletingNonNextLeavesCursor(t *testing.T) {
	env := newSeqEnv()
	jobID := env.addJob(t)

	t1 := env.addTask(t, jobID, "first")
	t2 := env.addTask(t, jobID, "second")

	_, err := env.svc.OnTaskCompleted(env.ctx, t2)
	require.NoError(t, err)
	require.Equal(t, t1, *env.next(t, jobID))
	env.requireInvariant(t, jobID)
}

func TestSequencing_ReopenDoesNotReclaimCursor(t *testing.T) {
	env := newSeqEnv()
	jobID := env.addJob(t)

	t1 := env.addTask(t, jobID, "first")
	t2 := env.addTask(t, jobID, "second")

	_, err := env.svc.OnTaskCompleted(env.ctx, t1)
	require.NoError(t, err)
	require.Equal(t, t2, *env.next(t, jobID))

	// Reopening t1 leaves t2 designated.
	_, err = env.svc.OnTaskReopened(env.ctx, t1)
	require.NoError(t, err)
	require.Equal(t, t2, *env.next(t, jobID))
	env.requireInvariant(t, jobID)
}

func TestSequencing_ReopenFillsUnsetCursor(t *testing.T) {
	env := newSeqEnv()
	jobID := env.addJob(t)

	t1 := env.addTask(t, jobID, "only")
	_, err := env.svc.OnTaskCompleted(env.ctx, t1)
	require.NoError(t, err)
	require.Nil(t, env.next(t, jobID))

	_, err = env.svc.OnTaskReopened(env.ctx, t1)
	require.NoError(t, err)
	require.Equal(t, t1, *env.next(t, jobID))
	env.requireInvariant(t, jobID)
}

func TestSequencing_ReorderRejectsMovingNextTask(t *testing.T) {
	env := newSeqEnv()
	jobID := env.addJob(t)

	t1 := env.addTask(t, jobID, "first")
	t2 := env.addTask(t, jobID, "second")
	t3 := env.addTask(t, jobID, "third")

	_, err := env.svc.ReorderTasks(env.ctx, jobID, []primitive.ObjectID{t2, t1, t3})

	var validation *apperrors.ValidationError
	require.ErrorAs(t, err, &validation)

	// The rejection left both the ordering and the cursor untouched.
	job, getErr := env.jobs.GetByID(env.ctx, jobID)
	require.NoError(t, getErr)
	require.Equal(t, []primitive.ObjectID{t1, t2, t3}, job.TaskIDs)
	require.Equal(t, t1, *job.NextTaskID)
}

func TestSequencing_ReorderRejectsIDSetMismatch(t *testing.T) {
	env := newSeqEnv()
	jobID := env.addJob(t)

	t1 := env.addTask(t, jobID, "first")
	t2 := env.addTask(t, jobID, "second")

	var validation *apperrors.ValidationError

	_, err := env.svc.ReorderTasks(env.ctx, jobID, []primitive.ObjectID{t1})
	require.ErrorAs(t, err, &validation)

	_, err = env.svc.ReorderTasks(env.ctx, jobID, []primitive.ObjectID{t1, primitive.NewObjectID()})
	require.ErrorAs(t, err, &validation)

	_, err = env.svc.ReorderTasks(env.ctx, jobID, []primitive.ObjectID{t1, t1})
	require.ErrorAs(t, err, &validation)

	job, getErr := env.jobs.GetByID(env.ctx, jobID)
	require.NoError(t, getErr)
	require.Equal(t, []primitive.ObjectID{t1, t2}, job.TaskIDs)
}

func TestSequencing_ReorderKeepsNextFirst(t *testing.T) {
	env := newSeqEnv()
	jobID := env.addJob(t)

	t1 := env.addTask(t, jobID, "first")
	t2 := env.addTask(t, jobID, "second")
	t3 := env.addTask(t, jobID, "third")

	job, err := env.svc.ReorderTasks(env.ctx, jobID, []primitive.ObjectID{t1, t3, t2})
	require.NoError(t, err)
	require.Equal(t, []primitive.ObjectID{t1, t3, t2}, job.TaskIDs)
	require.Equal(t, t1, *job.NextTaskID)
	env.requireInvariant(t, jobID)
}

func TestSequencing_SetNextTaskOverride(t *testing.T) {
	env := newSeqEnv()
	jobID := env.addJob(t)

	t1 := env.addTask(t, jobID, "first")
	t2 := env.addTask(t, jobID, "second")
	require.Equal(t, t1, *env.next(t, jobID))

	job, err := env.svc.SetNextTask(env.ctx, jobID, &t2)
	require.NoError(t, err)
	require.Equal(t, t2, *job.NextTaskID)
	env.requireInvariant(t, jobID)

	// Clearing is allowed even while pending tasks remain.
	job, err = env.svc.SetNextTask(env.ctx, jobID, nil)
	require.NoError(t, err)
	require.Nil(t, job.NextTaskID)
	env.requireInvariant(t, jobID)
}

func TestSequencing_SetNextTaskValidation(t *testing.T) {
	env := newSeqEnv()
	jobID := env.addJob(t)
	otherJobID := env.addJob(t)

	t1 := env.addTask(t, jobID, "first")
	foreign := env.addTask(t, otherJobID, "foreign")

	var validation *apperrors.ValidationError

	// A completed task cannot be designated.
	_, err := env.svc.OnTaskCompleted(env.ctx, t1)
	require.NoError(t, err)
	_, err = env.svc.SetNextTask(env.ctx, jobID, &t1)
	require.ErrorAs(t, err, &validation)

	// Nor can a task belonging to another job.
	_, err = env.svc.SetNextTask(env.ctx, jobID, &foreign)
	require.ErrorAs(t, err, &validation)

	// A missing task surfaces as not found.
	missing := primitive.NewObjectID()
	_, err = env.svc.SetNextTask(env.ctx, jobID, &missing)
	var notFound *apperrors.NotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestSequencing_MissingJobIsNotFound(t *testing.T) {
	env := newSeqEnv()

	_, err := env.svc.ReorderTasks(env.ctx, primitive.NewObjectID(), nil)
	var notFound *apperrors.NotFoundError
	require.ErrorAs(t, err, &notFound)
}
