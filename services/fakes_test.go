package services_test

import (
	"context"

	"impactplanner/apperrors"
	"impactplanner/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory repositories backing the service tests. They mirror the mongo
// implementations' contract: owner-scoped reads exclude soft-deleted
// documents, lookups of missing documents return NotFoundError, and the
// err fields simulate a store outage.

type fakeQBORepo struct {
	items []models.QBO
	err   error
}

func (f *fakeQBORepo) Create(ctx context.Context, qbo *models.QBO) error {
	if f.err != nil {
		return f.err
	}
	qbo.ID = primitive.NewObjectID()
	f.items = append(f.items, *qbo)
	return nil
}

func (f *fakeQBORepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.QBO, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.items {
		if f.items[i].ID == id && !f.items[i].IsDeleted {
			qbo := f.items[i]
			return &qbo, nil
		}
	}
	return nil, apperrors.NewNotFound("QBO", id.Hex())
}

func (f *fakeQBORepo) GetAllByOwner(ctx context.Context, ownerID string) ([]models.QBO, error) {
	if f.err != nil {
		return nil, f.err
	}
	var qbos []models.QBO
	for _, qbo := range f.items {
		if qbo.OwnerID == ownerID && !qbo.IsDeleted {
			qbos = append(qbos, qbo)
		}
	}
	return qbos, nil
}

type fakePIRepo struct {
	items []models.PI
	err   error
}

func (f *fakePIRepo) Create(ctx context.Context, pi *models.PI) error {
	if f.err != nil {
		return f.err
	}
	pi.ID = primitive.NewObjectID()
	f.items = append(f.items, *pi)
	return nil
}

func (f *fakePIRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.PI, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.items {
		if f.items[i].ID == id && !f.items[i].IsDeleted {
			pi := f.items[i]
			return &pi, nil
		}
	}
	return nil, apperrors.NewNotFound("PI", id.Hex())
}

func (f *fakePIRepo) GetAllByOwner(ctx context.Context, ownerID string) ([]models.PI, error) {
	if f.err != nil {
		return nil, f.err
	}
	var pis []models.PI
	for _, pi := range f.items {
		if pi.OwnerID == ownerID && !pi.IsDeleted {
			pis = append(pis, pi)
		}
	}
	return pis, nil
}

type fakeJobRepo struct {
	items []*models.Job

	readErr      error
	writeErr     error
	impactWrites int
}

func (f *fakeJobRepo) Create(ctx context.Context, job *models.Job) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	job.ID = primitive.NewObjectID()
	if job.TaskIDs == nil {
		job.TaskIDs = []primitive.ObjectID{}
	}
	stored := *job
	f.items = append(f.items, &stored)
	return nil
}

func (f *fakeJobRepo) find(id primitive.ObjectID) *models.Job {
	for _, job := range f.items {
		if job.ID == id && !job.IsDeleted {
			return job
		}
	}
	return nil
}

func (f *fakeJobRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Job, error) {
	if f.readErr != nil {
		return nil, f.readErr
	}
	stored := f.find(id)
	if stored == nil {
		return nil, apperrors.NewNotFound("job", id.Hex())
	}
	job := *stored
	job.TaskIDs = append([]primitive.ObjectID(nil), stored.TaskIDs...)
	if stored.NextTaskID != nil {
		next := *stored.NextTaskID
		job.NextTaskID = &next
	}
	return &job, nil
}

func (f *fakeJobRepo) GetAllByOwner(ctx context.Context, ownerID string) ([]models.Job, error) {
	if f.readErr != nil {
		return nil, f.readErr
	}
	var jobs []models.Job
	for _, job := range f.items {
		if job.OwnerID == ownerID && !job.IsDeleted {
			jobs = append(jobs, *job)
		}
	}
	return jobs, nil
}

func (f *fakeJobRepo) UpdateImpact(ctx context.Context, id primitive.ObjectID, impact float64) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	stored := f.find(id)
	if stored == nil {
		return apperrors.NewNotFound("job", id.Hex())
	}
	stored.Impact = impact
	f.impactWrites++
	return nil
}

func (f *fakeJobRepo) UpdateSequencing(ctx context.Context, id primitive.ObjectID, taskIDs []primitive.ObjectID, nextTaskID *primitive.ObjectID) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	stored := f.find(id)
	if stored == nil {
		return apperrors.NewNotFound("job", id.Hex())
	}
	stored.TaskIDs = append([]primitive.ObjectID(nil), taskIDs...)
	if nextTaskID != nil {
		next := *nextTaskID
		stored.NextTaskID = &next
	} else {
		stored.NextTaskID = nil
	}
	return nil
}

type fakeTaskRepo struct {
	items []*models.Task

	// failTitles makes Create fail for specific titles, simulating
	// per-item copy failures during duplication.
	failTitles map[string]bool
	err        error
}

func (f *fakeTaskRepo) Create(ctx context.Context, task *models.Task) error {
	if f.err != nil {
		return f.err
	}
	if f.failTitles[task.Title] {
		return apperrors.NewValidation("refusing to create task %q", task.Title)
	}
	task.ID = primitive.NewObjectID()
	stored := *task
	f.items = append(f.items, &stored)
	return nil
}

func (f *fakeTaskRepo) find(id primitive.ObjectID) *models.Task {
	for _, task := range f.items {
		if task.ID == id && !task.IsDeleted {
			return task
		}
	}
	return nil
}

func (f *fakeTaskRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Task, error) {
	if f.err != nil {
		return nil, f.err
	}
	stored := f.find(id)
	if stored == nil {
		return nil, apperrors.NewNotFound("task", id.Hex())
	}
	task := *stored
	return &task, nil
}

func (f *fakeTaskRepo) GetByJob(ctx context.Context, jobID primitive.ObjectID) ([]models.Task, error) {
	if f.err != nil {
		return nil, f.err
	}
	var tasks []models.Task
	for _, task := range f.items {
		if task.JobID == jobID && !task.IsDeleted {
			tasks = append(tasks, *task)
		}
	}
	return tasks, nil
}

func (f *fakeTaskRepo) SetCompleted(ctx context.Context, id primitive.ObjectID, completed bool) error {
	if f.err != nil {
		return f.err
	}
	stored := f.find(id)
	if stored == nil {
		return apperrors.NewNotFound("task", id.Hex())
	}
	stored.Completed = completed
	return nil
}

func (f *fakeTaskRepo) SoftDelete(ctx context.Context, id primitive.ObjectID) error {
	if f.err != nil {
		return f.err
	}
	stored := f.find(id)
	if stored == nil {
		return apperrors.NewNotFound("task", id.Hex())
	}
	stored.IsDeleted = true
	return nil
}

type fakeJobPIRepo struct {
	items []models.JobPIMapping

	createErr error
	err       error
}

func (f *fakeJobPIRepo) Create(ctx context.Context, mapping *models.JobPIMapping) error {
	if f.createErr != nil {
		return f.createErr
	}
	mapping.ID = primitive.NewObjectID()
	f.items = append(f.items, *mapping)
	return nil
}

func (f *fakeJobPIRepo) GetAllByOwner(ctx context.Context, ownerID string) ([]models.JobPIMapping, error) {
	if f.err != nil {
		return nil, f.err
	}
	var mappings []models.JobPIMapping
	for _, mapping := range f.items {
		if mapping.OwnerID == ownerID && !mapping.IsDeleted {
			mappings = append(mappings, mapping)
		}
	}
	return mappings, nil
}

func (f *fakeJobPIRepo) GetByJob(ctx context.Context, jobID primitive.ObjectID) ([]models.JobPIMapping, error) {
	if f.err != nil {
		return nil, f.err
	}
	var mappings []models.JobPIMapping
	for _, mapping := range f.items {
		if mapping.JobID == jobID && !mapping.IsDeleted {
			mappings = append(mappings, mapping)
		}
	}
	return mappings, nil
}

type fakePIQBORepo struct {
	items []models.PIQBOMapping
	err   error
}

func (f *fakePIQBORepo) Create(ctx context.Context, mapping *models.PIQBOMapping) error {
	if f.err != nil {
		return f.err
	}
	mapping.ID = primitive.NewObjectID()
	f.items = append(f.items, *mapping)
	return nil
}

func (f *fakePIQBORepo) GetAllByOwner(ctx context.Context, ownerID string) ([]models.PIQBOMapping, error) {
	if f.err != nil {
		return nil, f.err
	}
	var mappings []models.PIQBOMapping
	for _, mapping := range f.items {
		if mapping.OwnerID == ownerID && !mapping.IsDeleted {
			mappings = append(mappings, mapping)
		}
	}
	return mappings, nil
}
