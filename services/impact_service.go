package services

import (
	"context"

	repository "impactplanner/repositories"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ImpactResult reports one propagation run: how many jobs had their impact
// written and how many QBOs/PIs were skipped because their progress range
// is zero (their contribution is treated as zero).
type ImpactResult struct {
	UpdatedJobs     int `json:"updated_jobs"`
	SkippedEntities int `json:"skipped_entities"`
}

// ImpactService recomputes the derived impact score of every job for one
// owner by propagating weighted contributions through the two-level
// Job→PI→QBO mapping graph. Impact is a cached derived value: it may go
// stale between runs, and a run always recomputes it from scratch.
type ImpactService interface {
	RecomputeImpact(ctx context.Context, ownerID string) (ImpactResult, error)
}

type impactService struct {
	qboRepo   repository.QBORepository
	piRepo    repository.PIRepository
	jobRepo   repository.JobRepository
	jobPIRepo repository.JobPIMappingRepository
	piQBORepo repository.PIQBOMappingRepository
}

func NewImpactService(
	qboRepo repository.QBORepository,
	piRepo repository.PIRepository,
	jobRepo repository.JobRepository,
	jobPIRepo repository.JobPIMappingRepository,
	piQBORepo repository.PIQBOMappingRepository,
) ImpactService {
	return &impactService{
		qboRepo:   qboRepo,
		piRepo:    piRepo,
		jobRepo:   jobRepo,
		jobPIRepo: jobPIRepo,
		piQBORepo: piQBORepo,
	}
}

// RecomputeImpact runs a single propagation pass. The graph is exactly two
// levels deep, so there is no iteration to a fixed point: QBO points are
// converted to a per-unit rate, folded into each PI's accumulated score via
// the PI↔QBO mappings, and divided out over each job's share of the PI via
// the Job↔PI mappings.
//
// All five reads complete before the first write, so the computed map
// reflects one consistent snapshot. A read failure aborts the run before any
// write; a write failure stops the write phase, leaving prior writes in
// place (each job's impact is independently valid and the next full run
// overwrites everything).
func (s *impactService) RecomputeImpact(ctx context.Context, ownerID string) (ImpactResult, error) {
	qbos, err := s.qboRepo.GetAllByOwner(ctx, ownerID)
	if err != nil {
		return ImpactResult{}, storeErr("read qbos", err)
	}
	pis, err := s.piRepo.GetAllByOwner(ctx, ownerID)
	if err != nil {
		return ImpactResult{}, storeErr("read pis", err)
	}
	jobs, err := s.jobRepo.GetAllByOwner(ctx, ownerID)
	if err != nil {
		return ImpactResult{}, storeErr("read jobs", err)
	}
	jobPIMappings, err := s.jobPIRepo.GetAllByOwner(ctx, ownerID)
	if err != nil {
		return ImpactResult{}, storeErr("read job-pi mappings", err)
	}
	piQBOMappings, err := s.piQBORepo.GetAllByOwner(ctx, ownerID)
	if err != nil {
		return ImpactResult{}, storeErr("read pi-qbo mappings", err)
	}

	var skipped int

	// Step 1: each QBO's points converted to a rate per unit of progress.
	// A zero progress range leaves the rate undefined; the QBO contributes
	// nothing rather than poisoning the run with Inf/NaN.
	pointsPerUnit := make(map[primitive.ObjectID]float64, len(qbos))
	for _, qbo := range qbos {
		progressRange := qbo.ProgressRange()
		if progressRange == 0 {
			skipped++
			continue
		}
		pointsPerUnit[qbo.ID] = qbo.Points / progressRange
	}

	// Step 2: each PI's progress range, with the same zero-range guard.
	piRange := make(map[primitive.ObjectID]float64, len(pis))
	for _, pi := range pis {
		progressRange := pi.ProgressRange()
		if progressRange == 0 {
			skipped++
			continue
		}
		piRange[pi.ID] = progressRange
	}

	// Step 3: fold QBO point rates into each PI's accumulated score.
	piScore := make(map[primitive.ObjectID]float64, len(pis))
	for _, mapping := range piQBOMappings {
		piScore[mapping.PIID] += mapping.QBOImpact * pointsPerUnit[mapping.QBOID]
	}

	// Step 4: distribute each PI's score over the jobs mapped to it. Jobs
	// with no mapping stay at zero.
	impact := make(map[primitive.ObjectID]float64, len(jobs))
	for _, job := range jobs {
		impact[job.ID] = 0
	}
	for _, mapping := range jobPIMappings {
		if _, known := impact[mapping.JobID]; !known {
			continue
		}
		progressRange, ok := piRange[mapping.PIID]
		if !ok {
			continue
		}
		impact[mapping.JobID] += mapping.PIImpactValue * piScore[mapping.PIID] / progressRange
	}

	// Write phase: only jobs whose stored impact actually changed.
	result := ImpactResult{SkippedEntities: skipped}
	for i := range jobs {
		job := &jobs[i]
		value := impact[job.ID]
		if value == job.Impact {
			continue
		}
		if err := s.jobRepo.UpdateImpact(ctx, job.ID, value); err != nil {
			return result, storeErr("write job impact", err)
		}
		result.UpdatedJobs++
	}

	return result, nil
}
