package routes

import (
	"net/http"

	"impactplanner/handlers"
	"impactplanner/middlewares"
)

type Handlers struct {
	Impact  *handlers.ImpactHandler
	Job     *handlers.JobHandler
	Task    *handlers.TaskHandler
	QBO     *handlers.QBOHandler
	PI      *handlers.PIHandler
	Mapping *handlers.MappingHandler
}

func SetupRoutes(h Handlers, jwtSecret string) *http.ServeMux {
	mux := http.NewServeMux()

	// Apply JWT middleware to all planner routes
	jwtMiddleware := middlewares.JWTMiddleware(jwtSecret)
	protected := func(handlerFunc http.HandlerFunc) http.Handler {
		return jwtMiddleware(http.HandlerFunc(handlerFunc))
	}

	// Impact propagation
	mux.Handle("POST /api/impact/recompute", protected(h.Impact.RecomputeImpact))

	// Jobs and their sequencing operations
	mux.Handle("POST /api/jobs", protected(h.Job.CreateJob))
	mux.Handle("GET /api/jobs", protected(h.Job.GetAllJobs))
	mux.Handle("GET /api/jobs/{id}", protected(h.Job.GetJobByID))
	mux.Handle("PUT /api/jobs/{id}/next-task", protected(h.Job.SetNextTask))
	mux.Handle("PUT /api/jobs/{id}/task-order", protected(h.Job.ReorderTasks))
	mux.Handle("POST /api/jobs/{id}/duplicate", protected(h.Job.DuplicateJob))
	mux.Handle("POST /api/jobs/{id}/tasks", protected(h.Task.CreateTask))

	// Task lifecycle; each route drives exactly one sequencing transition
	mux.Handle("POST /api/tasks/{id}/complete", protected(h.Task.CompleteTask))
	mux.Handle("POST /api/tasks/{id}/reopen", protected(h.Task.ReopenTask))
	mux.Handle("DELETE /api/tasks/{id}", protected(h.Task.DeleteTask))

	// Objectives and indicators
	mux.Handle("POST /api/qbos", protected(h.QBO.CreateQBO))
	mux.Handle("GET /api/qbos", protected(h.QBO.GetAllQBOs))
	mux.Handle("POST /api/pis", protected(h.PI.CreatePI))
	mux.Handle("GET /api/pis", protected(h.PI.GetAllPIs))

	// Mapping graph edges; creation triggers an impact recompute
	mux.Handle("POST /api/mappings/job-pi", protected(h.Mapping.CreateJobPIMapping))
	mux.Handle("POST /api/mappings/pi-qbo", protected(h.Mapping.CreatePIQBOMapping))

	return mux
}
