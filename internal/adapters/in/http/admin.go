package http

import (
	"net/http"

	"atelier/internal/core/application/usecases/commands"
	"atelier/internal/core/application/usecases/queries"
	"atelier/internal/core/domain/model/worker"
	"atelier/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
)

// GetPipelineSummary handles GET /api/v1/pipeline/summary.
func (s *Server) GetPipelineSummary(c echo.Context) error {
	actor, err := currentIdentity(c)
	if err != nil {
		return err
	}
	summary, err := s.h.GetPipelineSummary.Handle(c.Request().Context(), queries.NewGetPipelineSummaryQuery(actor))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toSummary(summary))
}

// ListWorkers handles GET /api/v1/workers.
func (s *Server) ListWorkers(c echo.Context) error {
	actor, err := currentIdentity(c)
	if err != nil {
		return err
	}
	var rawRole *string
	if err = runtime.BindQueryParameter("form", true, false, "role", c.QueryParams(), &rawRole); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("role", err)
	}
	var role *worker.Role
	if rawRole != nil {
		parsed, parseErr := worker.ParseRole(*rawRole)
		if parseErr != nil {
			return parseErr
		}
		role = &parsed
	}

	query, err := queries.NewListWorkersQuery(actor, role)
	if err != nil {
		return err
	}
	workers, err := s.h.ListWorkers.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	out := make([]Worker, 0, len(workers))
	for _, w := range workers {
		out = append(out, toWorker(w))
	}
	return c.JSON(http.StatusOK, out)
}

// RegisterWorker handles POST /api/v1/workers.
func (s *Server) RegisterWorker(c echo.Context) error {
	actor, err := currentIdentity(c)
	if err != nil {
		return err
	}
	var body NewWorker
	if err = bindBody(c, &body); err != nil {
		return err
	}
	role, err := worker.ParseRole(body.Role)
	if err != nil {
		return err
	}

	cmd, err := commands.NewRegisterWorkerCommand(body.Name, role, actor)
	if err != nil {
		return err
	}
	registered, err := s.h.RegisterWorker.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, workerFromDomain(registered))
}

// SetWorkerActive handles PUT /api/v1/workers/{workerId}/active.
func (s *Server) SetWorkerActive(c echo.Context) error {
	actor, err := currentIdentity(c)
	if err != nil {
		return err
	}
	id, err := pathUUID(c, "workerId")
	if err != nil {
		return err
	}
	var body WorkerActivity
	if err = bindBody(c, &body); err != nil {
		return err
	}

	cmd, err := commands.NewSetWorkerActiveCommand(id, *body.Active, actor)
	if err != nil {
		return err
	}
	updated, err := s.h.SetWorkerActive.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, workerFromDomain(updated))
}
