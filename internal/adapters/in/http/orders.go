package http

import (
	"net/http"

	"atelier/internal/core/application/usecases/commands"
	"atelier/internal/core/application/usecases/queries"
	"atelier/internal/core/domain/model/kernel"
	"atelier/internal/core/domain/model/order"
	"atelier/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// CreateOrder handles POST /api/v1/orders.
func (s *Server) CreateOrder(c echo.Context) error {
	actor, err := currentIdentity(c)
	if err != nil {
		return err
	}
	var body NewOrder
	if err = bindBody(c, &body); err != nil {
		return err
	}

	cmd, err := commands.NewCreateOrderCommand(order.Details{
		CustomerName: body.CustomerName,
		MaterialType: body.MaterialType,
		Size:         body.Size,
		Quantity:     body.Quantity,
		Notes:        body.Notes,
	}, *body.EmbroideryRequired, actor)
	if err != nil {
		return err
	}
	created, err := s.h.CreateOrder.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toOrder(queries.NewOrderResponse(created)))
}

// GetOrder handles GET /api/v1/orders/{orderId}.
func (s *Server) GetOrder(c echo.Context) error {
	actor, err := currentIdentity(c)
	if err != nil {
		return err
	}
	id, err := pathUUID(c, "orderId")
	if err != nil {
		return err
	}

	query, err := queries.NewGetOrderQuery(id, actor)
	if err != nil {
		return err
	}
	found, err := s.h.GetOrder.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toOrder(found))
}

// ClaimOrder handles POST /api/v1/orders/{orderId}/claim.
func (s *Server) ClaimOrder(c echo.Context) error {
	actor, err := currentIdentity(c)
	if err != nil {
		return err
	}
	id, err := pathUUID(c, "orderId")
	if err != nil {
		return err
	}
	var body Claim
	if err = bindBody(c, &body); err != nil {
		return err
	}

	expected, err := order.ParseStatus(body.ExpectedStatus)
	if err != nil {
		return err
	}
	target, err := parseOptionalStatus(body.TargetStatus)
	if err != nil {
		return err
	}
	cmd, err := commands.NewClaimOrderCommand(id, expected, target, actor)
	if err != nil {
		return err
	}
	updated, err := s.h.ClaimOrder.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toOrder(queries.NewOrderResponse(updated)))
}

// ToggleFinishingTask handles PUT /api/v1/orders/{orderId}/finishing-tasks/{task}.
func (s *Server) ToggleFinishingTask(c echo.Context) error {
	actor, err := currentIdentity(c)
	if err != nil {
		return err
	}
	id, err := pathUUID(c, "orderId")
	if err != nil {
		return err
	}
	var name string
	if err = runtime.BindStyledParameterWithOptions("simple", "task", c.Param("task"), &name,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Required: true}); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("task", err)
	}
	task, err := order.ParseFinishingTask(name)
	if err != nil {
		return err
	}
	var body TaskToggle
	if err = bindBody(c, &body); err != nil {
		return err
	}

	cmd, err := commands.NewToggleFinishingTaskCommand(id, task, *body.Done, actor)
	if err != nil {
		return err
	}
	updated, err := s.h.ToggleTask.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toOrder(queries.NewOrderResponse(updated)))
}

// OverrideOrder handles POST /api/v1/orders/{orderId}/override.
func (s *Server) OverrideOrder(c echo.Context) error {
	actor, err := currentIdentity(c)
	if err != nil {
		return err
	}
	id, err := pathUUID(c, "orderId")
	if err != nil {
		return err
	}
	var body Override
	if err = bindBody(c, &body); err != nil {
		return err
	}

	expected, changes, err := body.changes()
	if err != nil {
		return err
	}
	cmd, err := commands.NewOverrideOrderCommand(id, expected, changes, actor)
	if err != nil {
		return err
	}
	updated, err := s.h.OverrideOrder.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toOrder(queries.NewOrderResponse(updated)))
}

func pathUUID(c echo.Context, name string) (kernel.UUID, error) {
	var id openapi_types.UUID
	err := runtime.BindStyledParameterWithOptions("simple", name, c.Param(name), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Required: true})
	if err != nil {
		return kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause(name, err)
	}
	return kernel.UUIDFromBytes(id[:])
}

func bindBody(c echo.Context, body any) error {
	if err := c.Bind(body); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("request body", err)
	}
	return c.Validate(body)
}
