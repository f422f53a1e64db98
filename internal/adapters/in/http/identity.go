package http

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"atelier/internal/core/domain/model/kernel"
	"atelier/internal/core/domain/model/worker"
	"atelier/internal/pkg/errs"
	"atelier/internal/pkg/retry"

	"github.com/labstack/echo/v4"
)

const (
	// WorkerIDHeader carries the id of the acting worker.
	WorkerIDHeader = "X-Worker-ID"

	identityKey = "atelier.identity"
)

// WorkerDirectory resolves worker ids to directory entries.
type WorkerDirectory interface {
	Get(ctx context.Context, id kernel.UUID) (*worker.Worker, error)
}

// resolveIdentity turns the worker id header into the acting identity. Unknown or malformed
// ids are unauthenticated. Inactive workers are resolved; every operation rejects them.
// Lookups that hit an unavailable store are retried under policy.
func resolveIdentity(directory WorkerDirectory, policy retry.Policy, logger *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := strings.TrimSpace(c.Request().Header.Get(WorkerIDHeader))
			if raw == "" {
				return errs.NewUnauthenticatedError("missing " + WorkerIDHeader + " header")
			}
			id, err := kernel.UUIDFromString(raw)
			if err != nil {
				return errs.NewUnauthenticatedError("malformed worker id")
			}

			ctx := c.Request().Context()
			var w *worker.Worker
			err = retry.Do(ctx, policy, func(err error, wait time.Duration) {
				logger.WarnContext(ctx, "worker lookup failed, retrying", "worker", id.String(), "wait", wait, "error", err)
			}, func(ctx context.Context) error {
				var err error
				w, err = directory.Get(ctx, id)
				return err
			})
			if errors.Is(err, errs.ErrObjectNotFound) {
				return errs.NewUnauthenticatedError("unknown worker " + id.String())
			}
			if err != nil {
				return err
			}

			c.Set(identityKey, w.Identity())
			return next(c)
		}
	}
}

// currentIdentity returns the identity resolved for the request.
func currentIdentity(c echo.Context) (worker.Identity, error) {
	id, ok := c.Get(identityKey).(worker.Identity)
	if !ok {
		return worker.Identity{}, errs.NewUnauthenticatedError("no identity")
	}
	return id, nil
}
