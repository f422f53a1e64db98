package queries_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"atelier/internal/core/application/usecases/queries"
	"atelier/internal/core/domain/model/kernel"
	"atelier/internal/core/domain/model/order"
	"atelier/internal/core/domain/model/worker"
	"atelier/internal/core/domain/services"
	"atelier/internal/pkg/errs"
	"atelier/internal/pkg/retry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestGetStageViewQueryHandler_UsesTheViewOfTheRole(t *testing.T) {
	for _, role := range worker.Roles() {
		t.Run(role.String(), func(t *testing.T) {
			viewer := identity(role)
			view, err := services.StageViewFor(role)
			require.NoError(t, err)

			found := []*order.Order{restore(orderSpec{status: view.Clauses[0].Status, embroidery: true})}
			reader := new(MockOrderReader)
			reader.On("FindByView", mock.Anything, view, viewer.ID).Return(found, nil)

			resp, err := queries.NewGetStageViewQueryHandler(reader).
				Handle(context.Background(), queries.NewGetStageViewQuery(viewer))

			require.NoError(t, err)
			require.Len(t, resp, 1)
			assert.Equal(t, found[0].ID(), resp[0].ID)
			reader.AssertExpectations(t)
		})
	}
}

func TestGetStageViewQueryHandler_EmptyViewIsNotNil(t *testing.T) {
	viewer := identity(worker.Finisher)
	reader := new(MockOrderReader)
	reader.On("FindByView", mock.Anything, mock.Anything, viewer.ID).Return([]*order.Order{}, nil)

	resp, err := queries.NewGetStageViewQueryHandler(reader).
		Handle(context.Background(), queries.NewGetStageViewQuery(viewer))

	require.NoError(t, err)
	assert.NotNil(t, resp)
	assert.Empty(t, resp)
}

func TestGetStageViewQueryHandler_Errors(t *testing.T) {
	t.Run("inactive viewer", func(t *testing.T) {
		viewer := worker.NewIdentity(kernel.NewUUID(), worker.Cutter, false)
		_, err := queries.NewGetStageViewQueryHandler(new(MockOrderReader)).
			Handle(context.Background(), queries.NewGetStageViewQuery(viewer))
		require.ErrorIs(t, err, errs.ErrForbidden)
	})

	t.Run("store failure", func(t *testing.T) {
		unavailable := errs.NewStoreUnavailableError("find orders", errors.New("connection reset"))
		reader := new(MockOrderReader)
		reader.On("FindByView", mock.Anything, mock.Anything, mock.Anything).Return(nil, unavailable)

		_, err := queries.NewGetStageViewQueryHandler(reader, fastRetries(3)).
			Handle(context.Background(), queries.NewGetStageViewQuery(identity(worker.Tailor)))
		require.ErrorIs(t, err, errs.ErrStoreUnavailable)
		reader.AssertNumberOfCalls(t, "FindByView", 4)
	})

	t.Run("store recovers within the retries", func(t *testing.T) {
		viewer := identity(worker.Cutter)
		found := []*order.Order{restore(orderSpec{status: order.Cutting})}
		reader := new(MockOrderReader)
		reader.On("FindByView", mock.Anything, mock.Anything, viewer.ID).Return(nil, errUnavailable).Once()
		reader.On("FindByView", mock.Anything, mock.Anything, viewer.ID).Return(found, nil).Once()

		resp, err := queries.NewGetStageViewQueryHandler(reader, fastRetries(3)).
			Handle(context.Background(), queries.NewGetStageViewQuery(viewer))

		require.NoError(t, err)
		assert.Len(t, resp, 1)
		reader.AssertNumberOfCalls(t, "FindByView", 2)
	})

	t.Run("slow store is cut off by the attempt timeout", func(t *testing.T) {
		reader := new(MockOrderReader)
		reader.On("FindByView", mock.Anything, mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) {
				<-args.Get(0).(context.Context).Done()
			}).
			Return(nil, context.DeadlineExceeded)

		_, err := queries.NewGetStageViewQueryHandler(reader, queries.WithRetryPolicy(retry.Policy{
			MaxRetries:      1,
			AttemptTimeout:  20 * time.Millisecond,
			InitialInterval: time.Millisecond,
		})).Handle(context.Background(), queries.NewGetStageViewQuery(identity(worker.Tailor)))

		require.ErrorIs(t, err, errs.ErrStoreUnavailable)
		reader.AssertNumberOfCalls(t, "FindByView", 2)
	})

	t.Run("query not constructed", func(t *testing.T) {
		_, err := queries.NewGetStageViewQueryHandler(new(MockOrderReader)).
			Handle(context.Background(), queries.GetStageViewQuery{})
		require.ErrorIs(t, err, queries.ErrGetStageViewQueryIsNotConstructed)
	})
}
