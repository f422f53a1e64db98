package worker_test

import (
	"testing"

	"atelier/internal/core/domain/model/kernel"
	"atelier/internal/core/domain/model/worker"
	"atelier/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	for _, role := range worker.Roles() {
		parsed, err := worker.ParseRole(role.String())
		require.NoError(t, err)
		assert.Equal(t, role, parsed)
	}

	_, err := worker.ParseRole("seamstress")
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestRole_Validate(t *testing.T) {
	require.NoError(t, worker.Tailor.Validate())
	require.Error(t, worker.UnknownRole.Validate())
	require.Error(t, worker.Role(42).Validate())
	assert.Equal(t, "unknown", worker.Role(42).String())
}

func TestIdentity_Authorize(t *testing.T) {
	tests := []struct {
		name     string
		identity worker.Identity
		wantErr  bool
	}{
		{"active cutter", worker.NewIdentity(kernel.NewUUID(), worker.Cutter, true), false},
		{"active admin", worker.NewIdentity(kernel.NewUUID(), worker.Admin, true), false},
		{"inactive tailor", worker.NewIdentity(kernel.NewUUID(), worker.Tailor, false), true},
		{"missing id", worker.NewIdentity(kernel.UUID{}, worker.Tailor, true), true},
		{"missing role", worker.NewIdentity(kernel.NewUUID(), worker.UnknownRole, true), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.identity.Authorize("claim order")
			if tt.wantErr {
				require.ErrorIs(t, err, errs.ErrForbidden)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestOperator(t *testing.T) {
	op := worker.Operator()

	require.NoError(t, op.Authorize("register worker"))
	assert.True(t, op.IsAdmin())
	assert.Equal(t, op, worker.Operator())
}

func TestIdentity_AuthorizeAdmin(t *testing.T) {
	require.NoError(t, worker.NewIdentity(kernel.NewUUID(), worker.Admin, true).AuthorizeAdmin("override order"))
	require.ErrorIs(t, worker.NewIdentity(kernel.NewUUID(), worker.Tailor, true).AuthorizeAdmin("override order"), errs.ErrForbidden)
	require.ErrorIs(t, worker.NewIdentity(kernel.NewUUID(), worker.Admin, false).AuthorizeAdmin("override order"), errs.ErrForbidden)
}

func TestIdentity_Is(t *testing.T) {
	id := kernel.NewUUID()
	other := kernel.NewUUID()
	identity := worker.NewIdentity(id, worker.Finisher, true)

	assert.True(t, identity.Is(&id))
	assert.False(t, identity.Is(&other))
	assert.False(t, identity.Is(nil))
}

func TestNewWorker(t *testing.T) {
	t.Run("valid worker is active", func(t *testing.T) {
		w, err := worker.NewWorker(kernel.NewUUID(), "  Amina  ", worker.Tailor)
		require.NoError(t, err)
		require.NoError(t, w.Validate())

		assert.Equal(t, "Amina", w.Name())
		assert.Equal(t, worker.Tailor, w.Role())
		assert.True(t, w.Active())
		assert.True(t, w.Identity().Active)
	})

	t.Run("collects every invalid field", func(t *testing.T) {
		_, err := worker.NewWorker(kernel.UUID{}, "", worker.UnknownRole)
		require.Error(t, err)
		require.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("deactivate and activate", func(t *testing.T) {
		w, err := worker.NewWorker(kernel.NewUUID(), "Jun", worker.Cutter)
		require.NoError(t, err)

		w.Deactivate()
		require.ErrorIs(t, w.Identity().Authorize("create order"), errs.ErrForbidden)

		w.Activate()
		require.NoError(t, w.Identity().Authorize("create order"))
	})

	t.Run("zero value is not constructed", func(t *testing.T) {
		var w *worker.Worker
		require.ErrorIs(t, w.Validate(), worker.ErrWorkerIsNotConstructed)
	})
}
