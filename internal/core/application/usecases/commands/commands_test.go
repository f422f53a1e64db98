package commands_test

import (
	"testing"

	"atelier/internal/core/application/usecases/commands"
	"atelier/internal/core/domain/model/kernel"
	"atelier/internal/core/domain/model/order"
	"atelier/internal/core/domain/model/worker"
	"atelier/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCreateOrderCommand(t *testing.T) {
	cutter := identity(worker.Cutter)

	cmd, err := commands.NewCreateOrderCommand(order.Details{
		CustomerName: "  Noor Haddad ", MaterialType: "silk", Size: "XL", Quantity: 4,
	}, false, cutter)
	require.NoError(t, err)
	require.NoError(t, cmd.Validate())
	assert.Equal(t, cutter, cmd.Actor())
	assert.False(t, cmd.EmbroideryRequired())

	_, err = commands.NewCreateOrderCommand(order.Details{CustomerName: " ", MaterialType: "silk", Size: "XL", Quantity: 1}, false, cutter)
	require.ErrorIs(t, err, errs.ErrValueIsRequired)

	_, err = commands.NewCreateOrderCommand(order.Details{CustomerName: "Noor", MaterialType: "silk", Size: "XL"}, false, cutter)
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestNewClaimOrderCommand(t *testing.T) {
	tailor := identity(worker.Tailor)
	target := order.InStitching

	cmd, err := commands.NewClaimOrderCommand(kernel.NewUUID(), order.ReadyForTailoring, &target, tailor)
	require.NoError(t, err)
	target = order.ReadyForDelivery
	assert.Equal(t, order.InStitching, *cmd.Target())

	_, err = commands.NewClaimOrderCommand(kernel.UUID{}, order.ReadyForTailoring, nil, tailor)
	require.Error(t, err)

	_, err = commands.NewClaimOrderCommand(kernel.NewUUID(), order.Unknown, nil, tailor)
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestNewToggleFinishingTaskCommand(t *testing.T) {
	finisher := identity(worker.Finisher)

	cmd, err := commands.NewToggleFinishingTaskCommand(kernel.NewUUID(), order.PackingDone, true, finisher)
	require.NoError(t, err)
	assert.Equal(t, order.PackingDone, cmd.Task())
	assert.True(t, cmd.Done())

	_, err = commands.NewToggleFinishingTaskCommand(kernel.NewUUID(), order.UnknownTask, true, finisher)
	require.ErrorIs(t, err, errs.ErrValueIsRequired)
}

func TestNewRegisterWorkerCommand(t *testing.T) {
	_, err := commands.NewRegisterWorkerCommand("  ", worker.Tailor, worker.Operator())
	require.ErrorIs(t, err, errs.ErrValueIsRequired)

	_, err = commands.NewRegisterWorkerCommand("Iris", worker.UnknownRole, worker.Operator())
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)

	cmd, err := commands.NewRegisterWorkerCommand(" Iris ", worker.Tailor, worker.Operator())
	require.NoError(t, err)
	assert.Equal(t, "Iris", cmd.Name())
}

func TestNewSetWorkerActiveCommand(t *testing.T) {
	_, err := commands.NewSetWorkerActiveCommand(kernel.UUID{}, false, worker.Operator())
	require.Error(t, err)
}
