package order_test

import (
	"testing"
	"time"

	"atelier/internal/core/domain/model/kernel"
	"atelier/internal/core/domain/model/order"
	"atelier/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var createdAt = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

func validDetails() order.Details {
	return order.Details{
		CustomerName: "Amina Rahman",
		MaterialType: "linen",
		Size:         "M",
		Quantity:     3,
	}
}

func newOrder(t *testing.T, embroidery bool) *order.Order {
	t.Helper()
	o, err := order.NewOrder(kernel.NewUUID(), order.NewBusinessID(createdAt), validDetails(), embroidery, createdAt)
	require.NoError(t, err)
	return o
}

func statusPtr(s order.Status) *order.Status {
	return &s
}

func TestNewOrder(t *testing.T) {
	t.Run("should start in cutting with creation timestamp", func(t *testing.T) {
		o := newOrder(t, true)

		require.NoError(t, o.Validate())
		assert.Equal(t, order.Cutting, o.Status())
		assert.Equal(t, "ORD-1772442000000", o.OrderID())
		assert.True(t, o.EmbroideryRequired())
		assert.Equal(t, createdAt, o.CreatedAt())
		assert.Equal(t, createdAt, o.UpdatedAt())
		for _, slot := range order.Slots() {
			assert.Nil(t, o.Assignee(slot))
		}
		assert.Equal(t, order.FinishingTasks{}, o.FinishingTasks())

		at, ok := o.StageTimestamps().At(order.Cutting)
		require.True(t, ok)
		assert.Equal(t, createdAt, at)
		assert.Equal(t, 1, o.StageTimestamps().Len())
	})

	t.Run("should trim descriptive fields", func(t *testing.T) {
		details := validDetails()
		details.CustomerName = "  Amina Rahman \n"

		o, err := order.NewOrder(kernel.NewUUID(), "ORD-1", details, false, createdAt)

		require.NoError(t, err)
		assert.Equal(t, "Amina Rahman", o.Details().CustomerName)
	})

	t.Run("should reject non-positive quantity", func(t *testing.T) {
		for _, q := range []int{0, -4} {
			details := validDetails()
			details.Quantity = q

			o, err := order.NewOrder(kernel.NewUUID(), "ORD-1", details, false, createdAt)

			require.Error(t, err)
			assert.Nil(t, o)
			assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
			assert.Contains(t, err.Error(), "quantity")
		}
	})

	t.Run("should report every missing field", func(t *testing.T) {
		o, err := order.NewOrder(kernel.NewUUID(), "ORD-1", order.Details{Quantity: 1}, false, createdAt)

		require.Error(t, err)
		assert.Nil(t, o)
		assert.True(t, errs.IsValidation(err))
		assert.Contains(t, err.Error(), "customerName")
		assert.Contains(t, err.Error(), "materialType")
		assert.Contains(t, err.Error(), "size")
	})

	t.Run("should reject malformed business id", func(t *testing.T) {
		for _, id := range []string{"", "42", "ORD-", "ORD-x1"} {
			_, err := order.NewOrder(kernel.NewUUID(), id, validDetails(), false, createdAt)

			require.Error(t, err, id)
			assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
		}
	})

	t.Run("should reject zero uuid", func(t *testing.T) {
		_, err := order.NewOrder(kernel.UUID{}, "ORD-1", validDetails(), false, createdAt)

		require.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
	})
}

func TestOrder_Validate(t *testing.T) {
	var zero order.Order
	var nilOrder *order.Order

	assert.ErrorIs(t, zero.Validate(), order.ErrOrderIsNotConstructed)
	assert.ErrorIs(t, nilOrder.Validate(), order.ErrOrderIsNotConstructed)
}

func TestOrder_Apply(t *testing.T) {
	tailor := kernel.NewUUID()
	later := createdAt.Add(time.Hour)

	t.Run("should move forward assign and stamp in one step", func(t *testing.T) {
		o := newOrder(t, true)

		err := o.Apply(order.Patch{
			Status:      statusPtr(order.ReadyForTailoring),
			Assignments: map[order.Slot]*kernel.UUID{order.TailorSlot: &tailor},
			UpdatedAt:   later,
		})

		require.NoError(t, err)
		assert.Equal(t, order.ReadyForTailoring, o.Status())
		assert.True(t, o.Assignee(order.TailorSlot).IsEqual(tailor))
		assert.Equal(t, later, o.UpdatedAt())
		at, ok := o.StageTimestamps().At(order.ReadyForTailoring)
		require.True(t, ok)
		assert.Equal(t, later, at)
	})

	t.Run("should keep the first timestamp of a stage", func(t *testing.T) {
		o := newOrder(t, false)

		require.NoError(t, o.Apply(order.Patch{Status: statusPtr(order.Cutting), UpdatedAt: later}))

		at, _ := o.StageTimestamps().At(order.Cutting)
		assert.Equal(t, createdAt, at)
		assert.Equal(t, 1, o.StageTimestamps().Len())
	})

	t.Run("should refuse to move backward", func(t *testing.T) {
		o := newOrder(t, false)
		require.NoError(t, o.Apply(order.Patch{Status: statusPtr(order.InStitching), UpdatedAt: later}))

		err := o.Apply(order.Patch{Status: statusPtr(order.Cutting), UpdatedAt: later})

		require.ErrorIs(t, err, errs.ErrInvalidState)
		assert.Equal(t, order.InStitching, o.Status())
	})

	t.Run("should refuse finishing without embroidery", func(t *testing.T) {
		o := newOrder(t, false)

		err := o.Apply(order.Patch{Status: statusPtr(order.ReadyForFinishing), UpdatedAt: later})

		require.ErrorIs(t, err, errs.ErrInvalidState)
		assert.Equal(t, order.Cutting, o.Status())
	})

	t.Run("should refuse embroidery task on plain order", func(t *testing.T) {
		o := newOrder(t, false)

		err := o.Apply(order.Patch{Tasks: &order.FinishingTasks{EmbroideryDone: true}, UpdatedAt: later})

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.False(t, o.FinishingTasks().EmbroideryDone)
	})

	t.Run("should clear a slot with nil", func(t *testing.T) {
		o := newOrder(t, true)
		require.NoError(t, o.Apply(order.Patch{
			Assignments: map[order.Slot]*kernel.UUID{order.CutterSlot: &tailor},
			UpdatedAt:   later,
		}))

		require.NoError(t, o.Apply(order.Patch{
			Assignments: map[order.Slot]*kernel.UUID{order.CutterSlot: nil},
			UpdatedAt:   later,
		}))

		assert.Nil(t, o.Assignee(order.CutterSlot))
	})

	t.Run("should require updatedAt", func(t *testing.T) {
		o := newOrder(t, true)

		err := o.Apply(order.Patch{Status: statusPtr(order.ReadyForTailoring)})

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})
}

func TestOrder_Satisfies(t *testing.T) {
	cutter := kernel.NewUUID()
	other := kernel.NewUUID()
	o := newOrder(t, true)

	assert.True(t, o.Satisfies(order.Expectation{Status: order.Cutting, Slot: order.CutterSlot, Claimant: &cutter}))
	assert.False(t, o.Satisfies(order.Expectation{Status: order.ReadyForTailoring}))

	require.NoError(t, o.Apply(order.Patch{
		Assignments: map[order.Slot]*kernel.UUID{order.CutterSlot: &cutter},
		UpdatedAt:   createdAt,
	}))

	assert.True(t, o.Satisfies(order.Expectation{Status: order.Cutting, Slot: order.CutterSlot, Claimant: &cutter}))
	assert.False(t, o.Satisfies(order.Expectation{Status: order.Cutting, Slot: order.CutterSlot, Claimant: &other}))
	assert.True(t, o.Satisfies(order.Expectation{Status: order.Cutting, Slot: order.CutterSlot}), "no claimant skips ownership")

	assert.False(t, o.Satisfies(order.Expectation{
		Status: order.Cutting, Slot: order.TailorSlot, Claimant: &cutter, OwnerOnly: true,
	}), "owner only fails on an unassigned slot")

	tasks := order.FinishingTasks{ButtonsAttached: true}
	assert.False(t, o.Satisfies(order.Expectation{Status: order.Cutting, Tasks: &tasks}))
}

func TestRestoreOrder(t *testing.T) {
	finisher := kernel.NewUUID()
	base := func() order.State {
		return order.State{
			ID:                 kernel.NewUUID(),
			OrderID:            "ORD-1772442000000",
			Details:            validDetails(),
			EmbroideryRequired: true,
			Status:             order.ReadyForFinishing,
			AssignedFinisher:   &finisher,
			FinishingTasks:     order.FinishingTasks{EmbroideryDone: true},
			CreatedAt:          createdAt,
			UpdatedAt:          createdAt.Add(time.Hour),
			StageTimestamps: map[order.Status]time.Time{
				order.Cutting:           createdAt,
				order.ReadyForFinishing: createdAt.Add(time.Hour),
			},
		}
	}

	t.Run("should round trip state", func(t *testing.T) {
		s := base()

		o, err := order.RestoreOrder(s)

		require.NoError(t, err)
		assert.Equal(t, s, o.State())
		done, total := o.FinishingProgress()
		assert.Equal(t, 1, done)
		assert.Equal(t, 3, total)
	})

	t.Run("should reject finishing stage on plain order", func(t *testing.T) {
		s := base()
		s.EmbroideryRequired = false
		s.FinishingTasks = order.FinishingTasks{}

		_, err := order.RestoreOrder(s)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("should reject unknown status", func(t *testing.T) {
		s := base()
		s.Status = order.Unknown

		_, err := order.RestoreOrder(s)

		require.Error(t, err)
	})
}
