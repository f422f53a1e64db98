package commands_test

import (
	"sync"
	"testing"
	"time"

	"atelier/internal/core/application/usecases/commands"
	"atelier/internal/core/domain/model/kernel"
	"atelier/internal/core/domain/model/order"
	"atelier/internal/core/domain/model/worker"
	"atelier/internal/pkg/retry"

	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

// tickingClock advances one minute per reading.
func tickingClock() kernel.Clock {
	var mu sync.Mutex
	now := t0
	return kernel.ClockFunc(func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		now = now.Add(time.Minute)
		return now
	})
}

func fastRetries(n uint64) retry.Policy {
	return retry.Policy{
		MaxRetries:      n,
		AttemptTimeout:  time.Second,
		InitialInterval: time.Millisecond,
		MaxInterval:     2 * time.Millisecond,
	}
}

type fixture struct {
	store    *memStore
	metrics  *recordingMetrics
	notifier *recordingNotifier

	cutter, cutter2     worker.Identity
	tailor, tailor2     worker.Identity
	finisher, finisher2 worker.Identity
	admin               worker.Identity

	seeded int
}

func newFixture() *fixture {
	f := &fixture{
		store:     newMemStore(),
		metrics:   newRecordingMetrics(),
		notifier:  &recordingNotifier{},
		cutter:    identity(worker.Cutter),
		cutter2:   identity(worker.Cutter),
		tailor:    identity(worker.Tailor),
		tailor2:   identity(worker.Tailor),
		finisher:  identity(worker.Finisher),
		finisher2: identity(worker.Finisher),
		admin:     identity(worker.Admin),
	}
	for _, who := range []worker.Identity{
		f.cutter, f.cutter2, f.tailor, f.tailor2, f.finisher, f.finisher2, f.admin,
	} {
		w, err := worker.RestoreWorker(who.ID, who.Role.String()+" "+who.ID.String()[:4], who.Role, who.Active)
		if err != nil {
			panic(err)
		}
		f.store.putWorker(w)
	}
	return f
}

func (f *fixture) options(extra ...commands.Option) []commands.Option {
	return append([]commands.Option{
		commands.WithClock(tickingClock()),
		commands.WithMetrics(f.metrics),
		commands.WithNotifier(f.notifier),
		commands.WithRetryPolicy(fastRetries(3)),
	}, extra...)
}

func (f *fixture) claimer(extra ...commands.Option) commands.ClaimOrderCommandHandler {
	return commands.NewClaimOrderCommandHandler(f.store, f.options(extra...)...)
}

func (f *fixture) toggler(extra ...commands.Option) commands.ToggleFinishingTaskCommandHandler {
	return commands.NewToggleFinishingTaskCommandHandler(f.store, f.options(extra...)...)
}

func (f *fixture) overrider(extra ...commands.Option) commands.OverrideOrderCommandHandler {
	return commands.NewOverrideOrderCommandHandler(f.store.uows(), f.options(extra...)...)
}

// seed stores a fresh order in the cutting stage.
func (f *fixture) seed(t *testing.T, embroidery bool) *order.Order {
	t.Helper()
	f.seeded++
	businessID := order.NewBusinessID(t0.Add(time.Duration(f.seeded) * time.Millisecond))
	o, err := order.NewOrder(kernel.NewUUID(), businessID,
		order.Details{CustomerName: "Mira Okafor", MaterialType: "linen", Size: "M", Quantity: 2}, embroidery, t0)
	require.NoError(t, err)
	f.store.put(o)
	return o
}

func (f *fixture) claim(
	t *testing.T,
	o *order.Order,
	expected order.Status,
	actor worker.Identity,
) (*order.Order, error) {
	t.Helper()
	cmd, err := commands.NewClaimOrderCommand(o.ID(), expected, nil, actor)
	require.NoError(t, err)
	return f.claimer().Handle(t.Context(), cmd)
}

func (f *fixture) toggle(
	t *testing.T,
	o *order.Order,
	task order.FinishingTask,
	done bool,
	actor worker.Identity,
) (*order.Order, error) {
	t.Helper()
	cmd, err := commands.NewToggleFinishingTaskCommand(o.ID(), task, done, actor)
	require.NoError(t, err)
	return f.toggler().Handle(t.Context(), cmd)
}

// advance drives a seeded order to status through regular claims.
func (f *fixture) advance(t *testing.T, o *order.Order, status order.Status) {
	t.Helper()
	for current := f.store.load(o.ID()); current.Status() != status; current = f.store.load(o.ID()) {
		var actor worker.Identity
		switch current.Status() {
		case order.Cutting:
			actor = f.cutter
		case order.ReadyForTailoring, order.InStitching:
			actor = f.tailor
		default:
			require.Failf(t, "cannot advance", "from %s", current.Status())
		}
		_, err := f.claim(t, o, current.Status(), actor)
		require.NoError(t, err)
	}
}

func statusPtr(s order.Status) *order.Status {
	return &s
}

func uuidPtr(id kernel.UUID) *kernel.UUID {
	return &id
}
