package queries_test

import (
	"context"
	"sync"
	"time"

	"atelier/internal/core/application/usecases/queries"
	"atelier/internal/core/domain/model/kernel"
	"atelier/internal/core/domain/model/order"
	"atelier/internal/core/domain/model/worker"
	"atelier/internal/core/domain/services"
	"atelier/internal/core/ports"
	"atelier/internal/pkg/errs"
	"atelier/internal/pkg/retry"

	"github.com/stretchr/testify/mock"
)

var t0 = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

type MockOrderReader struct {
	mock.Mock
}

func (m *MockOrderReader) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if o := args.Get(0); o != nil {
		return o.(*order.Order), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOrderReader) FindByView(
	ctx context.Context,
	view services.StageView,
	viewer kernel.UUID,
) ([]*order.Order, error) {
	args := m.Called(ctx, view, viewer)
	if o := args.Get(0); o != nil {
		return o.([]*order.Order), args.Error(1)
	}
	return nil, args.Error(1)
}

// fakeFeed hands out one channel per subscription and records when they are cancelled.
type fakeFeed struct {
	mu        sync.Mutex
	subs      []chan ports.OrderChange
	cancelled chan struct{}
}

func newFakeFeed() *fakeFeed {
	return &fakeFeed{cancelled: make(chan struct{}, 8)}
}

func (f *fakeFeed) Subscribe(ctx context.Context) <-chan ports.OrderChange {
	ch := make(chan ports.OrderChange, 16)
	f.mu.Lock()
	f.subs = append(f.subs, ch)
	f.mu.Unlock()
	go func() {
		<-ctx.Done()
		f.cancelled <- struct{}{}
	}()
	return ch
}

func (f *fakeFeed) push(c ports.OrderChange) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, ch := range f.subs {
		ch <- c
	}
}

func (f *fakeFeed) closeAll() {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, ch := range f.subs {
		close(ch)
	}
	f.subs = nil
}

func fastRetries(n uint64) queries.Option {
	return queries.WithRetryPolicy(retry.Policy{
		MaxRetries:      n,
		AttemptTimeout:  time.Second,
		InitialInterval: time.Millisecond,
		MaxInterval:     2 * time.Millisecond,
	})
}

var errUnavailable = errs.NewStoreUnavailableError("find orders", nil)

// directory is a worker directory whose entries tests can change between refreshes.
type directory struct {
	mu      sync.Mutex
	workers map[kernel.UUID]*worker.Worker
}

func newDirectory(ids ...worker.Identity) *directory {
	d := &directory{workers: map[kernel.UUID]*worker.Worker{}}
	for _, id := range ids {
		d.set(id)
	}
	return d
}

func (d *directory) set(id worker.Identity) {
	w, err := worker.RestoreWorker(id.ID, "Ana Souza", id.Role, id.Active)
	if err != nil {
		panic(err)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.workers[id.ID] = w
}

func (d *directory) Get(_ context.Context, id kernel.UUID) (*worker.Worker, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	w, ok := d.workers[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("worker", id.String())
	}
	return w, nil
}

func identity(role worker.Role) worker.Identity {
	return worker.NewIdentity(kernel.NewUUID(), role, true)
}

type orderSpec struct {
	status     order.Status
	embroidery bool
	cutter     *kernel.UUID
	tailor     *kernel.UUID
	finisher   *kernel.UUID
	tasks      order.FinishingTasks
}

func restore(spec orderSpec) *order.Order {
	o, err := order.RestoreOrder(order.State{
		ID:      kernel.NewUUID(),
		OrderID: order.NewBusinessID(t0),
		Details: order.Details{
			CustomerName: "Clara Mendes", MaterialType: "cotton", Size: "S", Quantity: 3,
		},
		EmbroideryRequired: spec.embroidery,
		Status:             spec.status,
		AssignedCutter:     spec.cutter,
		AssignedTailor:     spec.tailor,
		AssignedFinisher:   spec.finisher,
		FinishingTasks:     spec.tasks,
		CreatedAt:          t0,
		UpdatedAt:          t0.Add(time.Hour),
		StageTimestamps:    map[order.Status]time.Time{order.Cutting: t0},
	})
	if err != nil {
		panic(err)
	}
	return o
}

func ptr(id kernel.UUID) *kernel.UUID {
	return &id
}
