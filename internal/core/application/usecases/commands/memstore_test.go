package commands_test

import (
	"context"
	"errors"
	"slices"
	"sync"

	"atelier/internal/core/application/usecases/commands"
	"atelier/internal/core/domain/model/kernel"
	"atelier/internal/core/domain/model/order"
	"atelier/internal/core/domain/model/worker"
	"atelier/internal/core/domain/services"
	"atelier/internal/core/ports"
	"atelier/internal/pkg/errs"
)

// memStore is an in-memory order and worker store whose conditional update is atomic,
// standing in for postgres in handler tests.
type memStore struct {
	mu      sync.Mutex
	orders  map[kernel.UUID]order.State
	ids     map[string]kernel.UUID
	workers map[kernel.UUID]*worker.Worker

	// faults makes the next n calls of an operation fail with errs.ErrStoreUnavailable.
	faults map[string]int
	// takenIDs are business ids Add treats as already used.
	takenIDs map[string]bool
	// beforeUpdate runs once, right before the next conditional update is evaluated.
	beforeUpdate func(s *memStore)

	updates int
}

func newMemStore() *memStore {
	return &memStore{
		orders:   map[kernel.UUID]order.State{},
		ids:      map[string]kernel.UUID{},
		workers:  map[kernel.UUID]*worker.Worker{},
		faults:   map[string]int{},
		takenIDs: map[string]bool{},
	}
}

func (s *memStore) fail(op string, times int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults[op] = times
}

func (s *memStore) fault(op string) error {
	if s.faults[op] > 0 {
		s.faults[op]--
		return errs.NewStoreUnavailableError(op, errors.New("connection reset by peer"))
	}
	return nil
}

func (s *memStore) put(o *order.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders[o.ID()] = o.State()
	s.ids[o.OrderID()] = o.ID()
}

func (s *memStore) putWorker(w *worker.Worker) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.workers[w.ID()] = w
}

func (s *memStore) load(id kernel.UUID) *order.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, err := order.RestoreOrder(s.orders[id])
	if err != nil {
		panic(err)
	}
	return o
}

func (s *memStore) Create() commands.OrderUoW {
	return &memUoW{store: s}
}

func (s *memStore) workerUoWs() commands.WorkerUoWFactory {
	return workerFactory{s}
}

func (s *memStore) uows() commands.UoWFactory {
	return uowFactory{s}
}

type workerFactory struct{ s *memStore }

func (f workerFactory) Create() commands.WorkerUoW {
	return &memUoW{store: f.s}
}

type uowFactory struct{ s *memStore }

func (f uowFactory) Create() commands.UoW {
	return &memUoW{store: f.s}
}

type memUoW struct {
	store *memStore
}

func (u *memUoW) Begin(context.Context) error {
	u.store.mu.Lock()
	defer u.store.mu.Unlock()
	return u.store.fault("begin")
}

func (u *memUoW) Commit(context.Context) error {
	u.store.mu.Lock()
	defer u.store.mu.Unlock()
	return u.store.fault("commit")
}

func (u *memUoW) Rollback(context.Context) error {
	return nil
}

func (u *memUoW) OrderRepository() ports.OrderRepository {
	return memOrders{u.store}
}

func (u *memUoW) WorkerRepository() ports.WorkerRepository {
	return memWorkers{u.store}
}

type memOrders struct{ s *memStore }

func (r memOrders) Add(_ context.Context, o *order.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fault("add"); err != nil {
		return err
	}
	if _, ok := r.s.ids[o.OrderID()]; ok || r.s.takenIDs[o.OrderID()] {
		return ports.ErrOrderIDTaken
	}
	r.s.orders[o.ID()] = o.State()
	r.s.ids[o.OrderID()] = o.ID()
	return nil
}

func (r memOrders) Get(_ context.Context, id kernel.UUID) (*order.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fault("get"); err != nil {
		return nil, err
	}
	st, ok := r.s.orders[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("order", id.String())
	}
	return order.RestoreOrder(st)
}

func (r memOrders) ConditionalUpdate(
	_ context.Context,
	id kernel.UUID,
	exp order.Expectation,
	patch order.Patch,
) (bool, error) {
	r.s.mu.Lock()
	if hook := r.s.beforeUpdate; hook != nil {
		r.s.beforeUpdate = nil
		r.s.mu.Unlock()
		hook(r.s)
		r.s.mu.Lock()
	}
	defer r.s.mu.Unlock()

	if err := r.s.fault("update"); err != nil {
		return false, err
	}
	st, ok := r.s.orders[id]
	if !ok {
		return false, errs.NewObjectNotFoundError("order", id.String())
	}
	o, err := order.RestoreOrder(st)
	if err != nil {
		return false, err
	}
	if !o.Satisfies(exp) {
		return false, nil
	}
	if err = o.Apply(patch); err != nil {
		return false, err
	}
	r.s.orders[id] = o.State()
	r.s.updates++
	return true, nil
}

func (r memOrders) FindByView(_ context.Context, view services.StageView, viewer kernel.UUID) ([]*order.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*order.Order
	for _, st := range r.s.orders {
		o, err := order.RestoreOrder(st)
		if err != nil {
			return nil, err
		}
		if view.Includes(o, viewer) {
			out = append(out, o)
		}
	}
	slices.SortFunc(out, func(a, b *order.Order) int { return a.CreatedAt().Compare(b.CreatedAt()) })
	return out, nil
}

type memWorkers struct{ s *memStore }

func (r memWorkers) Add(_ context.Context, w *worker.Worker) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.workers[w.ID()] = w
	return nil
}

func (r memWorkers) Update(_ context.Context, w *worker.Worker) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.workers[w.ID()]; !ok {
		return errs.NewObjectNotFoundError("worker", w.ID().String())
	}
	r.s.workers[w.ID()] = w
	return nil
}

func (r memWorkers) Get(_ context.Context, id kernel.UUID) (*worker.Worker, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	w, ok := r.s.workers[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("worker", id.String())
	}
	return worker.RestoreWorker(w.ID(), w.Name(), w.Role(), w.Active())
}
