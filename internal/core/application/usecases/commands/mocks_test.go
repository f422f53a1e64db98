package commands_test

import (
	"context"
	"sync"

	"atelier/internal/core/application/usecases/commands"
	"atelier/internal/core/domain/model/kernel"
	"atelier/internal/core/domain/model/order"
	"atelier/internal/core/domain/model/worker"
	"atelier/internal/core/domain/services"
	"atelier/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

func (m *MockOrderRepository) ConditionalUpdate(
	ctx context.Context,
	id kernel.UUID,
	exp order.Expectation,
	patch order.Patch,
) (bool, error) {
	args := m.Called(ctx, id, exp, patch)
	return args.Bool(0), args.Error(1)
}

func (m *MockOrderRepository) FindByView(
	ctx context.Context,
	view services.StageView,
	viewer kernel.UUID,
) ([]*order.Order, error) {
	args := m.Called(ctx, view, viewer)
	orders, _ := args.Get(0).([]*order.Order)
	return orders, args.Error(1)
}

type MockOrderUoW struct{ mock.Mock }

func (m *MockOrderUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

type MockNotifier struct{ mock.Mock }

func (m *MockNotifier) Notify(ctx context.Context, n ports.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

// recordingMetrics counts metric calls by name.
type recordingMetrics struct {
	mu          sync.Mutex
	transitions []string
	conflicts   map[string]int
	retries     map[string]int
	rejections  map[string]int
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{
		conflicts:  map[string]int{},
		retries:    map[string]int{},
		rejections: map[string]int{},
	}
}

func (r *recordingMetrics) TransitionCommitted(from, to order.Status) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.transitions = append(r.transitions, from.String()+">"+to.String())
}

func (r *recordingMetrics) ClaimConflict(action string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conflicts[action]++
}

func (r *recordingMetrics) StoreRetry(operation string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.retries[operation]++
}

func (r *recordingMetrics) ActionRejected(action, reason string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rejections[action+"/"+reason]++
}

// recordingNotifier keeps every notification it receives.
type recordingNotifier struct {
	mu   sync.Mutex
	sent []ports.Notification
}

func (r *recordingNotifier) Notify(_ context.Context, n ports.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, n)
	return nil
}

func (r *recordingNotifier) outcomes(outcome ports.Outcome) []ports.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []ports.Notification
	for _, n := range r.sent {
		if n.Outcome == outcome {
			out = append(out, n)
		}
	}
	return out
}

func identity(role worker.Role) worker.Identity {
	return worker.NewIdentity(kernel.NewUUID(), role, true)
}
