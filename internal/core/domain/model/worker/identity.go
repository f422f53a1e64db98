package worker

import (
	"errors"
	"strings"

	"atelier/internal/core/domain/model/kernel"
	"atelier/internal/pkg/errs"
)

var ErrWorkerIsNotConstructed = errors.New("Worker must be created via NewWorker or RestoreWorker")

// Identity is the authenticated actor behind every workflow operation.
type Identity struct {
	ID     kernel.UUID
	Role   Role
	Active bool
}

// NewIdentity is a convenience for callers that already resolved a session.
func NewIdentity(id kernel.UUID, role Role, active bool) Identity {
	return Identity{ID: id, Role: role, Active: active}
}

var operatorID = kernel.MustUUIDFromString("00000000-0000-0000-0000-00000000a7e1")

// Operator is the identity of administrative tooling run by the workshop operator, such as
// the command line. It acts with admin rights and never appears in the worker directory.
func Operator() Identity {
	return Identity{ID: operatorID, Role: Admin, Active: true}
}

func (i Identity) IsAdmin() bool {
	return i.Role == Admin
}

// Is reports whether the identity is the given worker.
func (i Identity) Is(id *kernel.UUID) bool {
	return id != nil && i.ID.IsEqual(*id)
}

// Authorize rejects inactive or malformed identities. Every workflow operation calls it first.
func (i Identity) Authorize(action string) error {
	if err := i.ID.Validate(); err != nil {
		return errs.NewForbiddenError(action, "identity has no id")
	}
	if err := i.Role.Validate(); err != nil {
		return errs.NewForbiddenError(action, "identity has no role")
	}
	if !i.Active {
		return errs.NewForbiddenError(action, "worker "+i.ID.String()+" is inactive")
	}
	return nil
}

// AuthorizeAdmin is Authorize restricted to admins.
func (i Identity) AuthorizeAdmin(action string) error {
	if err := i.Authorize(action); err != nil {
		return err
	}
	if !i.IsAdmin() {
		return errs.NewForbiddenError(action, "role "+i.Role.String()+" is not admin")
	}
	return nil
}

// Worker is an entry of the workshop's worker directory.
type Worker struct {
	id     kernel.UUID
	name   string
	role   Role
	active bool

	isConstructed bool
}

// NewWorker registers a new, active worker.
func NewWorker(id kernel.UUID, name string, role Role) (*Worker, error) {
	return RestoreWorker(id, name, role, true)
}

// RestoreWorker rebuilds a worker read from storage.
func RestoreWorker(id kernel.UUID, name string, role Role, active bool) (*Worker, error) {
	name = strings.TrimSpace(name)

	w := &Worker{id: id, name: name, role: role, active: active, isConstructed: true}
	var nameErr error
	if name == "" {
		nameErr = errs.NewValueIsRequiredError("name")
	}
	if err := errors.Join(id.Validate(), nameErr, role.Validate()); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *Worker) Validate() error {
	if w == nil || !w.isConstructed {
		return ErrWorkerIsNotConstructed
	}
	return nil
}

func (w *Worker) ID() kernel.UUID {
	return w.id
}

func (w *Worker) Name() string {
	return w.name
}

func (w *Worker) Role() Role {
	return w.role
}

func (w *Worker) Active() bool {
	return w.active
}

// Identity returns the actor view of the worker.
func (w *Worker) Identity() Identity {
	return NewIdentity(w.id, w.role, w.active)
}

func (w *Worker) Activate() {
	w.active = true
}

func (w *Worker) Deactivate() {
	w.active = false
}
