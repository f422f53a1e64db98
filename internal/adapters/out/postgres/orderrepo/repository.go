// Package orderrepo stores the order aggregate in postgres. Workflow writes go through
// ConditionalUpdate, a single UPDATE whose WHERE clause carries the expectation of the plan,
// so concurrent claims are decided by the database row lock.
package orderrepo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"atelier/internal/adapters/out/postgres/pgerr"
	"atelier/internal/core/domain/model/kernel"
	"atelier/internal/core/domain/model/order"
	"atelier/internal/core/domain/services"
	"atelier/internal/core/ports"
	"atelier/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ChangeChannel is the postgres NOTIFY channel carrying the id of every written order.
const ChangeChannel = "order_events"

const orderIDIndex = "idx_orders_order_id"

type GormOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

func NewGormOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormOrderRepository {
	return &GormOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add inserts the order with its stage timestamps. A taken business id yields
// ports.ErrOrderIDTaken.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if pgerr.IsUniqueViolation(err, orderIDIndex) {
			return fmt.Errorf("%w: %s", ports.ErrOrderIDTaken, dto.OrderID)
		}
		return pgerr.Classify("add order", err)
	}
	if err := r.notify(ctx, aggregate.ID()); err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	if err := r.db.WithContext(ctx).Preload("Stages").First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, pgerr.Classify("get order", err)
	}

	return toDomain(dto)
}

// ConditionalUpdate issues
//
//	UPDATE orders SET ... WHERE id = ? AND status = ? [AND ownership] [AND tasks]
//
// and, when the row matched, records the entered stage and notifies the change feed in the
// same transaction.
func (r *GormOrderRepository) ConditionalUpdate(
	ctx context.Context,
	id kernel.UUID,
	exp order.Expectation,
	patch order.Patch,
) (bool, error) {
	if err := id.Validate(); err != nil {
		return false, err
	}
	if patch.IsEmpty() {
		return false, errs.NewValueIsRequiredError("patch")
	}

	query, err := r.expect(r.db.WithContext(ctx).Model(&OrderDTO{}).Where("id = ?", id.Bytes()), exp)
	if err != nil {
		return false, err
	}
	values, err := columns(patch)
	if err != nil {
		return false, err
	}

	res := query.Updates(values)
	if res.Error != nil {
		return false, pgerr.Classify("update order", res.Error)
	}
	if res.RowsAffected == 0 {
		return false, r.mustExist(ctx, id)
	}

	if stage, ok := patch.EnteredStage(); ok {
		entry := StageTimestampDTO{OrderUUID: id.Bytes(), Stage: stage.String(), EnteredAt: patch.UpdatedAt}
		err = r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&entry).Error
		if err != nil {
			return false, pgerr.Classify("record stage timestamp", err)
		}
	}
	if err = r.notify(ctx, id); err != nil {
		return false, err
	}

	r.tracker.TrackAggregate(id, patch)
	return true, nil
}

// FindByView selects the orders admitted by the clauses of view, oldest first.
func (r *GormOrderRepository) FindByView(
	ctx context.Context,
	view services.StageView,
	viewer kernel.UUID,
) ([]*order.Order, error) {
	where, args, err := viewFilter(view, viewer)
	if err != nil {
		return nil, err
	}
	if where == "" {
		return []*order.Order{}, nil
	}

	var dtos []OrderDTO
	err = r.db.WithContext(ctx).Preload("Stages").
		Where(where, args...).
		Order("created_at, order_id").
		Find(&dtos).Error
	if err != nil {
		return nil, pgerr.Classify("find orders by view", err)
	}

	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		o, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, nil
}

func (r *GormOrderRepository) expect(q *gorm.DB, exp order.Expectation) (*gorm.DB, error) {
	q = q.Where("status = ?", exp.Status.String())
	if exp.ChecksOwnership() {
		col, err := slotColumn(exp.Slot)
		if err != nil {
			return nil, err
		}
		claimant := exp.Claimant.Bytes()
		if exp.OwnerOnly {
			q = q.Where(col+" = ?", claimant)
		} else {
			q = q.Where("("+col+" IS NULL OR "+col+" = ?)", claimant)
		}
	}
	if exp.Tasks != nil {
		q = q.Where("embroidery_done = ? AND buttons_attached = ? AND packing_done = ?",
			exp.Tasks.EmbroideryDone, exp.Tasks.ButtonsAttached, exp.Tasks.PackingDone)
	}
	return q, nil
}

func (r *GormOrderRepository) mustExist(ctx context.Context, id kernel.UUID) error {
	var n int64
	if err := r.db.WithContext(ctx).Model(&OrderDTO{}).Where("id = ?", id.Bytes()).Count(&n).Error; err != nil {
		return pgerr.Classify("get order", err)
	}
	if n == 0 {
		return errs.NewObjectNotFoundError("order", id.String())
	}
	return nil
}

func (r *GormOrderRepository) notify(ctx context.Context, id kernel.UUID) error {
	err := r.db.WithContext(ctx).Exec("SELECT pg_notify(?, ?)", ChangeChannel, id.String()).Error
	return pgerr.Classify("notify order change", err)
}

func columns(p order.Patch) (map[string]any, error) {
	values := map[string]any{"updated_at": p.UpdatedAt}
	if p.Status != nil {
		values["status"] = p.Status.String()
	}
	for slot, id := range p.Assignments {
		col, err := slotColumn(slot)
		if err != nil {
			return nil, err
		}
		if id == nil {
			values[col] = nil
			continue
		}
		values[col] = id.Bytes()
	}
	if p.Tasks != nil {
		values["embroidery_done"] = p.Tasks.EmbroideryDone
		values["buttons_attached"] = p.Tasks.ButtonsAttached
		values["packing_done"] = p.Tasks.PackingDone
	}
	return values, nil
}

// viewFilter renders the clauses of view as one SQL condition.
func viewFilter(view services.StageView, viewer kernel.UUID) (string, []any, error) {
	conds := make([]string, 0, len(view.Clauses))
	var args []any
	for _, c := range view.Clauses {
		switch c.Rule {
		case services.VisibleToAll:
			conds = append(conds, "status = ?")
			args = append(args, c.Status.String())
		case services.UnassignedOrSelf, services.SelfOnly:
			col, err := slotColumn(c.Slot)
			if err != nil {
				return "", nil, err
			}
			if c.Rule == services.SelfOnly {
				conds = append(conds, "(status = ? AND "+col+" = ?)")
			} else {
				conds = append(conds, "(status = ? AND ("+col+" IS NULL OR "+col+" = ?))")
			}
			args = append(args, c.Status.String(), viewer.Bytes())
		default:
			return "", nil, fmt.Errorf("unsupported visibility %s", c.Rule)
		}
	}
	if len(conds) == 0 {
		return "", nil, nil
	}
	return "(" + strings.Join(conds, " OR ") + ")", args, nil
}
