package orderrepo

import (
	"context"
	"errors"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormOrderRepository implements OrderRepository using GORM.
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GORM order repository.
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// Add saves a new order and its line items.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	return r.db.WithContext(ctx).Create(&dto).Error
}

// Get retrieves an order by ID with its line items.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		First(&dto, "id = ?", id.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// AssignDriver writes the claim only while the row is unassigned and claimable.
// PostgreSQL evaluates the condition under the row lock, so of two concurrent claims
// exactly one updates a row.
func (r *GormOrderRepository) AssignDriver(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	driverID := aggregate.Driver()
	if driverID == nil {
		return errs.NewValueIsRequiredError("driver")
	}

	claimable := order.ClaimableStatuses()
	statuses := make([]string, 0, len(claimable))
	for _, s := range claimable {
		statuses = append(statuses, s.String())
	}

	result := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("id = ? AND driver_id IS NULL AND status IN ?", aggregate.ID().Bytes(), statuses).
		Updates(map[string]any{
			"driver_id": driverID.Bytes(),
			"status":    aggregate.Status().String(),
		})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewConflictError("order", aggregate.ID().String(), "already claimed or no longer claimable")
	}

	return nil
}

// UpdateStatus writes the new status if the row still has status from and the same
// driver as the aggregate.
func (r *GormOrderRepository) UpdateStatus(ctx context.Context, aggregate *order.Order, from order.Status) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	var driverID any
	if id := aggregate.Driver(); id != nil {
		driverID = id.Bytes()
	}

	result := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("id = ? AND status = ? AND driver_id IS NOT DISTINCT FROM ?",
			aggregate.ID().Bytes(), from.String(), driverID).
		Update("status", aggregate.Status().String())
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewConflictError("order", aggregate.ID().String(),
			"status is no longer "+from.String())
	}

	return nil
}
