// Package catalog holds the read-only product data used to price an order.
package catalog

import (
	"errors"
	"fmt"
	"strings"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/pkg/errs"
)

// ErrProductIsNotConstructed is returned when a Product was not built by RestoreProduct.
var ErrProductIsNotConstructed = errors.New("Product must be created via RestoreProduct constructor")

// Product is a menu entry of a restaurant. The service never edits products; it only
// snapshots their name and price into line items.
type Product struct {
	id            kernel.UUID
	restaurantID  kernel.UUID
	name          string
	price         kernel.Money
	available     bool
	isConstructed bool
}

// RestoreProduct rebuilds a product read from storage.
func RestoreProduct(id, restaurantID kernel.UUID, name string, price kernel.Money, available bool) (*Product, error) {
	name = strings.TrimSpace(name)
	var nameErr error
	if name == "" {
		nameErr = errs.NewValueIsRequiredError("product name")
	}

	if err := errors.Join(id.Validate(), restaurantID.Validate(), nameErr, price.Validate()); err != nil {
		return nil, err
	}

	return &Product{
		id:            id,
		restaurantID:  restaurantID,
		name:          name,
		price:         price,
		available:     available,
		isConstructed: true,
	}, nil
}

// Validate ensures the Product instance was properly constructed.
func (p *Product) Validate() error {
	if p == nil || !p.isConstructed {
		return ErrProductIsNotConstructed
	}
	return nil
}

func (p *Product) ID() kernel.UUID         { return p.id }
func (p *Product) Restaurant() kernel.UUID { return p.restaurantID }
func (p *Product) Name() string            { return p.name }
func (p *Product) Price() kernel.Money     { return p.price }
func (p *Product) IsAvailable() bool       { return p.available }

// EnsureOrderable checks that the product can be ordered from restaurantID.
func (p *Product) EnsureOrderable(restaurantID kernel.UUID) error {
	if !p.restaurantID.IsEqual(restaurantID) {
		return errs.NewValueIsInvalidErrorWithCause(
			"product",
			fmt.Errorf("%s does not belong to restaurant %s", p.id, restaurantID),
		)
	}
	if !p.available {
		return errs.NewValueIsInvalidErrorWithCause("product", fmt.Errorf("%s is not available", p.name))
	}
	return nil
}
