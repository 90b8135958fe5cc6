package order

import (
	"errors"
	"fmt"
	"strings"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/pkg/errs"
	"fooddelivery/internal/pkg/guard"
)

// ErrLineItemIsNotConstructed is returned when a LineItem was not built by NewLineItem.
var ErrLineItemIsNotConstructed = errs.NewValueIsRequiredError("line item must be created via NewLineItem")

// LineItem is one product entry of an order. Name and unit price are snapshots taken at
// placement time, so later catalog changes never alter a placed order. Line items are
// immutable.
type LineItem struct {
	id          kernel.UUID
	orderID     kernel.UUID
	productID   kernel.UUID
	productName string
	quantity    int
	unitPrice   kernel.Money
	subtotal    kernel.Money
	guard       guard.ConstructorGuard
}

// NewLineItem validates the snapshot and computes subtotal = quantity × unitPrice.
func NewLineItem(
	id, orderID, productID kernel.UUID,
	productName string,
	quantity int,
	unitPrice kernel.Money,
) (*LineItem, error) {
	item := &LineItem{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		id.Validate(),
		orderID.Validate(),
		productID.Validate(),
		item.setProductName(productName),
		item.setQuantity(quantity),
		unitPrice.Validate(),
	); err != nil {
		return nil, err
	}

	item.id = id
	item.orderID = orderID
	item.productID = productID
	item.unitPrice = unitPrice
	item.subtotal = unitPrice.Multiply(quantity)

	return item, nil
}

// Validate returns ErrLineItemIsNotConstructed for nil or zero-value items.
func (li *LineItem) Validate() error {
	if li == nil {
		return ErrLineItemIsNotConstructed
	}
	return li.guard.Validate(ErrLineItemIsNotConstructed)
}

func (li *LineItem) ID() kernel.UUID        { return li.id }
func (li *LineItem) OrderID() kernel.UUID   { return li.orderID }
func (li *LineItem) ProductID() kernel.UUID { return li.productID }
func (li *LineItem) ProductName() string    { return li.productName }
func (li *LineItem) Quantity() int          { return li.quantity }
func (li *LineItem) UnitPrice() kernel.Money {
	return li.unitPrice
}

// Subtotal returns quantity × unit price.
func (li *LineItem) Subtotal() kernel.Money {
	return li.subtotal
}

func (li *LineItem) setProductName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errs.NewValueIsRequiredError("product name")
	}
	li.productName = name
	return nil
}

func (li *LineItem) setQuantity(quantity int) error {
	if quantity <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("quantity is invalid", fmt.Errorf("%d is not greater than 0", quantity))
	}
	li.quantity = quantity
	return nil
}
