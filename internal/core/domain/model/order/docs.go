// Package order provides the Order aggregate of the food delivery workflow.
//
// The package includes:
//   - Order: the aggregate root with its customer, restaurant, optional driver, total
//     and delivery address
//   - LineItem: an immutable product snapshot (name, unit price, quantity, subtotal)
//   - Status: the enumerated lifecycle state with a centralized transition table
//
// Key business rules:
//   - A placed order starts in pending and has at least one line item
//   - The total is the sum of line item subtotals
//   - A driver reference exists exactly while the order is in_transit or delivered
//   - Only the assigned driver may finalize a delivery
//   - delivered and cancelled are terminal
package order
