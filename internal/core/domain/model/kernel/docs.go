// Package kernel provides the shared value objects of the ordering domain.
//
// The package includes:
//   - UUID: identifier of orders, line items, deliveries, products and people
//   - Location: a validated geographic point (latitude/longitude in degrees)
//   - Money: a non-negative decimal amount with two fraction digits
//
// Value objects are immutable and must be created through their constructors; the
// zero value of each type fails Validate.
package kernel
