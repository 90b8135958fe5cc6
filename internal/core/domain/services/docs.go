// Package services contains domain services that operate on several aggregates at
// once or on collections of them.
//
// OrderStatistics summarizes an order history: totals, revenue, average order value,
// counts by status and by calendar day, and day-over-day and week-over-week growth.
// It has no dependencies beyond the domain model and never touches storage.
package services
