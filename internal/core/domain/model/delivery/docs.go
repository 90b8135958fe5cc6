// Package delivery models the coordinate an order is delivered to.
package delivery
