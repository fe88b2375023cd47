// Package errors provides custom error types for inventory operations.
package errors

import "errors"

var ErrProductNotFound = errors.New("product not found")
var ErrEmptyInventory = errors.New("inventory is empty")
var ErrInsufficientStock = errors.New("insufficient stock")
var ErrIDMismatch = errors.New("product id in body does not match path")
