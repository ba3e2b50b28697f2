package services

import "fmt"

// NotFoundError indicates the referenced entity does not exist or is outside
// the caller's establishment scope. Tenant mismatches surface as not-found
// on purpose, so callers cannot probe other tenants' data.
type NotFoundError struct {
	Entity string
	ID     uint
}

func (e *NotFoundError) Error() string {
	if e.ID == 0 {
		return fmt.Sprintf("%s not found", e.Entity)
	}
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

// ValidationError indicates the request is well-formed but violates a
// business rule: invalid transition, already-settled order, inactive product.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ForbiddenError indicates the actor may not perform the operation.
type ForbiddenError struct {
	Message string
}

func (e *ForbiddenError) Error() string {
	return e.Message
}

// ConflictError indicates a concurrent update won the race; the caller
// should re-read and retry.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}
