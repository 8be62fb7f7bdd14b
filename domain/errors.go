package domain

import "errors"

var (
	// ErrInternalServerError will throw if any the Internal Server Error happen
	ErrInternalServerError = errors.New("internal server error")
	// ErrNotFound will throw if the requested entity does not exist
	ErrNotFound = errors.New("requested entity is not found")
	// ErrForbidden will throw if the actor lacks the required relationship to the entity
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidState will throw if the operation is not legal from the entity's current state
	ErrInvalidState = errors.New("operation not allowed in current state")
	// ErrInvalidArgument will throw if the given request-body or params is not valid
	ErrInvalidArgument = errors.New("given param is not valid")
	// ErrConflict will throw if the current action already exists
	ErrConflict = errors.New("entity already exists")
)
