package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrUnauthorized indicates missing or invalid credentials.
var ErrUnauthorized = errors.New("unauthorized")

// ErrForbidden indicates the caller is known but not allowed to perform the action,
// e.g. an account that has not been verified by an administrator yet.
var ErrForbidden = errors.New("forbidden")

// ErrConflict indicates the requested change is not allowed in the current state,
// e.g. an invoice status transition the lifecycle does not permit.
var ErrConflict = errors.New("conflict")
