package shared

// DomainError represents a domain-level error, optionally wrapping a cause.
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Cause   error  `json:"-"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

// Unwrap allows errors.Is/errors.As to reach the wrapped cause.
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// NewWrappedDomainError creates a new domain error that wraps a cause.
func NewWrappedDomainError(code, message string, cause error) *DomainError {
	return &DomainError{Code: code, Message: message, Cause: cause}
}

// Common domain errors
var (
	ErrNotFound            = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists       = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput        = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrConcurrencyConflict = NewDomainError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
	ErrUnauthorized        = NewDomainError("UNAUTHORIZED", "Not authorized to perform this action")
	ErrForbidden           = NewDomainError("FORBIDDEN", "Access to this resource is forbidden")
	ErrInvalidState        = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
	ErrInsufficientStock   = NewDomainError("INSUFFICIENT_STOCK", "Insufficient stock available")
	ErrInsufficientBalance = NewDomainError("INSUFFICIENT_BALANCE", "Insufficient balance available")
)

// Error taxonomy codes for the WMS core: Validation, NotFound, Conflict,
// InvariantViolation, TenantMismatch, External, Fatal.
const (
	CodeValidation         = "VALIDATION"
	CodeNotFound           = "NOT_FOUND"
	CodeConflict           = "CONFLICT"
	CodeInvariantViolation = "INVARIANT_VIOLATION"
	CodeTenantMismatch     = "TENANT_MISMATCH"
	CodeExternal           = "EXTERNAL"
	CodeFatal              = "FATAL"
)

// NewValidationError reports malformed/missing input or an impossible transition.
func NewValidationError(message string) *DomainError {
	return NewDomainError(CodeValidation, message)
}

// NewNotFoundError reports an entity absent in the tenant.
func NewNotFoundError(message string) *DomainError {
	return NewDomainError(CodeNotFound, message)
}

// NewConflictError reports a uniqueness violation, version mismatch, or duplicate.
func NewConflictError(message string) *DomainError {
	return NewDomainError(CodeConflict, message)
}

// NewInvariantViolationError reports a capacity overrun, quantity underflow,
// over-allocation, or hierarchy cycle.
func NewInvariantViolationError(message string) *DomainError {
	return NewDomainError(CodeInvariantViolation, message)
}

// NewTenantMismatchError reports that the Tenant Context disagrees with the
// command's tenant. Unconditionally fatal to the request.
func NewTenantMismatchError(message string) *DomainError {
	return NewDomainError(CodeTenantMismatch, message)
}

// NewExternalError reports a failure in a collaborator (a repository, the
// tenant registry or another backing service), wrapping its cause.
func NewExternalError(message string, cause error) *DomainError {
	return NewWrappedDomainError(CodeExternal, message, cause)
}

// NewFatalError reports an unrecoverable failure (an invalid tenant schema
// name, barcode generation), wrapping its cause. It is returned to the
// caller like any other DomainError.
func NewFatalError(message string, cause error) *DomainError {
	return NewWrappedDomainError(CodeFatal, message, cause)
}
