package errors

import (
	"net/http"

	"github.com/northlane/billingctl/core/entities"
)

// BadRequestError creates a 400 Bad Request error
func BadRequestError(message string) *AppError {
	return &AppError{
		Type:    entities.ErrEntity,
		Message: message,
		Fields:  nil,
		Cause:   nil,
	}
}

// ValidationError creates a 422 error for request-binding/validator failures.
func ValidationError(message string) *AppError {
	return &AppError{
		Type:    entities.ErrValidation,
		Message: message,
		Fields:  nil,
		Cause:   nil,
	}
}

// UnauthorizedError creates a 401 Unauthorized error
func UnauthorizedError(message string) *AppError {
	return &AppError{
		Type:    entities.ErrUnauthorized,
		Message: message,
		Fields:  nil,
		Cause:   nil,
	}
}

// ForbiddenError creates a 403 Forbidden error.
func ForbiddenError(message string) *AppError {
	return &AppError{
		Type:    entities.ErrAccessDenied,
		Message: message,
		Fields:  nil,
		Cause:   nil,
	}
}

// AccessDeniedError creates a 403 error for an authenticated user acting on a
// resource they don't own and aren't an admin for.
func AccessDeniedError(message string) *AppError {
	return &AppError{
		Type:    entities.ErrAccessDenied,
		Message: message,
		Fields:  nil,
		Cause:   nil,
	}
}

// NotFound creates a 404 Not Found error
func NotFound(message string) *AppError {
	return &AppError{
		Type:    entities.ErrNotFound,
		Message: message,
		Fields:  nil,
		Cause:   nil,
	}
}

// ConflictError creates a 409 Conflict error
func ConflictError(message string) *AppError {
	return &AppError{
		Type:    entities.ErrConflict,
		Message: message,
		Fields:  nil,
		Cause:   nil,
	}
}

// AlreadyExistsError creates a 400 error for duplicate resources.
func AlreadyExistsError(message string) *AppError {
	return &AppError{
		Type:    entities.ErrAlreadyExists,
		Message: message,
		Fields:  nil,
		Cause:   nil,
	}
}

// ActiveSubscriptionExistsError creates a 400 error for a user with an active subscription.
func ActiveSubscriptionExistsError(message string) *AppError {
	return &AppError{
		Type:    entities.ErrActiveSubscriptionExists,
		Message: message,
		Fields:  nil,
		Cause:   nil,
	}
}

// SubscriptionCancelError creates a 400 error for an illegal cancellation attempt.
func SubscriptionCancelError(message string) *AppError {
	return &AppError{
		Type:    entities.ErrSubscriptionCancel,
		Message: message,
		Fields:  nil,
		Cause:   nil,
	}
}

// InternalServerError creates a 500 Internal Server Error
func InternalServerError(message string) *AppError {
	return &AppError{
		Type:    entities.ErrService,
		Message: message,
		Fields:  nil,
		Cause:   nil,
	}
}

// ExternalServiceError creates a 500 Internal Server Error (for external service failures)
func ExternalServiceError(message string) *AppError {
	return &AppError{
		Type:    entities.ErrService,
		Message: message,
		Fields:  nil,
		Cause:   nil,
	}
}

// PaymentCreateError creates a 502 error for a payment gateway that rejected or failed a charge.
func PaymentCreateError(message string, cause error) *AppError {
	return &AppError{
		Type:    entities.ErrPaymentCreate,
		Message: message,
		Fields:  nil,
		Cause:   cause,
	}
}

// PaymentRequiredError creates a 400 Bad Request error (typed ErrEntity)
func PaymentRequiredError(message string) *AppError {
	return &AppError{
		Type:    entities.ErrEntity,
		Message: message,
		Fields:  nil,
		Cause:   nil,
	}
}

// PermanentWorkerError marks a queue message as not worth retrying; callers should reject without requeue so it is dead-lettered to the DLQ.
func PermanentWorkerError(message string, cause error) *AppError {
	return &AppError{
		Type:    entities.ErrPermanentWorker,
		Message: message,
		Fields:  nil,
		Cause:   cause,
	}
}

// TemporaryWorkerError marks a queue message as worth retrying; callers should nack with requeue.
func TemporaryWorkerError(message string, cause error) *AppError {
	return &AppError{
		Type:    entities.ErrTemporaryWorker,
		Message: message,
		Fields:  nil,
		Cause:   cause,
	}
}

// IsNotFoundError checks if the error is a not found error
func IsNotFoundError(err error) bool {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Type == entities.ErrNotFound || appErr.HTTPStatus() == http.StatusNotFound
	}
	return false
}

// IsPermanentWorkerError reports whether a worker error should be dead-lettered instead of retried.
func IsPermanentWorkerError(err error) bool {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Type == entities.ErrPermanentWorker
	}
	return false
}
