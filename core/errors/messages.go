package errors

// ErrorMessages contains all standardized error messages used across the API.
var ErrorMessages = struct {
	InvalidRequestFormat string
	ValidationFailed     string
	InvalidID            string

	UserNotAuthenticated string
	AccessDenied         string

	PlanNotFound                 string
	PlanAlreadyExists            string
	SubscriptionNotFound         string
	ActiveSubscriptionExists     string
	SubscriptionNotCancelable    string
	CardNotFound                 string
	CardAlreadyBound             string
	TransactionNotFound          string
	InvalidTransactionTransition string
	PaymentCreateFailed          string
	GatewayUnavailable           string
}{
	InvalidRequestFormat: "invalid request format",
	ValidationFailed:     "validation failed",
	InvalidID:            "invalid identifier",

	UserNotAuthenticated: "user not authenticated",
	AccessDenied:         "access denied",

	PlanNotFound:                 "plan not found",
	PlanAlreadyExists:            "a plan with that name already exists",
	SubscriptionNotFound:         "subscription not found",
	ActiveSubscriptionExists:     "an active subscription already exists for this user",
	SubscriptionNotCancelable:    "subscription cannot be cancelled from its current status",
	CardNotFound:                 "card not found",
	CardAlreadyBound:             "card is already bound to this user",
	TransactionNotFound:          "transaction not found",
	InvalidTransactionTransition: "invalid transaction status transition",
	PaymentCreateFailed:          "payment could not be created",
	GatewayUnavailable:           "payment gateway temporarily unavailable",
}

// ErrorResponse creates a standardized error response map.
func ErrorResponse(message string, details ...string) map[string]interface{} {
	response := map[string]interface{}{
		"error": message,
	}

	if len(details) > 0 && details[0] != "" {
		response["details"] = details[0]
	}

	return response
}

// ValidationErrorResponse creates a validation error response.
func ValidationErrorResponse(details string) map[string]interface{} {
	return ErrorResponse(ErrorMessages.ValidationFailed, details)
}

// InvalidRequestResponse creates an invalid request error response.
func InvalidRequestResponse(details string) map[string]interface{} {
	return ErrorResponse(ErrorMessages.InvalidRequestFormat, details)
}
