package entities

import "net/http"

// AppErrorType representa os tipos de erro da aplicação.
type AppErrorType int

// ErrDatabase represents a database error.
const (
	ErrDatabase AppErrorType = iota + 1001
	ErrRepository
	ErrUsecase
	ErrEntity
	ErrModel
	ErrService
	ErrMiddleware
	ErrRoot
	ErrEnvironment
	ErrNotFound
	ErrInvalidToken
	ErrInvalidCredentials
	ErrUnauthorized
	ErrConflict
	ErrAlreadyExists
	ErrActiveSubscriptionExists
	ErrSubscriptionCancel
	ErrPaymentCreate
	ErrPermanentWorker
	ErrTemporaryWorker
	ErrValidation
	ErrAccessDenied
)

// AppErrorTypeToString maps AppErrorType to string representations.
var AppErrorTypeToString = map[AppErrorType]string{
	ErrDatabase:                 "database error",
	ErrRepository:               "repository error",
	ErrUsecase:                  "use case error",
	ErrEntity:                   "entity error",
	ErrModel:                    "model error",
	ErrService:                  "service error",
	ErrMiddleware:               "middleware error",
	ErrRoot:                     "root error",
	ErrEnvironment:              "environment error",
	ErrNotFound:                 "resource not found",
	ErrInvalidToken:             "invalid token",
	ErrInvalidCredentials:       "invalid credentials",
	ErrUnauthorized:             "unauthorized",
	ErrConflict:                 "conflict",
	ErrAlreadyExists:            "resource already exists",
	ErrActiveSubscriptionExists: "an active subscription already exists",
	ErrSubscriptionCancel:       "subscription cannot be cancelled",
	ErrPaymentCreate:            "payment could not be created",
	ErrPermanentWorker:          "permanent worker failure",
	ErrTemporaryWorker:          "temporary worker failure",
	ErrValidation:               "validation error",
	ErrAccessDenied:             "access denied",
}

// AppErrorTypeToHTTP maps AppErrorType to HTTP status codes.
var AppErrorTypeToHTTP = map[AppErrorType]int{
	ErrDatabase:                 http.StatusInternalServerError,
	ErrRepository:               http.StatusInternalServerError,
	ErrUsecase:                  http.StatusInternalServerError,
	ErrEntity:                   http.StatusBadRequest,
	ErrModel:                    http.StatusBadRequest,
	ErrService:                  http.StatusInternalServerError,
	ErrMiddleware:               http.StatusInternalServerError,
	ErrRoot:                     http.StatusInternalServerError,
	ErrEnvironment:              http.StatusInternalServerError,
	ErrNotFound:                 http.StatusNotFound,
	ErrInvalidToken:             http.StatusUnauthorized,
	ErrInvalidCredentials:       http.StatusUnauthorized,
	ErrUnauthorized:             http.StatusUnauthorized,
	ErrConflict:                 http.StatusConflict,
	ErrAlreadyExists:            http.StatusBadRequest,
	ErrActiveSubscriptionExists: http.StatusBadRequest,
	ErrSubscriptionCancel:       http.StatusBadRequest,
	ErrPaymentCreate:            http.StatusBadGateway,
	ErrPermanentWorker:          http.StatusInternalServerError,
	ErrTemporaryWorker:          http.StatusServiceUnavailable,
	ErrValidation:               http.StatusUnprocessableEntity,
	ErrAccessDenied:             http.StatusForbidden,
}
