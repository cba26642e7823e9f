package handler

import "net/http"

type AppError struct {
	Status  int
	Code    string
	Message string
}

func (e *AppError) Error() string { return e.Message }

var (
	ErrMissingToken       = &AppError{http.StatusUnauthorized, "MISSING_TOKEN", "Authorization header required"}
	ErrInvalidToken       = &AppError{http.StatusUnauthorized, "INVALID_TOKEN", "Token is invalid or expired"}
	ErrInvalidCredentials = &AppError{http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password"}
	ErrForbiddenRole      = &AppError{http.StatusForbidden, "FORBIDDEN", "Not available for this role"}
	ErrInvalidRequest     = &AppError{http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body"}
	ErrValidationFailed   = &AppError{http.StatusBadRequest, "VALIDATION_FAILED", "Validation failed"}
	ErrResourceNotFound   = &AppError{http.StatusNotFound, "RESOURCE_NOT_FOUND", "Resource not found"}
	ErrInternalError      = &AppError{http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred"}

	ErrEmailTaken        = &AppError{http.StatusConflict, "EMAIL_TAKEN", "Email already registered"}
	ErrInvalidRole       = &AppError{http.StatusBadRequest, "INVALID_ROLE", "Role must be client or courier"}
	ErrInvalidSize       = &AppError{http.StatusBadRequest, "INVALID_SIZE", "Size must be S, M or L"}
	ErrInvalidStatus     = &AppError{http.StatusBadRequest, "INVALID_STATUS", "Unknown package status"}
	ErrInvalidTransition = &AppError{http.StatusUnprocessableEntity, "INVALID_TRANSITION", "Status can only advance one step forward"}
	ErrSameLocker        = &AppError{http.StatusUnprocessableEntity, "SAME_LOCKER", "Source and destination lockers must differ"}
	ErrLockerNotFound    = &AppError{http.StatusUnprocessableEntity, "LOCKER_NOT_FOUND", "Locker not found"}
	ErrReceiverNotFound  = &AppError{http.StatusUnprocessableEntity, "RECEIVER_NOT_FOUND", "Receiver with this email does not exist"}

	// Collect misses are deliberately indistinguishable: the response never
	// reveals whether the code, the recipient or the status was wrong.
	ErrInvalidPickup = &AppError{http.StatusUnprocessableEntity, "INVALID_PICKUP", "Invalid code or package not ready for pickup"}
)
