package services

import (
	"errors"
	"net/http"
)

// AppError is a failure that maps directly onto an HTTP response.
// Code identifies the kind of failure; Label and Description are shown to the client.
type AppError struct {
	Status      int
	Code        string
	Label       string
	Description string
}

func (e *AppError) Error() string {
	return e.Label + ": " + e.Description
}

// Is matches on Code so a copy made by WithDescription still matches its sentinel.
func (e *AppError) Is(target error) bool {
	var t *AppError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// WithDescription returns a copy carrying a request-specific description.
func (e *AppError) WithDescription(description string) *AppError {
	c := *e
	c.Description = description
	return &c
}

func newAppError(status int, code, label, description string) *AppError {
	return &AppError{Status: status, Code: code, Label: label, Description: description}
}

// Token failures share one label and description so clients cannot tell which check failed.
const (
	tokenErrorLabel       = "Authentication Error"
	tokenErrorDescription = "Could not validate credentials"
)

var (
	ErrInvalidCredentials = newAppError(http.StatusUnauthorized, "invalid_credentials",
		"Invalid email or password", "The email or password is incorrect.")
	ErrInactiveAccount = newAppError(http.StatusUnauthorized, "inactive_account",
		"Inactive account", "The account is inactive. Please contact support.")
	ErrTokenInvalid = newAppError(http.StatusUnauthorized, "token_invalid",
		tokenErrorLabel, tokenErrorDescription)
	ErrTokenRevoked = newAppError(http.StatusUnauthorized, "token_revoked",
		tokenErrorLabel, tokenErrorDescription)
	ErrTokenNotFound = newAppError(http.StatusUnauthorized, "token_not_found",
		tokenErrorLabel, tokenErrorDescription)
	ErrForbidden = newAppError(http.StatusForbidden, "forbidden",
		"Forbidden", "You do not have permission to perform this action.")

	ErrEmailConflict = newAppError(http.StatusConflict, "email_conflict",
		"Invalid e-mail", "There is already an account with this e-mail address.")
	ErrRegistrationFailed = newAppError(http.StatusInternalServerError, "registration_failed",
		"Registration failed", "Could not generate a unique username. Please try again.")
	ErrUserNotFound = newAppError(http.StatusNotFound, "user_not_found",
		"User not found", "The user with the given ID was not found.")
	ErrValidation = newAppError(http.StatusUnprocessableEntity, "validation_error",
		"Validation Error", "The request is invalid.")

	ErrProfileNotFound = newAppError(http.StatusNotFound, "profile_not_found",
		"Profile not found", "No profile exists for this account.")
	ErrNoFieldsProvided = newAppError(http.StatusBadRequest, "no_fields_provided",
		"No valid fields to update", "At least one field must be provided for update.")

	ErrEmptyFile = newAppError(http.StatusBadRequest, "empty_file",
		"File Upload Error", "Empty file")
	ErrPayloadTooLarge = newAppError(http.StatusRequestEntityTooLarge, "payload_too_large",
		"File too large", "The file exceeds the maximum upload size.")
	ErrUnsupportedType = newAppError(http.StatusUnsupportedMediaType, "unsupported_type",
		"Unsupported file type", "The file type is not allowed.")
	ErrInvalidImage = newAppError(http.StatusBadRequest, "invalid_image",
		"File Upload Error", "Invalid or corrupted image")
	ErrMalwareDetected = newAppError(http.StatusBadRequest, "malware_detected",
		"Malware detected", "Malware detected: unknown threat")
	ErrScannerUnavailable = newAppError(http.StatusServiceUnavailable, "scanner_unavailable",
		"Antivirus service unavailable", "The antivirus service could not be reached.")
	ErrScanError = newAppError(http.StatusInternalServerError, "scan_error",
		"Unexpected scan error", "The antivirus scan failed.")
	ErrUploadFailed = newAppError(http.StatusBadRequest, "upload_failed",
		"File Upload Error", "Upload failed")
	ErrFileNotFound = newAppError(http.StatusNotFound, "file_not_found",
		"File not found", "The file does not exist.")

	ErrApplicationNotFound = newAppError(http.StatusNotFound, "application_not_found",
		"Not found", "Seller application not found")
	ErrDuplicatePending = newAppError(http.StatusBadRequest, "duplicate_pending",
		"Duplicate application", "There is already a pending seller application for this user")
	ErrInvalidStatus = newAppError(http.StatusBadRequest, "invalid_status",
		"Invalid review status", "Review status must be either 'approved' or 'rejected'")
	ErrAlreadyReviewed = newAppError(http.StatusBadRequest, "already_reviewed",
		"Already reviewed", "Seller application has already been reviewed")
)
