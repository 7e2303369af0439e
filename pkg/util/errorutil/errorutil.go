package errorutil

import (
	"errors"
	"fmt"
	"net/http"
)

// DomainError standardizes application errors. Message is what callers
// see, Detail carries collaborator diagnostics, AuthUserID is set only
// when an identity was created but its profile row was not.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Detail     string
	AuthUserID string
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status}
}

// NewValidationError flags a malformed or incomplete request. No
// collaborator has been contacted when this is returned.
func NewValidationError(message, detail string) error {
	return &DomainError{
		Code:       "VALIDATION_FAILED",
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
		Detail:     detail,
	}
}

// NewForbidden covers both an unknown admin and an under-privileged one,
// so that existence of an email cannot be probed through this endpoint.
func NewForbidden(message string) error {
	return NewDomainError("FORBIDDEN", message, http.StatusForbidden)
}

// NewAuthLookupFailure wraps a datastore failure during the admin lookup.
func NewAuthLookupFailure(err error) error {
	return &DomainError{
		Code:       "AUTH_LOOKUP_FAILED",
		Message:    "failed to verify admin privileges",
		HTTPStatus: http.StatusInternalServerError,
		Detail:     err.Error(),
		Err:        err,
	}
}

// NewIdentityRejected surfaces an identity-provider rejection verbatim.
func NewIdentityRejected(providerMessage string) error {
	return &DomainError{
		Code:       "IDENTITY_REJECTED",
		Message:    "identity provider rejected the new account",
		HTTPStatus: http.StatusBadRequest,
		Detail:     providerMessage,
	}
}

// NewInvariantViolation flags a collaborator response of unexpected shape.
func NewInvariantViolation(message string) error {
	return NewDomainError("INVARIANT_VIOLATION", message, http.StatusInternalServerError)
}

// NewPersistenceFailure reports a failed profile write after the identity
// was already created. The orphaned identity id rides along so operators
// can reconcile manually; the identity is never rolled back here.
func NewPersistenceFailure(err error, authUserID string) error {
	return &DomainError{
		Code:       "PROFILE_PERSIST_FAILED",
		Message:    "staff profile could not be persisted",
		HTTPStatus: http.StatusInternalServerError,
		Detail:     err.Error(),
		AuthUserID: authUserID,
		Err:        err,
	}
}

// NewInternalError wraps unexpected failures.
func NewInternalError(err error) error {
	e := &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
	if err != nil {
		e.Detail = err.Error()
	}
	return e
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Detail:     err.Error(),
		Err:        err,
	}
}

func MapError(err error) error {
	return ToDomainError(err)
}
