package errorutil_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	apperrors "github.com/spec-kit/hotel-staff-service/pkg/util/errorutil"
)

func TestTaxonomyStatusMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{apperrors.NewValidationError("missing required fields", "required: email"), http.StatusBadRequest},
		{apperrors.NewForbidden("not allowed"), http.StatusForbidden},
		{apperrors.NewAuthLookupFailure(errors.New("db down")), http.StatusInternalServerError},
		{apperrors.NewIdentityRejected("duplicate email"), http.StatusBadRequest},
		{apperrors.NewInvariantViolation("no user id"), http.StatusInternalServerError},
		{apperrors.NewPersistenceFailure(errors.New("insert failed"), "u-1"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		domainErr := apperrors.ToDomainError(tc.err)
		require.Equal(t, tc.status, domainErr.HTTPStatus, domainErr.Code)
	}
}

func TestPersistenceFailureCarriesOrphanID(t *testing.T) {
	err := apperrors.NewPersistenceFailure(errors.New("insert failed"), "u-123")
	domainErr := apperrors.ToDomainError(err)
	require.Equal(t, "u-123", domainErr.AuthUserID)
	require.Equal(t, "insert failed", domainErr.Detail)
}

func TestToDomainErrorWrapsUnknownErrors(t *testing.T) {
	plain := errors.New("boom")
	domainErr := apperrors.ToDomainError(plain)
	require.Equal(t, http.StatusInternalServerError, domainErr.HTTPStatus)
	require.Equal(t, "boom", domainErr.Detail)
	require.ErrorIs(t, domainErr, plain)

	require.Nil(t, apperrors.ToDomainError(nil))
}

func TestUnwrap(t *testing.T) {
	inner := errors.New("db down")
	err := apperrors.NewAuthLookupFailure(inner)
	require.ErrorIs(t, err, inner)
}
