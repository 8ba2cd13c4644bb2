package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/shelfmarkapp/shelfmark-server/internal/errors"
)

type sample struct {
	Email  string   `json:"email" validate:"required,email"`
	Name   string   `json:"name,omitempty" validate:"max=10"`
	Status string   `json:"status" validate:"omitempty,oneof=reading completed wishlist"`
	Rating *float64 `json:"rating" validate:"omitempty,gte=0,lte=5"`
}

func TestValidate_Valid(t *testing.T) {
	v := New()

	rating := 4.0
	err := v.Validate(sample{Email: "a@b.com", Name: "short", Status: "reading", Rating: &rating})
	assert.NoError(t, err)
}

func TestValidate_ReturnsValidationError(t *testing.T) {
	v := New()

	err := v.Validate(sample{Email: "not-an-email"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestValidate_UsesJSONFieldNames(t *testing.T) {
	v := New()

	err := v.Validate(sample{Email: "a@b.com", Name: "far too long a name"})
	require.Error(t, err)

	var domainErr *domainerrors.Error
	require.ErrorAs(t, err, &domainErr)

	details, ok := domainErr.Details.(map[string]string)
	require.True(t, ok)
	// The json tag name wins over the struct field name, with tag
	// options stripped.
	assert.Contains(t, details, "name")
	assert.NotContains(t, details, "Name")
}

func TestValidate_FriendlyMessages(t *testing.T) {
	v := New()

	bad := 9.5
	err := v.Validate(sample{Email: "", Status: "abandoned", Rating: &bad})
	require.Error(t, err)

	var domainErr *domainerrors.Error
	require.ErrorAs(t, err, &domainErr)

	details, ok := domainErr.Details.(map[string]string)
	require.True(t, ok)
	assert.Equal(t, "is required", details["email"])
	assert.Equal(t, "must be one of: reading completed wishlist", details["status"])
	assert.Equal(t, "must be less than or equal to 5", details["rating"])
}
