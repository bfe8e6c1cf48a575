package consent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	verrors "github.com/veilbox/veil/internal/errors"
)

func TestParseStatusRoundTrip(t *testing.T) {
	for _, status := range []Status{Pending, Approved, Rejected, Revoked, Expired, CountExhausted} {
		parsed, err := ParseStatus(status.String())
		require.NoError(t, err)
		assert.Equal(t, status, parsed)
	}
}

func TestParseStatusUnknown(t *testing.T) {
	_, err := ParseStatus("granted")
	assert.ErrorIs(t, err, verrors.ErrUnknownStatus)

	_, err = ParseStatus("")
	assert.ErrorIs(t, err, verrors.ErrUnknownStatus)

	// Names are exact, not case-folded.
	_, err = ParseStatus("Approved")
	assert.ErrorIs(t, err, verrors.ErrUnknownStatus)
}

func TestStatusNames(t *testing.T) {
	assert.Equal(t, "pending", Pending.String())
	assert.Equal(t, "count exhausted", CountExhausted.String())
	assert.Equal(t, "status(42)", Status(42).String())
}

func TestDecryptable(t *testing.T) {
	assert.True(t, Approved.Decryptable())
	for _, status := range []Status{Pending, Rejected, Revoked, Expired, CountExhausted} {
		assert.False(t, status.Decryptable(), status.String())
	}
}

func TestTerminal(t *testing.T) {
	for _, status := range []Status{Rejected, Revoked, Expired, CountExhausted} {
		assert.True(t, status.Terminal(), status.String())
	}
	assert.False(t, Pending.Terminal())
	assert.False(t, Approved.Terminal())
}
