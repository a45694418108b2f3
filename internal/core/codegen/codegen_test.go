package codegen

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitials(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"two tokens", "Alice Tech", "AT"},
		{"truncated to two", "Alice Solutions Ltd", "AS"},
		{"single token", "Acme", "A"},
		{"empty placeholder", "", "XX"},
		{"whitespace only", "   ", "XX"},
		{"lowercase upcased", "new horizon traders", "NH"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Initials(tt.in))
		})
	}
}

func TestCode_Deterministic(t *testing.T) {
	at := time.Date(2026, time.February, 4, 10, 15, 0, 0, time.UTC)

	got := Code("Q", "Alice Tech", "Alice Solutions Ltd", at)
	assert.Equal(t, "Q-ATAS-0204261015", got)

	// Same inputs, same output: no hidden state, no internal clock.
	assert.Equal(t, got, Code("Q", "Alice Tech", "Alice Solutions Ltd", at))
}

func TestCode_EmptyCompanyPlaceholder(t *testing.T) {
	at := time.Date(2026, time.February, 4, 10, 15, 0, 0, time.UTC)

	got := Code("Q", "Alice Tech", "", at)
	assert.Equal(t, "Q-ATXX-0204261015", got)
}

func TestCode_ZeroPadding(t *testing.T) {
	at := time.Date(2026, time.January, 2, 3, 4, 0, 0, time.UTC)

	assert.Equal(t, "INV-ATXX-0102260304", Code("INV", "Alice Tech", "", at))
}

func TestSwapPrefix(t *testing.T) {
	got, err := SwapPrefix("Q-ATAS-0204261015", "INV")
	require.NoError(t, err)
	assert.Equal(t, "INV-ATAS-0204261015", got)

	got, err = SwapPrefix(got, "RCT")
	require.NoError(t, err)
	assert.Equal(t, "RCT-ATAS-0204261015", got)
}

func TestSwapPrefix_NoSeparator(t *testing.T) {
	_, err := SwapPrefix("BOGUS", "INV")
	assert.Error(t, err)
}
