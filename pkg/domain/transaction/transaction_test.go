package transaction

import (
	"strings"
	"testing"

	"github.com/feinledger/fein/pkg/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlaceholderName(t *testing.T) {
	id := uuid.MustParse("5a1c3f6e-9c39-4c42-a0a4-2f6f0d9f3b11")
	name := PlaceholderName(id)

	assert.Equal(t, "Tag_5a1c3f6e-9c39-4c42-a0a4-2f6f0d9f3b11_placeholder", name)
	assert.True(t, IsPlaceholderName(name))
}

func TestIsPlaceholderName(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"Tag_1_placeholder", true},
		{"Tag__placeholder", true},
		{"tag_rent_PLACEHOLDER", true},
		{"TAG_x_Placeholder", true},
		{"Tag_placeholder", false},
		{"Coffee", false},
		{"Tag_groceries", false},
		{"my Tag_1_placeholder", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsPlaceholderName(tt.name))
		})
	}
}

func TestValidateName(t *testing.T) {
	assert.NoError(t, ValidateName("Coffee"))
	assert.ErrorIs(t, ValidateName("  "), domain.ErrValidation)
	assert.ErrorIs(t, ValidateName("Tag_x_placeholder"), domain.ErrValidation)
	assert.NoError(t, ValidateName(strings.Repeat("é", domain.MaxTransactionNameLen)))
	assert.ErrorIs(t, ValidateName(strings.Repeat("a", domain.MaxTransactionNameLen+1)), domain.ErrValidation)
}

func TestNetAmount(t *testing.T) {
	breakdowns := []Breakdown{
		{Earned: decimal.RequireFromString("100.10"), Spent: decimal.Zero},
		{Earned: decimal.Zero, Spent: decimal.RequireFromString("4.50")},
		{Earned: decimal.RequireFromString("0.20"), Spent: decimal.RequireFromString("0.10")},
	}

	net := NetAmount(breakdowns)
	require.True(t, net.Equal(decimal.RequireFromString("95.70")), "got %s", net)
	assert.True(t, NetAmount(nil).IsZero())
}

func TestBreakdown_Validate(t *testing.T) {
	ok := Breakdown{Earned: decimal.Zero, Spent: decimal.NewFromInt(3)}
	assert.NoError(t, ok.Validate())

	bad := Breakdown{Earned: decimal.NewFromInt(-1)}
	assert.ErrorIs(t, bad.Validate(), domain.ErrValidation)

	subCent := Breakdown{Spent: decimal.RequireFromString("0.005")}
	assert.ErrorIs(t, subCent.Validate(), domain.ErrValidation)

	huge := Breakdown{Earned: decimal.RequireFromString("10000000000")}
	assert.ErrorIs(t, huge.Validate(), domain.ErrValidation)
}
