package transaction

import (
	"fmt"
	"strings"

	"github.com/feinledger/fein/pkg/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	placeholderPrefix = "Tag_"
	placeholderSuffix = "_placeholder"

	// PlaceholderLikePattern matches placeholder names in a LIKE clause using '\' as escape.
	PlaceholderLikePattern = `Tag\_%\_placeholder`
)

// PlaceholderName returns the reserved name of the transaction anchoring a tag.
func PlaceholderName(tagID uuid.UUID) string {
	return placeholderPrefix + tagID.String() + placeholderSuffix
}

// IsPlaceholderName reports whether name matches PlaceholderLikePattern.
// The comparison ignores ASCII case, as LIKE does on SQLite, so every name
// hidden from listings is reserved on every store.
func IsPlaceholderName(name string) bool {
	if len(name) < len(placeholderPrefix)+len(placeholderSuffix) {
		return false
	}
	return strings.EqualFold(name[:len(placeholderPrefix)], placeholderPrefix) &&
		strings.EqualFold(name[len(name)-len(placeholderSuffix):], placeholderSuffix)
}

// ValidateName rejects empty names and names reserved for tag placeholders.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return domain.Validationf("transaction name is required")
	}
	if err := domain.ValidateLength("transaction name", name, domain.MaxTransactionNameLen); err != nil {
		return err
	}
	if IsPlaceholderName(name) {
		return domain.Validationf("transaction name %q is reserved", name)
	}
	return nil
}

// Breakdown is the share of a transaction booked against one account.
type Breakdown struct {
	AccountID uuid.UUID
	Earned    decimal.Decimal
	Spent     decimal.Decimal
}

// Contribution is the signed effect of the breakdown on the transaction net amount.
func (b Breakdown) Contribution() decimal.Decimal {
	return b.Earned.Sub(b.Spent)
}

// Validate checks that both sides of the breakdown are non-negative
// amounts storable without rounding.
func (b Breakdown) Validate() error {
	if b.Earned.IsNegative() || b.Spent.IsNegative() {
		return fmt.Errorf("%w: earned and spent amounts must not be negative", domain.ErrValidation)
	}
	if err := domain.ValidateAmount("earned amount", b.Earned); err != nil {
		return err
	}
	return domain.ValidateAmount("spent amount", b.Spent)
}

// NetAmount sums earned minus spent over all breakdowns.
func NetAmount(breakdowns []Breakdown) decimal.Decimal {
	net := decimal.Zero
	for _, b := range breakdowns {
		net = net.Add(b.Contribution())
	}
	return net
}
