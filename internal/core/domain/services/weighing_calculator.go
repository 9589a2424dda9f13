package services

import (
	"regexp"
	"strings"

	"orderboard/internal/core/domain/model/kernel"
	"orderboard/internal/core/domain/model/order"

	"github.com/shopspring/decimal"
)

const (
	// moneyPlaces is the number of decimal places kept in monetary values (cents).
	moneyPlaces = 2

	// MaxWeightInputLength bounds a trimmed weight input.
	MaxWeightInputLength = 16
)

// plainWeight matches digits with an optional "." or "," fraction. Signs and exponents
// are not weights.
var plainWeight = regexp.MustCompile(`^\d*([.,]\d+)?$`)

// WeighingDraft pairs an order item with the weight typed by the operator.
// It lives only for the duration of a weighing interaction.
type WeighingDraft struct {
	ItemID      kernel.UUID
	WeightInput string
}

// WeighingCalculator turns raw weight inputs into line and order totals.
//
// Business rules:
//   - Weights accept either "." or "," as decimal separator
//   - Only plain decimals of at most MaxWeightInputLength characters are weights
//   - Negative or unparseable weights never reach a total; they count as zero
//   - An explicit "0" is a valid, processed weight
//   - Line totals are rounded to cents, order totals are plain sums
//
// Example usage:
//
//	calc := services.NewWeighingCalculator()
//	line := calc.LineTotal("1,5", decimal.RequireFromString("39.90")) // 59.85
//	if !calc.AllProcessed([]string{"1,5", ""}) {
//	    // the empty input blocks finalization
//	}
type WeighingCalculator struct{}

// NewWeighingCalculator creates a new WeighingCalculator instance.
func NewWeighingCalculator() WeighingCalculator {
	return WeighingCalculator{}
}

// ParseWeight parses an operator-typed weight in kilograms.
//
// Returns ok=false for empty, unparseable, negative, exponent or oversized input.
func (WeighingCalculator) ParseWeight(input string) (decimal.Decimal, bool) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" || len(trimmed) > MaxWeightInputLength || !plainWeight.MatchString(trimmed) {
		return decimal.Zero, false
	}
	normalized := strings.ReplaceAll(trimmed, ",", ".")

	weight, err := decimal.NewFromString(normalized)
	if err != nil || weight.IsNegative() {
		return decimal.Zero, false
	}
	return weight, true
}

// LineTotal returns weight × unitPrice rounded to cents, or zero when the weight input
// is rejected by ParseWeight.
func (c WeighingCalculator) LineTotal(weightInput string, unitPrice decimal.Decimal) decimal.Decimal {
	weight, ok := c.ParseWeight(weightInput)
	if !ok {
		return decimal.Zero
	}
	return weight.Mul(unitPrice).Round(moneyPlaces)
}

// OrderTotal sums line totals.
func (WeighingCalculator) OrderTotal(lines ...decimal.Decimal) decimal.Decimal {
	if len(lines) == 0 {
		return decimal.Zero
	}
	return decimal.Sum(lines[0], lines[1:]...)
}

// AllProcessed reports whether every input parses to a weight ≥ 0.
func (c WeighingCalculator) AllProcessed(inputs []string) bool {
	for _, input := range inputs {
		if _, ok := c.ParseWeight(input); !ok {
			return false
		}
	}
	return true
}

// InitialWeightInput returns the value a weighing form starts with for the item:
// the actual weight when already weighed, else the requested weight, else the quantity.
func (WeighingCalculator) InitialWeightInput(item order.Item) string {
	if w := item.ActualWeight(); w != nil {
		return w.String()
	}
	if w := item.RequestedWeight(); w != nil {
		return w.String()
	}
	return item.Quantity().String()
}
