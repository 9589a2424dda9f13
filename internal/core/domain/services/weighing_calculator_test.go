package services_test

import (
	"testing"

	"orderboard/internal/core/domain/model/kernel"
	"orderboard/internal/core/domain/model/order"
	"orderboard/internal/core/domain/services"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeighingCalculator_ParseWeight(t *testing.T) {
	calc := services.NewWeighingCalculator()

	tests := []struct {
		input  string
		want   string
		wantOK bool
	}{
		{"1.5", "1.5", true},
		{"1,5", "1.5", true},
		{" 2,250 ", "2.25", true},
		{"0", "0", true},
		{"", "0", false},
		{"   ", "0", false},
		{"abc", "0", false},
		{"-1", "0", false},
		{"NaN", "0", false},
		{"1,5,0", "0", false},
		{"+1", "0", false},
		{"1e3", "0", false},
		{"1e400", "0", false},
		{"1E-2", "0", false},
		{"1e20000000", "0", false},
		{",5", "0.5", true},
		{"123456789.123456", "123456789.123456", true},
		{"12345678901234567", "0", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := calc.ParseWeight(tt.input)

			assert.Equal(t, tt.wantOK, ok)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "got %s", got)
		})
	}

	t.Run("comma and dot parse identically", func(t *testing.T) {
		comma, ok := calc.ParseWeight("1,5")
		require.True(t, ok)
		dot, ok := calc.ParseWeight("1.5")
		require.True(t, ok)

		assert.True(t, comma.Equal(dot))
	})
}

func TestWeighingCalculator_Totals(t *testing.T) {
	calc := services.NewWeighingCalculator()

	weights := []string{"2.5", "0", "1.333"}
	prices := []string{"10", "5", "20"}
	expected := []string{"25", "0", "26.66"}

	lines := make([]decimal.Decimal, 0, len(weights))
	for i := range weights {
		line := calc.LineTotal(weights[i], decimal.RequireFromString(prices[i]))
		assert.True(t, line.Equal(decimal.RequireFromString(expected[i])), "line %d: got %s", i, line)
		lines = append(lines, line)
	}

	total := calc.OrderTotal(lines...)
	assert.Equal(t, "51.66", total.StringFixed(2))

	t.Run("order total does not depend on order", func(t *testing.T) {
		reversed := calc.OrderTotal(lines[2], lines[1], lines[0])
		assert.True(t, total.Equal(reversed))
	})

	t.Run("empty order total is zero", func(t *testing.T) {
		assert.True(t, calc.OrderTotal().IsZero())
	})

	t.Run("rejected input gives zero line", func(t *testing.T) {
		for _, input := range []string{"", "abc", "-2", "1e400", "1e20000000"} {
			assert.True(t, calc.LineTotal(input, decimal.NewFromInt(30)).IsZero(), input)
		}
	})

	t.Run("line total is rounded to cents", func(t *testing.T) {
		line := calc.LineTotal("0,337", decimal.RequireFromString("49.90"))
		assert.Equal(t, "16.82", line.String())
	})
}

func TestWeighingCalculator_AllProcessed(t *testing.T) {
	calc := services.NewWeighingCalculator()

	assert.True(t, calc.AllProcessed([]string{"1", "0", "0,5"}))
	assert.True(t, calc.AllProcessed(nil))
	assert.False(t, calc.AllProcessed([]string{"1", ""}))
	assert.False(t, calc.AllProcessed([]string{"abc"}))
	assert.False(t, calc.AllProcessed([]string{"-0.5"}))
	assert.False(t, calc.AllProcessed([]string{"1e3"}))
}

func TestWeighingCalculator_InitialWeightInput(t *testing.T) {
	calc := services.NewWeighingCalculator()
	requested := decimal.RequireFromString("1.2")
	actual := decimal.RequireFromString("1.15")

	build := func(requested, actual *decimal.Decimal) order.Item {
		item, err := order.RestoreItem(order.ItemParams{
			ID:              kernel.NewUUID(),
			Quantity:        decimal.NewFromInt(3),
			RequestedWeight: requested,
			ActualWeight:    actual,
			UnitPrice:       decimal.NewFromInt(10),
		})
		require.NoError(t, err)
		return item
	}

	assert.Equal(t, "1.15", calc.InitialWeightInput(build(&requested, &actual)))
	assert.Equal(t, "1.2", calc.InitialWeightInput(build(&requested, nil)))
	assert.Equal(t, "3", calc.InitialWeightInput(build(nil, nil)))
}
