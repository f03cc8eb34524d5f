package odds

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tomas5220/f1-api/internal/models"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decs(values ...string) []decimal.Decimal {
	out := make([]decimal.Decimal, len(values))
	for i, v := range values {
		out[i] = dec(v)
	}
	return out
}

func TestPrice(t *testing.T) {
	tests := []struct {
		name       string
		rank       int
		population int
		want       string
	}{
		{"favourite of two", 0, 2, "1.50"},
		{"outsider of two", 1, 2, "9.00"},
		{"third of four", 2, 4, "6.50"},
		{"second of four", 1, 4, "4.00"},
		{"second of twenty", 1, 20, "1.89"},
		{"middle of three", 1, 3, "5.25"},
		{"second of seven", 1, 7, "2.75"},
		{"second of five rounds half up", 1, 5, "3.38"},
		{"last of twenty", 19, 20, "9.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Price(tt.rank, tt.population)
			require.NoError(t, err)
			assert.True(t, got.Equal(dec(tt.want)), "got %s want %s", got, tt.want)
		})
	}
}

func TestPriceBoundsAndMonotonic(t *testing.T) {
	for n := 2; n <= 30; n++ {
		first, err := Price(0, n)
		require.NoError(t, err)
		assert.True(t, first.Equal(MinOdds), "n=%d", n)

		last, err := Price(n-1, n)
		require.NoError(t, err)
		assert.True(t, last.Equal(MaxOdds), "n=%d", n)

		prev := first
		for i := 1; i < n; i++ {
			p, err := Price(i, n)
			require.NoError(t, err)
			assert.True(t, p.GreaterThanOrEqual(prev), "n=%d i=%d", n, i)
			assert.True(t, p.GreaterThanOrEqual(MinOdds) && p.LessThanOrEqual(MaxOdds))
			assert.LessOrEqual(t, -p.Exponent(), int32(2))
			prev = p
		}
	}
}

func TestPriceRejectsDegeneratePopulation(t *testing.T) {
	for _, n := range []int{-1, 0, 1} {
		_, err := Price(0, n)
		var die *models.DataIntegrityError
		assert.True(t, errors.As(err, &die), "population %d", n)
	}

	_, err := Price(4, 4)
	var die *models.DataIntegrityError
	assert.True(t, errors.As(err, &die))

	_, err = Price(-1, 4)
	assert.True(t, errors.As(err, &die))
}

func TestRankIndex(t *testing.T) {
	population := decs("120", "95", "80", "80", "40")

	idx, err := RankIndex(population, dec("80"))
	require.NoError(t, err)
	assert.Equal(t, 2, idx)

	idx, err = RankIndex(population, dec("120.00"))
	require.NoError(t, err)
	assert.Equal(t, 0, idx)

	_, err = RankIndex(population, dec("81"))
	var die *models.DataIntegrityError
	assert.True(t, errors.As(err, &die))

	_, err = RankIndex(nil, dec("1"))
	assert.True(t, errors.As(err, &die))
}

func TestPriceMetric(t *testing.T) {
	price, idx, err := PriceMetric(decs("120", "95", "80", "40"), dec("80"))
	require.NoError(t, err)
	assert.Equal(t, 2, idx)
	assert.True(t, price.Equal(dec("6.50")))

	_, _, err = PriceMetric(decs("12"), dec("12"))
	var die *models.DataIntegrityError
	assert.True(t, errors.As(err, &die))
}
