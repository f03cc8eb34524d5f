// Package odds prices wagers from a participant's position in a season's
// standings population.
package odds

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Tomas5220/f1-api/internal/models"
)

var (
	// MinOdds is paid on the best-ranked participant
	MinOdds = decimal.RequireFromString("1.50")
	// MaxOdds is paid on the worst-ranked participant
	MaxOdds = decimal.RequireFromString("9.00")
)

// Price interpolates linearly between MinOdds and MaxOdds:
//
//	odds = 1.50 + 7.50 * rankIndex / (populationSize - 1)
//
// rounded once to two decimal places, half away from zero.
func Price(rankIndex, populationSize int) (decimal.Decimal, error) {
	if populationSize < 2 {
		return decimal.Zero, models.NewDataIntegrityError(
			fmt.Sprintf("standings population of %d cannot be priced", populationSize), nil)
	}
	if rankIndex < 0 || rankIndex >= populationSize {
		return decimal.Zero, models.NewDataIntegrityError(
			fmt.Sprintf("rank index %d outside population of %d", rankIndex, populationSize), nil)
	}

	spread := MaxOdds.Sub(MinOdds)
	step := spread.Mul(decimal.NewFromInt(int64(rankIndex))).
		Div(decimal.NewFromInt(int64(populationSize - 1)))

	return MinOdds.Add(step).Round(2), nil
}

// RankIndex returns the position of the first value in population equal to
// metric. population must be sorted descending.
func RankIndex(population []decimal.Decimal, metric decimal.Decimal) (int, error) {
	for i, v := range population {
		if v.Equal(metric) {
			return i, nil
		}
	}
	return -1, models.NewDataIntegrityError(
		fmt.Sprintf("metric %s not present in standings population of %d", metric, len(population)), nil)
}

// PriceMetric locates metric in the descending population and prices it
func PriceMetric(population []decimal.Decimal, metric decimal.Decimal) (decimal.Decimal, int, error) {
	idx, err := RankIndex(population, metric)
	if err != nil {
		return decimal.Zero, -1, err
	}
	price, err := Price(idx, len(population))
	if err != nil {
		return decimal.Zero, idx, err
	}
	return price, idx, nil
}
