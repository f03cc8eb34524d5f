// Package logger provides settlement-specific logging.
package logger

import (
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// SettlementLogger provides dedicated logging for the wager settlement flow.
type SettlementLogger struct {
	*logrus.Entry
}

// NewSettlementLogger creates a new settlement logger.
func NewSettlementLogger(baseLogger *logrus.Logger) *SettlementLogger {
	return &SettlementLogger{
		Entry: baseLogger.WithField("component", "settlement"),
	}
}

// LogStateTransition logs a settlement moving to its next state.
func (sl *SettlementLogger) LogStateTransition(bettor string, eventID int64, category, from, to string) {
	sl.WithFields(logrus.Fields{
		"bettor":     bettor,
		"event_id":   eventID,
		"category":   category,
		"from_state": from,
		"to_state":   to,
	}).Debug("Settlement state transition")
}

// LogPriced logs the odds computed for a wager.
func (sl *SettlementLogger) LogPriced(bettor, subjectID string, season, rankIndex, population int, odds decimal.Decimal) {
	sl.WithFields(logrus.Fields{
		"bettor":          bettor,
		"subject_id":      subjectID,
		"season":          season,
		"rank_index":      rankIndex,
		"population_size": population,
		"odds":            odds.StringFixed(2),
	}).Debug("Wager priced")
}

// LogResolved logs the outcome decided against the recorded race result.
func (sl *SettlementLogger) LogResolved(bettor, subjectID, winnerID string, eventID int64, won bool) {
	sl.WithFields(logrus.Fields{
		"bettor":     bettor,
		"subject_id": subjectID,
		"winner_id":  winnerID,
		"event_id":   eventID,
		"won":        won,
	}).Debug("Wager resolved")
}

// LogFailure logs a settlement that failed for a server-side reason.
func (sl *SettlementLogger) LogFailure(bettor string, eventID int64, category, state string, err error) {
	sl.WithFields(logrus.Fields{
		"bettor":   bettor,
		"event_id": eventID,
		"category": category,
		"state":    state,
	}).WithError(err).Error("Settlement failed")
}
