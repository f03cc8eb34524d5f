// Package logger provides audit logging.
package logger

import (
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/Tomas5220/f1-api/internal/models"
)

// AuditLogger provides dedicated audit trail logging for balance movements.
type AuditLogger struct {
	*logrus.Entry
}

// NewAuditLogger creates a new audit logger.
func NewAuditLogger(baseLogger *logrus.Logger) *AuditLogger {
	return &AuditLogger{
		Entry: baseLogger.WithField("component", "audit"),
	}
}

// LogWagerSettled logs a committed wager and the balance it left behind.
func (al *AuditLogger) LogWagerSettled(w *models.Wager, newBalance decimal.Decimal) {
	al.WithFields(logrus.Fields{
		"wager_id":    w.ID.String(),
		"bettor":      w.Username,
		"event_id":    w.EventID,
		"season":      w.Season,
		"category":    w.Category.String(),
		"subject_id":  w.SubjectID(),
		"stake":       w.Stake.String(),
		"odds":        w.Odds.StringFixed(2),
		"won":         w.Won,
		"payout":      w.Payout().String(),
		"new_balance": newBalance.String(),
		"placed_at":   w.PlacedAt.Unix(),
	}).Info("Wager settled")
}

// LogWagerRejected logs a wager that left no side effects.
func (al *AuditLogger) LogWagerRejected(bettor string, eventID int64, category, state string, reason error) {
	al.WithFields(logrus.Fields{
		"bettor":   bettor,
		"event_id": eventID,
		"category": category,
		"state":    state,
		"reason":   reason.Error(),
	}).Warn("Wager rejected")
}

// LogBalanceAdjusted logs a balance change made outside of betting.
func (al *AuditLogger) LogBalanceAdjusted(username string, delta, newBalance decimal.Decimal, reason string) {
	al.WithFields(logrus.Fields{
		"username":    username,
		"delta":       delta.String(),
		"new_balance": newBalance.String(),
		"reason":      reason,
	}).Info("Balance adjusted")
}

// LogAccountDeleted logs removal of a user account.
func (al *AuditLogger) LogAccountDeleted(username string) {
	al.WithField("username", username).Info("Account deleted")
}
