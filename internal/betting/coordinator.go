package betting

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/Tomas5220/f1-api/internal/events"
	"github.com/Tomas5220/f1-api/internal/logger"
	"github.com/Tomas5220/f1-api/internal/metrics"
	"github.com/Tomas5220/f1-api/internal/models"
	"github.com/Tomas5220/f1-api/internal/odds"
	"github.com/Tomas5220/f1-api/internal/repository"
)

// State is a step of the settlement flow
type State string

const (
	StateValidating State = "validating"
	StatePricing    State = "pricing"
	StateResolving  State = "resolving"
	StateSettling   State = "settling"
	StateDone       State = "done"
	StateRejected   State = "rejected"
)

const publishTimeout = 5 * time.Second

// AccountReader looks up bettor accounts
type AccountReader interface {
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

// Settlement is the outcome of a committed wager
type Settlement struct {
	Wager *models.Wager
	// NewBalance is the bettor's balance after commit, as stored
	NewBalance decimal.Decimal
}

// Message returns the caller-facing outcome text
func (s *Settlement) Message() string {
	if s.Wager.Won {
		return msgWon
	}
	return msgLost
}

// attempt carries one wager through the states
type attempt struct {
	req        *WagerRequest
	category   models.Category
	user       *models.User
	odds       decimal.Decimal
	won        bool
	wager      *models.Wager
	newBalance decimal.Decimal
}

// Coordinator runs a wager from validation to a committed settlement.
// Nothing is written before the settling state, and the settling state
// writes in one transaction, so a rejected wager leaves no trace.
type Coordinator struct {
	accounts  AccountReader
	standings *StandingsReader
	results   *ResultEvaluator
	ledger    repository.Ledger
	wagers    repository.WagerRepository
	publisher events.Publisher
	validate  *validator.Validate
	audit     *logger.AuditLogger
	settleLog *logger.SettlementLogger
	log       *logrus.Logger
	now       func() time.Time
	newID     func() uuid.UUID
}

// NewCoordinator creates a Coordinator
func NewCoordinator(
	accounts AccountReader,
	standings *StandingsReader,
	results *ResultEvaluator,
	ledger repository.Ledger,
	wagers repository.WagerRepository,
	publisher events.Publisher,
	log *logrus.Logger,
) *Coordinator {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &Coordinator{
		accounts:  accounts,
		standings: standings,
		results:   results,
		ledger:    ledger,
		wagers:    wagers,
		publisher: publisher,
		validate:  NewRequestValidator(),
		audit:     logger.NewAuditLogger(log),
		settleLog: logger.NewSettlementLogger(log),
		log:       log,
		now:       time.Now,
		newID:     uuid.New,
	}
}

// Place validates, prices, resolves and settles a wager
func (c *Coordinator) Place(ctx context.Context, req *WagerRequest) (*Settlement, error) {
	start := time.Now()
	a := &attempt{req: req}

	steps := []struct {
		state State
		run   func(context.Context, *attempt) error
	}{
		{StateValidating, c.validateWager},
		{StatePricing, c.priceWager},
		{StateResolving, c.resolveWager},
		{StateSettling, c.settleWager},
	}

	for i, step := range steps {
		if err := step.run(ctx, a); err != nil {
			c.reject(a, step.state, err, time.Since(start))
			return nil, err
		}
		next := StateDone
		if i+1 < len(steps) {
			next = steps[i+1].state
		}
		c.settleLog.LogStateTransition(req.Username, req.EventID, req.Category, string(step.state), string(next))
	}

	c.audit.LogWagerSettled(a.wager, a.newBalance)
	metrics.RecordWagerSettled(
		a.category.String(),
		a.wager.Won,
		a.wager.Stake.InexactFloat64(),
		a.wager.Payout().InexactFloat64(),
		a.wager.Odds.InexactFloat64(),
		time.Since(start).Seconds(),
	)
	c.publish(ctx, a)

	return &Settlement{Wager: a.wager, NewBalance: a.newBalance}, nil
}

func (c *Coordinator) validateWager(ctx context.Context, a *attempt) error {
	category, err := validateShape(c.validate, a.req)
	if err != nil {
		return err
	}
	a.category = category

	user, err := c.accounts.GetByUsername(ctx, a.req.Username)
	if errors.Is(err, models.ErrNotFound) {
		return models.NewNotFoundError(msgUserNotFound, err)
	}
	if err != nil {
		return models.NewPersistenceError(msgInternal, fmt.Errorf("failed to load bettor %s: %w", a.req.Username, err))
	}
	if user.Balance.LessThan(a.req.Stake) {
		return models.NewValidationError(msgInsufficientFunds, models.ErrInsufficientFunds)
	}
	a.user = user
	return nil
}

func (c *Coordinator) priceWager(ctx context.Context, a *attempt) error {
	entity := a.category.Entity()
	subject := a.req.SubjectID()

	metric, err := c.standings.Metric(ctx, a.req.Season, entity, subject)
	if err != nil {
		return err
	}
	population, err := c.standings.Population(ctx, a.req.Season, entity)
	if err != nil {
		return err
	}

	price, rank, err := odds.PriceMetric(population, metric)
	if err != nil {
		return err
	}
	a.odds = price
	c.settleLog.LogPriced(a.req.Username, subject, a.req.Season, rank, len(population), price)
	return nil
}

func (c *Coordinator) resolveWager(ctx context.Context, a *attempt) error {
	subject := a.req.SubjectID()
	won, winner, err := c.results.Resolve(ctx, a.req.EventID, a.category, subject)
	if err != nil {
		return err
	}
	a.won = won
	c.settleLog.LogResolved(a.req.Username, subject, winner, a.req.EventID, won)
	return nil
}

func (c *Coordinator) settleWager(ctx context.Context, a *attempt) error {
	w := &models.Wager{
		ID:       c.newID(),
		Username: a.req.Username,
		EventID:  a.req.EventID,
		Season:   a.req.Season,
		Category: a.category,
		Stake:    a.req.Stake,
		Odds:     a.odds,
		Won:      a.won,
		PlacedAt: c.now().UTC(),
	}
	subject := a.req.SubjectID()
	if a.category.Entity() == models.EntityTeam {
		w.TeamID = &subject
	} else {
		w.DriverID = &subject
	}

	var balance decimal.Decimal
	err := c.ledger.Settle(ctx, func(ctx context.Context, tx repository.LedgerTx) error {
		userID, after, err := tx.Debit(ctx, w.Username, w.Stake)
		if err != nil {
			return err
		}
		w.UserID = userID

		if w.Won {
			after, err = tx.Credit(ctx, w.Username, w.Payout())
			if err != nil {
				return err
			}
		}

		if err := tx.InsertWager(ctx, w); err != nil {
			return err
		}
		balance = after
		return nil
	})

	switch {
	case errors.Is(err, models.ErrInsufficientFunds):
		return models.NewValidationError(msgInsufficientFunds, err)
	case errors.Is(err, models.ErrNotFound):
		return models.NewNotFoundError(msgUserNotFound, err)
	case err != nil:
		return models.NewPersistenceError(msgInternal, fmt.Errorf("failed to settle wager %s: %w", w.ID, err))
	}

	a.wager = w
	a.newBalance = balance
	return nil
}

func (c *Coordinator) reject(a *attempt, state State, err error, elapsed time.Duration) {
	req := a.req
	kind := errorKind(err)
	switch kind {
	case "validation", "not_found":
		c.audit.LogWagerRejected(req.Username, req.EventID, req.Category, string(state), err)
	default:
		c.settleLog.LogFailure(req.Username, req.EventID, req.Category, string(state), err)
	}
	c.settleLog.LogStateTransition(req.Username, req.EventID, req.Category, string(state), string(StateRejected))
	metrics.RecordWagerRejected(string(state), kind, elapsed.Seconds())
}

// publish hands the settled event to the publisher. The wager is already
// committed, so a failure is only logged.
func (c *Coordinator) publish(ctx context.Context, a *attempt) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	e := events.NewWagerSettled(a.wager, a.newBalance.StringFixed(2))
	if err := c.publisher.PublishWagerSettled(ctx, e); err != nil {
		c.log.WithFields(logrus.Fields{
			"wager_id": a.wager.ID.String(),
			"bettor":   a.wager.Username,
		}).WithError(err).Warn("Failed to publish settled wager")
	}
}

// History lists a bettor's settled wagers, newest first
func (c *Coordinator) History(ctx context.Context, username string) ([]*models.Wager, error) {
	if _, err := c.accounts.GetByUsername(ctx, username); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.NewNotFoundError(msgUserNotFound, err)
		}
		return nil, models.NewPersistenceError(msgInternal, fmt.Errorf("failed to load bettor %s: %w", username, err))
	}

	wagers, err := c.wagers.ListByUsername(ctx, username)
	if err != nil {
		return nil, models.NewPersistenceError(msgInternal, fmt.Errorf("failed to list wagers of %s: %w", username, err))
	}
	if len(wagers) == 0 {
		return nil, models.NewNotFoundError(msgNoWagers, nil)
	}
	return wagers, nil
}

func errorKind(err error) string {
	var (
		verr *models.ValidationError
		nerr *models.NotFoundError
		derr *models.DataIntegrityError
		perr *models.PersistenceError
	)
	switch {
	case errors.As(err, &verr):
		return "validation"
	case errors.As(err, &nerr):
		return "not_found"
	case errors.As(err, &derr):
		return "data_integrity"
	case errors.As(err, &perr):
		return "persistence"
	default:
		return "internal"
	}
}
