package progress

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/2beens/fitnesstracker/internal/apierr"
	"github.com/2beens/fitnesstracker/pkg"

	"github.com/shopspring/decimal"
)

const DateLayout = "2006-01-02"

// stored as NUMERIC(6, 2)
const (
	weightPlaces    = 2
	weightMaxDigits = 6
)

var weightLimit = decimal.New(1, weightMaxDigits-weightPlaces)

type Entry struct {
	ID            int
	UserID        int
	Date          time.Time
	Weight        decimal.Decimal
	GoalWeight    decimal.NullDecimal
	AchievedGoals *string
	Notes         *string
}

type entryJSON struct {
	ID            int     `json:"id"`
	User          int     `json:"user"`
	Date          string  `json:"date"`
	Weight        string  `json:"weight"`
	GoalWeight    *string `json:"goal_weight"`
	AchievedGoals *string `json:"achieved_goals"`
	Notes         *string `json:"notes"`
}

// MarshalJSON renders weights as fixed two-place strings, e.g. "80.00".
func (e Entry) MarshalJSON() ([]byte, error) {
	out := entryJSON{
		ID:            e.ID,
		User:          e.UserID,
		Date:          e.Date.Format(DateLayout),
		Weight:        e.Weight.StringFixed(weightPlaces),
		AchievedGoals: e.AchievedGoals,
		Notes:         e.Notes,
	}
	if e.GoalWeight.Valid {
		goal := e.GoalWeight.Decimal.StringFixed(weightPlaces)
		out.GoalWeight = &goal
	}
	return json.Marshal(out)
}

// EntryInput is the write payload. The owner always comes from the session, so there is no user field.
type EntryInput struct {
	Date          *string                       `json:"date" validate:"omitnil,datetime=2006-01-02"`
	Weight        *decimal.Decimal              `json:"weight"`
	GoalWeight    pkg.Optional[decimal.Decimal] `json:"goal_weight"`
	AchievedGoals pkg.Optional[string]          `json:"achieved_goals"`
	Notes         pkg.Optional[string]          `json:"notes"`
}

func (in EntryInput) Validate(partial bool) error {
	var missing []string
	if !partial {
		if in.Date == nil {
			missing = append(missing, "date")
		}
		if in.Weight == nil {
			missing = append(missing, "weight")
		}
	}

	validationErr := &apierr.ValidationError{}
	if err := apierr.ValidateRequired(in, missing...); err != nil && !errors.As(err, &validationErr) {
		return err
	}

	if in.Weight != nil {
		checkWeight(validationErr, "weight", *in.Weight)
	}
	if in.GoalWeight.Valid {
		checkWeight(validationErr, "goal_weight", in.GoalWeight.Value)
	}
	return validationErr.OrNil()
}

func checkWeight(validationErr *apierr.ValidationError, field string, d decimal.Decimal) {
	if !d.Round(weightPlaces).Equal(d) {
		validationErr.Add(field, "Ensure that there are no more than 2 decimal places.")
	}
	if d.Abs().Truncate(0).GreaterThanOrEqual(weightLimit) {
		validationErr.Add(field, "Ensure that there are no more than 4 digits before the decimal point.")
	}
}

// ApplyTo copies the supplied fields onto e. Call Validate first: an unparsable date is skipped.
func (in EntryInput) ApplyTo(e *Entry) {
	if in.Date != nil {
		if date, err := time.Parse(DateLayout, *in.Date); err == nil {
			e.Date = date
		}
	}
	if in.Weight != nil {
		e.Weight = *in.Weight
	}
	if in.GoalWeight.Set {
		e.GoalWeight = decimal.NullDecimal{Decimal: in.GoalWeight.Value, Valid: in.GoalWeight.Valid}
	}
	e.AchievedGoals = in.AchievedGoals.Apply(e.AchievedGoals)
	e.Notes = in.Notes.Apply(e.Notes)
}

// Filter narrows and orders the list of entries. From and To are inclusive.
type Filter struct {
	Ordering string
	From     *time.Time
	To       *time.Time
}
