package workouts

import (
	"fmt"

	"github.com/2beens/fitnesstracker/internal/apierr"
	"github.com/2beens/fitnesstracker/pkg"
)

type WorkoutExercise struct {
	ID            int  `json:"id"`
	WorkoutPlanID int  `json:"-"`
	ExerciseID    int  `json:"exercise"`
	Sets          int  `json:"sets"`
	Repetitions   int  `json:"repetitions"`
	Duration      *int `json:"duration"`
}

type Plan struct {
	ID              int     `json:"id"`
	UserID          int     `json:"user"`
	Title           string  `json:"title"`
	Frequency       int     `json:"frequency"`
	Goal            *string `json:"goal"`
	SessionDuration int     `json:"session_duration"`

	// in insertion order
	WorkoutExercises []WorkoutExercise `json:"workout_exercises"`
}

// WorkoutExerciseInput is a workout exercise write payload, standalone or nested in a plan.
// WorkoutPlan is ignored when nested.
type WorkoutExerciseInput struct {
	WorkoutPlan *int              `json:"workout_plan" validate:"omitnil,max=2147483647"`
	Exercise    *int              `json:"exercise" validate:"omitnil,max=2147483647"`
	Sets        *int              `json:"sets" validate:"omitnil,min=0,max=2147483647"`
	Repetitions *int              `json:"repetitions" validate:"omitnil,min=0,max=2147483647"`
	Duration    pkg.Optional[int] `json:"duration"`
}

func (in WorkoutExerciseInput) validate(validationErr *apierr.ValidationError, prefix string, partial, nested bool) {
	if !partial {
		if in.Exercise == nil {
			validationErr.Add(prefix+"exercise", apierr.MsgRequired)
		}
		if in.WorkoutPlan == nil && !nested {
			validationErr.Add(prefix+"workout_plan", apierr.MsgRequired)
		}
	}
	if in.Duration.Valid {
		switch {
		case in.Duration.Value < 0:
			validationErr.Add(prefix+"duration", "Ensure this value is greater than or equal to 0.")
		case in.Duration.Value > apierr.MaxIntegerColumn:
			validationErr.Add(prefix+"duration", fmt.Sprintf("Ensure this value is less than or equal to %d.", apierr.MaxIntegerColumn))
		}
	}
}

// Validate checks a standalone workout exercise payload.
func (in WorkoutExerciseInput) Validate(partial bool) error {
	validationErr := &apierr.ValidationError{}
	in.validate(validationErr, "", partial, false)
	return apierr.ValidateInto(validationErr, in)
}

func (in WorkoutExerciseInput) ApplyTo(we *WorkoutExercise) {
	if in.WorkoutPlan != nil {
		we.WorkoutPlanID = *in.WorkoutPlan
	}
	if in.Exercise != nil {
		we.ExerciseID = *in.Exercise
	}
	if in.Sets != nil {
		we.Sets = *in.Sets
	}
	if in.Repetitions != nil {
		we.Repetitions = *in.Repetitions
	}
	we.Duration = in.Duration.Apply(we.Duration)
}

type PlanInput struct {
	Title           *string              `json:"title" validate:"omitnil,min=1,max=255"`
	Frequency       *int                 `json:"frequency" validate:"omitnil,min=1,max=2147483647"`
	Goal            pkg.Optional[string] `json:"goal"`
	SessionDuration *int                 `json:"session_duration" validate:"omitnil,min=1,max=2147483647"`

	// when supplied, even empty, replaces every workout exercise of the plan
	CreateWorkoutExercises *[]WorkoutExerciseInput `json:"create_workout_exercises" validate:"omitnil,dive"`
}

func (in PlanInput) Validate(partial bool) error {
	validationErr := &apierr.ValidationError{}
	if !partial {
		if in.Title == nil {
			validationErr.Add("title", apierr.MsgRequired)
		}
		if in.Frequency == nil {
			validationErr.Add("frequency", apierr.MsgRequired)
		}
		if in.SessionDuration == nil {
			validationErr.Add("session_duration", apierr.MsgRequired)
		}
	}
	if in.CreateWorkoutExercises != nil {
		for i, child := range *in.CreateWorkoutExercises {
			child.validate(validationErr, fmt.Sprintf("create_workout_exercises[%d].", i), false, true)
		}
	}
	return apierr.ValidateInto(validationErr, in)
}

// ApplyTo merges the supplied scalar fields into plan.
func (in PlanInput) ApplyTo(plan *Plan) {
	if in.Title != nil {
		plan.Title = *in.Title
	}
	if in.Frequency != nil {
		plan.Frequency = *in.Frequency
	}
	plan.Goal = in.Goal.Apply(plan.Goal)
	if in.SessionDuration != nil {
		plan.SessionDuration = *in.SessionDuration
	}
}

// WorkoutExercises builds the children to create; ok is false when the list was not supplied.
func (in PlanInput) WorkoutExercises() (_ []WorkoutExercise, ok bool) {
	if in.CreateWorkoutExercises == nil {
		return nil, false
	}
	exercises := make([]WorkoutExercise, 0, len(*in.CreateWorkoutExercises))
	for _, child := range *in.CreateWorkoutExercises {
		var we WorkoutExercise
		child.WorkoutPlan = nil
		child.ApplyTo(&we)
		exercises = append(exercises, we)
	}
	return exercises, true
}

// UnknownExerciseError is returned when a workout exercise references an exercise that does not exist.
type UnknownExerciseError struct {
	Field string // JSON field the id came from
	ID    int
}

func (e *UnknownExerciseError) Error() string {
	return fmt.Sprintf("exercise %d does not exist", e.ID)
}

func (e *UnknownExerciseError) ValidationError() *apierr.ValidationError {
	return apierr.NewValidationError(e.Field, fmt.Sprintf(`Invalid pk "%d" - object does not exist.`, e.ID))
}
