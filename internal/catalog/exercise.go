package catalog

import (
	"fmt"
	"slices"

	"github.com/2beens/fitnesstracker/internal/apierr"
)

type Exercise struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	Instructions string `json:"instructions"`

	// muscle group ids, ascending
	TargetMuscles []int `json:"target_muscles"`
}

type ExerciseInput struct {
	Name          *string `json:"name" validate:"omitnil,min=1,max=255"`
	Description   *string `json:"description" validate:"omitnil,min=1"`
	Instructions  *string `json:"instructions" validate:"omitnil,min=1"`
	TargetMuscles *[]int  `json:"target_muscles" validate:"omitnil,dive,max=2147483647"`
}

func (in ExerciseInput) Validate(partial bool) error {
	var missing []string
	if !partial {
		if in.Name == nil {
			missing = append(missing, "name")
		}
		if in.Description == nil {
			missing = append(missing, "description")
		}
		if in.Instructions == nil {
			missing = append(missing, "instructions")
		}
		if in.TargetMuscles == nil {
			missing = append(missing, "target_muscles")
		}
	}
	return apierr.ValidateRequired(in, missing...)
}

// ApplyTo merges the supplied fields into e. A supplied target muscle list replaces the stored one.
func (in ExerciseInput) ApplyTo(e *Exercise) {
	if in.Name != nil {
		e.Name = *in.Name
	}
	if in.Description != nil {
		e.Description = *in.Description
	}
	if in.Instructions != nil {
		e.Instructions = *in.Instructions
	}
	if in.TargetMuscles != nil {
		e.TargetMuscles = uniqueSorted(*in.TargetMuscles)
	}
}

func uniqueSorted(ids []int) []int {
	out := slices.Clone(ids)
	slices.Sort(out)
	return slices.Compact(out)
}

// UnknownMuscleGroupError is returned when an exercise references a muscle group that does not exist.
type UnknownMuscleGroupError struct {
	ID int
}

func (e *UnknownMuscleGroupError) Error() string {
	return fmt.Sprintf("muscle group %d does not exist", e.ID)
}

func (e *UnknownMuscleGroupError) ValidationError() *apierr.ValidationError {
	return apierr.NewValidationError("target_muscles", fmt.Sprintf(`Invalid pk "%d" - object does not exist.`, e.ID))
}
