package catalog

import "github.com/2beens/fitnesstracker/internal/apierr"

type MuscleGroup struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// MuscleGroupInput is the write payload; nil fields were not supplied.
type MuscleGroupInput struct {
	Name        *string `json:"name" validate:"omitnil,min=1,max=100"`
	Description *string `json:"description"`
}

func (in MuscleGroupInput) Validate(partial bool) error {
	var missing []string
	if !partial && in.Name == nil {
		missing = append(missing, "name")
	}
	return apierr.ValidateRequired(in, missing...)
}

func (in MuscleGroupInput) ApplyTo(mg *MuscleGroup) {
	if in.Name != nil {
		mg.Name = *in.Name
	}
	if in.Description != nil {
		mg.Description = *in.Description
	}
}
