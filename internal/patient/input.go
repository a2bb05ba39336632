package patient

import (
	"fmt"
	"strings"
)

// RawInput holds the twelve values as submitted, before categorical choices are mapped.
type RawInput struct {
	Age                     int     `json:"age"`
	Sex                     string  `json:"sex"`
	Anaemia                 string  `json:"anaemia"`
	CreatininePhosphokinase int     `json:"creatinine_phosphokinase"`
	Diabetes                string  `json:"diabetes"`
	EjectionFraction        int     `json:"ejection_fraction"`
	HighBloodPressure       string  `json:"high_blood_pressure"`
	Platelets               float64 `json:"platelets"`
	SerumCreatinine         float64 `json:"serum_creatinine"`
	SerumSodium             int     `json:"serum_sodium"`
	Smoking                 string  `json:"smoking"`
	FollowUpDays            int     `json:"follow_up_days"`
}

// DefaultRawInput returns the values the form shows before the first submission.
func DefaultRawInput() RawInput {
	return RawInput{
		Age:                     50,
		Sex:                     "Female",
		Anaemia:                 "No",
		CreatininePhosphokinase: 250,
		Diabetes:                "No",
		EjectionFraction:        50,
		HighBloodPressure:       "No",
		Platelets:               250000.0,
		SerumCreatinine:         1.0,
		SerumSodium:             135,
		Smoking:                 "No",
		FollowUpDays:            150,
	}
}

// Input is a normalized patient record. Categorical fields are enumerated.
type Input struct {
	Age                     int
	Sex                     Sex
	Anaemia                 Flag
	CreatininePhosphokinase int
	Diabetes                Flag
	EjectionFraction        int
	HighBloodPressure       Flag
	Platelets               float64
	SerumCreatinine         float64
	SerumSodium             int
	Smoking                 Flag
	FollowUpDays            int
}

// FieldError is a problem with a single submitted field.
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ValidationErrors collects every field problem of one submission.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	parts := make([]string, 0, len(v))
	for _, fe := range v {
		parts = append(parts, fe.Field+": "+fe.Reason)
	}
	return "invalid patient input: " + strings.Join(parts, "; ")
}

// Has reports whether field has an error.
func (v ValidationErrors) Has(field string) bool {
	for _, fe := range v {
		if fe.Field == field {
			return true
		}
	}
	return false
}

// Validate checks every numeric value against its field domain and every categorical
// value against its options. Values are never clamped.
func (r RawInput) Validate() error {
	var errs ValidationErrors

	numeric := []struct {
		name  string
		value float64
	}{
		{FieldAge, float64(r.Age)},
		{FieldCreatininePhosphokinase, float64(r.CreatininePhosphokinase)},
		{FieldEjectionFraction, float64(r.EjectionFraction)},
		{FieldPlatelets, r.Platelets},
		{FieldSerumCreatinine, r.SerumCreatinine},
		{FieldSerumSodium, float64(r.SerumSodium)},
		{FieldFollowUpDays, float64(r.FollowUpDays)},
	}
	for _, n := range numeric {
		f, _ := FieldByName(n.name)
		if !f.Contains(n.value) {
			errs = append(errs, FieldError{
				Field:  n.name,
				Reason: fmt.Sprintf("must be between %g and %g", f.Min, f.Max),
			})
		}
	}

	if _, err := ParseSex(r.Sex); err != nil {
		errs = append(errs, FieldError{Field: FieldSex, Reason: err.Error()})
	}
	flags := []struct {
		name  string
		value string
	}{
		{FieldAnaemia, r.Anaemia},
		{FieldDiabetes, r.Diabetes},
		{FieldHighBloodPressure, r.HighBloodPressure},
		{FieldSmoking, r.Smoking},
	}
	for _, fl := range flags {
		if _, err := ParseFlag(fl.value); err != nil {
			errs = append(errs, FieldError{Field: fl.name, Reason: err.Error()})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Normalize maps the categorical choices of r to their enumerated values.
// Numeric fields pass through unchanged.
func Normalize(r RawInput) (Input, error) {
	if err := r.Validate(); err != nil {
		return Input{}, err
	}

	// Validate guarantees these parse.
	sex, _ := ParseSex(r.Sex)
	anaemia, _ := ParseFlag(r.Anaemia)
	diabetes, _ := ParseFlag(r.Diabetes)
	hbp, _ := ParseFlag(r.HighBloodPressure)
	smoking, _ := ParseFlag(r.Smoking)

	return Input{
		Age:                     r.Age,
		Sex:                     sex,
		Anaemia:                 anaemia,
		CreatininePhosphokinase: r.CreatininePhosphokinase,
		Diabetes:                diabetes,
		EjectionFraction:        r.EjectionFraction,
		HighBloodPressure:       hbp,
		Platelets:               r.Platelets,
		SerumCreatinine:         r.SerumCreatinine,
		SerumSodium:             r.SerumSodium,
		Smoking:                 smoking,
		FollowUpDays:            r.FollowUpDays,
	}, nil
}

// Raw converts a normalized record back to its submitted form.
func (in Input) Raw() RawInput {
	return RawInput{
		Age:                     in.Age,
		Sex:                     in.Sex.String(),
		Anaemia:                 in.Anaemia.String(),
		CreatininePhosphokinase: in.CreatininePhosphokinase,
		Diabetes:                in.Diabetes.String(),
		EjectionFraction:        in.EjectionFraction,
		HighBloodPressure:       in.HighBloodPressure.String(),
		Platelets:               in.Platelets,
		SerumCreatinine:         in.SerumCreatinine,
		SerumSodium:             in.SerumSodium,
		Smoking:                 in.Smoking.String(),
		FollowUpDays:            in.FollowUpDays,
	}
}
