package patient

import (
	"errors"
	"net/url"
	"strconv"
	"strings"
)

// Collect reads the twelve form values. Every field is required; numeric values must
// parse and lie inside their domain. All problems are returned together as ValidationErrors.
func Collect(values url.Values) (RawInput, error) {
	var (
		raw  RawInput
		errs ValidationErrors
	)

	intField := func(name string, dst *int) {
		s, ok := lookup(values, name)
		if !ok {
			errs = append(errs, FieldError{Field: name, Reason: "is required"})
			return
		}
		v, err := strconv.Atoi(s)
		if err != nil {
			errs = append(errs, FieldError{Field: name, Reason: "must be a whole number"})
			return
		}
		*dst = v
	}
	floatField := func(name string, dst *float64) {
		s, ok := lookup(values, name)
		if !ok {
			errs = append(errs, FieldError{Field: name, Reason: "is required"})
			return
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			errs = append(errs, FieldError{Field: name, Reason: "must be a number"})
			return
		}
		*dst = v
	}
	choiceField := func(name string, dst *string) {
		s, ok := lookup(values, name)
		if !ok {
			errs = append(errs, FieldError{Field: name, Reason: "is required"})
			return
		}
		*dst = s
	}

	intField(FieldAge, &raw.Age)
	choiceField(FieldSex, &raw.Sex)
	choiceField(FieldAnaemia, &raw.Anaemia)
	intField(FieldCreatininePhosphokinase, &raw.CreatininePhosphokinase)
	choiceField(FieldDiabetes, &raw.Diabetes)
	intField(FieldEjectionFraction, &raw.EjectionFraction)
	choiceField(FieldHighBloodPressure, &raw.HighBloodPressure)
	floatField(FieldPlatelets, &raw.Platelets)
	floatField(FieldSerumCreatinine, &raw.SerumCreatinine)
	intField(FieldSerumSodium, &raw.SerumSodium)
	choiceField(FieldSmoking, &raw.Smoking)
	intField(FieldFollowUpDays, &raw.FollowUpDays)

	// Range and option checks only for fields that parsed.
	if err := raw.Validate(); err != nil {
		var verrs ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				if !errs.Has(fe.Field) {
					errs = append(errs, fe)
				}
			}
		}
	}

	if len(errs) > 0 {
		return raw, errs
	}
	return raw, nil
}

func lookup(values url.Values, name string) (string, bool) {
	s := strings.TrimSpace(values.Get(name))
	return s, s != ""
}
