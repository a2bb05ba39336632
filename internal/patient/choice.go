package patient

import (
	"fmt"
	"strings"
)

// Sex is the biological sex selector. Female encodes to 0, Male to 1.
type Sex uint8

const (
	Female Sex = iota
	Male
)

// SexOptions lists the selector choices in display order.
var SexOptions = []string{"Female", "Male"}

// ParseSex maps a selector choice to Sex. Matching ignores case and surrounding spaces.
func ParseSex(s string) (Sex, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "female":
		return Female, nil
	case "male":
		return Male, nil
	}
	return Female, fmt.Errorf("must be one of Female, Male, got %q", s)
}

func (s Sex) String() string {
	if s == Male {
		return "Male"
	}
	return "Female"
}

// Value is the numeric encoding fed to the classifier.
func (s Sex) Value() float64 {
	if s == Male {
		return 1
	}
	return 0
}

// Flag is a Yes/No selector. No encodes to 0, Yes to 1.
type Flag uint8

const (
	No Flag = iota
	Yes
)

// FlagOptions lists the selector choices in display order.
var FlagOptions = []string{"No", "Yes"}

// ParseFlag maps "Yes"/"No" to a Flag. Matching ignores case and surrounding spaces.
func ParseFlag(s string) (Flag, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "no":
		return No, nil
	case "yes":
		return Yes, nil
	}
	return No, fmt.Errorf("must be one of No, Yes, got %q", s)
}

func (f Flag) String() string {
	if f == Yes {
		return "Yes"
	}
	return "No"
}

func (f Flag) Value() float64 {
	if f == Yes {
		return 1
	}
	return 0
}
