package models

import (
	"fmt"
	"strings"
)

// WeightUnit is the unit a weight value is expressed in.
type WeightUnit string

const (
	Kilograms WeightUnit = "kg"
	Pounds    WeightUnit = "lb"
)

// DistanceUnit is the unit a distance value is expressed in.
type DistanceUnit string

const (
	Kilometers DistanceUnit = "km"
	Miles      DistanceUnit = "mi"
)

// UnitSystem is the measurement unit a SetRecord was stored with.
type UnitSystem string

const (
	Metric   UnitSystem = "metric"
	Imperial UnitSystem = "imperial"
)

const (
	kgPerPound = 0.45359237
	kmPerMile  = 1.609344
)

// ParseWeightUnit accepts "kg"/"lb" and common spellings.
func ParseWeightUnit(s string) (WeightUnit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "kg", "kgs", "kilograms":
		return Kilograms, nil
	case "lb", "lbs", "pounds":
		return Pounds, nil
	}
	return "", fmt.Errorf("unknown weight unit %q", s)
}

// ParseDistanceUnit accepts "km"/"mi" and common spellings.
func ParseDistanceUnit(s string) (DistanceUnit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "km", "kilometers":
		return Kilometers, nil
	case "mi", "miles":
		return Miles, nil
	}
	return "", fmt.Errorf("unknown distance unit %q", s)
}

// WeightUnit returns the weight unit of the system. Unknown systems are
// treated as metric.
func (u UnitSystem) WeightUnit() WeightUnit {
	if u == Imperial {
		return Pounds
	}
	return Kilograms
}

// DistanceUnit returns the distance unit of the system.
func (u UnitSystem) DistanceUnit() DistanceUnit {
	if u == Imperial {
		return Miles
	}
	return Kilometers
}

// ConvertWeight converts v from one weight unit to another.
func ConvertWeight(v float64, from, to WeightUnit) float64 {
	if from == to {
		return v
	}
	switch {
	case from == Pounds && to == Kilograms:
		return v * kgPerPound
	case from == Kilograms && to == Pounds:
		return v / kgPerPound
	}
	return v
}

// ConvertDistance converts v from one distance unit to another.
func ConvertDistance(v float64, from, to DistanceUnit) float64 {
	if from == to {
		return v
	}
	switch {
	case from == Miles && to == Kilometers:
		return v * kmPerMile
	case from == Kilometers && to == Miles:
		return v / kmPerMile
	}
	return v
}
