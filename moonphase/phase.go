// Package moonphase computes the phase of the moon for a date and renders it as a small SVG icon.
package moonphase

import (
	"encoding/json"
	"math"
	"time"

	"github.com/pkg/errors"
)

const (
	// SynodicMonth is the mean length of a lunation in days
	SynodicMonth = 29.53058867
	// ReferenceNewMoon is the Julian day of the new moon on 2000-01-06 that ages are counted from
	ReferenceNewMoon = 2451549.5

	binWidth = SynodicMonth / 8
)

// Phase is one of the eight named phases of the moon
type Phase int

const (
	NewMoon Phase = iota
	WaxingCrescent
	FirstQuarter
	WaxingGibbous
	FullMoon
	WaningGibbous
	LastQuarter
	WaningCrescent
)

// Phases lists all phases in the order they occur during a lunation
var Phases = []Phase{NewMoon, WaxingCrescent, FirstQuarter, WaxingGibbous, FullMoon, WaningGibbous, LastQuarter, WaningCrescent}

var phaseNames = [...]string{
	NewMoon:        "New Moon",
	WaxingCrescent: "Waxing Crescent",
	FirstQuarter:   "First Quarter",
	WaxingGibbous:  "Waxing Gibbous",
	FullMoon:       "Full Moon",
	WaningGibbous:  "Waning Gibbous",
	LastQuarter:    "Last Quarter",
	WaningCrescent: "Waning Crescent",
}

func (p Phase) String() string {
	if p < NewMoon || p > WaningCrescent {
		return "Unknown"
	}
	return phaseNames[p]
}

// Waxing reports if the lit part of the moon is growing
func (p Phase) Waxing() bool {
	return p > NewMoon && p < FullMoon
}

// MarshalJSON encodes the phase as its name
func (p Phase) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

// UnmarshalJSON decodes a phase name
func (p *Phase) UnmarshalJSON(b []byte) error {
	var name string
	if err := json.Unmarshal(b, &name); err != nil {
		return err
	}
	parsed, err := ParsePhase(name)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// ParsePhase returns the phase for a name as returned by Phase.String
func ParsePhase(name string) (Phase, error) {
	for _, p := range Phases {
		if p.String() == name {
			return p, nil
		}
	}
	return NewMoon, errors.Errorf("unknown moon phase %q", name)
}

// JulianDay converts t to a Julian day, using the Gregorian calendar in UTC. The time of day is kept as a fraction.
func JulianDay(t time.Time) float64 {
	t = t.UTC()
	year, month := t.Year(), int(t.Month())
	if month <= 2 {
		year--
		month += 12
	}
	midnight := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	day := float64(t.Day()) + float64(t.Sub(midnight))/float64(24*time.Hour)
	a := math.Floor(float64(year) / 100)
	b := 2 - a + math.Floor(a/4)
	return math.Floor(365.25*float64(year+4716)) + math.Floor(30.6001*float64(month+1)) + day + b - 1524.5
}

// Age returns the number of days since the last new moon, in [0, SynodicMonth)
func Age(t time.Time) float64 {
	age := math.Mod(JulianDay(t)-ReferenceNewMoon, SynodicMonth)
	if age < 0 {
		age += SynodicMonth
	}
	// Rounding of a tiny negative age can land exactly on the upper bound
	if age >= SynodicMonth {
		age = 0
	}
	return age
}

// PhaseForAge maps the age of the moon in days to a phase. Every phase covers an eighth of the lunation, centered on
// its exact point, so New Moon covers the last and the first half bin.
func PhaseForAge(age float64) Phase {
	age = math.Mod(age, SynodicMonth)
	if age < 0 {
		age += SynodicMonth
	}
	return Phase(int(math.Floor(age/binWidth+0.5)) % 8)
}

// CurrentPhase returns the phase of the moon at t
func CurrentPhase(t time.Time) Phase {
	return PhaseForAge(Age(t))
}
