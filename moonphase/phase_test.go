package moonphase

import (
	"encoding/json"
	"math"
	"testing"
	"time"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func TestJulianDay(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		out  float64
	}{
		{"reference new moon", date(2000, time.January, 6), 2451549.5},
		{"j2000 epoch", time.Date(2000, time.January, 1, 12, 0, 0, 0, time.UTC), 2451545.0},
		{"unix epoch", date(1970, time.January, 1), 2440587.5},
		{"leap day", date(2024, time.February, 29), 2460369.5},
		{"other time zone", time.Date(2000, time.January, 6, 1, 0, 0, 0, time.FixedZone("CET", 3600)), 2451549.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := JulianDay(tt.in); math.Abs(got-tt.out) > 1e-9 {
				t.Errorf("got %f, want %f", got, tt.out)
			}
		})
	}
}

func TestCurrentPhase(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		out  Phase
	}{
		{"reference date", date(2000, time.January, 6), NewMoon},
		{"full moon in january 2024", date(2024, time.January, 25), FullMoon},
		{"full moon before the reference", date(1999, time.December, 22), FullMoon},
		{"a week after the reference", date(2000, time.January, 13), FirstQuarter},
		{"three weeks after the reference", date(2000, time.January, 28), LastQuarter},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CurrentPhase(tt.in); got != tt.out {
				t.Errorf("got %s, want %s (age %f)", got, tt.out, Age(tt.in))
			}
		})
	}
}

func TestAgeRange(t *testing.T) {
	start := date(1900, time.January, 1)
	for d := 0; d < 365*250; d += 17 {
		at := start.AddDate(0, 0, d)
		if age := Age(at); age < 0 || age >= SynodicMonth {
			t.Fatalf("age %f for %s out of range", age, at)
		}
	}
}

func TestPhaseForAgeBoundaries(t *testing.T) {
	tests := []struct {
		age float64
		out Phase
	}{
		{0, NewMoon},
		{1.845, NewMoon},
		{1.846, WaxingCrescent},
		{5.536, WaxingCrescent},
		{5.538, FirstQuarter},
		{7.38, FirstQuarter},
		{14.77, FullMoon},
		{22.15, LastQuarter},
		{27.684, WaningCrescent},
		{27.686, NewMoon},
		{29.53, NewMoon},
		{-1, NewMoon},
		{SynodicMonth + 7.38, FirstQuarter},
	}
	for _, tt := range tests {
		if got := PhaseForAge(tt.age); got != tt.out {
			t.Errorf("age %f: got %s, want %s", tt.age, got, tt.out)
		}
	}
}

func TestPhaseSweepOrder(t *testing.T) {
	// Sweeping a whole lunation has to visit every phase once, in order, and come back to the new moon
	var seen []Phase
	const step = 0.001
	for age := 0.0; age < SynodicMonth; age += step {
		p := PhaseForAge(age)
		if len(seen) == 0 || seen[len(seen)-1] != p {
			seen = append(seen, p)
		}
	}
	want := append(append([]Phase{}, Phases...), NewMoon)
	if len(seen) != len(want) {
		t.Fatalf("got %v, want %v", seen, want)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("position %d: got %s, want %s", i, seen[i], want[i])
		}
	}
}

func TestPhaseIsPeriodic(t *testing.T) {
	month := time.Duration(SynodicMonth * float64(24*time.Hour))
	start := date(2021, time.June, 1)
	for h := 0; h < 24*30; h += 5 {
		at := start.Add(time.Duration(h) * time.Hour)
		a, b := Age(at), Age(at.Add(month))
		diff := math.Abs(a - b)
		// Ages right at the wrap can land on opposite ends of the range
		diff = math.Min(diff, SynodicMonth-diff)
		if diff > 1e-6 {
			t.Fatalf("age at %s is %f, one lunation later %f", at, a, b)
		}
	}
}

func TestPhaseJSON(t *testing.T) {
	for _, p := range Phases {
		b, err := json.Marshal(p)
		if err != nil {
			t.Fatal(err)
		}
		if string(b) != `"`+p.String()+`"` {
			t.Errorf("got %s, want %q", b, p.String())
		}
		var got Phase
		if err := json.Unmarshal(b, &got); err != nil {
			t.Fatal(err)
		}
		if got != p {
			t.Errorf("got %s, want %s", got, p)
		}
	}
	var p Phase
	if err := json.Unmarshal([]byte(`"Blue Moon"`), &p); err == nil {
		t.Error("expected error for unknown phase")
	}
}
