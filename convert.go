package fitingest

import (
	"time"

	"fit-ingest/fitfile"
)

// The FIT epoch: December 31, 1989 00:00:00 UTC.
var fitEpoch = time.Date(1989, 12, 31, 0, 0, 0, 0, time.UTC)

// invalidTimestamp is the all-ones uint32 sentinel for an unset timestamp.
const invalidTimestamp = 0xFFFFFFFF

const semicircleDegrees = 180.0 / 2147483648.0 // 180 / 2^31

var sportNames = map[int64]string{
	0:  "other",
	1:  "running",
	2:  "cycling",
	5:  "swimming",
	11: "walking",
	17: "hiking",
	37: "indoor_running",
}

func sportName(code int64) string {
	name, ok := sportNames[code]
	if !ok {
		return "other"
	}
	// Treadmill sessions are bucketed with outdoor runs.
	if name == "indoor_running" {
		return "running"
	}
	return name
}

// fitTime converts a raw FIT timestamp field to a wall-clock instant. The
// all-ones sentinel and absent fields convert to nil, not to the epoch.
func fitTime(v fitfile.Value) *time.Time {
	raw, ok := v.Int()
	if !ok || raw == invalidTimestamp {
		return nil
	}
	t := fitEpoch.Add(time.Duration(raw) * time.Second)
	return &t
}

// calendarDay renders the UTC calendar date of a raw FIT timestamp field.
func calendarDay(v fitfile.Value) string {
	t := fitTime(v)
	if t == nil {
		return ""
	}
	return t.UTC().Format("2006-01-02")
}

// semicircles converts a raw semicircle coordinate to degrees.
func semicircles(v fitfile.Value) *float64 {
	raw, ok := v.Int()
	if !ok {
		return nil
	}
	deg := float64(raw) * semicircleDegrees
	return &deg
}

// intField passes an integer scalar through unscaled. HR, cadence, power,
// calorie and ascent fields are raw counts on the wire.
func intField(v fitfile.Value) *int64 {
	raw, ok := v.Int()
	if !ok {
		return nil
	}
	n := raw
	return &n
}

// scaledNonzero divides a nonzero integer scalar by scale. Zero decodes to
// nil: a zero speed or distance field means "not measured" here, matching
// how these files are written in practice.
func scaledNonzero(v fitfile.Value, scale float64) *float64 {
	raw, ok := v.Int()
	if !ok || raw == 0 {
		return nil
	}
	f := float64(raw) / scale
	return &f
}

// scaledOrZero divides by scale, defaulting to 0 for absent or zero fields.
// Session totals are plain numbers, not optionals.
func scaledOrZero(v fitfile.Value, scale float64) float64 {
	raw, ok := v.Int()
	if !ok || raw == 0 {
		return 0
	}
	return float64(raw) / scale
}

// paceFromSpeed derives seconds-per-kilometer from a speed in m/s.
func paceFromSpeed(speedMps *float64) *float64 {
	if speedMps == nil || *speedMps <= 0 {
		return nil
	}
	pace := 1000.0 / *speedMps
	return &pace
}

// paceFromTotals derives average seconds-per-kilometer; both totals must be
// positive for the division to mean anything.
func paceFromTotals(totalTimeSec, totalDistanceM float64) *float64 {
	if totalTimeSec <= 0 || totalDistanceM <= 0 {
		return nil
	}
	pace := totalTimeSec / (totalDistanceM / 1000.0)
	return &pace
}
