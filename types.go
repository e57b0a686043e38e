package fitingest

import "time"

// Activity is the caller-facing summary of one workout session plus its
// per-second telemetry and lap splits. Optional metrics are pointers: a nil
// means the device never recorded the field, which downstream consumers must
// treat differently from zero.
type Activity struct {
	ID                  string           `json:"id"`
	Filename            string           `json:"filename"`
	Sport               string           `json:"sport"`
	Name                string           `json:"name"`
	StartTime           *time.Time       `json:"start_time,omitempty"`
	EndTime             *time.Time       `json:"end_time,omitempty"`
	TotalTimeSeconds    float64          `json:"total_time_s"`
	MovingTimeSeconds   float64          `json:"moving_time_s"`
	TotalDistanceMeters float64          `json:"total_distance_m"`
	AvgHeartRate        *int64           `json:"avg_heart_rate_bpm,omitempty"`
	MaxHeartRate        *int64           `json:"max_heart_rate_bpm,omitempty"`
	MinHeartRate        *int64           `json:"min_heart_rate_bpm,omitempty"`
	AvgSpeedMps         *float64         `json:"avg_speed_mps,omitempty"`
	MaxSpeedMps         *float64         `json:"max_speed_mps,omitempty"`
	AvgPaceSecPerKm     *float64         `json:"avg_pace_s_per_km,omitempty"`
	MaxPaceSecPerKm     *float64         `json:"max_pace_s_per_km,omitempty"`
	AvgCadence          *int64           `json:"avg_cadence_rpm,omitempty"`
	MaxCadence          *int64           `json:"max_cadence_rpm,omitempty"`
	TotalAscentMeters   *int64           `json:"total_ascent_m,omitempty"`
	TotalDescentMeters  *int64           `json:"total_descent_m,omitempty"`
	Calories            *int64           `json:"calories_kcal,omitempty"`
	AvgPowerWatts       *int64           `json:"avg_power_w,omitempty"`
	MaxPowerWatts       *int64           `json:"max_power_w,omitempty"`
	Records             []ActivityRecord `json:"records"`
	Laps                []Lap            `json:"laps"`
}

// ActivityRecord is one telemetry point, usually sampled at 1Hz. Distance is
// cumulative within the activity; the decoder passes it through without
// enforcing monotonicity.
type ActivityRecord struct {
	Timestamp      *time.Time `json:"timestamp,omitempty"`
	HeartRate      *int64     `json:"heart_rate_bpm,omitempty"`
	SpeedMps       *float64   `json:"speed_mps,omitempty"`
	PaceSecPerKm   *float64   `json:"pace_s_per_km,omitempty"`
	DistanceMeters *float64   `json:"distance_m,omitempty"`
	Cadence        *int64     `json:"cadence_rpm,omitempty"`
	AltitudeMeters *float64   `json:"altitude_m,omitempty"`
	Latitude       *float64   `json:"lat_deg,omitempty"`
	Longitude      *float64   `json:"lon_deg,omitempty"`
	PowerWatts     *int64     `json:"power_w,omitempty"`
}

// Lap is one split. Index is assigned sequentially by the builder in
// encounter order; any index carried on the wire is ignored.
type Lap struct {
	Index            int        `json:"index"`
	StartTime        *time.Time `json:"start_time,omitempty"`
	TotalTimeSeconds *float64   `json:"total_time_s,omitempty"`
	DistanceMeters   *float64   `json:"distance_m,omitempty"`
	AvgHeartRate     *int64     `json:"avg_heart_rate_bpm,omitempty"`
	MaxHeartRate     *int64     `json:"max_heart_rate_bpm,omitempty"`
	AvgCadence       *int64     `json:"avg_cadence_rpm,omitempty"`
	Calories         *int64     `json:"calories_kcal,omitempty"`
	AvgPaceSecPerKm  *float64   `json:"avg_pace_s_per_km,omitempty"`
}

// WellnessDay holds daily-granularity stress and monitoring aggregates. At
// most one is produced per file.
type WellnessDay struct {
	Date             string   `json:"date,omitempty"`
	StressAvg        *float64 `json:"stress_avg,omitempty"`
	StressMax        *int64   `json:"stress_max,omitempty"`
	StressMin        *int64   `json:"stress_min,omitempty"`
	RestingHeartRate *int64   `json:"resting_heart_rate_bpm,omitempty"`
	HRV              *int64   `json:"hrv_ms,omitempty"`
	Steps            *int64   `json:"steps,omitempty"`
	ActiveCalories   *int64   `json:"active_calories_kcal,omitempty"`
	TotalCalories    *int64   `json:"total_calories_kcal,omitempty"`
}

// SleepData holds the daily sleep aggregate. Only the date is derived today;
// the stage fields stay nil until the corresponding messages are consumed.
type SleepData struct {
	Date              string   `json:"date,omitempty"`
	SleepScore        *int64   `json:"sleep_score,omitempty"`
	TotalSleepSeconds *float64 `json:"total_sleep_s,omitempty"`
	DeepSleepSeconds  *float64 `json:"deep_sleep_s,omitempty"`
	LightSleepSeconds *float64 `json:"light_sleep_s,omitempty"`
	REMSleepSeconds   *float64 `json:"rem_sleep_s,omitempty"`
	AwakeSeconds      *float64 `json:"awake_s,omitempty"`
}
