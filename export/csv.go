package export

import (
	"bytes"
	"encoding/csv"
	"math"
	"strconv"
)

var telemetryColumns = []string{
	"ts_utc_iso", "hr_bpm", "speed_mps", "pace_s_per_km", "distance_m",
	"cadence_rpm", "altitude_m", "lat_deg", "lon_deg", "power_w",
	"valid_hr", "valid_speed", "valid_power",
}

func marshalTelemetryCSV(rows []telemetryRow) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(telemetryColumns); err != nil {
		return nil, err
	}
	for _, row := range rows {
		record := []string{
			row.TSUTCISO,
			csvFloat(row.HRBPM),
			csvFloat(row.SpeedMPS),
			csvFloat(row.PaceSPerKM),
			csvFloat(row.DistanceM),
			csvFloat(row.CadenceRPM),
			csvFloat(row.AltitudeM),
			csvFloat(row.LatDeg),
			csvFloat(row.LonDeg),
			csvFloat(row.PowerW),
			strconv.FormatBool(row.ValidHR),
			strconv.FormatBool(row.ValidSpeed),
			strconv.FormatBool(row.ValidPower),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// csvFloat renders a sample value, leaving the cell empty for the NaN that
// marks an absent reading.
func csvFloat(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
