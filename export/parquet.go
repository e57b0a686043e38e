package export

import (
	"math"
	"time"

	parquetbuffer "github.com/xitongsys/parquet-go-source/buffer"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/writer"

	fitingest "fit-ingest"
)

type telemetryRow struct {
	TSUTCISO   string  `parquet:"name=ts_utc_iso, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	HRBPM      float64 `parquet:"name=hr_bpm, type=DOUBLE"`
	SpeedMPS   float64 `parquet:"name=speed_mps, type=DOUBLE"`
	PaceSPerKM float64 `parquet:"name=pace_s_per_km, type=DOUBLE"`
	DistanceM  float64 `parquet:"name=distance_m, type=DOUBLE"`
	CadenceRPM float64 `parquet:"name=cadence_rpm, type=DOUBLE"`
	AltitudeM  float64 `parquet:"name=altitude_m, type=DOUBLE"`
	LatDeg     float64 `parquet:"name=lat_deg, type=DOUBLE"`
	LonDeg     float64 `parquet:"name=lon_deg, type=DOUBLE"`
	PowerW     float64 `parquet:"name=power_w, type=DOUBLE"`
	ValidHR    bool    `parquet:"name=valid_hr, type=BOOLEAN"`
	ValidSpeed bool    `parquet:"name=valid_speed, type=BOOLEAN"`
	ValidPower bool    `parquet:"name=valid_power, type=BOOLEAN"`
}

func buildTelemetryRows(records []fitingest.ActivityRecord) []telemetryRow {
	rows := make([]telemetryRow, 0, len(records))
	for _, rec := range records {
		row := telemetryRow{
			HRBPM:      intOrNaN(rec.HeartRate),
			SpeedMPS:   floatOrNaN(rec.SpeedMps),
			PaceSPerKM: floatOrNaN(rec.PaceSecPerKm),
			DistanceM:  floatOrNaN(rec.DistanceMeters),
			CadenceRPM: intOrNaN(rec.Cadence),
			AltitudeM:  floatOrNaN(rec.AltitudeMeters),
			LatDeg:     floatOrNaN(rec.Latitude),
			LonDeg:     floatOrNaN(rec.Longitude),
			PowerW:     intOrNaN(rec.PowerWatts),
			ValidHR:    rec.HeartRate != nil,
			ValidSpeed: rec.SpeedMps != nil,
			ValidPower: rec.PowerWatts != nil,
		}
		if rec.Timestamp != nil {
			row.TSUTCISO = rec.Timestamp.UTC().Format(time.RFC3339)
		}
		rows = append(rows, row)
	}
	return rows
}

func marshalTelemetryParquet(rows []telemetryRow) ([]byte, error) {
	fw := parquetbuffer.NewBufferFile()
	pw, err := writer.NewParquetWriter(fw, new(telemetryRow), 4)
	if err != nil {
		return nil, err
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY
	for _, row := range rows {
		if err := pw.Write(row); err != nil {
			_ = pw.WriteStop()
			return nil, err
		}
	}
	if err := pw.WriteStop(); err != nil {
		return nil, err
	}
	if err := fw.Close(); err != nil {
		return nil, err
	}
	return append([]byte(nil), fw.Bytes()...), nil
}

func floatOrNaN(v *float64) float64 {
	if v == nil {
		return math.NaN()
	}
	return *v
}

func intOrNaN(v *int64) float64 {
	if v == nil {
		return math.NaN()
	}
	return float64(*v)
}
