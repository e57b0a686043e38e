package fitingest

import "fit-ingest/fitfile"

// Field numbers fixed by the FIT profile for the messages the builder
// consumes. Kept in one place so the wire mapping is auditable without
// reading the decode path.
const (
	fieldTimestamp uint8 = 253 // shared across messages

	sessionFieldStartTime   uint8 = 2
	sessionFieldSport       uint8 = 5
	sessionFieldElapsedMs   uint8 = 7
	sessionFieldTimerMs     uint8 = 8
	sessionFieldDistanceCm  uint8 = 9
	sessionFieldCalories    uint8 = 11
	sessionFieldAvgSpeedMms uint8 = 14
	sessionFieldMaxSpeedMms uint8 = 15
	sessionFieldAvgHR       uint8 = 16
	sessionFieldMaxHR       uint8 = 17
	sessionFieldAvgCadence  uint8 = 18
	sessionFieldMaxCadence  uint8 = 19
	sessionFieldAvgPower    uint8 = 20
	sessionFieldMaxPower    uint8 = 21
	sessionFieldAscent      uint8 = 22
	sessionFieldDescent     uint8 = 23
	sessionFieldMinHR       uint8 = 64

	recordFieldLat        uint8 = 0
	recordFieldLon        uint8 = 1
	recordFieldAltitude   uint8 = 2
	recordFieldHR         uint8 = 3
	recordFieldCadence    uint8 = 4
	recordFieldDistanceCm uint8 = 5
	recordFieldSpeedMms   uint8 = 6
	recordFieldPower      uint8 = 7

	lapFieldStartTime  uint8 = 2
	lapFieldElapsedMs  uint8 = 7
	lapFieldDistanceCm uint8 = 9
	lapFieldCalories   uint8 = 11
	lapFieldAvgHR      uint8 = 15
	lapFieldMaxHR      uint8 = 16
	lapFieldAvgCadence uint8 = 17
)

// buildActivity assembles the Activity from the session, record and lap
// buckets. Only the first session is used; devices that chain multiple
// sessions into one file are not merged.
func buildActivity(ms *fitfile.MessageSet, filename string) *Activity {
	if len(ms.Sessions) == 0 {
		return nil
	}
	session := ms.Sessions[0]

	sport := int64(0)
	if code, ok := session.Field(sessionFieldSport).Int(); ok {
		sport = code
	}

	a := &Activity{
		Filename:            filename,
		Sport:               sportName(sport),
		StartTime:           fitTime(session.Field(sessionFieldStartTime)),
		EndTime:             fitTime(session.Field(fieldTimestamp)),
		TotalTimeSeconds:    scaledOrZero(session.Field(sessionFieldElapsedMs), 1000),
		TotalDistanceMeters: scaledOrZero(session.Field(sessionFieldDistanceCm), 100),
		AvgHeartRate:        intField(session.Field(sessionFieldAvgHR)),
		MaxHeartRate:        intField(session.Field(sessionFieldMaxHR)),
		MinHeartRate:        intField(session.Field(sessionFieldMinHR)),
		AvgSpeedMps:         scaledNonzero(session.Field(sessionFieldAvgSpeedMms), 1000),
		MaxSpeedMps:         scaledNonzero(session.Field(sessionFieldMaxSpeedMms), 1000),
		AvgCadence:          intField(session.Field(sessionFieldAvgCadence)),
		MaxCadence:          intField(session.Field(sessionFieldMaxCadence)),
		TotalAscentMeters:   intField(session.Field(sessionFieldAscent)),
		TotalDescentMeters:  intField(session.Field(sessionFieldDescent)),
		Calories:            intField(session.Field(sessionFieldCalories)),
		AvgPowerWatts:       intField(session.Field(sessionFieldAvgPower)),
		MaxPowerWatts:       intField(session.Field(sessionFieldMaxPower)),
	}

	a.MovingTimeSeconds = scaledOrZero(session.Field(sessionFieldTimerMs), 1000)
	if a.MovingTimeSeconds == 0 {
		a.MovingTimeSeconds = a.TotalTimeSeconds
	}

	a.AvgPaceSecPerKm = paceFromTotals(a.TotalTimeSeconds, a.TotalDistanceMeters)
	a.MaxPaceSecPerKm = paceFromSpeed(a.MaxSpeedMps)

	a.Records = buildRecords(ms.Records)
	a.Laps = buildLaps(ms.Laps)
	return a
}

// buildRecords maps the telemetry bucket one-to-one, in encounter order.
func buildRecords(msgs []fitfile.Message) []ActivityRecord {
	records := make([]ActivityRecord, 0, len(msgs))
	for _, m := range msgs {
		rec := ActivityRecord{
			Timestamp:      fitTime(m.Field(fieldTimestamp)),
			HeartRate:      intField(m.Field(recordFieldHR)),
			SpeedMps:       scaledNonzero(m.Field(recordFieldSpeedMms), 1000),
			DistanceMeters: scaledNonzero(m.Field(recordFieldDistanceCm), 100),
			Cadence:        intField(m.Field(recordFieldCadence)),
			Latitude:       semicircles(m.Field(recordFieldLat)),
			Longitude:      semicircles(m.Field(recordFieldLon)),
			PowerWatts:     intField(m.Field(recordFieldPower)),
		}
		// Altitude is stored as (m + 500) * 5.
		if alt := scaledNonzero(m.Field(recordFieldAltitude), 5); alt != nil {
			v := *alt - 500
			rec.AltitudeMeters = &v
		}
		rec.PaceSecPerKm = paceFromSpeed(rec.SpeedMps)
		records = append(records, rec)
	}
	return records
}

// buildLaps maps the lap bucket one-to-one with builder-assigned 1-based
// indices; wire-level lap indices are ignored.
func buildLaps(msgs []fitfile.Message) []Lap {
	laps := make([]Lap, 0, len(msgs))
	for i, m := range msgs {
		lap := Lap{
			Index:            i + 1,
			StartTime:        fitTime(m.Field(lapFieldStartTime)),
			TotalTimeSeconds: scaledNonzero(m.Field(lapFieldElapsedMs), 1000),
			DistanceMeters:   scaledNonzero(m.Field(lapFieldDistanceCm), 100),
			AvgHeartRate:     intField(m.Field(lapFieldAvgHR)),
			MaxHeartRate:     intField(m.Field(lapFieldMaxHR)),
			AvgCadence:       intField(m.Field(lapFieldAvgCadence)),
			Calories:         intField(m.Field(lapFieldCalories)),
		}
		if lap.TotalTimeSeconds != nil && lap.DistanceMeters != nil {
			lap.AvgPaceSecPerKm = paceFromTotals(*lap.TotalTimeSeconds, *lap.DistanceMeters)
		}
		laps = append(laps, lap)
	}
	return laps
}
