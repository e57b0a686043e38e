package fitingest

import "fit-ingest/fitfile"

const stressFieldValue uint8 = 0

// buildWellness aggregates stress samples into a daily summary. Stress is
// only meaningful on a 0-100 scale; samples outside it are excluded from the
// aggregates rather than clamped. The date comes from the first monitoring
// record's timestamp.
func buildWellness(ms *fitfile.MessageSet) *WellnessDay {
	if len(ms.Monitoring) == 0 && len(ms.Stress) == 0 {
		return nil
	}

	w := &WellnessDay{}
	if len(ms.Monitoring) > 0 {
		w.Date = calendarDay(ms.Monitoring[0].Field(fieldTimestamp))
	}

	var values []int64
	for _, m := range ms.Stress {
		v, ok := m.Field(stressFieldValue).Int()
		if !ok || v < 0 || v > 100 {
			continue
		}
		values = append(values, v)
	}
	if len(values) > 0 {
		sum, lo, hi := values[0], values[0], values[0]
		for _, v := range values[1:] {
			sum += v
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
		avg := float64(sum) / float64(len(values))
		w.StressAvg = &avg
		w.StressMin = &lo
		w.StressMax = &hi
	}

	return w
}

// buildSleep derives the sleep day from the first sleep-level record. The
// stage and score fields stay nil until their messages are consumed; they
// are part of the contract so callers can rely on the keys existing.
func buildSleep(ms *fitfile.MessageSet) *SleepData {
	if len(ms.Sleep) == 0 {
		return nil
	}
	return &SleepData{
		Date: calendarDay(ms.Sleep[0].Field(fieldTimestamp)),
	}
}
