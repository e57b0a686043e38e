// Package export renders decoded FIT results as on-disk or in-memory
// artifact bundles: summary JSON documents plus an optional per-second
// telemetry table in Parquet or CSV.
package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	fitingest "fit-ingest"
	"fit-ingest/fitfile"
)

// Options controls which artifacts a bundle contains.
type Options struct {
	// Format selects the telemetry table encoding: "parquet" (default)
	// or "csv".
	Format string

	// Telemetry includes the per-second sample table when an activity
	// with records was decoded.
	Telemetry bool
}

// Bundle maps artifact names to rendered bytes. Possible entries:
// activity.json, wellness.json, sleep.json, messages_index.json,
// telemetry.parquet or telemetry.csv.
type Bundle struct {
	Files map[string][]byte
}

// Build decodes one FIT buffer and renders its artifact bundle. A structural
// decode failure is an error; a file that yields no output documents returns
// an empty bundle.
func Build(data []byte, filename string, opts Options) (*Bundle, error) {
	format := strings.ToLower(strings.TrimSpace(opts.Format))
	if format == "" {
		format = "parquet"
	}
	if format != "parquet" && format != "csv" {
		return nil, fmt.Errorf("unsupported telemetry format %q (expected parquet|csv)", format)
	}

	res := fitingest.Parse(data, filename)
	if res.Err != nil {
		return nil, res.Err
	}

	b := &Bundle{Files: make(map[string][]byte)}

	if res.Activity != nil {
		res.Activity.ID = fitingest.DefaultFingerprint(data)
		doc, err := marshalJSON(res.Activity)
		if err != nil {
			return nil, fmt.Errorf("render activity.json: %w", err)
		}
		b.Files["activity.json"] = doc

		if opts.Telemetry && len(res.Activity.Records) > 0 {
			table, err := marshalTelemetry(res.Activity.Records, format)
			if err != nil {
				return nil, fmt.Errorf("render telemetry.%s: %w", format, err)
			}
			b.Files["telemetry."+format] = table
		}
	}
	if res.Wellness != nil {
		doc, err := marshalJSON(res.Wellness)
		if err != nil {
			return nil, fmt.Errorf("render wellness.json: %w", err)
		}
		b.Files["wellness.json"] = doc
	}
	if res.Sleep != nil {
		doc, err := marshalJSON(res.Sleep)
		if err != nil {
			return nil, fmt.Errorf("render sleep.json: %w", err)
		}
		b.Files["sleep.json"] = doc
	}

	if !res.File.Messages.Empty() {
		doc, err := marshalJSON(buildMessagesIndex(&res.File.Messages))
		if err != nil {
			return nil, fmt.Errorf("render messages_index.json: %w", err)
		}
		b.Files["messages_index.json"] = doc
	}

	return b, nil
}

// Write materializes a bundle into dir, creating it as needed. A non-empty
// directory is refused unless overwrite is set.
func Write(dir string, b *Bundle, overwrite bool) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read output directory: %w", err)
	}
	if len(entries) > 0 && !overwrite {
		return fmt.Errorf("output directory is not empty: %s", dir)
	}
	for name, data := range b.Files {
		if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
	}
	return nil
}

// MessagesIndex summarizes which global messages the file carried and how
// many of each were decoded.
type MessagesIndex struct {
	Buckets []BucketCount `json:"buckets"`
}

// BucketCount is one global message bucket's tally.
type BucketCount struct {
	GlobalMessageNum int    `json:"global_message_num"`
	Name             string `json:"global_message_name"`
	Count            int    `json:"count"`
}

func buildMessagesIndex(ms *fitfile.MessageSet) MessagesIndex {
	singles := func(m *fitfile.Message) int {
		if m == nil {
			return 0
		}
		return 1
	}
	counts := []struct {
		global uint16
		count  int
	}{
		{fitfile.MesgFileID, singles(ms.FileID)},
		{fitfile.MesgSession, len(ms.Sessions)},
		{fitfile.MesgLap, len(ms.Laps)},
		{fitfile.MesgRecord, len(ms.Records)},
		{fitfile.MesgEvent, len(ms.Events)},
		{fitfile.MesgDeviceInfo, singles(ms.DeviceInfo)},
		{fitfile.MesgMonitoring, len(ms.Monitoring)},
		{fitfile.MesgHRV, len(ms.HRV)},
		{fitfile.MesgStressLevel, len(ms.Stress)},
		{fitfile.MesgSleepLevel, len(ms.Sleep)},
	}

	index := MessagesIndex{Buckets: make([]BucketCount, 0, len(counts))}
	for _, c := range counts {
		if c.count == 0 {
			continue
		}
		index.Buckets = append(index.Buckets, BucketCount{
			GlobalMessageNum: int(c.global),
			Name:             fitfile.MessageName(c.global),
			Count:            c.count,
		})
	}
	return index
}

func marshalJSON(v any) ([]byte, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(out, '\n'), nil
}

func marshalTelemetry(records []fitingest.ActivityRecord, format string) ([]byte, error) {
	rows := buildTelemetryRows(records)
	if format == "csv" {
		return marshalTelemetryCSV(rows)
	}
	return marshalTelemetryParquet(rows)
}
