// Package fitingest decodes FIT activity-recorder files into typed workout,
// wellness and sleep structures. The wire-level work lives in fit-ingest/fitfile;
// this package owns the semantic layer (unit conversion, derived metrics,
// calendar bucketing) and the batch contract.
package fitingest

import (
	"fmt"

	"fit-ingest/fitfile"
)

// FileResult is the outcome of decoding one file. Exactly one of two shapes:
// Err set and everything else empty (structural failure), or Err nil with
// any subset of Activity/Wellness/Sleep populated. A file that decodes
// cleanly but feeds no bucket yields all-nil outputs and no error.
type FileResult struct {
	Activity *Activity
	Wellness *WellnessDay
	Sleep    *SleepData
	Warnings []string
	Err      error

	// File is the wire-level decode the outputs above were built from.
	// Callers that also need the raw message buckets (artifact indexes,
	// diagnostics) reuse it instead of decoding the buffer again.
	File *fitfile.File
}

// Parse decodes one FIT buffer. It holds no state between calls and never
// panics past its boundary; anything unexpected becomes FileResult.Err.
// The filename is attached verbatim to a built activity. Identity is not
// assigned here; it needs the raw bytes and belongs to the caller (see
// DecodeBatch and Fingerprint).
func Parse(data []byte, filename string) (result FileResult) {
	defer func() {
		if r := recover(); r != nil {
			result = FileResult{Err: fmt.Errorf("decode %s: %v", filename, r)}
		}
	}()

	f, err := fitfile.Decode(data)
	if err != nil {
		return FileResult{Err: err}
	}

	result = FileResult{File: f, Warnings: f.Warnings}
	result.Activity = buildActivity(&f.Messages, filename)
	result.Wellness = buildWellness(&f.Messages)
	result.Sleep = buildSleep(&f.Messages)
	return result
}
