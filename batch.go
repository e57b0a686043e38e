package fitingest

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// File pairs a filename with its raw bytes.
type File struct {
	Name string
	Data []byte
}

// Fingerprint derives a stable identity for an activity from the raw file
// bytes. It is a collaborator of the decoder, not part of it: identity needs
// the original buffer, so it is applied after the build.
type Fingerprint func(data []byte) string

// DefaultFingerprint hashes the first kilobyte of the file and keeps the
// first 16 hex characters.
func DefaultFingerprint(data []byte) string {
	head := data
	if len(head) > 1000 {
		head = head[:1000]
	}
	sum := sha256.Sum256(head)
	return hex.EncodeToString(sum[:])[:16]
}

// BatchOptions tunes DecodeBatch.
type BatchOptions struct {
	// Fingerprint assigns activity identity; nil uses DefaultFingerprint.
	Fingerprint Fingerprint

	// Concurrency caps parallel file decodes; <= 0 uses GOMAXPROCS.
	Concurrency int
}

// BatchResult aggregates a batch of independent file decodes. Success is
// true iff Errors is empty. Output slices preserve the input file order.
type BatchResult struct {
	Success    bool          `json:"success"`
	Activities []Activity    `json:"activities"`
	Wellness   []WellnessDay `json:"wellness"`
	Sleep      []SleepData   `json:"sleep"`
	Errors     []string      `json:"errors"`
	Warnings   []string      `json:"warnings"`
}

// DecodeBatch decodes files in parallel. Every file is independent and each
// decode is a pure function of its bytes, so the only coordination is the
// result slot per input index. One bad file contributes one error entry and
// never aborts the rest.
func DecodeBatch(files []File, opts BatchOptions) BatchResult {
	fingerprint := opts.Fingerprint
	if fingerprint == nil {
		fingerprint = DefaultFingerprint
	}
	limit := opts.Concurrency
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}

	results := make([]FileResult, len(files))
	var g errgroup.Group
	g.SetLimit(limit)
	for i := range files {
		i := i
		g.Go(func() error {
			results[i] = Parse(files[i].Data, files[i].Name)
			return nil
		})
	}
	// Workers never return errors; failures live in their result slots.
	_ = g.Wait()

	out := BatchResult{
		Activities: make([]Activity, 0, len(files)),
		Wellness:   make([]WellnessDay, 0, len(files)),
		Sleep:      make([]SleepData, 0, len(files)),
	}
	for i, res := range results {
		name := files[i].Name
		if res.Err != nil {
			out.Errors = append(out.Errors, fmt.Sprintf("%s: %v", name, res.Err))
			continue
		}
		for _, w := range res.Warnings {
			out.Warnings = append(out.Warnings, fmt.Sprintf("%s: %s", name, w))
		}
		if res.Activity != nil {
			res.Activity.ID = fingerprint(files[i].Data)
			out.Activities = append(out.Activities, *res.Activity)
		}
		if res.Wellness != nil {
			out.Wellness = append(out.Wellness, *res.Wellness)
		}
		if res.Sleep != nil {
			out.Sleep = append(out.Sleep, *res.Sleep)
		}
	}
	out.Success = len(out.Errors) == 0
	return out
}
