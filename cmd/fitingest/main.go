package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	fitingest "fit-ingest"
	"fit-ingest/export"
)

func main() {
	var (
		outDir    = flag.String("out", "", "Output directory for artifact bundles (omit to only print the summary)")
		format    = flag.String("format", "parquet", "Telemetry table format: parquet|csv")
		telemetry = flag.Bool("telemetry", true, "Include per-second telemetry table in bundles")
		overwrite = flag.Bool("overwrite", true, "Allow writing into non-empty bundle directories")
		workers   = flag.Int("workers", 0, "Max parallel file decodes (0 = number of CPUs)")
	)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] <file.fit> [file.fit ...]\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	files := make([]fitingest.File, 0, flag.NArg())
	for _, path := range flag.Args() {
		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "read %s: %v\n", path, err)
			os.Exit(1)
		}
		files = append(files, fitingest.File{Name: filepath.Base(path), Data: data})
	}

	batch := fitingest.DecodeBatch(files, fitingest.BatchOptions{Concurrency: *workers})

	fmt.Printf("decoded %d file(s): %d activities, %d wellness, %d sleep\n",
		len(files), len(batch.Activities), len(batch.Wellness), len(batch.Sleep))
	for _, a := range batch.Activities {
		fmt.Printf("  %s  %-10s %7.1f s %9.1f m  %d records, %d laps\n",
			a.ID, a.Sport, a.TotalTimeSeconds, a.TotalDistanceMeters, len(a.Records), len(a.Laps))
	}
	for _, w := range batch.Warnings {
		fmt.Printf("warning: %s\n", w)
	}
	for _, e := range batch.Errors {
		fmt.Fprintf(os.Stderr, "error: %s\n", e)
	}

	if *outDir != "" {
		for _, f := range files {
			bundle, err := export.Build(f.Data, f.Name, export.Options{
				Format:    *format,
				Telemetry: *telemetry,
			})
			if err != nil {
				// Already reported through the batch error list.
				continue
			}
			if len(bundle.Files) == 0 {
				continue
			}
			dir := filepath.Join(*outDir, strings.TrimSuffix(f.Name, filepath.Ext(f.Name)))
			if err := export.Write(dir, bundle, *overwrite); err != nil {
				fmt.Fprintf(os.Stderr, "write bundle for %s: %v\n", f.Name, err)
				os.Exit(1)
			}
			fmt.Printf("bundle:  %s (%d artifacts)\n", dir, len(bundle.Files))
		}
	}

	if !batch.Success {
		os.Exit(1)
	}
}
