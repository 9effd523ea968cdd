// Package main hosts the bltracker entrypoint.
//
// Architecture overview:
//   - CLI: cmd wires cobra subcommands (init, run, single, sync, export,
//     version) around one App bundle of config, logger, and store.
//   - Scheduling: internal/runner fans tasks out to a fixed worker pool over
//     a shared cursor; each worker owns one isolated browser session and
//     opens a fresh page per task.
//   - Extraction: internal/extractors drives each carrier's tracking page
//     through the retrying action layer in internal/browser and harvests raw
//     timeline, port, vessel, and container data.
//   - Normalization: internal/normalize classifies timeline events into
//     milestones, canonicalizes the many carrier date formats, and folds the
//     container manifest into a summary.
//   - Persistence: internal/store keeps one SQLite row per bill of lading,
//     upserted on every run; internal/export renders the table to CSV.
//   - Plumbing: Viper populates config from file/env, zap provides
//     structured logging, and Prometheus metrics are served on an optional
//     operational endpoint while a batch runs.
package main

import "github.com/freightwatch/bltracker/cmd"

func main() {
	cmd.Execute()
}
