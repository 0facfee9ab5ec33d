// Package jobber provides a supervised, in-process job execution engine
// for Go. It offers fire-and-forget background jobs with automatic
// retries, per-type admission quotas, lifecycle hooks, and cron-style
// recurring schedules.
//
// Jobber is designed as a library, not a service. Import it, create an
// engine, and submit jobs as ordinary Go functions.
//
// # Quick Start
//
//	jb, err := jobber.New(
//	    jobber.WithQuota(quota.Config{Type: "import", MaxLive: 5}),
//	)
//	if err != nil { ... }
//
//	handle, err := jb.StartJob(ctx, fetchFeed, job.WithType("import"))
//	if err != nil { ... }
//
//	<-handle.Done()
//
// # Architecture
//
// Each admitted job runs under its own supervisor goroutine inside a
// dynamic pool. The job drives its own retry state machine; a panic or
// unrecoverable fault terminates only that job. Terminal jobs leave the
// registry and pool automatically, and a bounded in-memory archive
// keeps their final records for inspection.
//
// Admission is the only point where errors reach the submitting caller.
// Everything after StartJob returns is observable through the handle,
// lifecycle hooks, or the history archive.
package jobber
