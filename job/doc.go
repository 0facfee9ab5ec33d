// Package job defines the job entity and its retry state machine.
//
// # Job Entity
//
// A [Job] wraps a single [WorkUnit] and drives it to a terminal outcome.
// Its status progresses through a state machine:
//
//	new → done
//	new → errored → done
//	new → errored → errored → ... → failed
//
// A failure signal from the work unit moves the job to errored and
// schedules a delayed re-execution; the delay comes from a
// backoff.Strategy (a constant one second by default). Once the number
// of re-executions reaches MaxRetries, the job is failed and never runs
// again. A panic or an error marked with [Unrecoverable] is a fault, not
// a failure: it terminates the job immediately without any retry.
//
// Fields of note:
//   - ID: opaque unique identifier, generated when not supplied
//   - Type: free-form classification tag used for quota enforcement
//   - MaxRetries: retry budget (default 3)
//   - Timeout: per-attempt execution deadline (zero = unlimited)
//
// # Observing completion
//
// Starting a job is fire-and-forget; nothing about a later failure is
// returned to the caller that started it. To observe the terminal
// outcome, wait on [Job.Done] and read [Job.Outcome]:
//
//	<-j.Done()
//	out, _ := j.Outcome()
//	if out.Kind == job.KindFailed {
//	    log.Printf("job %s failed after %d retries: %v", j.ID(), out.Retries, out.Err)
//	}
package job
