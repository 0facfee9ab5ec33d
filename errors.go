package jobber

import (
	"errors"

	"github.com/jobberd/jobber/job"
	"github.com/jobberd/jobber/quota"
	"github.com/jobberd/jobber/registry"
	"github.com/jobberd/jobber/runner"
)

var (
	// Engine lifecycle errors.
	ErrStopped = errors.New("jobber: engine stopped")

	// Admission errors, re-exported so callers never import the
	// subsystem packages just to match them with errors.Is.
	ErrAdmissionDenied = quota.ErrAdmissionDenied
	ErrDuplicateID     = registry.ErrDuplicateID
	ErrPoolStopped     = runner.ErrPoolStopped
	ErrNilWork         = job.ErrNilWork
)
