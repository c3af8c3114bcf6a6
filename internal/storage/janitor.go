// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Janitor periodically removes files older than a retention age from a set
// of stores. It catches files left behind when a request could not clean up
// after itself, e.g. on a crash or with keep_files enabled.
type Janitor struct {
	log    logrus.FieldLogger
	cron   *cron.Cron
	stores []*Store
	maxAge time.Duration
	now    func() time.Time
}

// NewJanitor schedules a sweep of stores on the cron spec schedule
// (standard five-field spec or a descriptor such as "@every 10m").
func NewJanitor(log logrus.FieldLogger, schedule string, maxAge time.Duration, stores ...*Store) (*Janitor, error) {
	if maxAge <= 0 {
		return nil, fmt.Errorf("janitor retention must be positive, got %s", maxAge)
	}
	j := &Janitor{
		log:    log.WithField("component", "janitor"),
		cron:   cron.New(),
		stores: stores,
		maxAge: maxAge,
		now:    time.Now,
	}
	if _, err := j.cron.AddFunc(schedule, func() { j.Sweep() }); err != nil {
		return nil, fmt.Errorf("parsing sweep schedule %q: %w", schedule, err)
	}
	return j, nil
}

// Start runs the schedule in its own goroutine.
func (j *Janitor) Start() {
	j.log.Infof("Sweeping files older than %s", j.maxAge)
	j.cron.Start()
}

// Stop halts the schedule and waits for a running sweep, or for ctx.
func (j *Janitor) Stop(ctx context.Context) {
	done := j.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
}

// Sweep runs one pass over all stores and returns the number of files removed.
func (j *Janitor) Sweep() int {
	now := j.now()
	total := 0
	for _, s := range j.stores {
		n, err := s.Sweep(j.maxAge, now)
		total += n
		if err != nil {
			sweepErrors.Inc()
			j.log.WithError(err).WithField("dir", s.Dir()).Warn("Sweep incomplete")
		}
	}
	if total > 0 {
		j.log.Infof("Removed %d expired files", total)
	}
	return total
}
