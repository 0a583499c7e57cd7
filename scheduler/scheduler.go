// Copyright 2026 GridLink
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"gridlink/backend/connectors/base"
	"gridlink/backend/connectors/registry"
	"gridlink/backend/grid"
	"gridlink/backend/shared/logger"
	"gridlink/backend/store"
)

// Prometheus metrics
var (
	promTicksTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "gridlink_scheduler_ticks_total",
			Help: "Total number of refresh ticks fired across all persistent queries",
		},
	)
	promTickFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "gridlink_scheduler_tick_failures_total",
			Help: "Total number of refresh executions that ended in an error",
		},
	)
	promTicksSkipped = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "gridlink_scheduler_ticks_skipped_total",
			Help: "Total number of ticks skipped because the previous execution was still running",
		},
	)
)

func init() {
	prometheus.MustRegister(promTicksTotal)
	prometheus.MustRegister(promTickFailures)
	prometheus.MustRegister(promTicksSkipped)
}

// Status describes the last completed sync attempt for a scheduled query.
type Status struct {
	FID       string    `json:"fid"`
	LastRun   time.Time `json:"lastRun,omitempty"`
	LastError string    `json:"lastError,omitempty"`
}

type entry struct {
	cancel  context.CancelFunc
	running atomic.Bool

	mu        sync.Mutex
	lastRun   time.Time
	lastError string
}

// Scheduler drives periodic re-execution of persistent queries. Each
// registered fid owns one timer goroutine; executions run detached from the
// timer so a slow query delays nothing, and at most one execution per fid is
// in flight at a time.
type Scheduler struct {
	queries     *store.Queries
	credentials *store.Credentials
	settings    *store.Settings
	registry    *registry.Registry
	grid        *grid.Client
	log         *logger.Logger

	mu      sync.Mutex
	entries map[string]*entry
	closed  bool
}

// New creates a scheduler. Call Load to resurrect persisted queries.
func New(queries *store.Queries, credentials *store.Credentials, settings *store.Settings, reg *registry.Registry, gridClient *grid.Client) *Scheduler {
	return &Scheduler{
		queries:     queries,
		credentials: credentials,
		settings:    settings,
		registry:    reg,
		grid:        gridClient,
		log:         logger.New("SCHEDULER"),
		entries:     make(map[string]*entry),
	}
}

// Load schedules every persisted query. Called once at startup so that
// schedules survive process restarts.
func (s *Scheduler) Load() {
	for _, pq := range s.queries.All() {
		s.schedule(*pq)
		s.log.Info("rescheduled persistent query", logger.Fields{"fid": pq.FID, "interval": pq.RefreshInterval})
	}
}

// Register persists a query and starts its refresh cycle. The first
// execution happens synchronously so the caller learns immediately whether
// the query and its credential work; its failure aborts registration.
func (s *Scheduler) Register(ctx context.Context, pq store.PersistentQuery) error {
	if pq.FID == "" {
		return base.NewValidationError("fid was not supplied.")
	}
	if len(pq.UIDs) == 0 {
		return base.NewValidationError("uids were not supplied.")
	}
	if pq.Query == "" {
		return base.NewValidationError("query was not supplied.")
	}
	if pq.RefreshInterval <= 0 {
		return base.NewValidationError("refreshInterval must be a positive number of seconds.")
	}
	if _, err := s.credentials.Get(pq.CredentialID); err != nil {
		// an unknown credentialId is a bad registration payload, not a
		// lookup miss on the queries collection
		return base.NewValidationError(err.Error())
	}

	if err := s.execute(ctx, pq); err != nil {
		return err
	}
	if err := s.queries.Save(&pq); err != nil {
		return err
	}
	s.schedule(pq)
	s.log.Info("registered persistent query", logger.Fields{"fid": pq.FID, "interval": pq.RefreshInterval})
	return nil
}

// Delete stops the refresh cycle and removes the persisted query. An
// execution already in flight finishes on its own; its result is discarded
// by the grid API, not by us.
func (s *Scheduler) Delete(fid string) error {
	if err := s.queries.Delete(fid); err != nil {
		return err
	}
	s.unschedule(fid)
	s.log.Info("deleted persistent query", logger.Fields{"fid": fid})
	return nil
}

// Statuses reports the last sync outcome for every scheduled query.
func (s *Scheduler) Statuses() []Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	statuses := make([]Status, 0, len(s.entries))
	for fid, e := range s.entries {
		e.mu.Lock()
		statuses = append(statuses, Status{FID: fid, LastRun: e.lastRun, LastError: e.lastError})
		e.mu.Unlock()
	}
	return statuses
}

// Shutdown cancels every timer without touching the store, so the schedules
// come back on the next Load.
func (s *Scheduler) Shutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	for fid, e := range s.entries {
		e.cancel()
		delete(s.entries, fid)
	}
}

func (s *Scheduler) schedule(pq store.PersistentQuery) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	if prev, ok := s.entries[pq.FID]; ok {
		prev.cancel()
	}

	ctx, cancel := context.WithCancel(context.Background())
	e := &entry{cancel: cancel}
	s.entries[pq.FID] = e

	go s.run(ctx, pq, e)
}

func (s *Scheduler) unschedule(fid string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.entries[fid]; ok {
		e.cancel()
		delete(s.entries, fid)
	}
}

// run is the timer goroutine for one fid. Ticks where the previous
// execution is still running are skipped, never queued.
func (s *Scheduler) run(ctx context.Context, pq store.PersistentQuery, e *entry) {
	ticker := time.NewTicker(time.Duration(pq.RefreshInterval) * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			promTicksTotal.Inc()
			if !e.running.CompareAndSwap(false, true) {
				promTicksSkipped.Inc()
				s.log.Warn("skipping refresh, previous execution still running", logger.Fields{"fid": pq.FID})
				continue
			}
			go func() {
				defer e.running.Store(false)

				// detached from the timer context: deleting the query
				// cancels future ticks, never a run already in flight
				err := s.execute(context.WithoutCancel(ctx), pq)
				e.mu.Lock()
				e.lastRun = time.Now().UTC()
				if err != nil {
					e.lastError = err.Error()
				} else {
					e.lastError = ""
				}
				e.mu.Unlock()

				if err != nil {
					// A failed sync never cancels the schedule; the next
					// tick retries from scratch.
					promTickFailures.Inc()
					s.log.Error("persistent query refresh failed", err, logger.Fields{"fid": pq.FID})
				}
			}()
		}
	}
}

// execute performs one full sync attempt: resolve the credential, authorize
// against the grid API, open a fresh session, run the statement, push the
// result. Every step re-reads its inputs so settings and credential changes
// take effect on the next tick. The credential lookup happens first so a
// query whose credential has been deleted fails without any external call.
func (s *Scheduler) execute(ctx context.Context, pq store.PersistentQuery) error {
	cred, err := s.credentials.Get(pq.CredentialID)
	if err != nil {
		return base.NewConnectionError(err.Error(), err)
	}

	ident, err := s.grid.Authorize(ctx, s.settings.Users())
	if err != nil {
		return err
	}
	conn, err := s.registry.Open(ctx, cred)
	if err != nil {
		return err
	}
	defer func() { _ = conn.Disconnect(ctx) }()

	table, err := conn.Query(ctx, pq.Query)
	if err != nil {
		return err
	}
	return s.grid.UpdateGrid(ctx, ident, pq.FID, pq.UIDs, table)
}
