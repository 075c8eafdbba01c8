package notification

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"github.com/google/uuid"

	"crewops-backend/internal/directory"
	"crewops-backend/internal/store"
)

// Dispatcher orchestrates one dispatch: resolve the audience, load
// every transport endpoint for it, compose the payload once, fan out
// concurrently and aggregate the outcomes. It never returns an error:
// the business operation that fired the event must complete even when
// every delivery fails.
type Dispatcher struct {
	store    store.Store
	dir      *directory.Directory
	registry *Registry
	web      *WebPushDriver
	native   *NativePushDriver
}

// NewDispatcher wires the dispatcher from its collaborators.
func NewDispatcher(st store.Store, dir *directory.Directory, reg *Registry, web *WebPushDriver, native *NativePushDriver) *Dispatcher {
	return &Dispatcher{
		store:    st,
		dir:      dir,
		registry: reg,
		web:      web,
		native:   native,
	}
}

// Dispatch runs the full pipeline for one event and reports the
// aggregate result. Terminal states are sent (endpoints attempted,
// outcomes recorded) and skipped (no final recipients, or none of them
// has a registered endpoint).
func (d *Dispatcher) Dispatch(ctx context.Context, e Event) Result {
	id := uuid.NewString()
	deps := &Deps{Store: d.store, Directory: d.dir}

	payload, set := d.registry.Builder(e.Type)(ctx, deps, e)

	// Routing overrides are read fresh per dispatch so policy changes
	// apply immediately. A failed read counts as no rules.
	rules, err := d.store.RoutingRulesForEvent(ctx, e.Type)
	if err != nil {
		log.Printf("dispatch %s: %v; proceeding without overrides", id, err)
		rules = nil
	}
	ApplyRoutingRules(ctx, d.dir, rules, set, e.JobID)

	userIDs := set.Recipients()
	if len(userIDs) == 0 {
		log.Printf("dispatch %s: %s resolved to an empty audience", id, e.Type)
		return Result{ID: id, Status: StatusSkipped}
	}

	subs, err := d.store.SubscriptionsForUsers(ctx, userIDs)
	if err != nil {
		log.Printf("dispatch %s: %v", id, err)
	}
	toks, err := d.store.DeviceTokensForUsers(ctx, userIDs)
	if err != nil {
		log.Printf("dispatch %s: %v", id, err)
	}
	if len(subs) == 0 && len(toks) == 0 {
		log.Printf("dispatch %s: %s has %d recipients but no endpoints", id, e.Type, len(userIDs))
		return Result{ID: id, Status: StatusSkipped}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		log.Printf("dispatch %s: marshal payload: %v", id, err)
		return Result{ID: id, Status: StatusSkipped}
	}

	// Fan out. Every endpoint is independent; all sends run
	// concurrently and the batch waits for the slowest before
	// aggregating. One outcome slot per endpoint, no shared writes.
	outcomes := make([]Outcome, len(subs)+len(toks))
	var wg sync.WaitGroup
	for i, sub := range subs {
		i, sub := i, sub
		wg.Add(1)
		go func() {
			defer wg.Done()
			outcomes[i] = d.web.Deliver(ctx, sub, body)
		}()
	}
	for i, tok := range toks {
		i, tok := i, tok
		wg.Add(1)
		go func() {
			defer wg.Done()
			outcomes[len(subs)+i] = d.native.Deliver(ctx, tok, payload)
		}()
	}
	wg.Wait()

	res := Result{ID: id, Status: StatusSent, Results: outcomes}
	res.Count = res.Delivered()
	log.Printf("dispatch %s: %s delivered %d/%d endpoints for %d recipients",
		id, e.Type, res.Count, len(outcomes), len(userIDs))
	return res
}

// WorkerPool runs dispatches asynchronously so business handlers can
// enqueue an event and move on without waiting for delivery.
type WorkerPool struct {
	size       int
	jobs       chan Event
	dispatcher *Dispatcher
}

// NewWorkerPool creates a pool of the given size over the dispatcher.
func NewWorkerPool(size int, d *Dispatcher) *WorkerPool {
	return &WorkerPool{
		size:       size,
		jobs:       make(chan Event, size*4),
		dispatcher: d,
	}
}

// Start launches the worker goroutines.
func (wp *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < wp.size; i++ {
		go wp.worker(ctx, i)
	}
}

func (wp *WorkerPool) worker(ctx context.Context, id int) {
	log.Printf("notification worker %d started", id)
	for {
		select {
		case e := <-wp.jobs:
			wp.dispatcher.Dispatch(ctx, e)
		case <-ctx.Done():
			log.Printf("notification worker %d shutting down", id)
			return
		}
	}
}

// Enqueue hands an event to the pool. Blocks only when the buffer is
// full.
func (wp *WorkerPool) Enqueue(e Event) {
	wp.jobs <- e
}

// Jobs returns the jobs channel for testing.
func (wp *WorkerPool) Jobs() chan Event {
	return wp.jobs
}
