package worker

import (
	"context"
	"sync"
)

// Job represents a unit of work to be executed
type Job interface {
	Execute(ctx context.Context) Result
}

// Result represents the result of a job execution
type Result interface {
	GetError() error
}

// envelope tags a job or result with its submission order
type envelope[T any] struct {
	seq   int
	value T
}

// Pool manages a pool of workers that execute jobs concurrently.
// Results are returned in submission order.
type Pool struct {
	workers       int
	jobQueue      chan envelope[Job]
	results       chan envelope[Result]
	wg            sync.WaitGroup
	ctx           context.Context
	cancelFunc    context.CancelFunc
	closeOnce     sync.Once
	submitted     int
	collected     []envelope[Result]
	collectorDone chan struct{}
}

// NewPool creates a new worker pool bound to ctx
func NewPool(ctx context.Context, workers int) *Pool {
	if workers <= 0 {
		workers = 1
	}

	ctx, cancel := context.WithCancel(ctx)

	return &Pool{
		workers:       workers,
		jobQueue:      make(chan envelope[Job], workers*2),
		results:       make(chan envelope[Result], workers*2),
		ctx:           ctx,
		cancelFunc:    cancel,
		collectorDone: make(chan struct{}),
	}
}

// Start starts the workers and the result collector
func (p *Pool) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
	go p.collect()
}

// collect drains results while jobs are still being submitted
func (p *Pool) collect() {
	defer close(p.collectorDone)
	for result := range p.results {
		p.collected = append(p.collected, result)
	}
}

func (p *Pool) worker() {
	defer p.wg.Done()

	for {
		select {
		case <-p.ctx.Done():
			return
		case job, ok := <-p.jobQueue:
			if !ok {
				return
			}
			result := job.value.Execute(p.ctx)
			select {
			case p.results <- envelope[Result]{seq: job.seq, value: result}:
			case <-p.ctx.Done():
				return
			}
		}
	}
}

// Submit submits a job to the pool for execution. It must not be called
// concurrently with itself or after Wait.
func (p *Pool) Submit(job Job) {
	select {
	case <-p.ctx.Done():
		return
	case p.jobQueue <- envelope[Job]{seq: p.submitted, value: job}:
		p.submitted++
	}
}

// Wait waits for all submitted jobs and returns one slot per submitted job,
// in submission order. Slots of jobs dropped by cancellation are nil.
func (p *Pool) Wait() []Result {
	close(p.jobQueue)
	p.wg.Wait()
	p.closeResults()
	<-p.collectorDone

	results := make([]Result, p.submitted)
	for _, result := range p.collected {
		results[result.seq] = result.value
	}
	return results
}

// Shutdown stops the workers immediately. Jobs still queued are dropped,
// and a later Wait returns nil slots for them.
func (p *Pool) Shutdown() {
	p.cancelFunc()
	p.wg.Wait()
	p.closeResults()
	<-p.collectorDone
}

func (p *Pool) closeResults() {
	p.closeOnce.Do(func() {
		close(p.results)
	})
}
