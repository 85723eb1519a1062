// Package parallel runs units of work on a fixed set of goroutines.
//
// The edge detector executes each worker's convolve-and-combine step as one
// unit on a WorkerPool and blocks until it finishes, so a partial result is
// never observed before it is fully written.
package parallel

import (
	"errors"
	"runtime"
	"sync"
	"sync/atomic"

	"golang.org/x/sys/cpu"
)

// ErrClosed is returned by Do when the pool no longer accepts work.
var ErrClosed = errors.New("parallel: pool closed")

// WorkerPool is a pool of goroutines with one queue per worker.
//
// Workers pull from their own queue first and steal from others when it is
// empty, which keeps every goroutine busy when bands differ in size.
//
// Thread safety: WorkerPool is safe for concurrent use.
type WorkerPool struct {
	workers    int
	workQueues []chan func()
	stats      []workerStats

	done    chan struct{}
	wg      sync.WaitGroup
	running atomic.Bool
}

// workerStats is padded so counters of neighboring workers do not share a
// cache line.
type workerStats struct {
	_        cpu.CacheLinePad
	executed atomic.Int64
	stolen   atomic.Int64
	_        cpu.CacheLinePad
}

// NewWorkerPool creates a new worker pool with the specified number of workers.
// If workers is 0 or negative, GOMAXPROCS is used.
// The pool starts immediately and workers begin waiting for work.
func NewWorkerPool(workers int) *WorkerPool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	queueSize := max(workers*4, 8)

	p := &WorkerPool{
		workers:    workers,
		workQueues: make([]chan func(), workers),
		stats:      make([]workerStats, workers),
		done:       make(chan struct{}),
	}
	for i := range workers {
		p.workQueues[i] = make(chan func(), queueSize)
	}

	p.running.Store(true)

	p.wg.Add(workers)
	for i := range workers {
		go p.worker(i)
	}

	return p
}

// worker is the main loop for each worker goroutine.
func (p *WorkerPool) worker(id int) {
	defer p.wg.Done()

	myQueue := p.workQueues[id]
	stats := &p.stats[id]

	for {
		select {
		case <-p.done:
			p.drainQueue(myQueue, stats)
			return

		case work := <-myQueue:
			p.run(work, stats)

		default:
			if stolen := p.steal(id); stolen != nil {
				stats.stolen.Add(1)
				p.run(stolen, stats)
				continue
			}
			select {
			case <-p.done:
				p.drainQueue(myQueue, stats)
				return
			case work := <-myQueue:
				p.run(work, stats)
			}
		}
	}
}

func (p *WorkerPool) run(work func(), stats *workerStats) {
	if work == nil {
		return
	}
	work()
	stats.executed.Add(1)
}

// drainQueue executes all remaining work in a queue.
func (p *WorkerPool) drainQueue(queue chan func(), stats *workerStats) {
	for {
		select {
		case work := <-queue:
			p.run(work, stats)
		default:
			return
		}
	}
}

// steal attempts to take work from another worker's queue.
// Returns nil if no work is available.
func (p *WorkerPool) steal(myID int) func() {
	for i := range p.workers {
		if i == myID {
			continue
		}
		select {
		case work := <-p.workQueues[i]:
			return work
		default:
		}
	}
	return nil
}

// ExecuteAll distributes work across workers and waits for all of it to
// complete. If the pool is closed, this is a no-op.
func (p *WorkerPool) ExecuteAll(work []func()) {
	if len(work) == 0 || !p.running.Load() {
		return
	}

	var completionWG sync.WaitGroup
	completionWG.Add(len(work))

	for i, fn := range work {
		wrapped := func() {
			defer completionWG.Done()
			fn()
		}

		select {
		case p.workQueues[i%p.workers] <- wrapped:
		case <-p.done:
			completionWG.Done()
		}
	}

	completionWG.Wait()
}

// Do runs fn as a single unit on the pool and blocks until it returns.
// It returns fn's error, or ErrClosed if the pool was closed before fn ran.
func (p *WorkerPool) Do(fn func() error) error {
	if !p.running.Load() {
		return ErrClosed
	}

	err := ErrClosed
	p.ExecuteAll([]func(){func() { err = fn() }})
	return err
}

// Close stops accepting new work, runs everything already queued and stops
// all workers. Close is safe to call multiple times.
func (p *WorkerPool) Close() {
	if !p.running.CompareAndSwap(true, false) {
		return
	}
	close(p.done)
	p.wg.Wait()
}

// Workers returns the number of workers in the pool.
func (p *WorkerPool) Workers() int {
	return p.workers
}

// IsRunning returns true if the pool is still accepting work.
func (p *WorkerPool) IsRunning() bool {
	return p.running.Load()
}

// Executed returns the number of work items completed by all workers.
// The count is exact once Close has returned.
func (p *WorkerPool) Executed() int64 {
	var total int64
	for i := range p.stats {
		total += p.stats[i].executed.Load()
	}
	return total
}

// Stolen returns the number of work items a worker took from another
// worker's queue.
func (p *WorkerPool) Stolen() int64 {
	var total int64
	for i := range p.stats {
		total += p.stats[i].stolen.Load()
	}
	return total
}
