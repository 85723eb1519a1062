package sobel

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/gogpu/sobel/internal/parallel"
	"github.com/gogpu/sobel/partition"
	"github.com/gogpu/sobel/pixel"
	"github.com/gogpu/sobel/transport"
	"github.com/gogpu/sobel/transport/local"
)

// DefaultCoordinator selects the last rank of the group as coordinator.
const DefaultCoordinator = -1

type runOptions struct {
	coordinator int
	pool        *parallel.WorkerPool
	runID       string
}

// Option configures Run and RunLocal.
type Option func(*runOptions)

// WithCoordinator selects the rank that holds the input image, absorbs the
// remainder rows and assembles the result. Pass DefaultCoordinator for the
// last rank.
func WithCoordinator(rank int) Option {
	return func(o *runOptions) {
		o.coordinator = rank
	}
}

// WithPool runs the per-worker task on pool instead of a private one.
// The caller keeps ownership of pool and must close it.
func WithPool(pool *parallel.WorkerPool) Option {
	return func(o *runOptions) {
		o.pool = pool
	}
}

// WithRunID tags log records with id instead of a generated one.
func WithRunID(id string) Option {
	return func(o *runOptions) {
		o.runID = id
	}
}

func buildOptions(opts []Option) runOptions {
	o := runOptions{coordinator: DefaultCoordinator}
	for _, opt := range opts {
		opt(&o)
	}
	if o.runID == "" {
		o.runID = uuid.NewString()
	}
	return o
}

func (o runOptions) coordinatorFor(size int) int {
	if o.coordinator == DefaultCoordinator {
		return size - 1
	}
	return o.coordinator
}

// Run executes one member's share of a distributed edge detection over t.
//
// The coordinator passes the input image; other members pass nil. Every
// member receives the image, processes its own band and sends it to the
// coordinator. Run returns the full gradient-magnitude image on the
// coordinator and nil on every other member.
func Run(ctx context.Context, t transport.Transport, img *pixel.Buffer, opts ...Option) (*pixel.Buffer, error) {
	o := buildOptions(opts)
	return run(ctx, t, img, o)
}

func run(ctx context.Context, t transport.Transport, img *pixel.Buffer, o runOptions) (*pixel.Buffer, error) {
	rank, size := t.Rank(), t.Size()
	coordinator := o.coordinatorFor(size)
	log := Logger().With(slog.String("run", o.runID), slog.Int("rank", rank))

	if coordinator < 0 || coordinator >= size {
		return nil, fmt.Errorf("sobel: coordinator %d in group of %d: %w", coordinator, size, ErrInvalidTopology)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	full, err := t.Broadcast(ctx, coordinator, img)
	if err != nil {
		return nil, fmt.Errorf("sobel: broadcast: %w", err)
	}

	plan, err := partition.New(full.Rows(), full.Columns(), size, coordinator)
	if err != nil {
		return nil, fmt.Errorf("sobel: plan: %w", err)
	}
	rows, err := plan.Range(rank)
	if err != nil {
		return nil, err
	}
	log.Debug("sobel: band assigned",
		slog.String("rows", rows.String()),
		slog.Int("offset", plan.Offsets[rank]),
		slog.Int("length", plan.Lengths[rank]))

	pool := o.pool
	if pool == nil {
		pool = parallel.NewWorkerPool(1)
		defer pool.Close()
	}

	var partial *pixel.Buffer
	err = pool.Do(func() error {
		var err error
		partial, err = Process(full, rows)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("sobel: rank %d rows %v: %w", rank, rows, err)
	}

	out, err := t.Gather(ctx, coordinator, partial, plan)
	if err != nil {
		return nil, fmt.Errorf("sobel: gather: %w", err)
	}
	if rank == coordinator {
		log.Info("sobel: image assembled", slog.Int("rows", out.Rows()), slog.Int("columns", out.Columns()))
	}
	return out, nil
}

// RunLocal runs a distributed edge detection over workers goroutines in this
// process and returns the assembled image. The first failing member cancels
// the others and its error is returned.
func RunLocal(ctx context.Context, img *pixel.Buffer, workers int, opts ...Option) (*pixel.Buffer, error) {
	if img == nil {
		return nil, fmt.Errorf("sobel: no input image: %w", ErrShapeMismatch)
	}
	if workers <= 0 || img.Rows() < workers {
		return nil, fmt.Errorf("sobel: %d workers for %d rows: %w", workers, img.Rows(), ErrInvalidTopology)
	}

	o := buildOptions(opts)
	coordinator := o.coordinatorFor(workers)
	if coordinator < 0 || coordinator >= workers {
		return nil, fmt.Errorf("sobel: coordinator %d in group of %d: %w", coordinator, workers, ErrInvalidTopology)
	}

	group, err := local.NewGroup(workers)
	if err != nil {
		return nil, err
	}

	owned := o.pool == nil
	if owned {
		o.pool = parallel.NewWorkerPool(group.Size())
		defer o.pool.Close()
	}

	log := Logger().With(slog.String("run", o.runID))
	log.Info("sobel: run started",
		slog.Int("rows", img.Rows()),
		slog.Int("columns", img.Columns()),
		slog.Int("workers", workers),
		slog.Int("coordinator", coordinator))

	var result *pixel.Buffer
	eg, ctx := errgroup.WithContext(ctx)
	for _, member := range group.Members() {
		eg.Go(func() error {
			var in *pixel.Buffer
			if member.Rank() == coordinator {
				in = img
			}
			out, err := run(ctx, member, in, o)
			if err != nil {
				return err
			}
			if member.Rank() == coordinator {
				result = out
			}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		log.Warn("sobel: run aborted", slog.Any("error", err))
		return nil, err
	}
	if owned {
		// Counters are final only once the workers have stopped.
		o.pool.Close()
	}
	log.Info("sobel: run finished",
		slog.Int64("units", o.pool.Executed()),
		slog.Int64("stolen", o.pool.Stolen()))
	return result, nil
}
