// Package partition splits an image into contiguous horizontal bands, one per
// worker, and derives the byte offset and length tables used to scatter input
// and gather output without gaps or overlap.
//
// Every worker receives totalRows/workers rows except the coordinator, which
// also absorbs the remainder rows. Bands are laid out in rank order starting
// at row 0. With the coordinator on the last rank (the default topology) worker
// i starts at row i*(totalRows/workers).
package partition

import (
	"errors"
	"fmt"

	"github.com/samber/lo"
)

// ErrInvalidTopology is returned when a partition request cannot be satisfied.
var ErrInvalidTopology = errors.New("partition: invalid topology")

// RowRange is a half-open interval of image rows [Start, End).
type RowRange struct {
	Start int
	End   int
}

// Len returns the number of rows in the range.
func (r RowRange) Len() int {
	return r.End - r.Start
}

// Contains reports whether row lies in the range.
func (r RowRange) Contains(row int) bool {
	return row >= r.Start && row < r.End
}

// String returns the range in interval notation.
func (r RowRange) String() string {
	return fmt.Sprintf("[%d, %d)", r.Start, r.End)
}

// Plan is the per-worker layout of a partitioned image.
// Offsets and Lengths are measured in samples (bytes) of the flat image.
type Plan struct {
	TotalRows   int
	Columns     int
	Coordinator int

	Ranges  []RowRange
	Offsets []int
	Lengths []int
}

// New partitions totalRows rows of width columns across workers workers, with
// the remainder rows assigned to coordinator.
//
// Returns ErrInvalidTopology if workers <= 0, totalRows < workers,
// columns <= 0, or coordinator is not a valid rank.
func New(totalRows, columns, workers, coordinator int) (Plan, error) {
	switch {
	case workers <= 0:
		return Plan{}, fmt.Errorf("%w: %d workers", ErrInvalidTopology, workers)
	case totalRows < workers:
		return Plan{}, fmt.Errorf("%w: %d rows for %d workers", ErrInvalidTopology, totalRows, workers)
	case columns <= 0:
		return Plan{}, fmt.Errorf("%w: %d columns", ErrInvalidTopology, columns)
	case coordinator < 0 || coordinator >= workers:
		return Plan{}, fmt.Errorf("%w: coordinator %d not in [0, %d)", ErrInvalidTopology, coordinator, workers)
	}

	base := totalRows / workers
	remainder := totalRows % workers

	p := Plan{
		TotalRows:   totalRows,
		Columns:     columns,
		Coordinator: coordinator,
		Ranges:      make([]RowRange, workers),
		Offsets:     make([]int, workers),
		Lengths:     make([]int, workers),
	}

	for i := range workers {
		start := i * base
		if i > coordinator {
			start += remainder
		}
		end := start + base
		if i == coordinator {
			end += remainder
		}
		p.Ranges[i] = RowRange{Start: start, End: end}
		p.Lengths[i] = (end - start) * columns
		if i > 0 {
			p.Offsets[i] = p.Offsets[i-1] + p.Lengths[i-1]
		}
	}

	return p, nil
}

// Workers returns the number of workers in the plan.
func (p Plan) Workers() int {
	return len(p.Ranges)
}

// Range returns the rows owned by rank.
func (p Plan) Range(rank int) (RowRange, error) {
	if rank < 0 || rank >= len(p.Ranges) {
		return RowRange{}, fmt.Errorf("%w: rank %d not in [0, %d)", ErrInvalidTopology, rank, len(p.Ranges))
	}
	return p.Ranges[rank], nil
}

// Total returns the number of samples covered by the plan.
func (p Plan) Total() int {
	return lo.Sum(p.Lengths)
}

// Validate re-checks the layout invariants: ranges are contiguous from row 0
// to TotalRows, each length matches its range, and offsets are cumulative.
func (p Plan) Validate() error {
	n := len(p.Ranges)
	if n == 0 || len(p.Offsets) != n || len(p.Lengths) != n {
		return fmt.Errorf("%w: table sizes %d/%d/%d", ErrInvalidTopology, n, len(p.Offsets), len(p.Lengths))
	}

	next := 0
	for i, r := range p.Ranges {
		if r.Start != next || r.End < r.Start {
			return fmt.Errorf("%w: rank %d range %v does not start at row %d", ErrInvalidTopology, i, r, next)
		}
		if p.Lengths[i] != r.Len()*p.Columns {
			return fmt.Errorf("%w: rank %d length %d for %d rows", ErrInvalidTopology, i, p.Lengths[i], r.Len())
		}
		want := 0
		if i > 0 {
			want = p.Offsets[i-1] + p.Lengths[i-1]
		}
		if p.Offsets[i] != want {
			return fmt.Errorf("%w: rank %d offset %d, want %d", ErrInvalidTopology, i, p.Offsets[i], want)
		}
		next = r.End
	}

	if next != p.TotalRows || p.Total() != p.TotalRows*p.Columns {
		return fmt.Errorf("%w: plan covers %d of %d rows", ErrInvalidTopology, next, p.TotalRows)
	}
	return nil
}
