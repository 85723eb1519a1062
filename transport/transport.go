// Package transport defines how the members of a worker group exchange the
// input image and their partial results.
//
// The edge-detection core never talks to a distributed runtime directly; it
// is written against Transport so the same code runs over an in-process group
// (see package local) or any message-passing layer that can implement the two
// collective operations below.
package transport

import (
	"context"

	"github.com/gogpu/sobel/partition"
	"github.com/gogpu/sobel/pixel"
)

// Transport is one member's endpoint into a fixed-size worker group.
//
// Members are identified by rank in [0, Size()). Both operations are
// collective: every member of the group must call them in the same order.
type Transport interface {
	// Rank returns this member's rank.
	Rank() int

	// Size returns the number of members in the group.
	Size() int

	// Broadcast distributes root's image to every member. The root passes the
	// image; other members pass nil. Each member receives a buffer it owns
	// exclusively, and Broadcast returns only after every member has received
	// its copy.
	Broadcast(ctx context.Context, root int, img *pixel.Buffer) (*pixel.Buffer, error)

	// Gather assembles every member's partial result at root. Partial r is
	// placed at plan.Offsets[r] and must hold exactly plan.Lengths[r]
	// samples, otherwise pixel.ErrShapeMismatch is returned. Root receives the
	// full image; other members receive nil.
	Gather(ctx context.Context, root int, partial *pixel.Buffer, plan partition.Plan) (*pixel.Buffer, error)
}

// Assemble copies partials into a single buffer of plan.TotalRows rows using
// the plan's offset and length tables. partials is indexed by rank.
// Implementations of Gather use it on the root.
func Assemble(plan partition.Plan, partials []*pixel.Buffer) (*pixel.Buffer, error) {
	if err := plan.Validate(); err != nil {
		return nil, err
	}
	if len(partials) != plan.Workers() {
		return nil, shapeError("got %d partials for %d workers", len(partials), plan.Workers())
	}

	full := pixel.New(plan.TotalRows, plan.Columns)
	dst := full.Data()
	for rank, part := range partials {
		if part == nil {
			return nil, shapeError("rank %d sent no partial", rank)
		}
		if part.Len() != plan.Lengths[rank] || part.Columns() != plan.Columns {
			return nil, shapeError("rank %d sent %v, want %d samples", rank, part, plan.Lengths[rank])
		}
		off := plan.Offsets[rank]
		copy(dst[off:off+plan.Lengths[rank]], part.Data())
	}
	return full, nil
}
