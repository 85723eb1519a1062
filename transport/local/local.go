// Package local implements transport.Transport for a group of goroutines in
// one process.
//
// Every member gets an Endpoint; members exchange buffers over channels and
// ownership of a buffer passes to the receiver on send. A Group may be reused
// for several runs as long as every member performs the same sequence of
// collective calls. After a cancelled collective the group can be reused
// once every member has returned from it; the next Broadcast discards
// whatever the aborted round left in flight.
package local

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/gogpu/sobel/partition"
	"github.com/gogpu/sobel/pixel"
	"github.com/gogpu/sobel/transport"
)

// Errors returned by local endpoints.
var (
	// ErrInvalidSize is returned by NewGroup for a non-positive size.
	ErrInvalidSize = errors.New("local: group size must be positive")

	// ErrInvalidRoot is returned when a collective names a rank outside the group.
	ErrInvalidRoot = errors.New("local: root rank out of range")

	// ErrNoImage is returned when the broadcast root has no image to send.
	ErrNoImage = errors.New("local: broadcast root has no image")
)

// Group is a fixed-size set of in-process members.
type Group struct {
	size      int
	inbox     []chan *pixel.Buffer
	gatherBox []chan gathered
	received  *barrier
	members   []*Endpoint
}

type gathered struct {
	rank    int
	partial *pixel.Buffer
}

// NewGroup creates a group of size members.
func NewGroup(size int) (*Group, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}

	g := &Group{
		size:      size,
		inbox:     make([]chan *pixel.Buffer, size),
		gatherBox: make([]chan gathered, size),
		received:  newBarrier(size),
		members:   make([]*Endpoint, size),
	}
	for i := range size {
		g.inbox[i] = make(chan *pixel.Buffer, 1)
		g.gatherBox[i] = make(chan gathered, size)
		g.members[i] = &Endpoint{group: g, rank: i}
	}
	return g, nil
}

// Size returns the number of members.
func (g *Group) Size() int {
	return g.size
}

// Member returns the endpoint for rank.
func (g *Group) Member(rank int) *Endpoint {
	return g.members[rank]
}

// Members returns every endpoint in rank order.
func (g *Group) Members() []*Endpoint {
	return append([]*Endpoint(nil), g.members...)
}

// Endpoint is one member's view of a Group. It implements transport.Transport.
type Endpoint struct {
	group *Group
	rank  int
}

var _ transport.Transport = (*Endpoint)(nil)

// Rank returns this member's rank.
func (e *Endpoint) Rank() int {
	return e.rank
}

// Size returns the number of members in the group.
func (e *Endpoint) Size() int {
	return e.group.size
}

// Broadcast sends a private copy of img from root to every member and waits
// until all members hold their copy.
func (e *Endpoint) Broadcast(ctx context.Context, root int, img *pixel.Buffer) (*pixel.Buffer, error) {
	g := e.group
	if root < 0 || root >= g.size {
		return nil, fmt.Errorf("%w: %d", ErrInvalidRoot, root)
	}

	var own *pixel.Buffer
	if e.rank == root {
		if img == nil {
			return nil, ErrNoImage
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		g.discardStale()
		for r := range g.size {
			if r == root {
				continue
			}
			select {
			case g.inbox[r] <- img.Clone():
			case <-ctx.Done():
				g.discardStale()
				return nil, ctx.Err()
			}
		}
		own = img.Clone()
	} else {
		select {
		case own = <-g.inbox[e.rank]:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if err := g.received.wait(ctx); err != nil {
		if e.rank == root {
			g.discardStale()
		}
		return nil, err
	}
	return own, nil
}

// discardStale drops copies and partials left behind by an aborted round.
// Only the broadcast root calls it, before any member of the new round can
// have sent anything.
func (g *Group) discardStale() {
	for r := range g.size {
		for drained := false; !drained; {
			select {
			case <-g.inbox[r]:
			case <-g.gatherBox[r]:
			default:
				drained = true
			}
		}
	}
}

// Gather sends partial to root. On root it waits for every other member's
// partial and assembles the full image.
func (e *Endpoint) Gather(ctx context.Context, root int, partial *pixel.Buffer, plan partition.Plan) (*pixel.Buffer, error) {
	g := e.group
	if root < 0 || root >= g.size {
		return nil, fmt.Errorf("%w: %d", ErrInvalidRoot, root)
	}

	if e.rank != root {
		select {
		case g.gatherBox[root] <- gathered{rank: e.rank, partial: partial}:
			return nil, nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	partials := make([]*pixel.Buffer, g.size)
	partials[root] = partial
	for range g.size - 1 {
		select {
		case msg := <-g.gatherBox[root]:
			partials[msg.rank] = msg.partial
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	return transport.Assemble(plan, partials)
}

// barrier releases waiters once size of them have arrived, then resets.
// A waiter that gives up withdraws its arrival, so a cancelled round does
// not count toward the next one.
type barrier struct {
	mu      sync.Mutex
	size    int
	count   int
	release chan struct{}
}

func newBarrier(size int) *barrier {
	return &barrier{size: size, release: make(chan struct{})}
}

func (b *barrier) wait(ctx context.Context) error {
	b.mu.Lock()
	ch := b.release
	b.count++
	if b.count == b.size {
		close(ch)
		b.count = 0
		b.release = make(chan struct{})
	}
	b.mu.Unlock()

	select {
	case <-ch:
		return nil
	case <-ctx.Done():
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.release != ch {
		// The round completed while we were giving up.
		return nil
	}
	b.count--
	return ctx.Err()
}
