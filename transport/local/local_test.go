package local

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/gogpu/sobel/partition"
	"github.com/gogpu/sobel/pixel"
)

func TestNewGroup_InvalidSize(t *testing.T) {
	_, err := NewGroup(0)
	assert.ErrorIs(t, err, ErrInvalidSize)
}

func TestBroadcast_PrivateCopies(t *testing.T) {
	const size = 4
	g, err := NewGroup(size)
	require.NoError(t, err)

	img, err := pixel.FromSamples(2, 2, []byte{1, 2, 3, 4})
	require.NoError(t, err)

	got := make([]*pixel.Buffer, size)
	var eg errgroup.Group
	for _, m := range g.Members() {
		eg.Go(func() error {
			var in *pixel.Buffer
			if m.Rank() == size-1 {
				in = img
			}
			out, err := m.Broadcast(context.Background(), size-1, in)
			got[m.Rank()] = out
			return err
		})
	}
	require.NoError(t, eg.Wait())

	for r, b := range got {
		require.True(t, img.Equal(b), "rank %d", r)
	}

	// Mutating one member's copy must not affect any other view.
	got[0].Data()[0] = 99
	for r := 1; r < size; r++ {
		assert.Equal(t, byte(1), got[r].Data()[0], "rank %d", r)
	}
	assert.Equal(t, byte(1), img.Data()[0])
}

func TestBroadcast_WaitsForEveryMember(t *testing.T) {
	g, err := NewGroup(2)
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = g.Member(0).Broadcast(context.Background(), 0, pixel.New(1, 1))
	}()

	select {
	case <-done:
		t.Fatal("root returned before rank 1 received the image")
	case <-time.After(50 * time.Millisecond):
	}

	_, err = g.Member(1).Broadcast(context.Background(), 0, nil)
	require.NoError(t, err)

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("root never returned")
	}
}

func TestBroadcast_Errors(t *testing.T) {
	g, err := NewGroup(2)
	require.NoError(t, err)

	_, err = g.Member(0).Broadcast(context.Background(), 2, nil)
	assert.ErrorIs(t, err, ErrInvalidRoot)

	_, err = g.Member(0).Broadcast(context.Background(), 0, nil)
	assert.ErrorIs(t, err, ErrNoImage)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = g.Member(1).Broadcast(ctx, 0, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGather(t *testing.T) {
	const size = 3
	g, err := NewGroup(size)
	require.NoError(t, err)

	plan, err := partition.New(7, 2, size, size-1)
	require.NoError(t, err)

	var full *pixel.Buffer
	var eg errgroup.Group
	for _, m := range g.Members() {
		eg.Go(func() error {
			r, _ := plan.Range(m.Rank())
			part := pixel.New(r.Len(), plan.Columns)
			part.Fill(byte(10 * (m.Rank() + 1)))

			out, err := m.Gather(context.Background(), size-1, part, plan)
			if m.Rank() == size-1 {
				full = out
			} else {
				assert.Nil(t, out)
			}
			return err
		})
	}
	require.NoError(t, eg.Wait())

	want := []byte{
		10, 10, 10, 10,
		20, 20, 20, 20,
		30, 30, 30, 30, 30, 30,
	}
	require.NotNil(t, full)
	assert.Equal(t, want, full.Samples())
}

func TestGather_ShapeMismatch(t *testing.T) {
	g, err := NewGroup(2)
	require.NoError(t, err)

	plan, err := partition.New(4, 1, 2, 1)
	require.NoError(t, err)

	var eg errgroup.Group
	eg.Go(func() error {
		_, err := g.Member(0).Gather(context.Background(), 1, pixel.New(3, 1), plan)
		return err
	})
	_, rootErr := g.Member(1).Gather(context.Background(), 1, pixel.New(2, 1), plan)
	require.NoError(t, eg.Wait())

	assert.ErrorIs(t, rootErr, pixel.ErrShapeMismatch)
}

func TestGather_CanceledRoot(t *testing.T) {
	g, err := NewGroup(3)
	require.NoError(t, err)

	plan, err := partition.New(3, 1, 3, 2)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err = g.Member(2).Gather(ctx, 2, pixel.New(1, 1), plan)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestGroup_Reuse(t *testing.T) {
	g, err := NewGroup(2)
	require.NoError(t, err)

	for run := range 3 {
		var eg errgroup.Group
		for _, m := range g.Members() {
			eg.Go(func() error {
				var in *pixel.Buffer
				if m.Rank() == 0 {
					in = pixel.New(1, 1)
					in.Fill(byte(run))
				}
				out, err := m.Broadcast(context.Background(), 0, in)
				if err != nil {
					return err
				}
				assert.Equal(t, byte(run), out.Data()[0])
				return nil
			})
		}
		require.NoError(t, eg.Wait(), "run %d", run)
	}
}

func TestGroup_ReuseAfterCancelledBroadcast(t *testing.T) {
	g, err := NewGroup(2)
	require.NoError(t, err)

	stale := pixel.New(1, 1)
	stale.Fill(1)

	// Rank 1 never joins the first round, so the root gives up at the barrier
	// after its copy is already in rank 1's inbox.
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = g.Member(0).Broadcast(ctx, 0, stale)
	require.ErrorIs(t, err, context.DeadlineExceeded)

	fresh := pixel.New(1, 1)
	fresh.Fill(2)

	ctx, cancel = context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	got := make([]*pixel.Buffer, 2)
	var eg errgroup.Group
	for _, m := range g.Members() {
		eg.Go(func() error {
			var in *pixel.Buffer
			if m.Rank() == 0 {
				in = fresh
			}
			out, err := m.Broadcast(ctx, 0, in)
			got[m.Rank()] = out
			return err
		})
	}
	require.NoError(t, eg.Wait())

	for r, b := range got {
		assert.True(t, fresh.Equal(b), "rank %d got %v", r, b.Data())
	}
}

func TestBarrier_CancelledWaiterWithdraws(t *testing.T) {
	b := newBarrier(2)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, b.wait(ctx), context.Canceled)

	// The withdrawn arrival must not release a lone waiter of the next round.
	done := make(chan error, 1)
	go func() { done <- b.wait(context.Background()) }()

	select {
	case err := <-done:
		t.Fatalf("lone waiter released with %v", err)
	case <-time.After(50 * time.Millisecond):
	}

	require.NoError(t, b.wait(context.Background()))
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("first waiter never released")
	}
}
