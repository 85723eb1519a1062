package sobel

import (
	"fmt"
	"log/slog"

	"github.com/gogpu/sobel/internal/filter"
	"github.com/gogpu/sobel/partition"
	"github.com/gogpu/sobel/pixel"
)

// TaskState is the lifecycle stage of a Task.
type TaskState int

// Task states, in execution order.
const (
	TaskIdle TaskState = iota
	TaskConvolvingX
	TaskConvolvingY
	TaskCombining
	TaskDone
	TaskFailed
)

// String returns the state name.
func (s TaskState) String() string {
	switch s {
	case TaskIdle:
		return "Idle"
	case TaskConvolvingX:
		return "ConvolvingX"
	case TaskConvolvingY:
		return "ConvolvingY"
	case TaskCombining:
		return "Combining"
	case TaskDone:
		return "Done"
	case TaskFailed:
		return "Failed"
	default:
		return fmt.Sprintf("TaskState(%d)", int(s))
	}
}

// Task computes one worker's gradient-magnitude band: convolve with SobelX,
// convolve with SobelY, then combine.
//
// The image is only read. Running the same task again recomputes the band
// from scratch and yields an identical buffer.
type Task struct {
	image *pixel.Buffer
	rows  partition.RowRange

	state TaskState
	err   error
}

// NewTask creates a task over rows of img.
func NewTask(img *pixel.Buffer, rows partition.RowRange) *Task {
	return &Task{image: img, rows: rows}
}

// State returns the current state.
func (t *Task) State() TaskState {
	return t.state
}

// Err returns the error that moved the task to TaskFailed, if any.
func (t *Task) Err() error {
	return t.err
}

// Run executes the task and returns the band. The returned buffer has
// rows.Len() rows and is owned by the caller.
func (t *Task) Run() (*pixel.Buffer, error) {
	t.err = nil
	t.transition(TaskIdle)

	if t.image == nil {
		return nil, t.fail(fmt.Errorf("sobel: task has no image: %w", ErrShapeMismatch))
	}

	t.transition(TaskConvolvingX)
	gx, err := filter.Convolve(t.image, t.rows.Start, t.rows.End, filter.SobelX)
	if err != nil {
		return nil, t.fail(err)
	}

	t.transition(TaskConvolvingY)
	gy, err := filter.Convolve(t.image, t.rows.Start, t.rows.End, filter.SobelY)
	if err != nil {
		return nil, t.fail(err)
	}

	t.transition(TaskCombining)
	if gx.Rows() != gy.Rows() || gx.Columns() != gy.Columns() {
		return nil, t.fail(fmt.Errorf("sobel: gradient bands %v and %v differ: %w", gx, gy, ErrShapeMismatch))
	}
	out, err := filter.Combine(gx, gy, t.rows.Len(), gx.Columns())
	if err != nil {
		return nil, t.fail(err)
	}

	t.transition(TaskDone)
	return out, nil
}

func (t *Task) transition(to TaskState) {
	Logger().Debug("sobel: task transition",
		slog.String("from", t.state.String()),
		slog.String("to", to.String()),
		slog.String("rows", t.rows.String()))
	t.state = to
}

func (t *Task) fail(err error) error {
	t.err = err
	t.transition(TaskFailed)
	return err
}

// Process runs a fresh Task over rows of img.
func Process(img *pixel.Buffer, rows partition.RowRange) (*pixel.Buffer, error) {
	return NewTask(img, rows).Run()
}

// Detect computes the gradient magnitude of the whole image in one pass.
func Detect(img *pixel.Buffer) (*pixel.Buffer, error) {
	return Process(img, partition.RowRange{Start: 0, End: img.Rows()})
}
