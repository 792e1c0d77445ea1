package recorder

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat"

	"gobuggy/host/monitor"
)

// Recorder files incoming readings into runs. A run ends when the vehicle
// finishes a retrace, which shows up as the turn sequence going from
// non-empty back to empty.
//
// A retrace started before any turn was recorded (a white marker on the
// first leg, for instance) leaves the turn sequence empty throughout, and
// the previous-leg counter stays 0 at step 0. Nothing in the telemetry marks
// it, so such a retrace does not split the run.
type Recorder struct {
	store  *Store
	device string
	newID  func() uuid.UUID

	run       uuid.UUID
	seq       int
	lastTurns string
	runs      int
}

// New creates a recorder writing to store
func New(store *Store, device string) *Recorder {
	return &Recorder{store: store, device: device, newID: uuid.New}
}

// Record stores one reading, opening a new run first when needed
func (r *Recorder) Record(ctx context.Context, rd monitor.Reading) error {
	if r.run == uuid.Nil || (r.lastTurns != "" && rd.Frame.Turns == "") {
		if err := r.startRun(ctx, rd.At); err != nil {
			return err
		}
	}
	if err := r.store.InsertFrame(ctx, r.run, r.seq, rd); err != nil {
		return err
	}
	r.seq++
	r.lastTurns = rd.Frame.Turns
	return nil
}

func (r *Recorder) startRun(ctx context.Context, at time.Time) error {
	run := Run{ID: r.newID(), Device: r.device, StartedAt: at}
	if err := r.store.CreateRun(ctx, run); err != nil {
		return errors.Wrap(err, "start run")
	}
	r.run = run.ID
	r.seq = 0
	r.runs++
	return nil
}

// Consume records everything from readings until the channel closes or ctx
// is done.
func (r *Recorder) Consume(ctx context.Context, readings <-chan monitor.Reading) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case rd, ok := <-readings:
			if !ok {
				return nil
			}
			if err := r.Record(ctx, rd); err != nil {
				return err
			}
		}
	}
}

// Run returns the current run id, uuid.Nil before the first reading
func (r *Recorder) Run() uuid.UUID { return r.run }

// Runs returns how many runs this recorder has opened
func (r *Recorder) Runs() int { return r.runs }

// Summary describes one stored run
type Summary struct {
	Run        Run
	Frames     int
	HueMean    float64
	HueStdDev  float64
	Turns      string
	Duration   time.Duration
	Categories map[string]int
}

// Summarize computes per-run statistics from its frames
func Summarize(run Run, frames []FrameRow) Summary {
	s := Summary{Run: run, Frames: len(frames), Categories: make(map[string]int)}
	if len(frames) == 0 {
		return s
	}

	var hues []float64
	for i, f := range frames {
		if len(f.Frame.Turns) >= len(s.Turns) {
			s.Turns = f.Frame.Turns
		}
		// no marker has been read yet
		if f.Frame.Clear == 0 {
			continue
		}
		hues = append(hues, f.Frame.Hue)
		// every driving tick repeats the last marker reading
		if i == 0 || frames[i-1].Frame != f.Frame {
			s.Categories[f.Category]++
		}
	}
	switch len(hues) {
	case 0:
	case 1:
		s.HueMean = hues[0]
	default:
		s.HueMean, s.HueStdDev = stat.MeanStdDev(hues, nil)
	}
	s.Duration = frames[len(frames)-1].RecordedAt.Sub(frames[0].RecordedAt)
	return s
}

// Summaries loads and summarizes every stored run
func (s *Store) Summaries(ctx context.Context) ([]Summary, error) {
	runs, err := s.Runs(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Summary, 0, len(runs))
	for _, run := range runs {
		frames, err := s.Frames(ctx, run.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, Summarize(run, frames))
	}
	return out, nil
}
