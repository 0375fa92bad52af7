// Package writer implements the live console stats writer: a single worker
// that drains virtual-user lifecycle and outcome events from one mailbox,
// mutates the run counters, and renders a summary on a fixed flush period.
//
// The mailbox is fed by both the event source and the flush ticker, so a
// flush can never observe a half-applied mutation: everything is applied in
// arrival order by the one worker goroutine. Nothing here ever aborts the
// run; anomalies degrade to "log and continue" or are dropped silently.
package writer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Illyk/perfgun/internal/props"
	"github.com/Illyk/perfgun/internal/stats"
)

// DefaultFlushPeriod is used when the config does not set one.
const DefaultFlushPeriod = 5 * time.Second

const mailboxSize = 1024

// SummaryBuilder turns the current counters into a rendered report and
// decides whether the run is complete. The writer treats it as a pure
// function of its inputs; it is the sole authority on completeness.
type SummaryBuilder interface {
	Build(data *stats.RunData, now time.Time) (report string, complete bool)
}

// Config configures a Writer.
type Config struct {
	// Catalog is the ordered scenario catalog. Required, at least one entry.
	Catalog []stats.Scenario

	// FlushPeriod is the interval between summary renders.
	// Defaults to DefaultFlushPeriod; must be at least one second.
	FlushPeriod time.Duration

	// Summary builds the rendered report on every flush. Required.
	Summary SummaryBuilder

	// Out receives the rendered reports. Defaults to os.Stdout.
	Out io.Writer

	// Logger receives consistency errors and the startup debug line.
	// Defaults to a no-op logger.
	Logger *zap.Logger

	// Props resolves run metadata for the startup debug line.
	// Defaults to a resolver over the process environment.
	Props *props.Resolver

	// Clock is a test hook. Defaults to time.Now.
	Clock func() time.Time
}

type flushTick struct{}

type stopRequest struct {
	cause string
	crash bool
	done  chan struct{}
}

// Writer aggregates events for one run. Create with Start, feed with
// Dispatch, terminate with Stop or Crash.
type Writer struct {
	cfg  Config
	data *stats.RunData

	mailbox chan any
	stopped chan struct{}

	cancelTicker context.CancelFunc
	stopOnce     sync.Once

	runID string
}

// Start allocates the run state, seeds the scenario catalog, starts the
// worker and the flush ticker, and moves the writer to Running.
func Start(cfg Config) (*Writer, error) {
	if len(cfg.Catalog) == 0 {
		return nil, errors.New("writer: scenario catalog is empty")
	}
	if cfg.Summary == nil {
		return nil, errors.New("writer: summary builder is required")
	}
	if cfg.FlushPeriod == 0 {
		cfg.FlushPeriod = DefaultFlushPeriod
	}
	if cfg.FlushPeriod < time.Second {
		return nil, fmt.Errorf("writer: flush period %v is below one second", cfg.FlushPeriod)
	}
	if cfg.Out == nil {
		cfg.Out = os.Stdout
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Props == nil {
		cfg.Props = props.NewResolver(props.ResolverConfig{})
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}

	w := &Writer{
		cfg:     cfg,
		data:    stats.NewRunData(cfg.Catalog, cfg.Clock()),
		mailbox: make(chan any, mailboxSize),
		stopped: make(chan struct{}),
		runID:   uuid.NewString(),
	}

	cfg.Logger.Debug("console stats writer started",
		zap.String("runId", w.runID),
		zap.String("buildId", cfg.Props.Get("build.id")),
		zap.String("testType", cfg.Props.Get("test.type")),
		zap.String("environment", cfg.Props.Get("environment")),
		zap.String("simulation", cfg.Props.Get("simulation.name")),
		zap.Duration("flushPeriod", cfg.FlushPeriod),
	)

	tickerCtx, cancel := context.WithCancel(context.Background())
	w.cancelTicker = cancel

	go w.runTicker(tickerCtx)
	go w.run()

	return w, nil
}

// RunID returns the identifier assigned to this run at initialization.
func (w *Writer) RunID() string {
	return w.runID
}

// Dispatch delivers one event into the worker's mailbox. Recognized shapes
// are stats.UserStart, stats.UserEnd, stats.Response and stats.Error; any
// other value is accepted and dropped without effect, so forward-incompatible
// event streams pass through harmlessly. After the writer has stopped,
// events are dropped rather than buffered.
func (w *Writer) Dispatch(ev any) {
	select {
	case <-w.stopped:
	case w.mailbox <- ev:
	}
}

// Stop performs an ordinary stop: the flush ticker is cancelled and, unless a
// previous flush already reported the run complete, one final synchronous
// flush runs before the writer terminates. The caller therefore always
// observes at least one fully-accounted summary. Stop is safe to call more
// than once; later calls just wait for termination.
func (w *Writer) Stop(ctx context.Context) error {
	return w.stop(ctx, stopRequest{done: make(chan struct{})})
}

// Crash stops the writer after an abnormal termination signal. The cause is
// recorded in the log; no final flush is forced and no cleanup beyond the
// ordinary worker teardown is attempted.
func (w *Writer) Crash(cause string) {
	_ = w.stop(context.Background(), stopRequest{cause: cause, crash: true, done: make(chan struct{})})
}

func (w *Writer) stop(ctx context.Context, req stopRequest) error {
	w.stopOnce.Do(func() {
		w.cancelTicker()
		w.mailbox <- req
	})
	select {
	case <-w.stopped:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("writer: waiting for shutdown: %w", ctx.Err())
	}
}

// runTicker fires a flush into the mailbox at the configured period until
// cancelled. A tick racing cancellation may still enqueue one extra flush;
// that is harmless because a flush only reads the counters.
func (w *Writer) runTicker(ctx context.Context) {
	ticker := time.NewTicker(w.cfg.FlushPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			select {
			case w.mailbox <- flushTick{}:
			case <-ctx.Done():
				return
			}
		}
	}
}

// run is the worker loop. It owns the RunData exclusively: every mutation
// and every flush happens here, one message at a time.
func (w *Writer) run() {
	defer close(w.stopped)

	for msg := range w.mailbox {
		switch m := msg.(type) {
		case stats.UserStart:
			if err := w.data.UserStart(m.Scenario); err != nil {
				w.cfg.Logger.Error("internal consistency error", zap.Error(err))
			}
		case stats.UserEnd:
			if err := w.data.UserDone(m.Scenario); err != nil {
				w.cfg.Logger.Error("internal consistency error", zap.Error(err))
			}
		case stats.Response:
			w.data.RecordResponse(m.Groups, m.Name, m.Outcome, m.Message, m.Duration)
		case stats.Error:
			w.data.RecordError(m.Message)
		case flushTick:
			w.flush()
		case stopRequest:
			if m.crash {
				w.cfg.Logger.Debug("run crashed",
					zap.String("runId", w.runID),
					zap.String("cause", m.cause))
			} else if !w.data.Complete {
				w.flush()
			}
			close(m.done)
			return
		default:
			// Unknown event shape: tolerated for protocol evolution.
		}
	}
}

func (w *Writer) flush() {
	report, complete := w.cfg.Summary.Build(w.data, w.cfg.Clock())
	fmt.Fprint(w.cfg.Out, report)
	if complete {
		w.data.Complete = true
	}
}
