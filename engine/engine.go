package engine

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/pureloop/pureloop/command"
	"github.com/pureloop/pureloop/core"
	"github.com/pureloop/pureloop/logging"
)

// Config defines tuning parameters for the engine's operational behavior.
type Config struct {
	// TransitionBufferSize sets the channel buffer size for transition
	// streaming in Start. Larger buffers reduce blocking of the dispatch
	// loop when consumers are slow.
	TransitionBufferSize int

	// MaxDispatches bounds how many handler applications a single run may
	// perform, guarding against programs that perpetually re-issue
	// commands. Set to 0 for unlimited.
	MaxDispatches int
}

// DefaultConfig provides defaults suitable for development and tests.
var DefaultConfig = Config{
	TransitionBufferSize: 64,
	MaxDispatches:        0,
}

// Options configures an Engine instance using the functional options
// pattern. The interpreter is the only collaborator without a default: a
// program that issues commands cannot run without one, while a purely
// quiescent program runs fine with it unset.
type Options struct {
	// Config contains operational parameters for the engine behavior.
	Config Config

	// Interpreter executes the effects described by submitted tasks.
	Interpreter core.Interpreter

	// Logger provides structured logging. Defaults to NoOpLogger.
	Logger logging.Logger
}

// WithInterpreter sets the effect interpreter.
func WithInterpreter(i core.Interpreter) func(o *Options) {
	return func(o *Options) { o.Interpreter = i }
}

// WithLogger sets the structured logger.
func WithLogger(l logging.Logger) func(o *Options) {
	return func(o *Options) { o.Logger = l }
}

// WithConfig replaces the engine configuration.
func WithConfig(cfg Config) func(o *Options) {
	return func(o *Options) { o.Config = cfg }
}

// Transition records one applied update: the task that triggered it, the
// normalized message delivered to the handler, and the model the handler
// produced. Start streams one Transition per handler application, in
// application order.
type Transition struct {
	ID         string       // unique id for this dispatch
	RunID      string       // id of the run this transition belongs to
	Seq        int          // 1-based position within the run
	Tag        string       // transition tag that selected the handler
	Descriptor any          // descriptor of the executed task
	Message    core.Message // normalized outcome delivered to the handler
	Model      any          // model after the handler was applied
}

// Engine drives a single program. It holds the current model between
// transitions and is the model's only writer; application logic observes
// the model solely through handler invocations and streamed transitions.
//
// An Engine may execute multiple runs sequentially or concurrently; each
// run owns an isolated model, so the zero-value restriction is per run, not
// per engine.
type Engine struct {
	program     core.Program
	interpreter core.Interpreter
	logger      logging.Logger
	config      Config

	// Serializes handler application across concurrently started runs of
	// this engine. Within one run the loop is already sequential; the mutex
	// extends the no-overlap guarantee engine-wide.
	dispatchMu sync.Mutex
}

// New creates an Engine for the given program. A nil interpreter is only
// viable for programs that never issue a command.
func New(program core.Program, optFns ...func(o *Options)) *Engine {
	opts := Options{
		Config: DefaultConfig,
		Logger: logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Engine{
		program:     program,
		interpreter: opts.Interpreter,
		logger:      opts.Logger,
		config:      opts.Config,
	}
}

// Run drives the program synchronously: init, then dispatch until the
// program goes quiescent (a handler returns a nil task), the context is
// cancelled, or a fatal condition halts dispatch. It returns the final
// model.
//
// Recoverable failures (interpreter errors, decode failures) are folded
// into error-shaped messages and delivered to handlers; they never abort
// the run. The returned error is non-nil only for fatal conditions:
// unknown transitions, a missing interpreter, context cancellation, or an
// exceeded dispatch budget.
func (e *Engine) Run(ctx context.Context) (any, error) {
	runID := uuid.NewString()
	model, task := e.program.Init()
	e.logger.Debug("run started", "run_id", runID, "quiescent", task == nil)

	seq := 0
	for task != nil {
		if err := ctx.Err(); err != nil {
			return model, err
		}
		seq++
		if e.config.MaxDispatches > 0 && seq > e.config.MaxDispatches {
			return model, fmt.Errorf("dispatch budget of %d exceeded", e.config.MaxDispatches)
		}

		next, tr, err := e.step(ctx, runID, seq, model, task)
		if err != nil {
			e.logger.Error("dispatch halted", "run_id", runID, "tag", task.Tag(), "error", err)
			return model, err
		}
		model = tr.Model
		task = next
	}

	e.logger.Debug("run quiescent", "run_id", runID, "dispatches", seq)
	return model, nil
}

// Start drives the program asynchronously, streaming one Transition per
// applied handler. It returns the run id, the transition stream, and a
// terminal error channel (buffered size 1). Both channels are closed when
// the run completes, fails fatally, or the context is cancelled.
func (e *Engine) Start(ctx context.Context) (string, <-chan Transition, <-chan error, error) {
	runID := uuid.NewString()
	transitions := make(chan Transition, e.config.TransitionBufferSize)
	errs := make(chan error, 1)

	model, task := e.program.Init()
	e.logger.Debug("run started", "run_id", runID, "quiescent", task == nil)

	go func() {
		defer close(transitions)
		defer close(errs)

		seq := 0
		for task != nil {
			if err := ctx.Err(); err != nil {
				errs <- err
				return
			}
			seq++
			if e.config.MaxDispatches > 0 && seq > e.config.MaxDispatches {
				errs <- fmt.Errorf("dispatch budget of %d exceeded", e.config.MaxDispatches)
				return
			}

			next, tr, err := e.step(ctx, runID, seq, model, task)
			if err != nil {
				e.logger.Error("dispatch halted", "run_id", runID, "tag", task.Tag(), "error", err)
				errs <- err
				return
			}

			select {
			case transitions <- tr:
			case <-ctx.Done():
				errs <- ctx.Err()
				return
			}

			model = tr.Model
			task = next
		}
		e.logger.Debug("run quiescent", "run_id", runID, "dispatches", seq)
	}()

	return runID, transitions, errs, nil
}

// step executes one Awaiting cycle: submit the task to the interpreter,
// normalize the raw outcome, look up and apply the handler. The returned
// Transition carries the replacement model; the returned task is the next
// effect to perform (nil for quiescence).
func (e *Engine) step(
	ctx context.Context,
	runID string,
	seq int,
	model any,
	task *command.Task,
) (*command.Task, Transition, error) {
	if e.interpreter == nil {
		return nil, Transition{}, fmt.Errorf("no interpreter configured but task %q was issued", task.Tag())
	}

	// Resolve the handler before executing the effect: an unroutable task
	// is a wiring error and must not trigger I/O.
	handler, ok := e.program.Update[task.Tag()]
	if !ok {
		return nil, Transition{}, &core.UnknownTransitionError{Tag: task.Tag()}
	}

	msg := e.resolve(ctx, task)

	// Handler application is the serialization point: no two handler
	// invocations overlap, and the next task is not submitted until the
	// handler has fully returned.
	e.dispatchMu.Lock()
	newModel, next := handler(msg, model)
	e.dispatchMu.Unlock()

	tr := Transition{
		ID:         uuid.NewString(),
		RunID:      runID,
		Seq:        seq,
		Tag:        task.Tag(),
		Descriptor: task.Descriptor(),
		Message:    msg,
		Model:      newModel,
	}

	e.logger.Debug("transition applied",
		"run_id", runID, "seq", seq, "tag", tr.Tag, "result", string(msg.Result))
	return next, tr, nil
}

// resolve executes the task's effect and normalizes the raw outcome into a
// message: interpreter failures become error messages wrapping EffectError,
// and when the command carries a decoder a decode failure is remapped to an
// error message with the same sequencing as a success.
func (e *Engine) resolve(ctx context.Context, task *command.Task) core.Message {
	raw, err := e.interpreter.Execute(ctx, task.Descriptor())
	if err != nil {
		return core.Failure(&core.EffectError{Cause: err})
	}
	if d := task.Decoder(); d != nil {
		decoded, err := d(raw)
		if err != nil {
			return core.Failure(err)
		}
		return core.Success(decoded)
	}
	return core.Success(raw)
}
