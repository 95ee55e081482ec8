package engine

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pureloop/pureloop/command"
	"github.com/pureloop/pureloop/core"
	"github.com/pureloop/pureloop/decode"
	"github.com/pureloop/pureloop/effect"
	"github.com/pureloop/pureloop/internal/testutil"
)

// greetingModel mirrors the reference greeting application: a program that
// POSTs a greeting on startup and folds the outcome into its model.
type greetingModel struct {
	Greeting any
	Err      error
}

func greetingDecoder() decode.Decoder {
	return decode.Object(map[string]any{
		"object": "greeting",
		"name":   decode.String(),
	})
}

func newGreetingTask() *command.Task {
	return command.Build(effect.HTTP{
		Method: "POST",
		URL:    "http://example.com/greetings",
		Data:   map[string]any{"hello": "world"},
		JSON:   true,
	}).WithDecoder(greetingDecoder()).Send("greetingCreation")
}

func greetingProgram() core.Program {
	return core.Program{
		Init: func() (any, *command.Task) {
			return greetingModel{}, newGreetingTask()
		},
		Update: core.UpdateTable{
			"greetingCreation": func(msg core.Message, model any) (any, *command.Task) {
				m := model.(greetingModel)
				if msg.IsError() {
					m.Err = msg.Err
					return m, nil
				}
				m.Greeting = msg.Data
				return m, nil
			},
		},
	}
}

// The initial command is observable without any interpreter: inspecting the
// task returned by init yields the literal descriptor.
func TestInitCommandInspection(t *testing.T) {
	_, task := greetingProgram().Init()

	require.NotNil(t, task)
	assert.Equal(t, "greetingCreation", task.Tag())
	assert.Equal(t, effect.HTTP{
		Method: "POST",
		URL:    "http://example.com/greetings",
		Data:   map[string]any{"hello": "world"},
		JSON:   true,
	}, command.Inspect(task))
}

// Handlers are pure: invoking one twice with identical inputs yields
// structurally identical results.
func TestHandlerPurity(t *testing.T) {
	update := greetingProgram().Update["greetingCreation"]
	msg := core.Success(map[string]any{"object": "greeting", "name": "Ada"})
	model := greetingModel{}

	m1, t1 := update(msg, model)
	m2, t2 := update(msg, model)

	assert.Equal(t, m1, m2)
	assert.Nil(t, t1)
	assert.Nil(t, t2)
	assert.Equal(t, greetingModel{Greeting: map[string]any{"object": "greeting", "name": "Ada"}}, m1)
}

func TestRunSuccessfulTransition(t *testing.T) {
	interp := testutil.NewScriptedInterpreter(
		testutil.Succeed(map[string]any{"object": "greeting", "name": "Ada"}),
	)
	e := New(greetingProgram(), WithInterpreter(interp))

	final, err := e.Run(context.Background())
	require.NoError(t, err)

	m := final.(greetingModel)
	assert.NoError(t, m.Err)
	assert.Equal(t, map[string]any{"object": "greeting", "name": "Ada"}, m.Greeting)

	executed := interp.Executed()
	require.Len(t, executed, 1)
	assert.Equal(t, "http://example.com/greetings", executed[0].(effect.HTTP).URL)
}

// A raw result that fails the success decoder is remapped to an
// error-shaped message; the handler folds it into the model and the
// greeting stays unchanged.
func TestRunDecodeFailureRemap(t *testing.T) {
	interp := testutil.NewScriptedInterpreter(
		testutil.Succeed(map[string]any{"object": "error", "reason": "bad request"}),
	)
	e := New(greetingProgram(), WithInterpreter(interp))

	final, err := e.Run(context.Background())
	require.NoError(t, err)

	m := final.(greetingModel)
	assert.Nil(t, m.Greeting)
	var fm *decode.FieldMismatchError
	require.ErrorAs(t, m.Err, &fm)
	assert.Equal(t, "object", fm.Path)
}

func TestRunEffectFailure(t *testing.T) {
	cause := errors.New("connection refused")
	interp := testutil.NewScriptedInterpreter(testutil.Fail(cause))
	e := New(greetingProgram(), WithInterpreter(interp))

	final, err := e.Run(context.Background())
	require.NoError(t, err)

	m := final.(greetingModel)
	var ee *core.EffectError
	require.ErrorAs(t, m.Err, &ee)
	assert.ErrorIs(t, ee, cause)
}

// A task tagged for a transition absent from the update table halts
// dispatch fatally, before any effect is performed.
func TestRunUnknownTransitionIsFatal(t *testing.T) {
	interp := testutil.NewScriptedInterpreter()
	program := core.Program{
		Init: func() (any, *command.Task) {
			return nil, command.Build("whatever").Send("doesNotExist")
		},
		Update: core.UpdateTable{},
	}
	e := New(program, WithInterpreter(interp))

	_, err := e.Run(context.Background())
	var ut *core.UnknownTransitionError
	require.ErrorAs(t, err, &ut)
	assert.Equal(t, "doesNotExist", ut.Tag)
	assert.Empty(t, interp.Executed())
}

func TestRunWithoutInterpreterFailsWhenTaskIssued(t *testing.T) {
	e := New(greetingProgram())
	_, err := e.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no interpreter configured")
}

func TestRunQuiescentProgramNeedsNoInterpreter(t *testing.T) {
	program := core.Program{
		Init:   func() (any, *command.Task) { return "steady", nil },
		Update: core.UpdateTable{},
	}
	final, err := New(program).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "steady", final)
}

// pingPongProgram re-issues a command forever; used to exercise the
// dispatch budget and multi-transition streaming.
func pingPongProgram(interpResults int) (core.Program, *testutil.ScriptedInterpreter) {
	outcomes := make([]testutil.Outcome, interpResults)
	for i := range outcomes {
		outcomes[i] = testutil.Succeed(i)
	}
	interp := testutil.NewScriptedInterpreter(outcomes...)
	program := core.Program{
		Init: func() (any, *command.Task) {
			return 0, command.Build(effect.Timer{Duration: 0}).Send("tick")
		},
		Update: core.UpdateTable{
			"tick": func(msg core.Message, model any) (any, *command.Task) {
				count := model.(int) + 1
				return count, command.Build(effect.Timer{Duration: 0}).Send("tick")
			},
		},
	}
	return program, interp
}

func TestRunDispatchBudget(t *testing.T) {
	program, interp := pingPongProgram(100)
	e := New(program,
		WithInterpreter(interp),
		WithConfig(Config{TransitionBufferSize: 8, MaxDispatches: 5}),
	)

	final, err := e.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dispatch budget")
	assert.Equal(t, 5, final)
}

func TestRunContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	program, interp := pingPongProgram(10)
	_, err := New(program, WithInterpreter(interp)).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStartStreamsTransitionsInOrder(t *testing.T) {
	program, interp := pingPongProgram(3)
	e := New(program,
		WithInterpreter(interp),
		WithConfig(Config{TransitionBufferSize: 8, MaxDispatches: 3}),
	)

	runID, transitions, errs, err := e.Start(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, runID)

	var seen []Transition
	for tr := range transitions {
		seen = append(seen, tr)
	}
	terminal := <-errs
	require.Error(t, terminal) // budget exhausts the ping-pong program

	require.Len(t, seen, 3)
	for i, tr := range seen {
		assert.Equal(t, i+1, tr.Seq)
		assert.Equal(t, runID, tr.RunID)
		assert.Equal(t, "tick", tr.Tag)
		assert.Equal(t, core.ResultSuccess, tr.Message.Result)
		assert.Equal(t, i+1, tr.Model)
		assert.NotEmpty(t, tr.ID)
	}
}

func TestStartCompletesAndClosesChannels(t *testing.T) {
	interp := testutil.NewScriptedInterpreter(
		testutil.Succeed(map[string]any{"object": "greeting", "name": "Ada"}),
	)
	e := New(greetingProgram(), WithInterpreter(interp))

	_, transitions, errs, err := e.Start(context.Background())
	require.NoError(t, err)

	tr, ok := <-transitions
	require.True(t, ok)
	assert.Equal(t, 1, tr.Seq)

	_, ok = <-transitions
	assert.False(t, ok, "transitions channel closes after quiescence")
	assert.NoError(t, <-errs)
}

// slowInterpreter resolves from its own goroutines with jittered delays to
// exercise handler serialization under interpreter concurrency.
type slowInterpreter struct{}

func (slowInterpreter) Execute(ctx context.Context, descriptor any) (any, error) {
	done := make(chan any, 1)
	go func() {
		time.Sleep(time.Duration(time.Now().UnixNano()%3) * time.Millisecond)
		done <- descriptor
	}()
	select {
	case v := <-done:
		return v, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Even with several runs in flight and an interpreter resolving on its own
// goroutines, handler invocations never overlap.
func TestHandlerInvocationsNeverOverlap(t *testing.T) {
	var inHandler atomic.Int32
	var overlapped atomic.Bool

	program := core.Program{
		Init: func() (any, *command.Task) {
			return 0, command.Build("probe").Send("observe")
		},
		Update: core.UpdateTable{
			"observe": func(msg core.Message, model any) (any, *command.Task) {
				if !inHandler.CompareAndSwap(0, 1) {
					overlapped.Store(true)
				}
				time.Sleep(time.Millisecond)
				inHandler.Store(0)

				count := model.(int) + 1
				if count < 5 {
					return count, command.Build("probe").Send("observe")
				}
				return count, nil
			},
		},
	}
	e := New(program, WithInterpreter(slowInterpreter{}))

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			final, err := e.Run(context.Background())
			assert.NoError(t, err)
			assert.Equal(t, 5, final)
		}()
	}
	wg.Wait()

	assert.False(t, overlapped.Load(), "handler invocations must be strictly serialized")
}
