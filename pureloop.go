// Package pureloop provides a high-level façade over the dispatch engine for
// building applications whose logic is a pure function of state and
// messages, with all I/O expressed as inert command descriptions executed by
// pluggable interpreters. Most applications interact with this package by:
//  1. Declaring a core.Program (init + update table of pure handlers)
//  2. Creating a Runtime via New() (optionally overriding the default
//     interpreter registry or logger)
//  3. Driving it synchronously (Run) or consuming streamed transitions
//     (Start)
//
// The façade delegates orchestration to engine.Engine while keeping setup
// ergonomics concise. Defaults are safe for local development and testing:
// an interpreter registry with the timer and in-memory storage families
// registered, and a no-op logger. Production deployments register the HTTP
// and model interpreters (or their own families) and supply a structured
// logger.
package pureloop

import (
	"context"

	"github.com/pureloop/pureloop/core"
	"github.com/pureloop/pureloop/engine"
	"github.com/pureloop/pureloop/interp"
	"github.com/pureloop/pureloop/interp/memstore"
	"github.com/pureloop/pureloop/interp/timer"
	"github.com/pureloop/pureloop/logging"
)

// Options configures a Runtime instance.
type Options struct {
	// EngineConfig tunes dispatch behavior (buffering, dispatch budget).
	EngineConfig engine.Config

	// Interpreter executes effects. Defaults to a registry with the timer
	// and in-memory storage families registered.
	Interpreter core.Interpreter

	// Logger defaults to NoOpLogger if nil.
	Logger logging.Logger
}

// Runtime is the high-level façade aggregating the engine and its
// collaborators for one program.
type Runtime struct {
	opts   Options
	engine *engine.Engine
}

// New creates a Runtime for the given program with optional overrides. Any
// unset collaborator is initialized with a local default.
func New(program core.Program, optFns ...func(o *Options)) *Runtime {
	opts := Options{
		EngineConfig: engine.DefaultConfig,
		Interpreter:  interp.NewRegistry(timer.New(), memstore.New()),
		Logger:       logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	e := engine.New(program,
		engine.WithConfig(opts.EngineConfig),
		engine.WithInterpreter(opts.Interpreter),
		engine.WithLogger(opts.Logger),
	)
	return &Runtime{opts: opts, engine: e}
}

// Run drives the program synchronously until quiescence, returning the
// final model. See engine.Engine.Run for the error contract.
func (r *Runtime) Run(ctx context.Context) (any, error) {
	return r.engine.Run(ctx)
}

// Start drives the program asynchronously, streaming one transition per
// applied update handler. See engine.Engine.Start.
func (r *Runtime) Start(ctx context.Context) (string, <-chan engine.Transition, <-chan error, error) {
	return r.engine.Start(ctx)
}
