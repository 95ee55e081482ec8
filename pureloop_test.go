package pureloop

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pureloop/pureloop/command"
	"github.com/pureloop/pureloop/core"
	"github.com/pureloop/pureloop/decode"
	"github.com/pureloop/pureloop/effect"
)

// counterModel drives the default interpreters end to end: tick a timer,
// persist the count, read it back.
type counterModel struct {
	Count  int
	Stored any
	Err    error
}

func counterProgram(limit int) core.Program {
	tick := func() *command.Task {
		return command.Build(effect.Timer{Duration: time.Microsecond}).Send("ticked")
	}
	return core.Program{
		Init: func() (any, *command.Task) {
			return counterModel{}, tick()
		},
		Update: core.UpdateTable{
			"ticked": func(msg core.Message, model any) (any, *command.Task) {
				m := model.(counterModel)
				if msg.IsError() {
					m.Err = msg.Err
					return m, nil
				}
				m.Count++
				return m, command.Build(effect.Storage{
					Op:    effect.StoragePut,
					Key:   "count",
					Value: m.Count,
				}).Send("stored")
			},
			"stored": func(msg core.Message, model any) (any, *command.Task) {
				m := model.(counterModel)
				if msg.IsError() {
					m.Err = msg.Err
					return m, nil
				}
				if m.Count < limit {
					return m, command.Build(effect.Timer{Duration: time.Microsecond}).Send("ticked")
				}
				return m, command.Build(effect.Storage{
					Op:  effect.StorageGet,
					Key: "count",
				}).WithDecoder(decode.Number()).Send("loaded")
			},
			"loaded": func(msg core.Message, model any) (any, *command.Task) {
				m := model.(counterModel)
				if msg.IsError() {
					m.Err = msg.Err
					return m, nil
				}
				m.Stored = msg.Data
				return m, nil
			},
		},
	}
}

// The default runtime serves timer and storage effects with no
// configuration at all.
func TestRuntimeDefaultsEndToEnd(t *testing.T) {
	rt := New(counterProgram(3))

	final, err := rt.Run(context.Background())
	require.NoError(t, err)

	m := final.(counterModel)
	require.NoError(t, m.Err)
	assert.Equal(t, 3, m.Count)
	assert.Equal(t, 3, m.Stored)
}

func TestRuntimeStartStreams(t *testing.T) {
	rt := New(counterProgram(1))

	runID, transitions, errs, err := rt.Start(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, runID)

	var tags []string
	for tr := range transitions {
		tags = append(tags, tr.Tag)
	}
	require.NoError(t, <-errs)
	assert.Equal(t, []string{"ticked", "stored", "loaded"}, tags)
}
