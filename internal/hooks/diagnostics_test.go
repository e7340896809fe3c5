package hooks

import (
	"errors"
	"slices"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureSink struct {
	events []Event
}

func (c *captureSink) Notify(ev Event) {
	c.events = append(c.events, ev)
}

func (c *captureSink) messages() []string {
	out := make([]string, len(c.events))
	for i, ev := range c.events {
		out[i] = ev.Message
	}
	return out
}

func exercise(t *testing.T, r *Registry) {
	t.Helper()
	noop := Action(func([]Value) error { return nil })
	require.NoError(t, r.Bind("greet", noop, 5))
	require.NoError(t, r.Bind("greet", noop, 20))
	require.NoError(t, r.Run("greet", "world"))
	_, err := r.Filter("greet", 1)
	require.NoError(t, err)
	require.NoError(t, r.Run("silent"))
}

func TestDiagnostics_NoneSuppressesAll(t *testing.T) {
	sink := &captureSink{}
	r := New(WithSink(sink))
	r.SetDiagnosticLevel(LevelNone)

	exercise(t, r)
	assert.Empty(t, sink.events)
}

func TestDiagnostics_AllEmitsEveryEvent(t *testing.T) {
	sink := &captureSink{}
	r := New(WithSink(sink), WithDispatchIDs(NewFixedGenerator("d-1", "d-2", "d-3")))
	r.SetDiagnosticLevel(LevelAll)

	exercise(t, r)
	assert.Equal(t, []string{
		"Binding callback to 'greet' (priority 5)",
		"Binding callback to 'greet' (priority 20)",
		"Running hook 'greet'",
		"Calling callback for 'greet'",
		"Calling callback for 'greet'",
		"Filtering via hook 'greet'",
		"Calling filter callback for 'greet'",
		"Calling filter callback for 'greet'",
		"Running hook 'silent'",
	}, sink.messages())

	for i, ev := range sink.events {
		assert.Equal(t, int64(i+1), ev.Seq, "events are sequenced")
	}
	assert.Equal(t, "", sink.events[0].Dispatch, "bind events carry no dispatch")
	assert.Equal(t, 20, sink.events[1].Priority)
	assert.Equal(t, "d-1", sink.events[2].Dispatch)
	assert.Equal(t, "d-1", sink.events[4].Dispatch)
	assert.Equal(t, "d-2", sink.events[5].Dispatch)
	assert.Equal(t, "d-3", sink.events[8].Dispatch)
}

func TestDiagnostics_CategoryFiltering(t *testing.T) {
	tests := []struct {
		name  string
		level Level
		want  int
	}{
		{"events", LevelEvents, 3},
		{"calls", LevelCalls, 4},
		{"binds", LevelBinds, 2},
		{"interaction", LevelInteraction, 5},
		{"binds|calls", LevelBinds | LevelCalls, 6},
		{"all", LevelAll, 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sink := &captureSink{}
			r := New(WithSink(sink), WithLevel(tt.level))
			exercise(t, r)
			assert.Len(t, sink.events, tt.want)
			for _, ev := range sink.events {
				assert.True(t, tt.level.Allows(ev.Category), "%s leaked through %s", ev.Category, tt.level)
			}
		})
	}
}

func TestDiagnostics_NoSinkIsSilent(t *testing.T) {
	r := New(WithLevel(LevelAll), WithDispatchIDs(NewFixedGenerator()))

	// An exhausted generator would panic if the registry asked for an id.
	assert.NotPanics(t, func() { exercise(t, r) })
}

func TestDiagnostics_RunNotifiesBeforeEachCall(t *testing.T) {
	sink := &captureSink{}
	r := New(WithSink(sink), WithLevel(LevelCalls))
	boom := errors.New("boom")

	require.NoError(t, r.Bind("h", Action(func([]Value) error {
		sink.Notify(Event{Message: "inside"})
		return nil
	}), 1))
	require.NoError(t, r.Bind("h", Action(func([]Value) error { return boom }), 2))
	require.NoError(t, r.Bind("h", Action(func([]Value) error { return nil }), 3))

	require.ErrorIs(t, r.Run("h"), boom)
	assert.Equal(t, []string{
		"Calling callback for 'h'",
		"inside",
		"Calling callback for 'h'",
	}, sink.messages())
}

func TestDiagnostics_SinkFunc(t *testing.T) {
	var got []Level
	r := New(WithSink(SinkFunc(func(ev Event) { got = append(got, ev.Category) })), WithLevel(LevelAll))

	require.NoError(t, r.Run("h"))
	assert.Equal(t, []Level{LevelInteraction | LevelEvents}, got)
}

func TestDiagnostics_LevelAccessor(t *testing.T) {
	r := New()
	assert.Equal(t, LevelNone, r.Level())
	r.SetDiagnosticLevel(LevelBinds | LevelEvents)
	assert.Equal(t, LevelBinds|LevelEvents, r.Level())
}

func TestDiagnostics_ConcurrentBindEventsFollowBindingOrder(t *testing.T) {
	var mu sync.Mutex
	var notified []int
	sink := SinkFunc(func(ev Event) {
		mu.Lock()
		defer mu.Unlock()
		notified = append(notified, ev.Priority)
	})
	r := New(WithSink(sink), WithLevel(LevelBinds))
	noop := Action(func([]Value) error { return nil })

	const goroutines = 64
	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			_ = r.Bind("h", noop, p)
		}(i)
	}
	wg.Wait()

	bs := r.Bindings("h")
	slices.SortFunc(bs, func(a, b Binding) int { return int(a.Seq - b.Seq) })
	bound := make([]int, len(bs))
	for i, b := range bs {
		bound[i] = b.Priority
	}

	require.Len(t, notified, goroutines)
	assert.Equal(t, bound, notified)
}
