package pipeline_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360/pipewright/element"
	"github.com/c360/pipewright/errors"
	"github.com/c360/pipewright/launch"
	"github.com/c360/pipewright/metric"
	"github.com/c360/pipewright/pipeline"
	"github.com/c360/pipewright/simengine"
	"github.com/c360/pipewright/testutil"
)

func parseDesc(t *testing.T, text string) launch.Descriptor {
	t.Helper()
	desc, verr := launch.NewParser(element.Builtin()).Parse(text)
	require.Nil(t, verr)
	return desc
}

func newTestRegistry(t *testing.T, opts ...pipeline.Option) *pipeline.Registry {
	t.Helper()
	engine := simengine.New(simengine.WithBufferInterval(time.Millisecond))
	opts = append([]pipeline.Option{pipeline.WithPollInterval(5 * time.Millisecond)}, opts...)
	r := pipeline.NewRegistry(engine, opts...)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = r.Shutdown(ctx)
	})
	return r
}

func TestCreateStartsBuilt(t *testing.T) {
	r := newTestRegistry(t)

	id, err := r.Create(context.Background(), parseDesc(t, "videotestsrc ! fakesink"))
	require.NoError(t, err)
	require.Len(t, id, 8)

	status, err := r.Status(id)
	require.NoError(t, err)
	assert.Equal(t, pipeline.StateBuilt, status.State)
	assert.Equal(t, "videotestsrc ! fakesink", status.Description)
	assert.Zero(t, status.Elapsed)
}

func TestCreateBuildFailure(t *testing.T) {
	engine := &testutil.Engine{BuildErr: fmt.Errorf("no such element factory")}
	r := pipeline.NewRegistry(engine)

	_, err := r.Create(context.Background(), parseDesc(t, "videotestsrc ! fakesink"))
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrEngineBuild)
	assert.Empty(t, r.List())
}

func TestRunSyncCompletes(t *testing.T) {
	r := newTestRegistry(t)

	id, err := r.Create(context.Background(), parseDesc(t, "videotestsrc num-buffers=3 ! fakesink"))
	require.NoError(t, err)

	result, err := r.Run(context.Background(), id, pipeline.ModeSync, 5*time.Second)
	require.NoError(t, err)
	assert.Equal(t, pipeline.StateCompleted, result.State)
	assert.False(t, result.TimedOut)

	status, err := r.Status(id)
	require.NoError(t, err)
	assert.Equal(t, pipeline.StateCompleted, status.State)
}

func TestRunSyncTimeoutForceStops(t *testing.T) {
	r := newTestRegistry(t)

	// no buffer budget: this pipeline never completes on its own
	id, err := r.Create(context.Background(), parseDesc(t, "videotestsrc ! fakesink"))
	require.NoError(t, err)

	start := time.Now()
	result, err := r.Run(context.Background(), id, pipeline.ModeSync, 100*time.Millisecond)
	require.NoError(t, err)
	assert.True(t, result.TimedOut)
	assert.Equal(t, pipeline.StateStopped, result.State)
	assert.Less(t, time.Since(start), 3*time.Second)

	// the instance must not be left running unobserved
	status, err := r.Status(id)
	require.NoError(t, err)
	assert.Equal(t, pipeline.StateStopped, status.State)
}

func TestRunAsyncReachesCompleted(t *testing.T) {
	r := newTestRegistry(t)

	id, err := r.Create(context.Background(), parseDesc(t, "videotestsrc num-buffers=3 ! fakesink"))
	require.NoError(t, err)

	result, err := r.Run(context.Background(), id, pipeline.ModeAsync, 0)
	require.NoError(t, err)
	assert.Equal(t, pipeline.StateRunning, result.State)

	require.Eventually(t, func() bool {
		status, err := r.Status(id)
		return err == nil && status.State == pipeline.StateCompleted
	}, 5*time.Second, 5*time.Millisecond)
}

func TestDoubleRunRejected(t *testing.T) {
	r := newTestRegistry(t)

	id, err := r.Create(context.Background(), parseDesc(t, "videotestsrc ! fakesink"))
	require.NoError(t, err)

	_, err = r.Run(context.Background(), id, pipeline.ModeAsync, 0)
	require.NoError(t, err)

	_, err = r.Run(context.Background(), id, pipeline.ModeAsync, 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrAlreadyRunning)
	// a double-run is an illegal transition first, an already-running
	// condition second; both sentinels must match
	assert.ErrorIs(t, err, errors.ErrInvalidTransition)

	// the rejected run must not disturb the live one
	status, err := r.Status(id)
	require.NoError(t, err)
	assert.Equal(t, pipeline.StateRunning, status.State)
}

func TestRunAfterTerminalRejected(t *testing.T) {
	r := newTestRegistry(t)

	id, err := r.Create(context.Background(), parseDesc(t, "videotestsrc ! fakesink"))
	require.NoError(t, err)
	_, err = r.Stop(context.Background(), id)
	require.NoError(t, err)

	_, err = r.Run(context.Background(), id, pipeline.ModeSync, time.Second)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrInvalidTransition)
}

func TestStartFailureRecordedAsErrorState(t *testing.T) {
	engine := &testutil.Engine{StartErr: fmt.Errorf("could not set pipeline to playing")}
	r := pipeline.NewRegistry(engine)

	id, err := r.Create(context.Background(), parseDesc(t, "videotestsrc ! fakesink"))
	require.NoError(t, err)

	// an engine failure is instance state, not a call failure
	result, err := r.Run(context.Background(), id, pipeline.ModeSync, time.Second)
	require.NoError(t, err)
	assert.Equal(t, pipeline.StateError, result.State)
	assert.Contains(t, result.Error, "could not set pipeline to playing")

	status, err := r.Status(id)
	require.NoError(t, err)
	assert.Equal(t, pipeline.StateError, status.State)
}

func TestErrorInjection(t *testing.T) {
	r := newTestRegistry(t)

	id, err := r.Create(context.Background(), parseDesc(t, "videotestsrc ! identity error-after=2 ! fakesink"))
	require.NoError(t, err)

	result, err := r.Run(context.Background(), id, pipeline.ModeSync, 5*time.Second)
	require.NoError(t, err)
	assert.Equal(t, pipeline.StateError, result.State)
	assert.Contains(t, result.Error, "identity0")

	status, err := r.Status(id)
	require.NoError(t, err)
	assert.Equal(t, pipeline.StateError, status.State)
	assert.NotEmpty(t, status.Messages)
}

func TestIdempotentStop(t *testing.T) {
	r := newTestRegistry(t)

	id, err := r.Create(context.Background(), parseDesc(t, "videotestsrc ! fakesink"))
	require.NoError(t, err)
	_, err = r.Run(context.Background(), id, pipeline.ModeAsync, 0)
	require.NoError(t, err)

	first, err := r.Stop(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, pipeline.StateStopped, first.State)
	assert.False(t, first.AlreadyTerminal)

	second, err := r.Stop(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, pipeline.StateStopped, second.State)
	assert.True(t, second.AlreadyTerminal)
}

func TestStopBuiltInstance(t *testing.T) {
	r := newTestRegistry(t)

	id, err := r.Create(context.Background(), parseDesc(t, "videotestsrc ! fakesink"))
	require.NoError(t, err)

	result, err := r.Stop(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, pipeline.StateStopped, result.State)
}

func TestPauseResume(t *testing.T) {
	r := newTestRegistry(t)

	id, err := r.Create(context.Background(), parseDesc(t, "videotestsrc ! fakesink"))
	require.NoError(t, err)
	_, err = r.Run(context.Background(), id, pipeline.ModeAsync, 0)
	require.NoError(t, err)

	require.NoError(t, r.Pause(id))
	status, err := r.Status(id)
	require.NoError(t, err)
	assert.Equal(t, pipeline.StatePaused, status.State)

	// pausing twice is an illegal transition
	err = r.Pause(id)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrInvalidTransition)

	require.NoError(t, r.Resume(id))
	status, err = r.Status(id)
	require.NoError(t, err)
	assert.Equal(t, pipeline.StateRunning, status.State)
}

func TestRejectedTransitionLeavesStateUntouched(t *testing.T) {
	r := newTestRegistry(t)

	id, err := r.Create(context.Background(), parseDesc(t, "videotestsrc ! fakesink"))
	require.NoError(t, err)

	err = r.Pause(id)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrInvalidTransition)

	err = r.Resume(id)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrInvalidTransition)

	status, err := r.Status(id)
	require.NoError(t, err)
	assert.Equal(t, pipeline.StateBuilt, status.State)
}

func TestUnknownInstance(t *testing.T) {
	r := newTestRegistry(t)

	_, err := r.Status("deadbeef")
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrInstanceNotFound)

	_, err = r.Stop(context.Background(), "deadbeef")
	assert.ErrorIs(t, err, errors.ErrInstanceNotFound)

	_, err = r.Run(context.Background(), "deadbeef", pipeline.ModeAsync, 0)
	assert.ErrorIs(t, err, errors.ErrInstanceNotFound)
}

func TestMessageRingKeepsLastTen(t *testing.T) {
	var polls []pipeline.Poll
	burst := pipeline.Poll{State: pipeline.PollRunning}
	for i := 0; i < 12; i++ {
		burst.Messages = append(burst.Messages, pipeline.Message{
			Time:  time.Now(),
			Level: "info",
			Text:  fmt.Sprintf("message %d", i),
		})
	}
	polls = append(polls, burst, pipeline.Poll{State: pipeline.PollCompleted})

	engine := &testutil.Engine{Polls: polls}
	r := pipeline.NewRegistry(engine, pipeline.WithPollInterval(time.Millisecond))

	id, err := r.Create(context.Background(), parseDesc(t, "videotestsrc ! fakesink"))
	require.NoError(t, err)
	_, err = r.Run(context.Background(), id, pipeline.ModeSync, 5*time.Second)
	require.NoError(t, err)

	status, err := r.Status(id)
	require.NoError(t, err)
	require.Len(t, status.Messages, 10)
	assert.Equal(t, "message 2", status.Messages[0].Text)
	assert.Equal(t, "message 11", status.Messages[9].Text)
}

func TestListSnapshot(t *testing.T) {
	r := newTestRegistry(t)

	var ids []string
	for i := 0; i < 3; i++ {
		id, err := r.Create(context.Background(), parseDesc(t, "videotestsrc ! fakesink"))
		require.NoError(t, err)
		ids = append(ids, id)
	}
	_, err := r.Run(context.Background(), ids[1], pipeline.ModeAsync, 0)
	require.NoError(t, err)

	summaries := r.List()
	require.Len(t, summaries, 3)

	states := make(map[string]pipeline.State)
	for _, s := range summaries {
		states[s.ID] = s.State
	}
	assert.Equal(t, pipeline.StateBuilt, states[ids[0]])
	assert.Equal(t, pipeline.StateRunning, states[ids[1]])

	// creation order is preserved
	for i := 1; i < len(summaries); i++ {
		assert.False(t, summaries[i].Created.Before(summaries[i-1].Created))
	}
}

func TestConcurrentInstancesAreIndependent(t *testing.T) {
	r := newTestRegistry(t)
	const n = 10

	ids := make([]string, n)
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id, err := r.Create(context.Background(), parseDesc(t, "videotestsrc ! fakesink"))
			if err != nil {
				errs[i] = err
				return
			}
			ids[i] = id
			_, errs[i] = r.Run(context.Background(), id, pipeline.ModeAsync, 0)
		}(i)
	}
	wg.Wait()

	seen := make(map[string]bool)
	for i := 0; i < n; i++ {
		require.NoError(t, errs[i])
		require.NotEmpty(t, ids[i])
		assert.False(t, seen[ids[i]], "duplicate id %s", ids[i])
		seen[ids[i]] = true

		status, err := r.Status(ids[i])
		require.NoError(t, err)
		assert.Equal(t, pipeline.StateRunning, status.State)
	}

	// stopping a subset leaves the rest running
	for i := 0; i < n/2; i++ {
		_, err := r.Stop(context.Background(), ids[i])
		require.NoError(t, err)
	}
	for i := 0; i < n; i++ {
		status, err := r.Status(ids[i])
		require.NoError(t, err)
		if i < n/2 {
			assert.Equal(t, pipeline.StateStopped, status.State)
		} else {
			assert.Equal(t, pipeline.StateRunning, status.State)
		}
	}
}

func TestShutdownForceStopsEverything(t *testing.T) {
	engine := simengine.New(simengine.WithBufferInterval(time.Millisecond))
	r := pipeline.NewRegistry(engine, pipeline.WithPollInterval(5*time.Millisecond))

	var ids []string
	for i := 0; i < 3; i++ {
		id, err := r.Create(context.Background(), parseDesc(t, "videotestsrc ! fakesink"))
		require.NoError(t, err)
		_, err = r.Run(context.Background(), id, pipeline.ModeAsync, 0)
		require.NoError(t, err)
		ids = append(ids, id)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, r.Shutdown(ctx))

	assert.Empty(t, r.List())

	_, err := r.Create(context.Background(), parseDesc(t, "videotestsrc ! fakesink"))
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrShuttingDown)
}

func TestSyncRunCallerCancellation(t *testing.T) {
	r := newTestRegistry(t)

	id, err := r.Create(context.Background(), parseDesc(t, "videotestsrc ! fakesink"))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	_, err = r.Run(ctx, id, pipeline.ModeSync, 0)
	require.ErrorIs(t, err, context.Canceled)

	status, err := r.Status(id)
	require.NoError(t, err)
	assert.Equal(t, pipeline.StateStopped, status.State)
}

func TestActiveGaugeCountsRunningInstancesOnce(t *testing.T) {
	m := metric.NewMetrics()
	r := newTestRegistry(t, pipeline.WithMetrics(m))

	id, err := r.Create(context.Background(), parseDesc(t, "videotestsrc ! fakesink"))
	require.NoError(t, err)
	// built instances are not active; only a run moves the gauge
	assert.Equal(t, 0.0, promtest.ToFloat64(m.ActivePipelines))

	_, err = r.Run(context.Background(), id, pipeline.ModeAsync, 0)
	require.NoError(t, err)
	assert.Equal(t, 1.0, promtest.ToFloat64(m.ActivePipelines))

	_, err = r.Stop(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 0.0, promtest.ToFloat64(m.ActivePipelines))
}

// gatedEngine blocks inside Build until released, exposing the window
// between the shutdown check and instance registration.
type gatedEngine struct {
	inner   testutil.Engine
	entered chan struct{}
	release chan struct{}
}

func (e *gatedEngine) Build(ctx context.Context, desc launch.Descriptor) (pipeline.Handle, error) {
	close(e.entered)
	<-e.release
	return e.inner.Build(ctx, desc)
}

func TestCreateDuringShutdownReleasesHandle(t *testing.T) {
	engine := &gatedEngine{
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	r := pipeline.NewRegistry(engine)
	desc := parseDesc(t, "videotestsrc ! fakesink")

	errc := make(chan error, 1)
	go func() {
		_, err := r.Create(context.Background(), desc)
		errc <- err
	}()

	<-engine.entered
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, r.Shutdown(ctx))
	close(engine.release)

	err := <-errc
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrShuttingDown)

	// the handle built mid-shutdown must be stopped, not leaked
	handles := engine.inner.Handles()
	require.Len(t, handles, 1)
	assert.Contains(t, handles[0].Calls(), "stop")
}
