package runtime

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/gammazero/workerpool"
	"github.com/juju/errors"
	log "github.com/sirupsen/logrus"
	"github.com/warriorguo/pipeline/store"
	"github.com/warriorguo/pipeline/types"
)

// Controller drives runs over a GraphStore: idle -> running -> completed|error,
// and Reset back to idle.
//
// Each run is stamped with a generation. Every continuation after the
// processing delay re-checks its generation under mu before touching the
// store, so Reset and a newer run make older runs stop without side effects.
//
// Every run context derives from the editor context as well as from the
// caller's, so cancelling the editor context aborts the current run.
type Controller struct {
	baseCtx context.Context
	graph   *GraphStore
	trace   *traceRecorder

	delay   time.Duration
	failure types.FailureFunc

	mu         sync.Mutex
	generation uint64
	// bumped by Reset and Close only, queued runs of an older epoch are dropped
	epoch     uint64
	cancelRun context.CancelFunc
	closed    bool

	wp *workerpool.WorkerPool
	wg sync.WaitGroup
}

func NewController(graph *GraphStore, s store.Store, opts *types.EditorOptions) *Controller {
	failure := opts.FailureFunc
	if failure == nil {
		failure = randomFailure(opts.FailureRate)
	}
	baseCtx := opts.Ctx
	if baseCtx == nil {
		baseCtx = context.Background()
	}
	return &Controller{
		baseCtx: baseCtx,
		graph:   graph,
		trace:   newTraceRecorder(s, graph.now),
		delay:   opts.ProcessingDelay,
		failure: failure,
		wp:      workerpool.New(1),
	}
}

func randomFailure(rate float64) types.FailureFunc {
	return func(types.Node) bool {
		return rand.Float64() < rate
	}
}

func (c *Controller) IsRunning() bool {
	return c.graph.ExecutionState() == types.ExecutionRunning
}

// Execute runs the current pipeline to the end and returns.
//
// An empty or unschedulable pipeline only logs and leaves the execution state
// alone. Simulated node failures end the run in the error state and are not
// returned as errors; only unexpected faults are.
func (c *Controller) Execute(ctx context.Context) error {
	return c.execute(ctx, c.currentEpoch())
}

// execute is a no-op once epoch is stale.
func (c *Controller) execute(ctx context.Context, epoch uint64) (retErr error) {
	if c.isClosed() {
		return errors.MethodNotAllowedf("controller closed")
	}
	if err := c.baseCtx.Err(); err != nil {
		return errors.Annotatef(err, "editor context")
	}
	if c.graph.NodeCount() == 0 {
		c.applyEpoch(epoch, func() { c.graph.AddLog(msgEmptyPipeline, "", types.LogWarning) })
		return nil
	}
	order := c.graph.ExecutionOrder()
	if order == nil {
		c.applyEpoch(epoch, func() { c.graph.AddLog(msgInvalidPipeline, "", types.LogError) })
		return nil
	}

	runCtx, gen, ok := c.beginRun(ctx, epoch, len(order))
	if !ok {
		log.Debugf("drop run queued before reset")
		return nil
	}
	defer c.finishRun(gen)

	defer func() {
		if r := recover(); r != nil {
			retErr = c.fail(gen, types.NewFaultErrorf("panic during run: %v", r))
		}
	}()
	return c.runOrder(runCtx, gen, order)
}

func (c *Controller) beginRun(ctx context.Context, epoch uint64, size int) (context.Context, uint64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if epoch != c.epoch {
		return nil, 0, false
	}
	c.invalidateLocked()
	gen := c.generation
	runCtx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(c.baseCtx, cancel)
	c.cancelRun = func() {
		stop()
		cancel()
	}

	c.graph.ClearLogs()
	c.graph.ResetAllNodeStatus()
	c.graph.SetExecutionState(types.ExecutionRunning)
	c.graph.AddLog(msgRunStarted, "", types.LogInfo)
	c.trace.begin(runCtx, gen)

	log.Infof("run %d started with %d nodes", gen, size)
	return runCtx, gen, true
}

func (c *Controller) finishRun(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen == c.generation && c.cancelRun != nil {
		c.cancelRun()
		c.cancelRun = nil
	}
}

// invalidateLocked makes every in-flight continuation stale and wakes it up.
func (c *Controller) invalidateLocked() {
	c.generation++
	if c.cancelRun != nil {
		c.cancelRun()
		c.cancelRun = nil
	}
}

// apply runs fn only while gen is still the current run.
func (c *Controller) apply(gen uint64, fn func()) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.generation {
		return false
	}
	fn()
	return true
}

func (c *Controller) applyEpoch(epoch uint64, fn func()) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if epoch != c.epoch {
		return false
	}
	fn()
	return true
}

func (c *Controller) currentEpoch() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.epoch
}

func (c *Controller) isCurrent(gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return gen == c.generation
}

func (c *Controller) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.closed
}

func (c *Controller) runOrder(ctx context.Context, gen uint64, order []string) error {
	for _, id := range order {
		// removed while the run was in flight
		node, exists := c.graph.Node(id)
		if !exists {
			continue
		}

		if !c.apply(gen, func() { c.enterNode(ctx, node) }) {
			return nil
		}

		if err := c.wait(ctx); err != nil {
			if !c.isCurrent(gen) {
				log.Debugf("run %d superseded while processing %s", gen, node.ID)
				return nil
			}
			return c.fail(gen, types.NewFaultError(err))
		}

		failed, err := c.processNode(node)
		if err != nil {
			return c.fail(gen, err)
		}

		if failed {
			c.apply(gen, func() { c.failNode(ctx, gen, node) })
			return nil
		}
		if !c.apply(gen, func() { c.completeNode(ctx, node) }) {
			return nil
		}
	}

	c.apply(gen, func() {
		c.graph.SetExecutionState(types.ExecutionCompleted)
		c.graph.AddLog(msgRunCompleted, "", types.LogSuccess)
		log.Infof("run %d completed", gen)
	})
	return nil
}

func (c *Controller) wait(ctx context.Context) error {
	if c.delay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(c.delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Controller) enterNode(ctx context.Context, node types.Node) {
	c.graph.SetNodeStatus(node.ID, types.NodeRunning)
	c.graph.AddLog(processingMessage(node), node.ID, types.LogInfo)
	c.trace.startNode(ctx, node)
}

func (c *Controller) completeNode(ctx context.Context, node types.Node) {
	c.graph.SetNodeStatus(node.ID, types.NodeCompleted)
	c.graph.AddLog(successMessage(node), node.ID, types.LogSuccess)
	c.trace.endNode(ctx, node, types.NodeCompleted, nil)
}

func (c *Controller) failNode(ctx context.Context, gen uint64, node types.Node) {
	c.graph.SetNodeStatus(node.ID, types.NodeError)
	c.graph.AddLog(failureMessage(node), node.ID, types.LogError)
	c.trace.endNode(ctx, node, types.NodeError, errors.New("simulated processing failure"))
	c.graph.SetExecutionState(types.ExecutionError)
	c.graph.AddLog(msgRunFailed, "", types.LogError)
	log.Warnf("run %d failed on %s", gen, node.ID)
}

// fail reports an unexpected fault through the log stream and moves the run
// to the error state.
func (c *Controller) fail(gen uint64, err error) error {
	c.apply(gen, func() {
		c.graph.SetExecutionState(types.ExecutionError)
		c.graph.AddLog(faultMessage(err), "", types.LogError)
	})
	log.Errorf("run %d aborted: %s", gen, errors.ErrorStack(err))
	return errors.Trace(err)
}

// Reset returns to idle with empty logs and idle nodes. It preempts the
// in-flight run and drops the queued ones.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.epoch++
	c.invalidateLocked()
	c.graph.ResetAllNodeStatus()
	c.graph.ClearLogs()
	c.graph.SetExecutionState(types.ExecutionIdle)
}
