package runtime

import (
	"context"

	"github.com/juju/errors"
	log "github.com/sirupsen/logrus"
)

// Start submits a run to the background worker. Runs are executed one after
// the other; a Reset while a run is queued or in flight preempts it.
func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return errors.MethodNotAllowedf("controller closed")
	}
	epoch := c.epoch
	c.wg.Add(1)
	c.wp.Submit(func() {
		defer c.wg.Done()
		if err := c.execute(ctx, epoch); err != nil {
			log.Errorf("background run failed: %v", err)
		}
	})
	return nil
}

// Wait blocks until every submitted run returned.
func (c *Controller) Wait() {
	c.wg.Wait()
}

func (c *Controller) Close(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.epoch++
	c.invalidateLocked()
	c.mu.Unlock()

	done := make(chan struct{})
	go func() {
		c.wp.StopWait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return errors.Annotatef(ctx.Err(), "wait for background runs")
	}
}
