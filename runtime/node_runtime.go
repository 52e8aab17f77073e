package runtime

import (
	"fmt"

	"github.com/warriorguo/pipeline/types"
)

// processNode draws the failure sample for one node. A panicking failure
// source becomes a fault instead of tearing down the caller.
func (c *Controller) processNode(node types.Node) (failed bool, retErr error) {
	defer func() {
		if r := recover(); r != nil {
			retErr = types.NewFaultError(fmt.Errorf("panic on %s: %v", node.ID, r))
		}
	}()
	return c.failure(node), nil
}
