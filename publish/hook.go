// CLAUDE:SUMMARY Save hook: fire-and-forget auto-publish with an explicit result instead of log-only failure.
package publish

import (
	"context"

	"github.com/showgrid/broadcast/snapshot"
)

// HookResult is the explicit outcome of one save-hook invocation, so
// callers and tests can observe what happened without reading logs.
type HookResult struct {
	// Published is true when an auto-publish ran and succeeded.
	Published bool

	// Result is the publish result when Published is true.
	Result *Result

	// Err holds the swallowed failure, if any. It is recorded here and in
	// the log, never propagated: an auto-publish failure must not
	// interrupt the host save workflow.
	Err error
}

// OnSave is invoked by the save/push workflow after every successful
// save. With auto-publish disabled it is a no-op. Enabled, it publishes
// the configured source with AutoUpdate set; all errors are logged and
// swallowed.
func (c *Coordinator) OnSave(ctx context.Context) HookResult {
	return c.OnSaveFrom(ctx, c.source)
}

// OnSaveFrom is OnSave for an explicitly supplied source provider, used
// when the save event carries the table model with it.
func (c *Coordinator) OnSaveFrom(ctx context.Context, source snapshot.Provider) HookResult {
	if !c.session.AutoPublishEnabled() {
		return HookResult{}
	}

	res, err := c.PublishFrom(ctx, source, Options{AutoUpdate: true})
	if err != nil {
		c.logger.Error("auto-publish failed", "error", err)
		return HookResult{Err: err}
	}
	return HookResult{Published: true, Result: res}
}
