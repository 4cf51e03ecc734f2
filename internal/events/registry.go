package events

import "fmt"

var allowedEvents = map[string]struct{}{
	// sequence
	"sequence.created":  {},
	"sequence.loaded":   {},
	"sequence.saved":    {},
	"sequence.reloaded": {},
	"sequence.renamed":  {},
	"sequence.deployed": {},

	// item
	"item.added":      {},
	"item.updated":    {},
	"item.deleted":    {},
	"item.moved":      {},
	"item.duplicated": {},

	// condition
	"condition.added":   {},
	"condition.updated": {},
	"condition.deleted": {},

	// trigger
	"trigger.added":          {},
	"trigger.updated":        {},
	"trigger.deleted":        {},
	"trigger.global_added":   {},
	"trigger.global_deleted": {},

	// selection
	"selection.changed": {},

	// clipboard
	"clipboard.copied":   {},
	"clipboard.cut":      {},
	"clipboard.pasted":   {},
	"clipboard.imported": {},

	// history
	"history.undo": {},
	"history.redo": {},

	// editor
	"editor.warning": {},

	// observatory
	"observatory.connected":    {},
	"observatory.disconnected": {},
	"observatory.status":       {},
	"observatory.error":        {},

	// autosave
	"autosave.completed": {},
	"autosave.failed":    {},

	// system
	"system.startup":         {},
	"system.shutdown":        {},
	"system.error":           {},
	"system.startup_restore": {},
}

func Validate(event string) error {
	if _, ok := allowedEvents[event]; !ok {
		return fmt.Errorf("unknown event: %s", event)
	}
	return nil
}
