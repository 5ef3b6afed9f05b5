package engine

import "sync"

// PermissionTracker is a single shared set of artifact names whose
// acquisition failed with an authorization error, used for a single
// end-of-run summary. Writes are rare and reads only happen once the
// run completes, so a mutex-guarded set is preferable to per-job
// channels.
type PermissionTracker struct {
	mu      sync.Mutex
	denied  map[string]struct{}
	ordered []string
}

// NewPermissionTracker constructs an empty tracker.
func NewPermissionTracker() *PermissionTracker {
	return &PermissionTracker{denied: make(map[string]struct{})}
}

// Record marks artifact as permission-denied. Recording the same artifact
// more than once (e.g. across retries) has no additional effect — each
// name appears exactly once in Names().
func (t *PermissionTracker) Record(artifact string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, seen := t.denied[artifact]; seen {
		return
	}
	t.denied[artifact] = struct{}{}
	t.ordered = append(t.ordered, artifact)
}

// Names returns the recorded artifact names in first-recorded order.
func (t *PermissionTracker) Names() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]string, len(t.ordered))
	copy(out, t.ordered)
	return out
}

// Empty reports whether no permission failures were recorded.
func (t *PermissionTracker) Empty() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.ordered) == 0
}
