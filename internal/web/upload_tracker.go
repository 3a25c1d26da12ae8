package web

import "sync"

// uploadTracker guards one in-flight upload per session and records its
// progress for the polling endpoint.
type uploadTracker struct {
	mu       sync.Mutex
	progress map[string]int
}

func newUploadTracker() *uploadTracker {
	return &uploadTracker{progress: make(map[string]int)}
}

// Start marks an upload as in flight for the session. It returns false when
// one is already running, in which case the new attempt must be rejected.
func (t *uploadTracker) Start(session string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, inFlight := t.progress[session]; inFlight {
		return false
	}
	t.progress[session] = 0
	return true
}

// Update records the upload percentage for the session.
func (t *uploadTracker) Update(session string, percent int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, inFlight := t.progress[session]; inFlight {
		t.progress[session] = percent
	}
}

// Finish clears the in-flight marker.
func (t *uploadTracker) Finish(session string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.progress, session)
}

// Progress reports the current percentage and whether an upload is running.
func (t *uploadTracker) Progress(session string) (int, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	p, inFlight := t.progress[session]
	return p, inFlight
}
