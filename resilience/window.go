package resilience

import "time"

// windowBuckets is the number of ring buckets the sampling window is split
// into. More buckets mean smoother expiry of old outcomes at the cost of a
// longer scan per snapshot.
const windowBuckets = 10

// slidingWindow aggregates call outcomes over a fixed sampling duration.
//
// It is a bucketed ring: each bucket covers sampling/windowBuckets of wall
// time and is lazily recycled when its slot comes around again, so outcomes
// older than the sampling duration fall out without a background sweeper.
// Not safe for concurrent use; the circuit breaker guards it with its mutex.
type slidingWindow struct {
	span    time.Duration
	buckets [windowBuckets]windowBucket
}

type windowBucket struct {
	epoch    int64
	calls    int64
	failures int64
}

func newSlidingWindow(sampling time.Duration) *slidingWindow {
	span := sampling / windowBuckets
	if span <= 0 {
		span = time.Millisecond
	}
	return &slidingWindow{span: span}
}

// record adds one call outcome to the bucket covering now.
func (w *slidingWindow) record(now time.Time, failure bool) {
	b := w.bucket(now)
	b.calls++
	if failure {
		b.failures++
	}
}

// counts returns the calls and failures observed within the window ending at
// now. Buckets whose epoch has fallen out of the window are ignored even if
// their slot has not been recycled yet.
func (w *slidingWindow) counts(now time.Time) (calls, failures int64) {
	epoch := now.UnixNano() / int64(w.span)
	oldest := epoch - windowBuckets + 1

	for i := range w.buckets {
		b := &w.buckets[i]
		if b.epoch >= oldest && b.epoch <= epoch {
			calls += b.calls
			failures += b.failures
		}
	}

	return calls, failures
}

// reset drops all recorded outcomes, restarting the window.
func (w *slidingWindow) reset() {
	for i := range w.buckets {
		w.buckets[i] = windowBucket{}
	}
}

func (w *slidingWindow) bucket(now time.Time) *windowBucket {
	epoch := now.UnixNano() / int64(w.span)
	b := &w.buckets[int(epoch%windowBuckets)]
	if b.epoch != epoch {
		b.epoch = epoch
		b.calls = 0
		b.failures = 0
	}
	return b
}
