package xq

// State is the position of a handoff item in its lifecycle. State is
// derived from bucket membership on the remote board, never stored
// locally.
type State string

const (
	// StateHandoff holds incoming, unclaimed items.
	StateHandoff State = "handoff"

	// StateReview holds items a session has claimed and is processing.
	StateReview State = "review"

	// StateFiled holds completed items with their destination recorded.
	StateFiled State = "filed"
)

// Bucket titles on the remote board. Resolution is by exact title match,
// emoji prefix included.
const (
	BucketHandoff = "📬 Handoff"
	BucketReview  = "🔍 Review"
	BucketFiled   = "✅ Filed"
)

// setupOrder is the deterministic bucket creation order, so repeated
// setup after a partial failure converges instead of duplicating.
var setupOrder = []State{StateHandoff, StateReview, StateFiled}

// BucketTitle returns the remote bucket title for a state.
func (s State) BucketTitle() string {
	switch s {
	case StateHandoff:
		return BucketHandoff
	case StateReview:
		return BucketReview
	case StateFiled:
		return BucketFiled
	}
	return string(s)
}

// stateForBucket maps a remote bucket title back to a state. The second
// return is false for buckets that are not part of the queue.
func stateForBucket(title string) (State, bool) {
	switch title {
	case BucketHandoff:
		return StateHandoff, true
	case BucketReview:
		return StateReview, true
	case BucketFiled:
		return StateFiled, true
	}
	return "", false
}
