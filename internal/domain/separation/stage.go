package separation

// Stage is derived from a case's fields and is never stored.
type Stage string

const (
	StagePending           Stage = "pending"
	StageClearanceUnlocked Stage = "clearance_unlocked"
	StageFinalReview       Stage = "final_review"
	StageCompleted         Stage = "completed"
)

// StageOf derives the current stage. Rules apply in priority order.
func StageOf(c *Case) Stage {
	switch {
	case c == nil:
		return StagePending
	case c.Completed:
		return StageCompleted
	case c.ResignationStatus == ResignationValidated &&
		c.ExitClearance.Status == DocumentValidated &&
		c.ExitInterview.Status == DocumentValidated:
		return StageFinalReview
	case c.ResignationStatus == ResignationValidated:
		return StageClearanceUnlocked
	default:
		return StagePending
	}
}

func (c *Case) Stage() Stage { return StageOf(c) }

// rank orders stages for monotonicity checks.
func (s Stage) rank() int {
	switch s {
	case StageClearanceUnlocked:
		return 1
	case StageFinalReview:
		return 2
	case StageCompleted:
		return 3
	}
	return 0
}

// Before reports whether s precedes o in the lifecycle.
func (s Stage) Before(o Stage) bool { return s.rank() < o.rank() }
