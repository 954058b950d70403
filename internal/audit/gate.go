package audit

import "clearline/reim-audit/internal/models"

// Gate wraps Validate with the one-shot bypass contract: any issue pauses
// the pipeline for human approval, and a single armed bypass lets exactly
// one re-submission through before resetting.
type Gate struct {
	bypass bool
}

// Arm sets the one-shot bypass flag. The flag is consumed by the next
// Check that finds issues; a clean Check leaves it pending.
func (g *Gate) Arm() {
	g.bypass = true
}

// Armed reports whether a bypass is pending.
func (g *Gate) Armed() bool {
	return g.bypass
}

// Check validates the input and reports whether the pipeline may proceed.
// Issues are always returned for display. A pending bypass clears the gate
// once, except when there are no rows at all: an empty submission has
// nothing to approve, so the items-empty error is never bypassable.
func (g *Gate) Check(in Input) ([]models.AuditIssue, bool) {
	issues := Validate(in)
	if len(issues) == 0 {
		return issues, true
	}
	if g.bypass {
		g.bypass = false
		if len(in.Rows) == 0 && models.HasErrors(issues) {
			return issues, false
		}
		return issues, true
	}
	return issues, false
}
