package domain

import "fmt"

type FacilityType string

const (
	FacilityHospital     FacilityType = "hospital"
	FacilityHealthCenter FacilityType = "health_center"
)

// ParseFacilityType accepts the stored form as well as the hyphenated form
// used by the reference data ("health-center").
func ParseFacilityType(s string) (FacilityType, error) {
	switch s {
	case "hospital":
		return FacilityHospital, nil
	case "health_center", "health-center", "healthcenter":
		return FacilityHealthCenter, nil
	}
	return "", fmt.Errorf("unknown facility type %q", s)
}

func (t FacilityType) Label() string {
	switch t {
	case FacilityHospital:
		return "Hospital"
	case FacilityHealthCenter:
		return "Health Center"
	default:
		return string(t)
	}
}

type PlanStatus string

const (
	PlanDraft           PlanStatus = "draft"
	PlanSubmitted       PlanStatus = "submitted"
	PlanPendingApproval PlanStatus = "pending_approval"
	PlanApproved        PlanStatus = "approved"
)

// ValidPlanStatuses is the canonical set of accepted plan status strings.
var ValidPlanStatuses = map[string]bool{
	"draft": true, "submitted": true, "pending_approval": true, "approved": true,
}

var nextStatus = map[PlanStatus]PlanStatus{
	PlanDraft:           PlanSubmitted,
	PlanSubmitted:       PlanPendingApproval,
	PlanPendingApproval: PlanApproved,
}

// Next returns the status that follows s, or false for a terminal status.
func (s PlanStatus) Next() (PlanStatus, bool) {
	n, ok := nextStatus[s]
	return n, ok
}

// CanTransitionTo reports whether moving from s to next is a legal step.
func (s PlanStatus) CanTransitionTo(next PlanStatus) bool {
	n, ok := nextStatus[s]
	return ok && n == next
}

// Editable reports whether activities of a plan in this status may change.
func (s PlanStatus) Editable() bool {
	return s == PlanDraft
}

func (s PlanStatus) Label() string {
	switch s {
	case PlanDraft:
		return "Draft"
	case PlanSubmitted:
		return "Submitted"
	case PlanPendingApproval:
		return "Pending Approval"
	case PlanApproved:
		return "Approved"
	default:
		return string(s)
	}
}
