package domain

import (
	"strings"
	"time"
)

// Session is the onboarding context of the current user: which hospital they
// plan for and where it sits. The core only reads it.
type Session struct {
	Name        string
	Email       string
	Hospital    string
	District    string
	Province    string
	Completed   bool
	CompletedAt *time.Time
}

// HasFacility reports whether the session names a hospital.
func (s Session) HasFacility() bool {
	return strings.TrimSpace(s.Hospital) != ""
}
