package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/fyplan/internal/domain"
	"github.com/spf13/pflag"
)

// statusValue is a --status flag restricted to plan statuses.
type statusValue struct {
	status domain.PlanStatus
}

var _ pflag.Value = (*statusValue)(nil)

func (v *statusValue) String() string { return string(v.status) }
func (v *statusValue) Type() string   { return "status" }

func (v *statusValue) Set(s string) error {
	s = strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
	if !domain.ValidPlanStatuses[s] {
		return fmt.Errorf("must be one of draft, submitted, pending_approval, approved")
	}
	v.status = domain.PlanStatus(s)
	return nil
}

// formatValue is a --format flag accepting a fixed set of output formats.
type formatValue struct {
	value   string
	allowed []string
}

var _ pflag.Value = (*formatValue)(nil)

func newFormatValue(def string, allowed ...string) *formatValue {
	return &formatValue{value: def, allowed: allowed}
}

func (v *formatValue) String() string { return v.value }
func (v *formatValue) Type() string   { return "format" }

func (v *formatValue) Set(s string) error {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, a := range v.allowed {
		if a == s {
			v.value = s
			return nil
		}
	}
	return fmt.Errorf("must be one of %s", strings.Join(v.allowed, ", "))
}
