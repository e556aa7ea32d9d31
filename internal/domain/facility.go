package domain

import (
	"fmt"
	"strings"
)

// FacilityProgram maps one health program to the hospitals that run it and
// the health centers those hospitals supervise.
type FacilityProgram struct {
	Program       string   `json:"program"`
	FacilityType  string   `json:"facility-type"`
	Hospitals     []string `json:"hospitals"`
	HealthCenters []string `json:"health-centers"`
}

// NormalizeName folds a facility name for case- and whitespace-insensitive
// comparison.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// FiscalYearLabel renders the fiscal year starting in start, e.g. "2025-2026".
func FiscalYearLabel(start int) string {
	return fmt.Sprintf("%d-%d", start, start+1)
}

// ReportingPeriods lists the quarter labels of the fiscal year starting in
// year. The fiscal year runs July to June, so Q3 and Q4 fall in year+1.
func ReportingPeriods(year int) []string {
	return []string{
		fmt.Sprintf("Q1 FY %d", year),
		fmt.Sprintf("Q2 FY %d", year),
		fmt.Sprintf("Q3 FY %d", year+1),
		fmt.Sprintf("Q4 FY %d", year+1),
	}
}

// FiscalYearStart returns the calendar year in which the fiscal year
// containing month m of year y began.
func FiscalYearStart(y int, m int) int {
	if m >= 7 {
		return y
	}
	return y - 1
}
