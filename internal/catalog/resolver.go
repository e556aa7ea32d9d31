package catalog

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"strings"

	"github.com/alexanderramin/fyplan/internal/domain"
)

const facilitiesFile = "facilities.json"

// Resolution is what a hospital name resolves to.
type Resolution struct {
	Programs      []string
	SubFacilities []string
}

// Empty reports whether nothing matched.
func (r Resolution) Empty() bool {
	return len(r.Programs) == 0 && len(r.SubFacilities) == 0
}

// Resolver answers which programs a facility runs and which health centers
// a hospital supervises. It is read-only after construction.
type Resolver struct {
	records []domain.FacilityProgram
}

func NewResolver(records []domain.FacilityProgram) *Resolver {
	return &Resolver{records: records}
}

// DefaultResolver builds a resolver from the embedded reference data.
func DefaultResolver() (*Resolver, error) {
	sub, err := fs.Sub(embedded, "data")
	if err != nil {
		return nil, fmt.Errorf("opening embedded facilities: %w", err)
	}
	return LoadResolver(sub)
}

// LoadResolver reads facilities.json from fsys.
func LoadResolver(fsys fs.FS) (*Resolver, error) {
	records, err := LoadFacilities(fsys)
	if err != nil {
		return nil, err
	}
	return NewResolver(records), nil
}

// LoadFacilities parses the facility/program reference records.
func LoadFacilities(fsys fs.FS) ([]domain.FacilityProgram, error) {
	data, err := fs.ReadFile(fsys, facilitiesFile)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", facilitiesFile, err)
	}
	var records []domain.FacilityProgram
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", facilitiesFile, err)
	}
	return records, nil
}

// Resolve matches name against the hospitals of every record, ignoring case
// and surrounding whitespace. Programs come back upper-cased in record order;
// sub-facilities are the union of the matching records' health centers,
// de-duplicated the same way and kept in first-seen order. An unknown or
// empty name yields an empty Resolution.
func (r *Resolver) Resolve(name string) Resolution {
	var res Resolution
	target := domain.NormalizeName(name)
	if target == "" {
		return res
	}

	seenProgram := map[string]bool{}
	seenFacility := map[string]bool{}
	for _, rec := range r.records {
		if !containsName(rec.Hospitals, target) {
			continue
		}
		prog := strings.ToUpper(strings.TrimSpace(rec.Program))
		if !seenProgram[prog] {
			seenProgram[prog] = true
			res.Programs = append(res.Programs, prog)
		}
		for _, hc := range rec.HealthCenters {
			key := domain.NormalizeName(hc)
			if key == "" || seenFacility[key] {
				continue
			}
			seenFacility[key] = true
			res.SubFacilities = append(res.SubFacilities, strings.TrimSpace(hc))
		}
	}
	return res
}

// FacilityType reports whether name is a known hospital or health center.
// Hospitals win when a name appears in both lists.
func (r *Resolver) FacilityType(name string) (domain.FacilityType, bool) {
	target := domain.NormalizeName(name)
	if target == "" {
		return "", false
	}
	isCenter := false
	for _, rec := range r.records {
		if containsName(rec.Hospitals, target) {
			return domain.FacilityHospital, true
		}
		if containsName(rec.HealthCenters, target) {
			isCenter = true
		}
	}
	if isCenter {
		return domain.FacilityHealthCenter, true
	}
	return "", false
}

// ProgramsAt lists the programs available at a hospital or health center,
// upper-cased and de-duplicated.
func (r *Resolver) ProgramsAt(name string) []string {
	target := domain.NormalizeName(name)
	if target == "" {
		return nil
	}
	var out []string
	seen := map[string]bool{}
	for _, rec := range r.records {
		if !containsName(rec.Hospitals, target) && !containsName(rec.HealthCenters, target) {
			continue
		}
		prog := strings.ToUpper(strings.TrimSpace(rec.Program))
		if !seen[prog] {
			seen[prog] = true
			out = append(out, prog)
		}
	}
	return out
}

// Hospitals lists every hospital once, in first-seen order.
func (r *Resolver) Hospitals() []string {
	var out []string
	seen := map[string]bool{}
	for _, rec := range r.records {
		for _, h := range rec.Hospitals {
			key := domain.NormalizeName(h)
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, strings.TrimSpace(h))
		}
	}
	return out
}

func containsName(names []string, target string) bool {
	for _, n := range names {
		if domain.NormalizeName(n) == target {
			return true
		}
	}
	return false
}
