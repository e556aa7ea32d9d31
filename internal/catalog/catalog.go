package catalog

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"

	"github.com/alexanderramin/fyplan/internal/budget"
	"github.com/alexanderramin/fyplan/internal/domain"
)

//go:embed data
var embedded embed.FS

// Category is an ordered group of activity templates.
type Category struct {
	Name    string
	Entries []domain.ActivityKey
}

// FacilityCatalog is the activity layout of one program at one facility type.
type FacilityCatalog struct {
	Program      string
	FacilityType domain.FacilityType
	Model        budget.CostModel
	Categories   []Category
}

// Keys returns every template key in render order.
func (f FacilityCatalog) Keys() []domain.ActivityKey {
	var keys []domain.ActivityKey
	for _, c := range f.Categories {
		keys = append(keys, c.Entries...)
	}
	return keys
}

// Seed returns one zero-valued activity per template.
func (f FacilityCatalog) Seed() []domain.Activity {
	keys := f.Keys()
	out := make([]domain.Activity, len(keys))
	for i, k := range keys {
		out[i] = domain.NewActivity(k)
	}
	return out
}

// Program is a health program with a cost model and per-facility catalogs.
type Program struct {
	ID         string
	Name       string
	Version    string
	Model      budget.CostModel
	facilities map[domain.FacilityType]FacilityCatalog
}

// Facility returns the catalog for facility type t.
func (p *Program) Facility(t domain.FacilityType) (FacilityCatalog, bool) {
	fc, ok := p.facilities[t]
	return fc, ok
}

// FacilityTypes lists the facility types the program has a catalog for,
// hospitals first.
func (p *Program) FacilityTypes() []domain.FacilityType {
	var out []domain.FacilityType
	for _, t := range []domain.FacilityType{domain.FacilityHospital, domain.FacilityHealthCenter} {
		if _, ok := p.facilities[t]; ok {
			out = append(out, t)
		}
	}
	return out
}

// Catalog holds every known program.
type Catalog struct {
	programs []*Program
}

// Default loads the catalogs compiled into the binary.
func Default() (*Catalog, error) {
	sub, err := fs.Sub(embedded, "data")
	if err != nil {
		return nil, fmt.Errorf("opening embedded catalog: %w", err)
	}
	return Load(sub)
}

// LoadDir loads catalogs from dir, which must contain a programs/ directory.
func LoadDir(dir string) (*Catalog, error) {
	return Load(os.DirFS(dir))
}

// Load reads programs/*.json from fsys. Files are loaded in name order.
func Load(fsys fs.FS) (*Catalog, error) {
	paths, err := fs.Glob(fsys, "programs/*.json")
	if err != nil {
		return nil, fmt.Errorf("listing programs: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no program catalogs found")
	}

	c := &Catalog{}
	for _, p := range paths {
		schema, err := LoadSchema(fsys, p)
		if err != nil {
			return nil, err
		}
		if errs := ValidateSchema(schema); len(errs) > 0 {
			return nil, fmt.Errorf("%s: %w", path.Base(p), errors.Join(errs...))
		}
		prog, err := buildProgram(schema)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path.Base(p), err)
		}
		if _, dup := c.Program(prog.ID); dup {
			return nil, fmt.Errorf("%s: duplicate program %q", path.Base(p), prog.ID)
		}
		c.programs = append(c.programs, prog)
	}
	return c, nil
}

// LoadSchema reads and parses a single program catalog file.
func LoadSchema(fsys fs.FS, name string) (*ProgramSchema, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, err
	}
	var schema ProgramSchema
	if err := json.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path.Base(name), err)
	}
	return &schema, nil
}

func buildProgram(schema *ProgramSchema) (*Program, error) {
	model, err := budget.ParseCostModel(schema.CostModel)
	if err != nil {
		return nil, err
	}
	prog := &Program{
		ID:         strings.ToLower(schema.ID),
		Name:       schema.Name,
		Version:    schema.Version,
		Model:      model,
		facilities: make(map[domain.FacilityType]FacilityCatalog, len(schema.Facilities)),
	}
	for rawType, categories := range schema.Facilities {
		ft, err := domain.ParseFacilityType(rawType)
		if err != nil {
			return nil, err
		}
		fc := FacilityCatalog{Program: prog.Name, FacilityType: ft, Model: model}
		for _, cat := range categories {
			c := Category{Name: cat.Name}
			for _, a := range cat.Activities {
				c.Entries = append(c.Entries, domain.ActivityKey{
					Category:       cat.Name,
					TypeOfActivity: a.TypeOfActivity,
					Activity:       a.Activity,
				})
			}
			fc.Categories = append(fc.Categories, c)
		}
		prog.facilities[ft] = fc
	}
	return prog, nil
}

// Program looks a program up by id or name, ignoring case.
func (c *Catalog) Program(name string) (*Program, bool) {
	n := domain.NormalizeName(name)
	for _, p := range c.programs {
		if p.ID == n || strings.ToLower(p.Name) == n {
			return p, true
		}
	}
	return nil, false
}

// Programs returns all programs in load order.
func (c *Catalog) Programs() []*Program {
	return append([]*Program(nil), c.programs...)
}

// Lookup returns the catalog of program at facility type t.
func (c *Catalog) Lookup(program string, t domain.FacilityType) (FacilityCatalog, error) {
	p, ok := c.Program(program)
	if !ok {
		return FacilityCatalog{}, fmt.Errorf("program %q: %w", program, domain.ErrNotFound)
	}
	fc, ok := p.Facility(t)
	if !ok {
		return FacilityCatalog{}, fmt.Errorf("program %s has no %s catalog: %w", p.Name, t.Label(), domain.ErrNotFound)
	}
	return fc, nil
}
