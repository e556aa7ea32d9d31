package formatter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/fyplan/internal/catalog"
)

// FormatResolution renders what a hospital name resolved to.
func FormatResolution(name string, res catalog.Resolution) string {
	if res.Empty() {
		return RenderBox(name, Dim("No programs or health centers found for this facility."))
	}

	var b strings.Builder
	programs := make([]string, len(res.Programs))
	for i, p := range res.Programs {
		programs[i] = StylePurple.Render(p)
	}
	b.WriteString(fmt.Sprintf("%s  %s\n\n", StyleDim.Render("PROGRAMS"), strings.Join(programs, "  ")))

	b.WriteString(Header(fmt.Sprintf("Health centers (%d)", len(res.SubFacilities))))
	b.WriteString("\n")
	for i, hc := range res.SubFacilities {
		b.WriteString(fmt.Sprintf("%s %s\n", StyleDim.Render(fmt.Sprintf("%3d.", i+1)), hc))
	}
	return RenderBox(name, strings.TrimRight(b.String(), "\n"))
}

// FormatHospitals renders the known hospitals with the programs each runs.
func FormatHospitals(r *catalog.Resolver) string {
	hospitals := r.Hospitals()
	if len(hospitals) == 0 {
		return RenderBox("Hospitals", Dim("No facilities loaded."))
	}
	rows := make([][]string, 0, len(hospitals))
	for _, h := range hospitals {
		res := r.Resolve(h)
		rows = append(rows, []string{Bold(h), strings.Join(res.Programs, ", "), strconv.Itoa(len(res.SubFacilities))})
	}
	table := RenderAlignedTable([]string{"HOSPITAL", "PROGRAMS", "CENTERS"}, rows, []Align{AlignLeft, AlignLeft, AlignRight})
	return RenderBox("Hospitals", table)
}

// FormatCatalogList renders one line per program.
func FormatCatalogList(programs []*catalog.Program) string {
	if len(programs) == 0 {
		return RenderBox("Catalogs", Dim("No program catalogs loaded."))
	}
	rows := make([][]string, 0, len(programs))
	for _, p := range programs {
		types := p.FacilityTypes()
		labels := make([]string, len(types))
		for i, t := range types {
			labels[i] = t.Label()
		}
		rows = append(rows, []string{Bold(strings.ToUpper(p.ID)), p.Name, p.Version, p.Model.String(), strings.Join(labels, ", ")})
	}
	return RenderBox("Catalogs", RenderTable([]string{"ID", "NAME", "VERSION", "COST MODEL", "FACILITIES"}, rows))
}

// FormatCatalog renders every facility catalog of a program as an indented
// category / type / activity tree.
func FormatCatalog(p *catalog.Program) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s  %s\n", StyleDim.Render("COST MODEL"), p.Model.String()))
	b.WriteString(fmt.Sprintf("%s  %s\n", StyleDim.Render("VERSION   "), p.Version))
	for _, t := range p.FacilityTypes() {
		fc, _ := p.Facility(t)
		b.WriteString("\n")
		b.WriteString(Header(t.Label()))
		b.WriteString("\n")
		for _, cat := range fc.Categories {
			b.WriteString(StyleBold.Render(cat.Name) + "\n")
			for _, e := range cat.Entries {
				line := e.TypeOfActivity
				if e.Activity != "" {
					line += Dim(" › ") + e.Activity
				}
				b.WriteString("  " + line + "\n")
			}
		}
	}
	return RenderBox(p.Name, strings.TrimRight(b.String(), "\n"))
}
