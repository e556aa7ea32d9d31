package catalog

import (
	"testing"

	"github.com/alexanderramin/fyplan/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testResolver() *Resolver {
	return NewResolver([]domain.FacilityProgram{
		{
			Program:       "hiv",
			FacilityType:  "hospital",
			Hospitals:     []string{"Kabgayi", "Muhima"},
			HealthCenters: []string{"Gitarama", "Byimana"},
		},
		{
			Program:       "malaria",
			FacilityType:  "hospital",
			Hospitals:     []string{"kabgayi "},
			HealthCenters: []string{" gitarama", "Ruhango", "BYIMANA"},
		},
		{
			Program:       "tb",
			FacilityType:  "hospital",
			Hospitals:     []string{"Butaro"},
			HealthCenters: []string{"Kinoni"},
		},
	})
}

func TestResolve_MergesAndDeduplicates(t *testing.T) {
	res := testResolver().Resolve("Kabgayi")

	assert.Equal(t, []string{"HIV", "MALARIA"}, res.Programs)
	assert.Equal(t, []string{"Gitarama", "Byimana", "Ruhango"}, res.SubFacilities)
}

func TestResolve_CaseAndWhitespaceInsensitive(t *testing.T) {
	r := testResolver()
	want := r.Resolve("Kabgayi")

	for _, name := range []string{"kabgayi ", " KABGAYI", "\tKaBgAyI\n"} {
		assert.Equal(t, want, r.Resolve(name), "name %q", name)
	}
}

func TestResolve_UnknownIsEmpty(t *testing.T) {
	r := testResolver()
	assert.True(t, r.Resolve("Nowhere").Empty())
	assert.True(t, r.Resolve("   ").Empty())
	assert.True(t, r.Resolve("").Empty())
}

func TestFacilityType(t *testing.T) {
	r := testResolver()

	ft, ok := r.FacilityType("muhima")
	require.True(t, ok)
	assert.Equal(t, domain.FacilityHospital, ft)

	ft, ok = r.FacilityType("RUHANGO")
	require.True(t, ok)
	assert.Equal(t, domain.FacilityHealthCenter, ft)

	_, ok = r.FacilityType("Atlantis")
	assert.False(t, ok)
}

func TestProgramsAt(t *testing.T) {
	r := testResolver()
	assert.Equal(t, []string{"HIV", "MALARIA"}, r.ProgramsAt("byimana"))
	assert.Equal(t, []string{"TB"}, r.ProgramsAt("Kinoni"))
	assert.Empty(t, r.ProgramsAt("unknown"))
}

func TestDefaultResolver_KabgayiSpansPrograms(t *testing.T) {
	r, err := DefaultResolver()
	require.NoError(t, err)

	res := r.Resolve("Kabgayi")
	assert.Equal(t, []string{"HIV", "MALARIA", "TB"}, res.Programs)
	assert.Len(t, res.SubFacilities, 14)
	assert.Equal(t, "Gitarama", res.SubFacilities[0])
	assert.Contains(t, r.Hospitals(), "Butaro")
}
