package sections

import (
	"testing"

	"github.com/jonathan/ats-optimizer/internal/patterns"
	"github.com/jonathan/ats-optimizer/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleResume = `Jane Doe
jane@example.com

Professional Summary
Backend engineer focused on data systems.

WORK EXPERIENCE
Senior Engineer, Acme
• Built streaming pipelines in Go
• Reduced latency by 40%
Engineer, Initech
• Migrated services to Kubernetes

Education
B.S. Computer Science

TECHNICAL SKILLS
• Go, Python, SQL
• Docker, Kubernetes`

func TestDetectSections(t *testing.T) {
	d := Default()
	markers := d.DetectSections(sampleResume)

	require.Len(t, markers, 4)
	assert.Equal(t, types.SectionMarker{Name: "Professional Summary", Type: types.SectionSummary, LineNumber: 3}, markers[0])
	assert.Equal(t, types.SectionExperience, markers[1].Type)
	assert.Equal(t, 6, markers[1].LineNumber)
	assert.Equal(t, "Education", markers[2].Name)
	assert.Equal(t, types.SectionSkills, markers[3].Type)

	for i := 1; i < len(markers); i++ {
		assert.Less(t, markers[i-1].LineNumber, markers[i].LineNumber)
	}
}

func TestDetectSections_HeaderMustBeWholeLine(t *testing.T) {
	markers := Default().DetectSections("Skills: Go, Python\nmy experience includes\n  projects  ")
	require.Len(t, markers, 1)
	assert.Equal(t, types.SectionProjects, markers[0].Type)
	assert.Equal(t, "projects", markers[0].Name)
}

func TestDetectSections_FirstRuleWins(t *testing.T) {
	table := &patterns.Table{Sections: []patterns.SectionRule{
		{Type: types.SectionSkills, Pattern: `^EXPERTISE$`},
		{Type: types.SectionExperience, Pattern: `^EXPERTISE$`},
	}}
	c, err := table.Compile()
	require.NoError(t, err)

	markers := New(c).DetectSections("Expertise")
	require.Len(t, markers, 1)
	assert.Equal(t, types.SectionSkills, markers[0].Type)
}

func TestCountBulletPoints(t *testing.T) {
	assert.Equal(t, 5, CountBulletPoints(sampleResume))
	assert.Equal(t, 0, CountBulletPoints("- raw hyphen bullet\n* raw star"))
	assert.Equal(t, 1, CountBulletPoints("   • indented"))
	assert.Equal(t, 0, CountBulletPoints("•no space"))
}

func TestBulletsPerSection(t *testing.T) {
	counts := Default().BulletsPerSection(sampleResume)

	assert.Equal(t, map[types.SectionType]int{
		types.SectionSummary:    0,
		types.SectionExperience: 3,
		types.SectionEducation:  0,
		types.SectionSkills:     2,
	}, counts)
}

func TestExperienceBullets(t *testing.T) {
	d := Default()

	assert.Equal(t, []string{
		"• Built streaming pipelines in Go",
		"• Reduced latency by 40%",
		"• Migrated services to Kubernetes",
	}, d.ExperienceBullets(sampleResume))

	assert.Empty(t, d.ExperienceBullets("EDUCATION\n• MIT"))
}

func TestFormatting(t *testing.T) {
	f := Default().Formatting(sampleResume)
	assert.True(t, f.HasDetectedFormatting)
	assert.Equal(t, 5, f.BulletCount)
	assert.True(t, HasSection(f.Sections, types.SectionEducation))
	assert.False(t, HasSection(f.Sections, types.SectionProjects))

	empty := Default().Formatting("")
	assert.False(t, empty.HasDetectedFormatting)
	assert.NotNil(t, empty.Sections)
}
