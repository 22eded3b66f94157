package profile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "user_profile.json")
	p := Sample()

	require.NoError(t, Save(path, p))
	assert.False(t, p.UpdatedAt.IsZero())

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, p.CurrentTitle, got.CurrentTitle)
	assert.Equal(t, p.ProfessionalExperience, got.ProfessionalExperience)
	assert.True(t, p.CreatedAt.Equal(got.CreatedAt))
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "none.json"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLoad_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"current_title": 3}`), 0644))
	_, err := Load(path)
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte(`{"years_experience": 3}`), 0644))
	_, err = Load(path)
	assert.ErrorContains(t, err, "current_title")
}

func TestSummary(t *testing.T) {
	p := Sample()
	p.Technologies = []string{"a", "b", "c", "d", "e", "f", "g", "h", "i"}
	p.SalaryRange = ""
	p.WorkPreferences = nil

	s := p.Summary()
	assert.Contains(t, s, "- Current Role: Software Engineer with 3 years experience")
	assert.Contains(t, s, "- Technologies: a, b, c, d, e, f, g, h...")
	assert.Contains(t, s, "- Infrastructure: Docker, Kubernetes, AWS, Terraform\n")
	assert.Contains(t, s, "• Backend Engineer at Example Corp (2022 - Present) - Remote")
	assert.Contains(t, s, "- Salary Range: Not specified")
	assert.True(t, strings.HasSuffix(s, "- Work Style: Flexible"))
}
