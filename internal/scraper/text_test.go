package scraper

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		expected string
	}{
		{name: "Easy apply label", in: "  Easy   Apply ", expected: "easy apply"},
		{name: "Diacritics", in: "Hồ Chí Minh", expected: "ho chi minh"},
		{name: "Newlines", in: "Apply\non company\twebsite", expected: "apply on company website"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeText(tt.in))
		})
	}
}

func TestCleanTags(t *testing.T) {
	assert.Equal(t, []string{"Remote", "Full-time"}, CleanTags([]string{" Remote ", "", "  ", "Full-time"}))
	assert.NotNil(t, CleanTags(nil))
	assert.Empty(t, CleanTags(nil))
}
