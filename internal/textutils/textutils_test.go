package textutils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNameKey(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected string
	}{
		{"Simple", "John Smith", "john smith"},
		{"Upper case", "JOHN SMITH", "john smith"},
		{"Extra spaces", "  John   Smith ", "john smith"},
		{"Punctuation", "O'Brien, Mary-Jane", "o brien mary jane"},
		{"Empty", "", ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, NameKey(tc.raw))
		})
	}
}

func TestFormatName(t *testing.T) {
	assert.Equal(t, "John Smith", FormatName("Smith, John"))
	assert.Equal(t, "John Smith", FormatName("John Smith"))
	assert.Equal(t, "Mary O'Brien", FormatName("O'Brien, Mary"))
}

func TestSameName(t *testing.T) {
	assert.True(t, SameName("Smith, John", "JOHN SMITH"))
	assert.True(t, SameName("john smith", "John  Smith"))
	assert.False(t, SameName("John Smith", "Jane Smith"))
	assert.False(t, SameName("", ""))
}
