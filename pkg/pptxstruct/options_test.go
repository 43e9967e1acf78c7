package pptxstruct

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pptxstruct.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
mode: issues
min_font_size: 10
auto_shrink: false
summary:
  title: Overview
validation:
  max_paragraphs: 8
`), 0644))

	opts, err := LoadConfig(path)
	require.NoError(t, err)

	assert.True(t, opts.IssuesOnly())
	assert.False(t, opts.ShouldAutoShrink())
	assert.Equal(t, 10.0, opts.MinFontSize)
	assert.Equal(t, "Overview", opts.Summary.Title)
	assert.Equal(t, 1, opts.Summary.Position, "unset keys keep their defaults")
	assert.Equal(t, "auto", opts.Summary.Color)
	assert.Equal(t, 8, opts.Validation.MaxParagraphs)
	assert.Equal(t, 500, opts.Validation.MaxTextLength)

	eopts := opts.EditorOptions()
	assert.False(t, eopts.AutoShrink)
	assert.Equal(t, 10.0, eopts.MinFontSize)
	assert.Equal(t, 18.0, eopts.DefaultFontSize)
}

func TestLoadConfigErrors(t *testing.T) {
	opts, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultOptions(), opts)
	assert.True(t, opts.ShouldAutoShrink())

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.True(t, errors.Is(err, ErrFileNotFound), "got %v", err)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("min_font_size: [1, 2\n"), 0644))
	_, err = LoadConfig(bad)
	assert.Error(t, err)
}

func TestSelectSlidesToDelete(t *testing.T) {
	tests := []struct {
		name     string
		total    int
		keep     []int
		del      []int
		toDelete []int
		invalid  []int
	}{
		{"keep", 5, []int{0, 2}, nil, []int{1, 3, 4}, nil},
		{"keep wins over delete", 5, []int{4}, []int{4}, []int{0, 1, 2, 3}, nil},
		{"keep out of range", 3, []int{2, 5, 5, -1}, nil, []int{0, 1}, []int{-1, 5}},
		{"empty keep deletes all", 2, []int{}, nil, []int{0, 1}, nil},
		{"delete", 5, nil, []int{3, 1, 3}, []int{1, 3}, nil},
		{"delete out of range", 2, nil, []int{1, 2}, []int{1}, []int{2}},
		{"nothing", 4, nil, nil, nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toDelete, invalid := SelectSlidesToDelete(tt.total, tt.keep, tt.del)
			assert.ElementsMatch(t, tt.toDelete, toDelete)
			assert.ElementsMatch(t, tt.invalid, invalid)
			assert.IsIncreasing(t, append([]int{-2}, toDelete...))
		})
	}
}
