package analysis

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTotals_HasIssues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		totals Totals
		want   bool
	}{
		{name: "clean", totals: Totals{Files: 3}, want: false},
		{name: "findings", totals: Totals{Findings: 2}, want: true},
		{name: "changed without findings", totals: Totals{FilesWithIssues: 1}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.totals.HasIssues())
		})
	}
}

func TestTotals_HasErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		totals Totals
		want   bool
	}{
		{name: "clean", totals: Totals{Findings: 4}, want: false},
		{name: "errored", totals: Totals{FilesErrored: 1}, want: true},
		{name: "conflicted", totals: Totals{FilesConflicted: 1}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.totals.HasErrors())
		})
	}
}

func TestTotals_JSONKeys(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(Totals{Files: 2, FilesWithIssues: 1, Findings: 3})
	require.NoError(t, err)

	var keys map[string]int
	require.NoError(t, json.Unmarshal(data, &keys))
	assert.Equal(t, 2, keys["filesChecked"])
	assert.Equal(t, 1, keys["filesWithChanges"])
	assert.Equal(t, 3, keys["totalFindings"])
}
