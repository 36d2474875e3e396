package ui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWriteSummary_OrdersKnownTypesAndTotals(t *testing.T) {
	var buf strings.Builder
	WriteSummary(&buf, map[string]int{
		"Observation":  6,
		"Patient":      3,
		"Organization": 1,
		"CustomThing":  2,
	})

	out := buf.String()
	assert.Less(t, strings.Index(out, "Organization"), strings.Index(out, "Patient"))
	assert.Less(t, strings.Index(out, "Patient"), strings.Index(out, "Observation"))
	assert.Less(t, strings.Index(out, "Observation"), strings.Index(out, "CustomThing"))
	assert.Regexp(t, `Total\s+12`, out)
}

func TestProgressBar_TracksPercentage(t *testing.T) {
	var buf strings.Builder
	bar := NewProgressBarWithWriter(10, "test", &buf)

	assert.NoError(t, bar.Add(5))
	assert.Equal(t, 50.0, bar.GetPercentage())

	assert.NoError(t, bar.Set(10))
	assert.Equal(t, 100.0, bar.GetPercentage())
	assert.NoError(t, bar.Finish())
}
