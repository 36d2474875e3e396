package clinical

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/synthfhir/synthfhir/internal/lib"
)

func TestDefaultLibrary_DefinitionsAreConsistent(t *testing.T) {
	library := DefaultLibrary()
	require.False(t, library.IsEmpty())

	for _, def := range library.Definitions() {
		assert.NotEmpty(t, def.Code)
		assert.NotEmpty(t, def.Display)
		assert.NotEmpty(t, def.Unit)
		assert.Equal(t, "http://loinc.org", def.System)
		assert.Equal(t, "laboratory", def.Category)

		// Every definition carries all three interpretation bands and the
		// NORMAL band matches the reference range
		for _, label := range Interpretations {
			band, ok := def.Interpretations[label]
			require.True(t, ok, "%s missing %s band", def.Code, label)
			assert.LessOrEqual(t, band.Low, band.High, "%s %s band inverted", def.Code, label)
		}
		assert.Equal(t, def.NormalRange, def.Interpretations[InterpretationNormal], def.Code)

		// LOW stays below the reference range, HIGH above it
		assert.Less(t, def.Interpretations[InterpretationLow].High, def.NormalRange.Low, def.Code)
		assert.Greater(t, def.Interpretations[InterpretationHigh].Low, def.NormalRange.High, def.Code)
	}
}

func TestLibrary_SampleDefinition_EmptyLibraryFails(t *testing.T) {
	library := NewLibrary(nil)

	_, err := library.SampleDefinition(func(n int) int { return 0 })
	require.Error(t, err)

	var genErr *lib.GeneratorError
	require.True(t, errors.As(err, &genErr))
	assert.Equal(t, lib.CategoryClinical, genErr.Category)
}

func TestLibrary_SampleDefinition_UsesPicker(t *testing.T) {
	library := DefaultLibrary()

	def, err := library.SampleDefinition(func(n int) int { return n - 1 })
	require.NoError(t, err)
	assert.Equal(t, library.Definitions()[library.Len()-1].Code, def.Code)
}

func TestSaveAndLoadLibrary_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "defs.json")

	require.NoError(t, SaveDefinitions(path, DefaultLibrary().Definitions()))

	loaded, err := LoadLibrary(path)
	require.NoError(t, err)
	require.Equal(t, DefaultLibrary().Len(), loaded.Len())
	assert.Equal(t, DefaultLibrary().Definitions(), loaded.Definitions())
}

func TestLoadLibrary_MissingFile(t *testing.T) {
	_, err := LoadLibrary(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)

	var genErr *lib.GeneratorError
	require.True(t, errors.As(err, &genErr))
	assert.Equal(t, lib.CategoryFileSystem, genErr.Category)
}
