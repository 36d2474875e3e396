package clinical

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const loincHeader = "LOINC_NUM,COMPONENT,LONG_COMMON_NAME,SHORTNAME,SCALE_TYP,CLASSTYPE,STATUS,COMMON_TEST_RANK,SYSTEM,EXAMPLE_UNITS"

func loincCSV(rows ...string) string {
	return loincHeader + "\n" + strings.Join(rows, "\n") + "\n"
}

func TestBuildDefinitions_FiltersToCommonLabTests(t *testing.T) {
	csv := loincCSV(
		// Kept: quantitative, lab class, active, ranked, serum, with units
		`2345-7,Glucose,Glucose [Mass/volume] in Serum or Plasma,Glucose SerPl-mCnc,Qn,1,ACTIVE,2,Serum,mg/dL`,
		// Dropped: narrative scale
		`8716-3,Vital signs,Vital signs,Vitals,Nar,1,ACTIVE,5,Patient,mg/dL`,
		// Dropped: deprecated
		`1111-1,Old test,Old test name,Old,Qn,1,DEPRECATED,3,Serum,mg/dL`,
		// Dropped: unranked
		`2222-2,Rare test,Rare test name,Rare,Qn,1,ACTIVE,0,Serum,mg/dL`,
		// Dropped: no units
		`3333-3,Unitless,Unitless test,Unitless,Qn,1,ACTIVE,7,Serum,`,
		// Dropped: wrong specimen
		`4444-4,Skin test,Skin test name,Skin,Qn,1,ACTIVE,8,Skin,mg/dL`,
		// Dropped: non-lab class type
		`5555-5,Claims thing,Claims thing name,Claims,Qn,3,ACTIVE,9,Serum,mg/dL`,
		// Kept: ordinal urine test
		`5778-6,Color,Color of Urine,Color Ur,Ord,1,ACTIVE,40,Urine,mg/dL`,
	)

	defs, err := BuildDefinitions(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, defs, 2)

	codes := []string{defs[0].Code, defs[1].Code}
	assert.Equal(t, []string{"2345-7", "5778-6"}, codes)
}

func TestBuildDefinitions_OrdersByCommonTestRank(t *testing.T) {
	csv := loincCSV(
		`718-7,Hemoglobin,Hemoglobin [Mass/volume] in Blood,Hgb Bld,Qn,1,ACTIVE,30,Blood,g/dL`,
		`2345-7,Glucose,Glucose [Mass/volume] in Serum or Plasma,Glucose,Qn,1,ACTIVE,2,Serum,mg/dL`,
		`2951-2,Sodium,Sodium [Moles/volume] in Serum or Plasma,Sodium,Qn,1,ACTIVE,10,Serum,mmol/L`,
	)

	defs, err := BuildDefinitions(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, defs, 3)

	assert.Equal(t, "2345-7", defs[0].Code)
	assert.Equal(t, "2951-2", defs[1].Code)
	assert.Equal(t, "718-7", defs[2].Code)
}

func TestBuildDefinitions_DeduplicatesCodes(t *testing.T) {
	csv := loincCSV(
		`2345-7,Glucose,Glucose [Mass/volume] in Serum or Plasma,Glucose,Qn,1,ACTIVE,2,Serum,mg/dL`,
		`2345-7,Glucose,Glucose [Mass/volume] in Serum or Plasma,Glucose,Qn,1,ACTIVE,2,Serum,mg/dL`,
	)

	defs, err := BuildDefinitions(strings.NewReader(csv))
	require.NoError(t, err)
	assert.Len(t, defs, 1)
}

func TestBuildDefinitions_KnownComponentGetsClinicalRange(t *testing.T) {
	csv := loincCSV(
		`2345-7,Glucose,Glucose [Mass/volume] in Serum or Plasma,Glucose,Qn,1,ACTIVE,2,Serum,mg/dL`,
	)

	defs, err := BuildDefinitions(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, defs, 1)

	def := defs[0]
	assert.Equal(t, ValueRange{Low: 70, High: 100}, def.NormalRange)
	assert.Equal(t, def.NormalRange, def.Interpretations[InterpretationNormal])
	assert.Less(t, def.Interpretations[InterpretationLow].High, def.NormalRange.Low)
	assert.Greater(t, def.Interpretations[InterpretationHigh].Low, def.NormalRange.High)
	assert.Equal(t, "mg/dL", def.Unit)
	assert.Equal(t, "http://loinc.org", def.System)
	assert.Equal(t, "laboratory", def.Category)
}

func TestBuildDefinitions_UnknownComponentGetsFallbackRange(t *testing.T) {
	csv := loincCSV(
		`9999-9,Obscuritine,Obscuritine [Mass/volume] in Serum,Obscuritine,Qn,1,ACTIVE,50,Serum,ng/mL`,
	)

	defs, err := BuildDefinitions(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, defs, 1)

	def := defs[0]
	assert.Equal(t, ValueRange{Low: 0, High: 100}, def.NormalRange)
	assert.Equal(t, ValueRange{Low: 1, High: 100}, def.Interpretations[InterpretationNormal])
	assert.Equal(t, ValueRange{Low: 0, High: 0}, def.Interpretations[InterpretationLow])
	assert.Equal(t, ValueRange{Low: 101, High: 1000}, def.Interpretations[InterpretationHigh])
}

func TestBuildDefinitions_MissingColumnFails(t *testing.T) {
	csv := "LOINC_NUM,COMPONENT\n2345-7,Glucose\n"

	_, err := BuildDefinitions(strings.NewReader(csv))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LONG_COMMON_NAME")
}

func TestBuildDefinitions_EmptyTableYieldsNoDefinitions(t *testing.T) {
	defs, err := BuildDefinitions(strings.NewReader(loincHeader + "\n"))
	require.NoError(t, err)
	assert.Empty(t, defs)
}
