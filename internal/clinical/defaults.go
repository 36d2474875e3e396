package clinical

const (
	loincSystem   = "http://loinc.org"
	ucumSystem    = "http://unitsofmeasure.org"
	labCategory   = "laboratory"
)

// DefaultLibrary returns the compiled-in lab-test definitions so generation
// works without running the LOINC build step first. The entries are common
// panel tests with textbook adult reference ranges; each interpretation
// sub-range is disjoint and brackets the normal range.
func DefaultLibrary() *Library {
	return NewLibrary(defaultDefinitions)
}

var defaultDefinitions = []ObservationDefinition{
	{
		Code: "2345-7", Display: "Glucose [Mass/volume] in Serum or Plasma",
		Text: "Glucose SerPl-mCnc", System: loincSystem, Category: labCategory,
		Unit: "mg/dL", UnitSystem: ucumSystem, UnitCode: "mg/dL",
		NormalRange: ValueRange{Low: 70, High: 100},
		Interpretations: map[Interpretation]ValueRange{
			InterpretationLow:    {Low: 40, High: 69.9},
			InterpretationNormal: {Low: 70, High: 100},
			InterpretationHigh:   {Low: 100.1, High: 250},
		},
	},
	{
		Code: "2951-2", Display: "Sodium [Moles/volume] in Serum or Plasma",
		Text: "Sodium SerPl-sCnc", System: loincSystem, Category: labCategory,
		Unit: "mEq/L", UnitSystem: ucumSystem, UnitCode: "meq/L",
		NormalRange: ValueRange{Low: 136, High: 145},
		Interpretations: map[Interpretation]ValueRange{
			InterpretationLow:    {Low: 120, High: 135.9},
			InterpretationNormal: {Low: 136, High: 145},
			InterpretationHigh:   {Low: 145.1, High: 160},
		},
	},
	{
		Code: "2823-3", Display: "Potassium [Moles/volume] in Serum or Plasma",
		Text: "Potassium SerPl-sCnc", System: loincSystem, Category: labCategory,
		Unit: "mEq/L", UnitSystem: ucumSystem, UnitCode: "meq/L",
		NormalRange: ValueRange{Low: 3.5, High: 5.0},
		Interpretations: map[Interpretation]ValueRange{
			InterpretationLow:    {Low: 2.5, High: 3.4},
			InterpretationNormal: {Low: 3.5, High: 5.0},
			InterpretationHigh:   {Low: 5.1, High: 7.0},
		},
	},
	{
		Code: "2160-0", Display: "Creatinine [Mass/volume] in Serum or Plasma",
		Text: "Creat SerPl-mCnc", System: loincSystem, Category: labCategory,
		Unit: "mg/dL", UnitSystem: ucumSystem, UnitCode: "mg/dL",
		NormalRange: ValueRange{Low: 0.6, High: 1.2},
		Interpretations: map[Interpretation]ValueRange{
			InterpretationLow:    {Low: 0.1, High: 0.5},
			InterpretationNormal: {Low: 0.6, High: 1.2},
			InterpretationHigh:   {Low: 1.3, High: 4.0},
		},
	},
	{
		Code: "718-7", Display: "Hemoglobin [Mass/volume] in Blood",
		Text: "Hgb Bld-mCnc", System: loincSystem, Category: labCategory,
		Unit: "g/dL", UnitSystem: ucumSystem, UnitCode: "g/dL",
		NormalRange: ValueRange{Low: 12.0, High: 16.0},
		Interpretations: map[Interpretation]ValueRange{
			InterpretationLow:    {Low: 6.0, High: 11.9},
			InterpretationNormal: {Low: 12.0, High: 16.0},
			InterpretationHigh:   {Low: 16.1, High: 20.0},
		},
	},
	{
		Code: "6690-2", Display: "Leukocytes [#/volume] in Blood by Automated count",
		Text: "WBC # Bld Auto", System: loincSystem, Category: labCategory,
		Unit: "10*3/uL", UnitSystem: ucumSystem, UnitCode: "10*3/uL",
		NormalRange: ValueRange{Low: 4.5, High: 11.0},
		Interpretations: map[Interpretation]ValueRange{
			InterpretationLow:    {Low: 1.0, High: 4.4},
			InterpretationNormal: {Low: 4.5, High: 11.0},
			InterpretationHigh:   {Low: 11.1, High: 25.0},
		},
	},
	{
		Code: "2093-3", Display: "Cholesterol [Mass/volume] in Serum or Plasma",
		Text: "Cholest SerPl-mCnc", System: loincSystem, Category: labCategory,
		Unit: "mg/dL", UnitSystem: ucumSystem, UnitCode: "mg/dL",
		NormalRange: ValueRange{Low: 100, High: 200},
		Interpretations: map[Interpretation]ValueRange{
			InterpretationLow:    {Low: 50, High: 99.9},
			InterpretationNormal: {Low: 100, High: 200},
			InterpretationHigh:   {Low: 200.1, High: 350},
		},
	},
	{
		Code: "3016-3", Display: "Thyrotropin [Units/volume] in Serum or Plasma",
		Text: "TSH SerPl-aCnc", System: loincSystem, Category: labCategory,
		Unit: "mIU/L", UnitSystem: ucumSystem, UnitCode: "m[IU]/L",
		NormalRange: ValueRange{Low: 0.4, High: 4.0},
		Interpretations: map[Interpretation]ValueRange{
			InterpretationLow:    {Low: 0.01, High: 0.39},
			InterpretationNormal: {Low: 0.4, High: 4.0},
			InterpretationHigh:   {Low: 4.1, High: 20.0},
		},
	},
	{
		Code: "4548-4", Display: "Hemoglobin A1c/Hemoglobin.total in Blood",
		Text: "HbA1c MFr Bld", System: loincSystem, Category: labCategory,
		Unit: "%", UnitSystem: ucumSystem, UnitCode: "%",
		NormalRange: ValueRange{Low: 4.0, High: 5.6},
		Interpretations: map[Interpretation]ValueRange{
			InterpretationLow:    {Low: 3.0, High: 3.9},
			InterpretationNormal: {Low: 4.0, High: 5.6},
			InterpretationHigh:   {Low: 5.7, High: 14.0},
		},
	},
}
