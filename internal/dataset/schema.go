package dataset

import "errors"

// Column names of the heart-disease record.
const (
	Age            = "Age"
	Sex            = "Sex"
	ChestPainType  = "ChestPainType"
	RestingBP      = "RestingBP"
	Cholesterol    = "Cholesterol"
	FastingBS      = "FastingBS"
	RestingECG     = "RestingECG"
	MaxHR          = "MaxHR"
	ExerciseAngina = "ExerciseAngina"
	Oldpeak        = "Oldpeak"
	STSlope        = "ST_Slope"
	HeartDisease   = "HeartDisease"
)

// Field declares one column of a fixed schema.
type Field struct {
	Name string
	Kind Kind
}

// Schema is an ordered list of required fields.
type Schema []Field

// HeartSchema is the patient record layout expected in the input CSV.
var HeartSchema = Schema{
	{Age, Numeric},
	{Sex, Categorical},
	{ChestPainType, Categorical},
	{RestingBP, Numeric},
	{Cholesterol, Numeric},
	{FastingBS, Numeric},
	{RestingECG, Categorical},
	{MaxHR, Numeric},
	{ExerciseAngina, Categorical},
	{Oldpeak, Numeric},
	{STSlope, Categorical},
	{HeartDisease, Numeric},
}

// Lookup returns the declared field for name.
func (s Schema) Lookup(name string) (Field, bool) {
	for _, f := range s {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// ErrMissingColumn is returned when a required or requested column is absent.
var ErrMissingColumn = errors.New("missing column")
