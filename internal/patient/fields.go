package patient

// Control is the kind of widget used to enter a field.
type Control string

const (
	NumberInput Control = "number"
	Slider      Control = "slider"
	SelectBox   Control = "select"
)

// Field form field names.
const (
	FieldAge                     = "age"
	FieldSex                     = "sex"
	FieldAnaemia                 = "anaemia"
	FieldCreatininePhosphokinase = "creatinine_phosphokinase"
	FieldDiabetes                = "diabetes"
	FieldEjectionFraction        = "ejection_fraction"
	FieldHighBloodPressure       = "high_blood_pressure"
	FieldPlatelets               = "platelets"
	FieldSerumCreatinine         = "serum_creatinine"
	FieldSerumSodium             = "serum_sodium"
	FieldSmoking                 = "smoking"
	FieldFollowUpDays            = "follow_up_days"
)

// Field describes one input control and its domain.
// For SelectBox fields Min, Max and Step are unused and Default is an index into Options.
type Field struct {
	Name        string   `json:"name"`
	Label       string   `json:"label"`
	Title       string   `json:"title"`
	Control     Control  `json:"control"`
	Integer     bool     `json:"integer"`
	Min         float64  `json:"min"`
	Max         float64  `json:"max"`
	Step        float64  `json:"step,omitempty"`
	Default     float64  `json:"default"`
	Options     []string `json:"options,omitempty"`
	Explanation string   `json:"explanation"`
}

// DefaultOption returns the preselected choice of a SelectBox field.
func (f Field) DefaultOption() string {
	if f.Control != SelectBox || len(f.Options) == 0 {
		return ""
	}
	return f.Options[int(f.Default)]
}

// Contains reports whether v is inside the field's closed domain.
func (f Field) Contains(v float64) bool {
	return v >= f.Min && v <= f.Max
}

// Fields lists the form controls in display order.
var Fields = []Field{
	{
		Name: FieldAge, Label: "Age (years)", Title: "Age",
		Control: NumberInput, Integer: true, Min: 0, Max: 120, Step: 1, Default: 50,
		Explanation: "Patient's age in years.",
	},
	{
		Name: FieldSex, Label: "Gender", Title: "Gender",
		Control: SelectBox, Options: SexOptions, Default: 0,
		Explanation: "Biological sex of the patient.",
	},
	{
		Name: FieldAnaemia, Label: "Anaemia (Low Red Blood Cells)", Title: "Anaemia",
		Control: SelectBox, Options: FlagOptions, Default: 0,
		Explanation: "Indicates if the patient has low levels of red blood cells.",
	},
	{
		Name: FieldCreatininePhosphokinase, Label: "CPK Enzyme Level (mcg/L)", Title: "CPK",
		Control: NumberInput, Integer: true, Min: 0, Max: 10000, Step: 1, Default: 250,
		Explanation: "Level of creatinine phosphokinase enzyme in the blood.",
	},
	{
		Name: FieldDiabetes, Label: "Diabetes", Title: "Diabetes",
		Control: SelectBox, Options: FlagOptions, Default: 0,
		Explanation: "Indicates if the patient has diabetes.",
	},
	{
		Name: FieldEjectionFraction, Label: "Ejection Fraction (%)", Title: "Ejection Fraction",
		Control: Slider, Integer: true, Min: 0, Max: 100, Step: 1, Default: 50,
		Explanation: "Percentage of blood leaving the heart during a contraction.",
	},
	{
		Name: FieldHighBloodPressure, Label: "High Blood Pressure", Title: "High Blood Pressure",
		Control: SelectBox, Options: FlagOptions, Default: 0,
		Explanation: "Indicates if the patient has hypertension.",
	},
	{
		Name: FieldPlatelets, Label: "Platelets Count (kiloplatelets/mL)", Title: "Platelets",
		Control: NumberInput, Min: 0, Max: 1000000, Step: 0.01, Default: 250000,
		Explanation: "Platelets in blood (kiloplatelets per mL).",
	},
	{
		Name: FieldSerumCreatinine, Label: "Serum Creatinine Level (mg/dL)", Title: "Serum Creatinine",
		Control: NumberInput, Min: 0, Max: 10, Step: 0.01, Default: 1,
		Explanation: "Creatinine levels in the blood (mg/dL).",
	},
	{
		Name: FieldSerumSodium, Label: "Serum Sodium Level (mEq/L)", Title: "Serum Sodium",
		Control: Slider, Integer: true, Min: 100, Max: 150, Step: 1, Default: 135,
		Explanation: "Sodium levels in the blood (mEq/L).",
	},
	{
		Name: FieldSmoking, Label: "Smoking", Title: "Smoking",
		Control: SelectBox, Options: FlagOptions, Default: 0,
		Explanation: "Indicates if the patient is a smoker.",
	},
	{
		Name: FieldFollowUpDays, Label: "Follow-up Period (days)", Title: "Follow-up Period",
		Control: NumberInput, Integer: true, Min: 0, Max: 500, Step: 1, Default: 150,
		Explanation: "Days since the patient was last seen by the doctor.",
	},
}

// FieldByName looks a field up by its form name.
func FieldByName(name string) (Field, bool) {
	for _, f := range Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}
