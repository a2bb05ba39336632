package patient

// FeatureOrder is the column order the classifier was trained on.
// It differs from the form order: sex sits between serum_sodium and smoking,
// and follow_up_days is called "time".
var FeatureOrder = []string{
	"age",
	"anaemia",
	"creatinine_phosphokinase",
	"diabetes",
	"ejection_fraction",
	"high_blood_pressure",
	"platelets",
	"serum_creatinine",
	"serum_sodium",
	"sex",
	"smoking",
	"time",
}

// NumFeatures is the length of every feature vector.
const NumFeatures = 12

// Vector assembles the classifier input in FeatureOrder.
func (in Input) Vector() []float64 {
	return []float64{
		float64(in.Age),
		in.Anaemia.Value(),
		float64(in.CreatininePhosphokinase),
		in.Diabetes.Value(),
		float64(in.EjectionFraction),
		in.HighBloodPressure.Value(),
		in.Platelets,
		in.SerumCreatinine,
		float64(in.SerumSodium),
		in.Sex.Value(),
		in.Smoking.Value(),
		float64(in.FollowUpDays),
	}
}
