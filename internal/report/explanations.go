package report

import "github.com/KaramelBytes/heartlens/internal/dataset"

const noExplanation = "No explanation available."

var explanations = map[string]string{
	dataset.Age:            "Age of the patient (years). A positive correlation means older individuals are more likely to develop heart disease.",
	dataset.Sex:            "Gender of the patient (Male = 1, Female = 0). A positive correlation means men are more likely to develop heart disease.",
	dataset.ChestPainType:  "Type of chest pain experienced by the patient. A positive correlation suggests that certain types of chest pain, especially angina, are linked to heart disease.",
	dataset.RestingBP:      "Resting blood pressure (mm Hg). A positive correlation means that higher blood pressure is associated with greater heart disease risk.",
	dataset.Cholesterol:    "Serum cholesterol levels (mg/dl). A positive correlation means higher cholesterol levels are linked to heart disease.",
	dataset.FastingBS:      "Fasting blood sugar levels (1 if > 120 mg/dl, 0 otherwise). A positive correlation suggests that higher fasting blood sugar increases heart disease risk.",
	dataset.RestingECG:     "ECG results at rest. A positive correlation means abnormal ECG readings (like ST-T wave abnormalities) are associated with heart disease.",
	dataset.MaxHR:          "Maximum heart rate achieved during exercise. A negative correlation suggests that higher heart rate during exercise is associated with lower risk of heart disease.",
	dataset.ExerciseAngina: "Whether the patient experiences chest pain during exercise (Yes = 1, No = 0). A positive correlation means that chest pain during exercise is linked to heart disease.",
	dataset.Oldpeak:        "Depression in ST segment during exercise (measured in depression). A positive correlation means greater ST depression is linked to heart disease.",
	dataset.STSlope:        "The slope of the peak exercise ST segment. A positive correlation means that certain ST slopes are linked to heart disease.",
}

// Explain returns the static description of a feature.
func Explain(feature string) string {
	if e, ok := explanations[feature]; ok {
		return e
	}
	return noExplanation
}
