package render

// Educational text shown under the form.
var (
	About = []string{
		"Provide your health details to predict the likelihood of heart disease.",
		"Visualize results through interactive charts.",
		"Learn more about symptoms and precautions for heart disease at the end.",
	}

	Symptoms = []string{
		"Chest pain or discomfort.",
		"Shortness of breath.",
		"Fatigue, lightheadedness, or dizziness.",
		"Pain in the neck, jaw, throat, or back.",
	}

	Precautions = []string{
		"Maintain a healthy diet.",
		"Exercise regularly (at least 30 minutes daily).",
		"Avoid smoking and excessive alcohol.",
		"Manage stress and get enough sleep.",
		"Regularly check blood pressure, cholesterol, and glucose levels.",
	}

	Tip = "Early detection and lifestyle changes are key to preventing heart disease."
)
