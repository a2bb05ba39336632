// Package render builds the HTML page: the input form, the outcome of a
// submission and the educational text below it.
package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"net/url"
	"strconv"

	"heart-risk/internal/patient"
	"heart-risk/internal/prediction"
)

//go:embed templates/page.html
var templates embed.FS

// State is where the page is in the submit cycle.
type State int

const (
	AwaitingInput State = iota
	ResultDisplayed
)

func (s State) String() string {
	if s == ResultDisplayed {
		return "result_displayed"
	}
	return "awaiting_input"
}

// FieldView is one form control with its current value and error, if any.
type FieldView struct {
	patient.Field
	Value string
	Error string
}

// IsSelect and IsSlider pick the widget in the template.
func (f FieldView) IsSelect() bool { return f.Control == patient.SelectBox }
func (f FieldView) IsSlider() bool { return f.Control == patient.Slider }

// View is everything the page template needs.
type View struct {
	State   State
	Fields  []FieldView
	Result  *prediction.Result
	Chart   template.HTML
	Failure string

	About       []string
	Symptoms    []string
	Precautions []string
	Tip         string
}

// FormView shows the form filled with values. Nil values means the defaults.
// errs marks the fields of a rejected submission.
func FormView(values url.Values, errs patient.ValidationErrors) View {
	if values == nil {
		values = RawValues(patient.DefaultRawInput())
	}

	fields := make([]FieldView, 0, len(patient.Fields))
	for _, f := range patient.Fields {
		fv := FieldView{Field: f, Value: values.Get(f.Name)}
		for _, fe := range errs {
			if fe.Field == f.Name {
				fv.Error = fe.Reason
				break
			}
		}
		fields = append(fields, fv)
	}

	return View{
		State:       AwaitingInput,
		Fields:      fields,
		About:       About,
		Symptoms:    Symptoms,
		Precautions: Precautions,
		Tip:         Tip,
	}
}

// FailureView is the form with a message explaining that no prediction was made.
func FailureView(values url.Values, message string) View {
	v := FormView(values, nil)
	v.Failure = message
	return v
}

// ResultView shows res under a form that keeps the submitted values.
func ResultView(raw patient.RawInput, res *prediction.Result) View {
	v := FormView(RawValues(raw), nil)
	v.State = ResultDisplayed
	v.Result = res
	// Chart only formats numbers and fixed strings.
	v.Chart = template.HTML(Chart(res.Split))
	return v
}

// RawValues renders raw the way the form submits it.
func RawValues(raw patient.RawInput) url.Values {
	f := func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
	return url.Values{
		patient.FieldAge:                     {strconv.Itoa(raw.Age)},
		patient.FieldSex:                     {raw.Sex},
		patient.FieldAnaemia:                 {raw.Anaemia},
		patient.FieldCreatininePhosphokinase: {strconv.Itoa(raw.CreatininePhosphokinase)},
		patient.FieldDiabetes:                {raw.Diabetes},
		patient.FieldEjectionFraction:        {strconv.Itoa(raw.EjectionFraction)},
		patient.FieldHighBloodPressure:       {raw.HighBloodPressure},
		patient.FieldPlatelets:               {f(raw.Platelets)},
		patient.FieldSerumCreatinine:         {f(raw.SerumCreatinine)},
		patient.FieldSerumSodium:             {strconv.Itoa(raw.SerumSodium)},
		patient.FieldSmoking:                 {raw.Smoking},
		patient.FieldFollowUpDays:            {strconv.Itoa(raw.FollowUpDays)},
	}
}

// Renderer executes the page template.
type Renderer struct {
	tmpl *template.Template
}

func NewRenderer() (*Renderer, error) {
	tmpl, err := template.New("page.html").Funcs(template.FuncMap{
		"percent": func(p float64) string { return fmt.Sprintf("%.1f%%", p*100) },
		"number":  func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) },
		"deref":   func(p *float64) float64 { return *p },
	}).ParseFS(templates, "templates/page.html")
	if err != nil {
		return nil, fmt.Errorf("parse page template: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

func (r *Renderer) Render(w io.Writer, v View) error {
	return r.tmpl.Execute(w, v)
}
