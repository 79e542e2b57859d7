package validation

import "github.com/yoockh/devconnect/internal/models"

func ValidateExperienceInput(in models.ExperienceInput) Result {
	res := newResult()

	if blank(in.Title) {
		res.Errors.Add("title", "Job title field is required")
	}
	if blank(in.Company) {
		res.Errors.Add("company", "Company field is required")
	}
	checkDates(&res, in.From, in.To)
	return res.done()
}

func ValidateEducationInput(in models.EducationInput) Result {
	res := newResult()

	if blank(in.School) {
		res.Errors.Add("school", "School field is required")
	}
	if blank(in.Degree) {
		res.Errors.Add("degree", "Degree field is required")
	}
	if blank(in.FieldOfStudy) {
		res.Errors.Add("fieldofstudy", "Field of study field is required")
	}
	checkDates(&res, in.From, in.To)
	return res.done()
}

func checkDates(res *Result, from, to string) {
	if blank(from) {
		res.Errors.Add("from", "From date field is required")
	} else if _, err := models.ParseDate(from); err != nil {
		res.Errors.Add("from", "From date is not a valid date")
	}
	if !blank(to) {
		if _, err := models.ParseDate(to); err != nil {
			res.Errors.Add("to", "To date is not a valid date")
		}
	}
}
