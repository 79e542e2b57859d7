package validation

import "github.com/yoockh/devconnect/internal/models"

// ValidateProfileInput checks only the fields that were supplied; absent
// fields are left to the merge.
func ValidateProfileInput(in models.ProfileFields) Result {
	res := newResult()

	if v := in.HandleValue(); v != "" && !isLength(v, 2, 40) {
		res.Errors.Add("handle", "Handle needs to be between 2 and 40 characters")
	}
	if v := in.Status; v != nil && *v != "" && blank(*v) {
		res.Errors.Add("status", "Status field is required")
	}
	if in.Skills != nil && *in.Skills != "" && len(models.SplitSkills(in.Skills)) == 0 {
		res.Errors.Add("skills", "Skills field is required")
	}

	urls := []struct {
		field string
		v     *string
	}{
		{"website", in.Website},
		{"youtube", in.YouTube},
		{"twitter", in.Twitter},
		{"facebook", in.Facebook},
		{"linkedin", in.LinkedIn},
		{"instagram", in.Instagram},
	}
	for _, u := range urls {
		if u.v != nil && *u.v != "" && !isURL(*u.v) {
			res.Errors.Add(u.field, "Not a valid URL")
		}
	}
	return res.done()
}
