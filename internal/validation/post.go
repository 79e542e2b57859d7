package validation

import "github.com/yoockh/devconnect/internal/models"

const (
	postTextMin = 10
	postTextMax = 300
)

// ValidatePostInput checks the text of a post. Missing or blank text counts
// as "".
// Length and emptiness are checked independently, so empty text reports both.
func ValidatePostInput(in models.PostInput) Result {
	res := newResult()

	text := ""
	if in.Text != nil && !blank(*in.Text) {
		text = *in.Text
	}

	if !isLength(text, postTextMin, postTextMax) {
		res.Errors.Add("text", "Text must be between 10 and 300 characters.")
	}
	if isEmpty(text) {
		res.Errors.Add("text", "Text is invalid")
	}
	return res.done()
}
