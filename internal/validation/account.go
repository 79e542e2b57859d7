package validation

import "github.com/yoockh/devconnect/internal/models"

func ValidateRegisterInput(in models.RegisterInput) Result {
	res := newResult()

	if !isLength(in.Name, 2, 30) {
		res.Errors.Add("name", "Name must be between 2 and 30 characters")
	}
	if isEmpty(in.Name) {
		res.Errors.Add("name", "Name field is required")
	}

	if isEmpty(in.Email) {
		res.Errors.Add("email", "Email field is required")
	} else if !isEmail(in.Email) {
		res.Errors.Add("email", "Email is invalid")
	}

	if isEmpty(in.Password) {
		res.Errors.Add("password", "Password field is required")
	} else if !isLength(in.Password, 6, 30) {
		res.Errors.Add("password", "Password must be at least 6 characters")
	}

	if isEmpty(in.Password2) {
		res.Errors.Add("password2", "Confirm password field is required")
	} else if in.Password != in.Password2 {
		res.Errors.Add("password2", "Passwords must match")
	}
	return res.done()
}

func ValidateLoginInput(in models.LoginInput) Result {
	res := newResult()

	if isEmpty(in.Email) {
		res.Errors.Add("email", "Email field is required")
	} else if !isEmail(in.Email) {
		res.Errors.Add("email", "Email is invalid")
	}
	if isEmpty(in.Password) {
		res.Errors.Add("password", "Password field is required")
	}
	return res.done()
}
