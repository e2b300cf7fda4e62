// Package dto holds the JSON request and response shapes of the HTTP API.
package dto

import (
	"strings"

	"github.com/mddforum/mdd-api/apperror"
)

const passwordRule = "Password must contain at least one digit, one lowercase letter, one uppercase letter, and one special character"

type RegisterRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// Validate trims email and username in place and returns the failed fields.
func (r *RegisterRequest) Validate() apperror.FieldErrors {
	r.Email = strings.TrimSpace(r.Email)
	r.Username = strings.TrimSpace(r.Username)

	errs := apperror.FieldErrors{}
	if r.Email == "" {
		errs.Add("email", "Email is required")
	} else {
		checkLength(errs, "email", "Email", r.Email, 3, 100)
		if !validEmail(r.Email) {
			errs.Add("email", "Email must be valid")
		}
	}
	if r.Username == "" {
		errs.Add("username", "Username is required")
	} else {
		checkLength(errs, "username", "Username", r.Username, 3, 50)
	}
	if isBlank(r.Password) {
		errs.Add("password", "Password is required")
	} else {
		checkLength(errs, "password", "Password", r.Password, 6, 255)
		if !strongPassword(r.Password) {
			errs.Add("password", passwordRule)
		}
	}
	return errs
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *LoginRequest) Validate() apperror.FieldErrors {
	r.Email = strings.TrimSpace(r.Email)

	errs := apperror.FieldErrors{}
	if r.Email == "" {
		errs.Add("email", "Email is required")
	} else {
		checkLength(errs, "email", "Email", r.Email, 3, 255)
		if !validEmail(r.Email) {
			errs.Add("email", "Email must be valid")
		}
	}
	if isBlank(r.Password) {
		errs.Add("password", "Password is required")
	} else {
		checkLength(errs, "password", "Password", r.Password, 6, 255)
	}
	return errs
}

// UpdateUserRequest carries optional profile changes. Empty fields are left untouched.
// Password is taken verbatim; login compares it untrimmed.
type UpdateUserRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *UpdateUserRequest) Validate() apperror.FieldErrors {
	r.Username = strings.TrimSpace(r.Username)
	r.Email = strings.TrimSpace(r.Email)
	if isBlank(r.Password) {
		r.Password = ""
	}

	errs := apperror.FieldErrors{}
	if r.Username != "" {
		checkLength(errs, "username", "Username", r.Username, 0, 50)
	}
	if r.Email != "" {
		if !validEmail(r.Email) {
			errs.Add("email", "Email must be valid")
		}
		checkLength(errs, "email", "Email", r.Email, 0, 100)
	}
	if r.Password != "" {
		checkLength(errs, "password", "Password", r.Password, 8, 100)
		if !strongPassword(r.Password) {
			errs.Add("password", passwordRule)
		}
	}
	return errs
}

// Empty reports whether the request changes nothing.
func (r *UpdateUserRequest) Empty() bool {
	return r.Username == "" && r.Email == "" && r.Password == ""
}

type PostRequest struct {
	Title     string `json:"title"`
	Content   string `json:"content"`
	SubjectID int64  `json:"subjectId"`
}

func (r *PostRequest) Validate() apperror.FieldErrors {
	r.Title = strings.TrimSpace(r.Title)

	errs := apperror.FieldErrors{}
	if r.Title == "" {
		errs.Add("title", "The title is required")
	} else {
		checkLength(errs, "title", "The title", r.Title, 3, 255)
	}
	if isBlank(r.Content) {
		errs.Add("content", "The content is required")
	} else {
		checkLength(errs, "content", "The content", strings.TrimSpace(r.Content), 10, 0)
	}
	if r.SubjectID <= 0 {
		errs.Add("subjectId", "The subjectId is required")
	}
	return errs
}

type CommentRequest struct {
	Content string `json:"content"`
}

func (r *CommentRequest) Validate() apperror.FieldErrors {
	errs := apperror.FieldErrors{}
	if isBlank(r.Content) {
		errs.Add("content", "Comment content is required")
	} else {
		checkLength(errs, "content", "Comment", r.Content, 0, 5000)
	}
	return errs
}
