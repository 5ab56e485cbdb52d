// Package validate checks form input before anything reaches the network.
package validate

import (
	"net/mail"
	"strings"
	"time"

	"github.com/tgienger/taskdesk/internal/models"
)

// FieldError is a single failed check
type FieldError struct {
	Field   string
	Message string
}

// Errors is an ordered list of field failures
type Errors []FieldError

func (e Errors) Error() string {
	if len(e) == 0 {
		return ""
	}
	return e[0].Message
}

// Field returns the first message for field, or ""
func (e Errors) Field(name string) string {
	for _, fe := range e {
		if fe.Field == name {
			return fe.Message
		}
	}
	return ""
}

func (e *Errors) add(field, msg string) {
	*e = append(*e, FieldError{Field: field, Message: msg})
}

func (e Errors) orNil() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

// LoginInput is what the login form submits
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Remember bool   `json:"remember"`
}

// Roles a new account may request
var Roles = []string{"owner", "admin", "user"}

// RegisterInput is what the register form submits
type RegisterInput struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	Role            string `json:"role"`
	Accept          bool   `json:"accept"`
}

const minPasswordLen = 8

// Login normalizes and checks a login form
func Login(in *LoginInput) error {
	var errs Errors
	in.Email = strings.TrimSpace(in.Email)
	checkEmail(&errs, in.Email)
	checkPassword(&errs, "password", in.Password)
	return errs.orNil()
}

// Register normalizes and checks a registration form
func Register(in *RegisterInput) error {
	var errs Errors
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	if in.Role == "" {
		in.Role = "user"
	}

	switch {
	case in.Name == "":
		errs.add("name", "Name is required")
	case len([]rune(in.Name)) < 2:
		errs.add("name", "Name is too short")
	}
	checkEmail(&errs, in.Email)
	checkPassword(&errs, "password", in.Password)
	if in.ConfirmPassword == "" {
		errs.add("confirmPassword", "Please confirm your password")
	} else if in.Password != in.ConfirmPassword {
		errs.add("confirmPassword", "Passwords do not match")
	}
	if !oneOf(in.Role, Roles) {
		errs.add("role", "Invalid role")
	}
	if !in.Accept {
		errs.add("accept", "Please accept the terms")
	}
	return errs.orNil()
}

// TaskDraft is the task form as typed, before conversion
type TaskDraft struct {
	Title       string
	Description string
	Priority    models.Priority
	Status      models.Status
	DueDate     string // local time, DueDateLayout
}

// DueDateLayout is the local date-time input format of the task form
const DueDateLayout = "2006-01-02T15:04"

const MaxDescriptionLen = 5000

// Task checks a task draft and converts it to a request body.
// Due dates are read in loc and sent as absolute time.
func Task(d TaskDraft, loc *time.Location) (models.TaskInput, error) {
	var errs Errors
	title := strings.TrimSpace(d.Title)
	desc := strings.TrimSpace(d.Description)

	if title == "" {
		errs.add("title", "Title is required")
	}
	if len([]rune(desc)) > MaxDescriptionLen {
		errs.add("description", "Description must be less than 5000 characters")
	}
	if !d.Priority.Valid() {
		errs.add("priority", "Invalid priority")
	}
	if !d.Status.Valid() {
		errs.add("status", "Invalid status")
	}

	in := models.TaskInput{
		Title:       &title,
		Description: &desc,
		Priority:    &d.Priority,
		Status:      &d.Status,
	}
	if due := strings.TrimSpace(d.DueDate); due != "" {
		t, err := time.ParseInLocation(DueDateLayout, due, loc)
		if err != nil {
			errs.add("dueDate", "Invalid date")
		} else {
			utc := t.UTC()
			in.DueDate = &utc
		}
	}
	if len(errs) > 0 {
		return models.TaskInput{}, errs
	}
	return in, nil
}

// Invite checks a collaborator invitation
func Invite(email string, role models.Role) error {
	var errs Errors
	checkEmail(&errs, strings.TrimSpace(email))
	if !role.Valid() {
		errs.add("role", "Invalid role")
	}
	return errs.orNil()
}

func checkEmail(errs *Errors, email string) {
	if email == "" {
		errs.add("email", "Email is required")
		return
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		errs.add("email", "Enter a valid email")
	}
}

func checkPassword(errs *Errors, field, pw string) {
	switch {
	case pw == "":
		errs.add(field, "Password is required")
	case len(pw) < minPasswordLen:
		errs.add(field, "Minimum 8 characters")
	}
}

func oneOf(s string, options []string) bool {
	for _, o := range options {
		if s == o {
			return true
		}
	}
	return false
}
