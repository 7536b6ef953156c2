// Package contact implements the portfolio contact form: the submission
// model and its validation rules, the client that posts a submission to the
// email relay, and the Controller that owns form state between edits and
// submits.
package contact

import "strings"

// Submission is the four-field payload a visitor sends. It is built fresh
// from the form fields at submit time and never stored.
type Submission struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// Field identifies one input of the contact form.
type Field int

const (
	FieldName Field = iota
	FieldEmail
	FieldSubject
	FieldMessage
)

// Fields lists the form inputs in display order.
var Fields = []Field{FieldName, FieldEmail, FieldSubject, FieldMessage}

// String returns the form name of the field.
func (f Field) String() string {
	switch f {
	case FieldName:
		return "name"
	case FieldEmail:
		return "email"
	case FieldSubject:
		return "subject"
	case FieldMessage:
		return "message"
	default:
		return "unknown"
	}
}

// Get returns the value of field f.
func (s Submission) Get(f Field) string {
	switch f {
	case FieldName:
		return s.Name
	case FieldEmail:
		return s.Email
	case FieldSubject:
		return s.Subject
	case FieldMessage:
		return s.Message
	}
	return ""
}

// Set stores v in field f. Unknown fields are ignored.
func (s *Submission) Set(f Field, v string) {
	switch f {
	case FieldName:
		s.Name = v
	case FieldEmail:
		s.Email = v
	case FieldSubject:
		s.Subject = v
	case FieldMessage:
		s.Message = v
	}
}

// Validate checks the submission in order and returns the first failure:
// ErrMissingFields when any field is empty, then ErrInvalidEmail.
func (s Submission) Validate() error {
	if s.Name == "" || s.Email == "" || s.Subject == "" || s.Message == "" {
		return ErrMissingFields
	}
	if !ValidEmail(s.Email) {
		return ErrInvalidEmail
	}
	return nil
}

// ValidEmail reports whether addr contains an '@' followed somewhere by a
// '.'. It is deliberately not an RFC 5322 check.
func ValidEmail(addr string) bool {
	at := strings.IndexByte(addr, '@')
	if at < 0 {
		return false
	}
	return strings.Contains(addr[at+1:], ".")
}
