// Package forms holds the contact and newsletter submissions, their
// validation rules and the outcome of sending them.
package forms

import (
	"net/mail"
	"net/url"
	"sort"
	"strings"
)

// Status is the outcome of the latest submission attempt.
type Status int

const (
	Idle Status = iota
	Success
	Failure
)

func (s Status) String() string {
	switch s {
	case Success:
		return "success"
	case Failure:
		return "failure"
	default:
		return "idle"
	}
}

// Reason is the contact topic chosen by the visitor.
type Reason string

const (
	ReasonGeneral      Reason = "general-inquiry"
	ReasonInvestor     Reason = "investor-interest"
	ReasonPartnership  Reason = "partnership"
	ReasonConsultation Reason = "client-consultation"
	ReasonSupport      Reason = "technical-support"
	ReasonMedia        Reason = "media-press"
	ReasonCareer       Reason = "career-opportunity"
)

// ReasonOption is a select option for the contact form.
type ReasonOption struct {
	Value Reason
	Label string
}

// Reasons lists the contact topics in display order.
func Reasons() []ReasonOption {
	return []ReasonOption{
		{ReasonGeneral, "General Inquiry"},
		{ReasonInvestor, "Investment Opportunity"},
		{ReasonPartnership, "Partnership Proposal"},
		{ReasonConsultation, "Client Consultation"},
		{ReasonSupport, "Technical Support"},
		{ReasonMedia, "Media & Press"},
		{ReasonCareer, "Career Opportunity"},
	}
}

// Valid reports whether r is one of the listed reasons.
func (r Reason) Valid() bool {
	for _, o := range Reasons() {
		if o.Value == r {
			return true
		}
	}
	return false
}

// FieldErrors maps a form field name to a message.
type FieldErrors map[string]string

// Empty reports whether there are no errors.
func (fe FieldErrors) Empty() bool { return len(fe) == 0 }

// Fields returns the failing field names, sorted.
func (fe FieldErrors) Fields() []string {
	out := make([]string, 0, len(fe))
	for k := range fe {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

const (
	msgRequired = "This field is required."
	msgEmail    = "Enter a valid email address."
	msgReason   = "Choose a reason for contacting us."
)

// Contact is a contact form submission. Field names match the backend JSON body.
type Contact struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Company string `json:"company"`
	Reason  Reason `json:"reason"`
	Message string `json:"message"`
}

// ContactFromValues reads a posted form.
func ContactFromValues(v url.Values) Contact {
	return Contact{
		Name:    strings.TrimSpace(v.Get("name")),
		Email:   strings.TrimSpace(v.Get("email")),
		Company: strings.TrimSpace(v.Get("company")),
		Reason:  Reason(strings.TrimSpace(v.Get("reason"))),
		Message: strings.TrimSpace(v.Get("message")),
	}
}

// Validate checks required fields, email shape and reason.
func (c Contact) Validate() FieldErrors {
	errs := FieldErrors{}
	if c.Name == "" {
		errs["name"] = msgRequired
	}
	checkEmail(errs, c.Email)
	switch {
	case c.Reason == "":
		errs["reason"] = msgRequired
	case !c.Reason.Valid():
		errs["reason"] = msgReason
	}
	if c.Message == "" {
		errs["message"] = msgRequired
	}
	return errs
}

// Newsletter is a newsletter signup.
type Newsletter struct {
	Email string `json:"email"`
}

// NewsletterFromValues reads a posted form.
func NewsletterFromValues(v url.Values) Newsletter {
	return Newsletter{Email: strings.TrimSpace(v.Get("email"))}
}

// Validate checks the email.
func (n Newsletter) Validate() FieldErrors {
	errs := FieldErrors{}
	checkEmail(errs, n.Email)
	return errs
}

func checkEmail(errs FieldErrors, email string) {
	if email == "" {
		errs["email"] = msgRequired
		return
	}
	addr, err := mail.ParseAddress(email)
	// reject display-name forms like "Bob <bob@x.io>"
	if err != nil || addr.Address != email {
		errs["email"] = msgEmail
	}
}
