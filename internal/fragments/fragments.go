// Package fragments renders the interactive pieces of the site that htmx swaps in place:
// the theme toggle, the consent banner and the two forms.
package fragments

import (
	"embed"
	"html/template"

	"github.com/a-h/templ"

	"prognocore.com/web/internal/consent"
	"prognocore.com/web/internal/forms"
	"prognocore.com/web/internal/theme"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var views = template.Must(template.New("fragments").ParseFS(templateFS, "templates/*.tmpl"))

// Translator returns the copy for a message key.
type Translator func(key string) string

func (t Translator) get(key string) string {
	if t == nil {
		return key
	}
	return t(key)
}

// messages gives a view the {{.T "key"}} lookup the page templates use.
type messages struct{ tr Translator }

func (m messages) T(key string) string { return m.tr.get(key) }

func component(name string, data any) templ.Component {
	return templ.FromGoHTML(views.Lookup(name), data)
}

type field struct {
	ID          string
	Type        string
	Label       string
	Placeholder string
	Value       string
	Error       string
	Required    bool
}

type status struct {
	Class string
	Role  string
	Text  string
}

type button struct {
	Class string
	Label string
	Busy  string
}

type option struct {
	Value    string
	Label    string
	Selected bool
}

// ThemeToggle is the header toggle. Its icon shows the theme the click leads away from.
// Without htmx the form posts normally and the server redirects back.
func ThemeToggle(current theme.Theme, csrf string, t Translator) templ.Component {
	icon, label := "🌙", t.get("theme.to_dark")
	if current == theme.Dark {
		icon, label = "☀️", t.get("theme.to_light")
	}
	return component("theme_toggle", struct {
		Icon, Label, Current, CSRFToken string
	}{icon, label, current.String(), csrf})
}

// Logo is the header logo. oob marks it for an out-of-band htmx swap.
func Logo(current theme.Theme, t Translator, oob bool) templ.Component {
	return component("logo", struct {
		Src, Alt string
		OOB      bool
	}{current.Logo(), t.get("site.logo_alt"), oob})
}

// ConsentBanner renders the cookie prompt, or an empty hidden placeholder once an answer is stored.
func ConsentBanner(state consent.State, csrf string, t Translator) templ.Component {
	return component("consent_banner", consentView{messages{t}, state != consent.Unset, csrf})
}

type consentView struct {
	messages
	Answered  bool
	CSRFToken string
}

// ContactFormData is the state of the contact form.
type ContactFormData struct {
	Values    forms.Contact
	Errors    forms.FieldErrors
	Status    forms.Status
	CSRFToken string
}

// ContactForm renders the contact form with its latest status. A success clears the values.
func ContactForm(d ContactFormData, t Translator) templ.Component {
	values := d.Values
	if d.Status == forms.Success {
		values = forms.Contact{}
	}
	reasons := make([]option, 0, len(forms.Reasons()))
	for _, o := range forms.Reasons() {
		reasons = append(reasons, option{Value: string(o.Value), Label: o.Label, Selected: o.Value == values.Reason})
	}
	return component("contact_form", struct {
		CSRFToken string
		Status    *status
		Name      field
		Email     field
		Company   field
		Reason    field
		Reasons   []option
		Message   field
		Submit    button
	}{
		CSRFToken: d.CSRFToken,
		Status:    statusFor(d.Status, d.Errors, t.get("form.contact_success"), t.get("form.contact_failure"), t.get("form.invalid")),
		Name:      field{"name", "text", t.get("form.name"), t.get("form.name_placeholder"), values.Name, d.Errors["name"], true},
		Email:     field{"email", "email", t.get("form.email"), t.get("form.email_placeholder"), values.Email, d.Errors["email"], true},
		Company:   field{"company", "text", t.get("form.company"), t.get("form.company_placeholder"), values.Company, d.Errors["company"], false},
		Reason:    field{ID: "reason", Label: t.get("form.reason"), Placeholder: t.get("form.reason_placeholder"), Error: d.Errors["reason"], Required: true},
		Reasons:   reasons,
		Message:   field{ID: "message", Label: t.get("form.message"), Placeholder: t.get("form.message_placeholder"), Value: values.Message, Error: d.Errors["message"], Required: true},
		Submit:    button{"btn-primary submit-btn", t.get("form.submit"), t.get("form.sending")},
	})
}

// NewsletterFormData is the state of the newsletter form.
type NewsletterFormData struct {
	Values    forms.Newsletter
	Errors    forms.FieldErrors
	Status    forms.Status
	CSRFToken string
}

// NewsletterForm renders the newsletter signup. A success clears the email.
func NewsletterForm(d NewsletterFormData, t Translator) templ.Component {
	email := d.Values.Email
	if d.Status == forms.Success {
		email = ""
	}
	return component("newsletter_form", struct {
		CSRFToken string
		Email     field
		Submit    button
		Status    *status
	}{
		CSRFToken: d.CSRFToken,
		Email:     field{ID: "newsletter-email", Placeholder: t.get("newsletter.placeholder"), Value: email, Error: d.Errors["email"]},
		Submit:    button{"btn-primary", t.get("newsletter.submit"), t.get("form.sending")},
		Status:    statusFor(d.Status, d.Errors, t.get("newsletter.success"), t.get("newsletter.failure"), ""),
	})
}

// statusFor picks the alert above a form. An empty invalid text means field errors show inline only.
func statusFor(s forms.Status, errs forms.FieldErrors, success, failure, invalid string) *status {
	switch {
	case s == forms.Success:
		return &status{"success", "status", success}
	case s == forms.Failure:
		return &status{"error", "alert", failure}
	case !errs.Empty() && invalid != "":
		return &status{"error", "alert", invalid}
	}
	return nil
}
