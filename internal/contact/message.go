// Package contact handles the contact form: it validates a submission and hands it to
// a Mailer addressed to the site owner.
package contact

import (
	"fmt"
	"net/mail"
	"net/url"
	"strings"

	dErrors "classifieds/pkg/domain-errors"
	"classifieds/pkg/platform/validation"
)

// Form field names.
const (
	FieldName      = "name"
	FieldCompany   = "company"
	FieldEmail     = "email"
	FieldPhone     = "phone"
	FieldSubject   = "subject"
	FieldReference = "reference"
	FieldMessage   = "message"
)

// Message is one contact form submission. Company, Phone and Reference are optional.
type Message struct {
	Name      string
	Company   string
	Email     string
	Phone     string
	Subject   string
	Reference string
	Body      string
}

// MessageFromForm reads a submission and validates it. The trimmed message is returned
// even when invalid so the form can be filled back in.
func MessageFromForm(form url.Values) (Message, error) {
	msg := Message{
		Name:      strings.TrimSpace(form.Get(FieldName)),
		Company:   strings.TrimSpace(form.Get(FieldCompany)),
		Email:     strings.TrimSpace(form.Get(FieldEmail)),
		Phone:     strings.TrimSpace(form.Get(FieldPhone)),
		Subject:   strings.TrimSpace(form.Get(FieldSubject)),
		Reference: strings.TrimSpace(form.Get(FieldReference)),
		Body:      strings.TrimSpace(form.Get(FieldMessage)),
	}
	return msg, msg.Validate()
}

// Validate checks required fields, lengths and the email address. Header-bound fields
// must fit on one line.
func (m Message) Validate() error {
	for _, f := range []struct{ field, value string }{
		{FieldName, m.Name},
		{FieldEmail, m.Email},
		{FieldSubject, m.Subject},
		{FieldMessage, m.Body},
	} {
		if f.value == "" {
			return dErrors.New(dErrors.CodeValidation, f.field+" is required")
		}
	}

	if err := validation.CheckLimits(
		validation.Limit{Field: FieldName, Value: m.Name, Max: validation.MaxNameLength},
		validation.Limit{Field: FieldCompany, Value: m.Company, Max: validation.MaxNameLength},
		validation.Limit{Field: FieldEmail, Value: m.Email, Max: validation.MaxEmailLength},
		validation.Limit{Field: FieldPhone, Value: m.Phone, Max: validation.MaxPhoneLength},
		validation.Limit{Field: FieldSubject, Value: m.Subject, Max: validation.MaxSubjectLength},
		validation.Limit{Field: FieldReference, Value: m.Reference, Max: validation.MaxReferenceLength},
		validation.Limit{Field: FieldMessage, Value: m.Body, Max: validation.MaxMessageLength},
	); err != nil {
		return err
	}

	for _, f := range []struct{ field, value string }{
		{FieldName, m.Name},
		{FieldCompany, m.Company},
		{FieldEmail, m.Email},
		{FieldPhone, m.Phone},
		{FieldSubject, m.Subject},
		{FieldReference, m.Reference},
	} {
		if strings.ContainsAny(f.value, "\r\n") {
			return dErrors.New(dErrors.CodeValidation, f.field+" must be a single line")
		}
	}

	addr, err := mail.ParseAddress(m.Email)
	if err != nil || addr.Address != m.Email {
		return dErrors.New(dErrors.CodeValidation, "email is invalid")
	}
	return nil
}

// EmailSubject is the subject line of the notification sent to the site owner.
func (m Message) EmailSubject() string {
	return "Contact: " + m.Subject
}

// EmailBody is the plain text notification sent to the site owner.
func (m Message) EmailBody() string {
	return fmt.Sprintf(`Nouveau message de contact reçu:

Nom: %s
Email: %s
Téléphone: %s
Société: %s
Sujet: %s
Référence annonce: %s

Message:
%s
`,
		m.Name,
		m.Email,
		orDefault(m.Phone, "Non fourni"),
		orDefault(m.Company, "Non fournie"),
		m.Subject,
		orDefault(m.Reference, "Aucune"),
		m.Body,
	)
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
