package templates

import (
	"bytes"
	"fmt"
	htmpl "html/template"
	texttpl "text/template"
)

// Template names understood by Render.
const (
	Inquiry       = "inquiry"
	ListingStatus = "listing_status"
)

const inquirySubject = "New inquiry about your listing"

const inquiryText = `Hi {{.OwnerName}},

{{.SenderName}} ({{.SenderEmail}}) sent an inquiry about your listing at {{.Address}}, {{.City}}:

{{.Message}}
{{if .SenderPhone}}
Phone: {{.SenderPhone}}
{{end}}
Reply directly to this email to get in touch.
`

const inquiryHTML = `<html><body>
<p>Hi {{.OwnerName}},</p>
<p><strong>{{.SenderName}}</strong> ({{.SenderEmail}}) sent an inquiry about your listing at
<strong>{{.Address}}, {{.City}}</strong>:</p>
<blockquote>{{.Message}}</blockquote>
{{if .SenderPhone}}<p>Phone: {{.SenderPhone}}</p>{{end}}
<p>Reply directly to this email to get in touch.</p>
</body></html>`

const listingStatusSubject = "Your listing status changed"

const listingStatusText = `Hi {{.OwnerName}},

Your listing at {{.Address}}, {{.City}} is now marked as "{{.Status}}".
`

const listingStatusHTML = `<html><body>
<p>Hi {{.OwnerName}},</p>
<p>Your listing at <strong>{{.Address}}, {{.City}}</strong> is now marked as
<strong>{{.Status}}</strong>.</p>
</body></html>`

var (
	textTemplates = texttpl.Must(texttpl.New("text").Parse(
		`{{define "inquiry"}}` + inquiryText + `{{end}}` +
			`{{define "listing_status"}}` + listingStatusText + `{{end}}`))
	htmlTemplates = htmpl.Must(htmpl.New("html").Parse(
		`{{define "inquiry"}}` + inquiryHTML + `{{end}}` +
			`{{define "listing_status"}}` + listingStatusHTML + `{{end}}`))
)

// Render produces subject, text and HTML bodies for a named template.
func Render(name string, data map[string]any) (subject, text, html string, err error) {
	switch name {
	case Inquiry:
		subject = inquirySubject
	case ListingStatus:
		subject = listingStatusSubject
	default:
		return "", "", "", fmt.Errorf("unknown email template %q", name)
	}

	var tb bytes.Buffer
	if err = textTemplates.ExecuteTemplate(&tb, name, data); err != nil {
		return "", "", "", err
	}
	var hb bytes.Buffer
	if err = htmlTemplates.ExecuteTemplate(&hb, name, data); err != nil {
		return "", "", "", err
	}
	return subject, tb.String(), hb.String(), nil
}
