package services

import (
	"bytes"
	"html/template"
)

type linkData struct {
	URL string
}

var verifyEmailTemplate = template.Must(template.New("verify").Parse(`
<h1>Welcome to Friends Associates</h1>
<p>Please click the link below to verify your email address:</p>
<a href="{{.URL}}">{{.URL}}</a>
<p>This link will expire in 24 hours.</p>
`))

var resetPasswordTemplate = template.Must(template.New("reset").Parse(`
<h1>Password Reset Request</h1>
<p>You requested to reset your password. Please click the link below to choose a new one:</p>
<a href="{{.URL}}">{{.URL}}</a>
<p>This link will expire in 1 hour.</p>
<p>If you did not request this, please ignore this email.</p>
`))

var expiryReminderTemplate = template.Must(template.New("reminder").Parse(`
<h1>Policy Expiry Reminder</h1>
<p>Dear {{.Name}},</p>
<p>Your insurance policy for vehicle <strong>{{.VehicleModel}} ({{.RegNumber}})</strong> is expiring on <strong>{{.ExpiryDate.Format "02 Jan 2006"}}</strong>.</p>
{{if .PolicyLink}}<p>You can view your policy here: <a href="{{.PolicyLink}}">View Policy</a></p>{{end}}
<p>Please renew it soon to avoid penalties.</p>
<p>Regards,<br>Friends Associates</p>
`))

func render(tmpl *template.Template, data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
