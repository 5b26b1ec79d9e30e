package email

import (
	"fmt"
	"time"
)

// AppointmentEmailData carries everything the appointment lifecycle
// templates need. Start is the appointment's wall-clock time.
type AppointmentEmailData struct {
	RecipientName  string
	RecipientEmail string
	ProviderName   string
	Start          time.Time
	Duration       time.Duration
	Remote         bool
	Note           string
	AppName        string
}

func (d AppointmentEmailData) appName() string {
	if d.AppName == "" {
		return "Salus"
	}
	return d.AppName
}

func (d AppointmentEmailData) recipient() string {
	if d.RecipientName == "" {
		return "there"
	}
	return d.RecipientName
}

func (d AppointmentEmailData) when() string {
	return d.Start.Format("Monday, January 2 2006 at 15:04")
}

func htmlShell(body string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
%s
</body>
</html>`, body)
}

// BuildAppointmentRequestedEmail notifies a provider about a new
// pending appointment request.
func BuildAppointmentRequestedEmail(d AppointmentEmailData) Message {
	subject := fmt.Sprintf("New appointment request for %s", d.when())

	textBody := fmt.Sprintf(`Hi %s,

You have a new appointment request for %s (%d minutes).

Open %s to confirm or decline it.

Thanks,
The %s Team`,
		d.recipient(), d.when(), int(d.Duration.Minutes()), d.appName(), d.appName())

	htmlBody := htmlShell(fmt.Sprintf(`    <h2 style="color: #2563eb;">Hi %s,</h2>
    <p>You have a new appointment request for <strong>%s</strong> (%d minutes).</p>
    <p>Open %s to confirm or decline it.</p>
    <p style="color: #6b7280; font-size: 14px; margin-top: 30px;">Thanks,<br>The %s Team</p>`,
		d.recipient(), d.when(), int(d.Duration.Minutes()), d.appName(), d.appName()))

	return Message{
		To:       []string{d.RecipientEmail},
		Subject:  subject,
		TextBody: textBody,
		HTMLBody: htmlBody,
	}
}

// BuildAppointmentConfirmedEmail notifies a client that the provider
// accepted their request.
func BuildAppointmentConfirmedEmail(d AppointmentEmailData) Message {
	kind := "in person"
	if d.Remote {
		kind = "remote"
	}
	subject := fmt.Sprintf("Your appointment on %s is confirmed", d.when())

	textBody := fmt.Sprintf(`Hi %s,

Your %s appointment with %s on %s has been confirmed.

Thanks,
The %s Team`,
		d.recipient(), kind, d.ProviderName, d.when(), d.appName())

	htmlBody := htmlShell(fmt.Sprintf(`    <h2 style="color: #16a34a;">Hi %s,</h2>
    <p>Your %s appointment with <strong>%s</strong> on <strong>%s</strong> has been confirmed.</p>
    <p style="color: #6b7280; font-size: 14px; margin-top: 30px;">Thanks,<br>The %s Team</p>`,
		d.recipient(), kind, d.ProviderName, d.when(), d.appName()))

	return Message{
		To:       []string{d.RecipientEmail},
		Subject:  subject,
		TextBody: textBody,
		HTMLBody: htmlBody,
	}
}

// BuildAppointmentCancelledEmail notifies either party of a cancellation.
func BuildAppointmentCancelledEmail(d AppointmentEmailData) Message {
	subject := fmt.Sprintf("Appointment on %s cancelled", d.when())

	note := ""
	if d.Note != "" {
		note = fmt.Sprintf("\n\nNote: %s", d.Note)
	}
	textBody := fmt.Sprintf(`Hi %s,

The appointment scheduled for %s has been cancelled.%s

Thanks,
The %s Team`,
		d.recipient(), d.when(), note, d.appName())

	htmlNote := ""
	if d.Note != "" {
		htmlNote = fmt.Sprintf(`    <p style="background-color: #f3f4f6; padding: 10px 15px; border-radius: 4px;">%s</p>
`, d.Note)
	}
	htmlBody := htmlShell(fmt.Sprintf(`    <h2 style="color: #ef4444;">Hi %s,</h2>
    <p>The appointment scheduled for <strong>%s</strong> has been cancelled.</p>
%s    <p style="color: #6b7280; font-size: 14px; margin-top: 30px;">Thanks,<br>The %s Team</p>`,
		d.recipient(), d.when(), htmlNote, d.appName()))

	return Message{
		To:       []string{d.RecipientEmail},
		Subject:  subject,
		TextBody: textBody,
		HTMLBody: htmlBody,
	}
}

// BuildRescheduleProposedEmail tells a client their provider proposed
// a different time.
func BuildRescheduleProposedEmail(d AppointmentEmailData, proposed time.Time) Message {
	proposedStr := proposed.Format("Monday, January 2 2006 at 15:04")
	subject := fmt.Sprintf("New time proposed for your appointment: %s", proposedStr)

	textBody := fmt.Sprintf(`Hi %s,

%s proposed moving your appointment from %s to %s.

Open %s to accept or decline the new time.

Thanks,
The %s Team`,
		d.recipient(), d.ProviderName, d.when(), proposedStr, d.appName(), d.appName())

	htmlBody := htmlShell(fmt.Sprintf(`    <h2 style="color: #2563eb;">Hi %s,</h2>
    <p><strong>%s</strong> proposed moving your appointment from %s to <strong>%s</strong>.</p>
    <p>Open %s to accept or decline the new time.</p>
    <p style="color: #6b7280; font-size: 14px; margin-top: 30px;">Thanks,<br>The %s Team</p>`,
		d.recipient(), d.ProviderName, d.when(), proposedStr, d.appName(), d.appName()))

	return Message{
		To:       []string{d.RecipientEmail},
		Subject:  subject,
		TextBody: textBody,
		HTMLBody: htmlBody,
	}
}
