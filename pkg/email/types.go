package email

// Message is a single outbound email. At least one of TextBody or
// HTMLBody must be set; when both are, HTML is attached as an
// alternative part.
type Message struct {
	To       []string
	Subject  string
	TextBody string
	HTMLBody string
}
