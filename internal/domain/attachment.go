package domain

// Attachment references a file attached to a ticket. Content is fetched
// on demand through the transport, never carried on the ticket itself.
type Attachment struct {
	ID       int64
	FileName string
	MimeType string
}
