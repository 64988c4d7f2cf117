package cmd

import "context"

// Message is an inbound chat message as the transport hands it to the dispatcher.
// GuildID is empty for messages sent outside a community (direct messages).
type Message interface {
	AuthorID() string
	AuthorName() string
	AuthorIsBot() bool
	GuildID() string
	ChannelID() string
	MessageID() string
	Content() string

	// HasAuthorization reports whether the author holds the given privilege.
	HasAuthorization(ctx context.Context, a Authorization) bool
	// Reply sends content to the channel the message came from.
	Reply(ctx context.Context, r Reply) error
}

// Field is one labeled entry of a structured reply.
type Field struct {
	Name  string
	Value string
}

// Reply is either plain text (Content) or a structured document (Title + Fields).
type Reply struct {
	Content string
	Title   string
	Fields  []Field
}

// Text returns a plain text reply.
func Text(content string) Reply {
	return Reply{Content: content}
}

// Embed returns a structured reply.
func Embed(title string, fields ...Field) Reply {
	return Reply{Title: title, Fields: fields}
}

// IsEmbed reports whether the reply carries structured content.
func (r Reply) IsEmbed() bool {
	return r.Title != "" || len(r.Fields) > 0
}
