package api

type (
	// Sender identifies who authored a transcript message
	Sender string

	// ChatMessage is one immutable transcript entry
	ChatMessage struct {
		Text   string `json:"text"`
		Sender Sender `json:"sender"`
	}
)

const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"
)
