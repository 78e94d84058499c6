package telegram

import "strings"

// Chat identifies the conversation an update belongs to.
type Chat struct {
	ID int64 `json:"id"`
}

// Message is the shared shape of direct messages and channel posts.
type Message struct {
	Chat Chat   `json:"chat"`
	Text string `json:"text"`
}

// Update is one inbound webhook event.
type Update struct {
	UpdateID    int64    `json:"update_id"`
	Message     *Message `json:"message,omitempty"`
	ChannelPost *Message `json:"channel_post,omitempty"`
}

// Inbound is the single normalized shape every transport variant reduces to
// before entering the pipeline.
type Inbound struct {
	ChatID int64
	Text   string
}

// Normalize reduces an update to the one inbound shape. The second return is
// false for updates carrying no usable message.
func Normalize(update *Update) (Inbound, bool) {
	var msg *Message
	switch {
	case update == nil:
		return Inbound{}, false
	case update.Message != nil:
		msg = update.Message
	case update.ChannelPost != nil:
		msg = update.ChannelPost
	default:
		return Inbound{}, false
	}

	text := strings.TrimSpace(msg.Text)
	if text == "" {
		return Inbound{}, false
	}

	return Inbound{ChatID: msg.Chat.ID, Text: text}, true
}

// ExtractSymbol derives the normalized ticker symbol from the raw command
// text. Accepts "/stock AAPL" or a bare "aapl"; returns "" when no symbol can
// be derived.
func ExtractSymbol(text string) string {
	fields := strings.Fields(strings.TrimSpace(text))
	if len(fields) == 0 {
		return ""
	}

	first := fields[0]
	if strings.HasPrefix(first, "/") {
		if !strings.EqualFold(first, "/stock") || len(fields) < 2 {
			return ""
		}
		return strings.ToUpper(fields[1])
	}

	return strings.ToUpper(first)
}
