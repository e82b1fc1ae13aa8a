package normalize

import (
	"strings"

	"github.com/lucasPerazzo/UNICOM-VisualizadorMensajesWpp/internal/model"
)

// ClassifyMessage decides who authored a message. Explicit role prefixes
// win; without one the conversation is assumed to alternate
// customer/assistant starting at the customer, so even positions are
// received and odd ones sent. Must be called with the body as the feed
// delivered it, before any prefix stripping.
func ClassifyMessage(raw string, index int) model.MessageType {
	switch {
	case strings.HasPrefix(raw, PrefixCustomer):
		return model.MessageReceived
	case strings.HasPrefix(raw, PrefixAssistant):
		return model.MessageSent
	}

	if index%2 == 0 {
		return model.MessageReceived
	}
	return model.MessageSent
}
