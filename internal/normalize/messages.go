package normalize

import (
	"time"

	"github.com/lucasPerazzo/UNICOM-VisualizadorMensajesWpp/internal/model"
)

// NormalizeMessages turns a raw messages-feed body into ordered Message
// records. The payload must be an array; anything else (including an empty
// body) yields an empty result. Order is preserved as delivered — the feed
// is trusted to be chronological and messages are never re-sorted — and IDs
// are the 0-based positions.
//
// Classification runs on the body exactly as the feed delivered it, so an
// explicit role prefix is still visible; the prefix and the trailing
// timestamp marker are then stripped from the display text. Messages
// without a marker get now as their timestamp; messages whose marker failed
// numeric conversion keep the zero time.
func NormalizeMessages(payload []byte, now time.Time) []model.Message {
	value, err := decodePayload(payload)
	if err != nil {
		return nil
	}

	list, ok := value.([]any)
	if !ok {
		return nil
	}

	messages := make([]model.Message, 0, len(list))
	for i, entry := range list {
		body := messageBody(entry)
		ex := ExtractTimestamp(body)

		ts := ex.Timestamp
		if !ex.Found {
			ts = now
		}

		messages = append(messages, model.Message{
			ID:        i,
			Text:      ex.Text,
			Timestamp: ts,
			Type:      ClassifyMessage(body, i),
			Original:  entry,
		})
	}
	return messages
}
