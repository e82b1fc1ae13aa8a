package feed

import (
	"time"

	"github.com/lucasPerazzo/UNICOM-VisualizadorMensajesWpp/internal/model"
	"github.com/lucasPerazzo/UNICOM-VisualizadorMensajesWpp/internal/normalize"
)

var fallbackNumbers = []string{"59896243943", "59812345678", "59898765432"}

// FallbackContacts is the fixed placeholder set shown when the contacts
// feed fails or normalizes to nothing, so the UI always has something to
// render alongside its warning.
func FallbackContacts(now time.Time) []model.Contact {
	contacts := make([]model.Contact, 0, len(fallbackNumbers))
	for _, n := range fallbackNumbers {
		contacts = append(contacts, model.Contact{
			Number:       n,
			DisplayName:  normalize.DisplayPhone(n),
			OriginalKey:  n,
			LastActivity: now,
		})
	}
	return contacts
}
