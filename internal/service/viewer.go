package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/lucasPerazzo/UNICOM-VisualizadorMensajesWpp/internal/config"
	"github.com/lucasPerazzo/UNICOM-VisualizadorMensajesWpp/internal/feed"
	"github.com/lucasPerazzo/UNICOM-VisualizadorMensajesWpp/internal/model"
	"github.com/lucasPerazzo/UNICOM-VisualizadorMensajesWpp/internal/normalize"
	"github.com/lucasPerazzo/UNICOM-VisualizadorMensajesWpp/internal/websocket"
)

// Viewer owns the session state: the contact list, the selected
// conversation and its messages, all rebuilt wholesale on every refresh.
// The normalization core stays pure; this is where fetches, busy flags and
// the poll loop live.
//
// One fetch of each kind may be in flight at a time. A second request of
// the same kind is dropped, not queued, and an in-flight fetch always lands
// even when a newer request was dropped in the meantime, so a slow fetch
// can overwrite fresher state (last writer wins).
type Viewer struct {
	Config *config.Config
	Feed   *feed.Client
	Hub    *websocket.Hub

	mu         sync.RWMutex
	contacts   []model.Contact
	warning    string
	current    *model.Contact
	currentKey string
	messages   []model.Message

	loadingContacts atomic.Bool
	loadingMessages atomic.Bool

	pollerOn atomic.Bool
	lastTick atomic.Int64
	stop     chan struct{}
	stopOnce sync.Once
}

// State is the diagnostic snapshot served by the debug surface.
type State struct {
	CurrentContact  *model.Contact `json:"current_contact,omitempty"`
	ContactCount    int            `json:"contact_count"`
	MessageCount    int            `json:"message_count"`
	Warning         string         `json:"warning,omitempty"`
	LoadingContacts bool           `json:"loading_contacts"`
	LoadingMessages bool           `json:"loading_messages"`
	PollerRunning   bool           `json:"poller_running"`
	LastPoll        time.Time      `json:"last_poll"`
}

// ChatExport is the downloadable conversation envelope.
type ChatExport struct {
	ID         string          `json:"id"`
	Contact    model.Contact   `json:"contact"`
	Messages   []model.Message `json:"messages"`
	ExportDate time.Time       `json:"export_date"`
}

func NewViewer(cfg *config.Config, feedClient *feed.Client, hub *websocket.Hub) *Viewer {
	return &Viewer{
		Config: cfg,
		Feed:   feedClient,
		Hub:    hub,
		stop:   make(chan struct{}),
	}
}

// Start loads the contact list and arms the poll loop plus its watchdog.
func (v *Viewer) Start() {
	go v.RefreshContacts(context.Background())
	v.startPoller()
	go v.watchdog()
}

func (v *Viewer) Stop() {
	v.stopOnce.Do(func() { close(v.stop) })
}

// RefreshContacts fetches and normalizes the contacts feed. Failures and
// empty results degrade to the fallback set with a categorized warning;
// the previous list is always replaced.
func (v *Viewer) RefreshContacts(ctx context.Context) {
	if !v.loadingContacts.CompareAndSwap(false, true) {
		return // fetch already in flight, drop this one
	}
	defer v.loadingContacts.Store(false)

	now := time.Now()
	var (
		contacts []model.Contact
		warning  string
	)

	payload, err := v.Feed.FetchContacts(ctx)
	if err != nil {
		log.Printf("[Viewer] contacts fetch failed: %v", err)
		warning = warningOf(err) + ". Mostrando contactos de prueba"
		contacts = feed.FallbackContacts(now)
	} else {
		contacts = normalize.NormalizeContacts(payload, now)
		if len(contacts) == 0 {
			log.Println("[Viewer] contacts payload had no usable entries")
			warning = "No se encontraron contactos en el endpoint. Mostrando contactos de prueba"
			contacts = feed.FallbackContacts(now)
		}
	}

	v.mu.Lock()
	v.contacts = contacts
	v.warning = warning
	v.mu.Unlock()

	v.notify(websocket.EventContactsUpdated, map[string]any{"count": len(contacts)})
}

// LoadMessages selects the conversation identified by key (a normalized
// number or an original feed key) and fetches its messages. The wa_id sent
// upstream is the contact's original key when one is known, else the key as
// given. When a load of messages is already in flight the request is
// dropped and the current message list is returned as-is.
func (v *Viewer) LoadMessages(ctx context.Context, key string) ([]model.Message, error) {
	if key == "" {
		return nil, errors.New("empty contact key")
	}

	v.mu.Lock()
	if contact := v.findContactLocked(key); contact != nil {
		c := *contact
		v.current = &c
		v.currentKey = c.OriginalKey
		if v.currentKey == "" {
			v.currentKey = c.Number
		}
	} else {
		v.current = nil
		v.currentKey = key
	}
	waID := v.currentKey
	v.mu.Unlock()

	if !v.loadingMessages.CompareAndSwap(false, true) {
		v.mu.RLock()
		defer v.mu.RUnlock()
		return v.messages, nil
	}
	defer v.loadingMessages.Store(false)

	now := time.Now()
	payload, err := v.Feed.FetchMessages(ctx, waID)
	if err != nil {
		log.Printf("[Viewer] messages fetch failed for %s: %v", waID, err)
		return nil, err
	}

	messages := normalize.NormalizeMessages(payload, now)

	v.mu.Lock()
	v.messages = messages
	v.mu.Unlock()

	v.notify(websocket.EventMessagesUpdated, map[string]any{"wa_id": waID, "count": len(messages)})
	return messages, nil
}

// RefreshCurrent re-fetches the selected conversation, if any.
func (v *Viewer) RefreshCurrent(ctx context.Context) {
	v.mu.RLock()
	key := v.currentKey
	v.mu.RUnlock()
	if key == "" {
		return
	}
	if _, err := v.LoadMessages(ctx, key); err != nil {
		return // already logged
	}
}

// ExportChat loads the conversation for key and wraps it for download.
func (v *Viewer) ExportChat(ctx context.Context, key string) (*ChatExport, error) {
	contact, ok := v.FindContact(key)
	if !ok {
		return nil, fmt.Errorf("contacto %s no encontrado", key)
	}

	messages, err := v.LoadMessages(ctx, key)
	if err != nil {
		return nil, err
	}
	if len(messages) == 0 {
		return nil, errors.New("no hay mensajes para exportar")
	}

	return &ChatExport{
		ID:         uuid.NewString(),
		Contact:    contact,
		Messages:   messages,
		ExportDate: time.Now(),
	}, nil
}

// Contacts returns a copy of the current list and the active warning.
func (v *Viewer) Contacts() ([]model.Contact, string) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	contacts := make([]model.Contact, len(v.contacts))
	copy(contacts, v.contacts)
	return contacts, v.warning
}

func (v *Viewer) FindContact(key string) (model.Contact, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if contact := v.findContactLocked(key); contact != nil {
		return *contact, true
	}
	return model.Contact{}, false
}

func (v *Viewer) findContactLocked(key string) *model.Contact {
	for i := range v.contacts {
		if v.contacts[i].Number == key || v.contacts[i].OriginalKey == key {
			return &v.contacts[i]
		}
	}
	return nil
}

func (v *Viewer) Snapshot() State {
	v.mu.RLock()
	defer v.mu.RUnlock()

	var lastPoll time.Time
	if tick := v.lastTick.Load(); tick > 0 {
		lastPoll = time.Unix(tick, 0)
	}

	return State{
		CurrentContact:  v.current,
		ContactCount:    len(v.contacts),
		MessageCount:    len(v.messages),
		Warning:         v.warning,
		LoadingContacts: v.loadingContacts.Load(),
		LoadingMessages: v.loadingMessages.Load(),
		PollerRunning:   v.pollerOn.Load(),
		LastPoll:        lastPoll,
	}
}

func (v *Viewer) startPoller() {
	if !v.pollerOn.CompareAndSwap(false, true) {
		return
	}
	go v.poll()
}

func (v *Viewer) poll() {
	defer v.pollerOn.Store(false)

	ticker := time.NewTicker(v.Config.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-v.stop:
			return
		case t := <-ticker.C:
			v.lastTick.Store(t.Unix())
			v.RefreshContacts(context.Background())
			v.RefreshCurrent(context.Background())
		}
	}
}

// watchdog re-arms the poll loop if it ever stops while the viewer is
// supposed to be running.
func (v *Viewer) watchdog() {
	ticker := time.NewTicker(v.Config.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-v.stop:
			return
		case <-ticker.C:
			if !v.pollerOn.Load() {
				log.Println("[Viewer] poll loop not running, re-arming")
				v.startPoller()
			}
		}
	}
}

func (v *Viewer) notify(eventType string, data any) {
	if v.Hub == nil {
		return
	}
	v.Hub.Notify(eventType, data)
}

func warningOf(err error) string {
	var feedErr *feed.Error
	if errors.As(err, &feedErr) {
		return feedErr.Warning()
	}
	return err.Error()
}
