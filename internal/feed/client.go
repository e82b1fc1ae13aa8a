// Package feed talks to the two upstream webhook endpoints: the contacts
// feed and the per-contact messages feed. It only moves bytes and
// categorizes failures; decoding the payloads into records is the
// normalize package's job.
package feed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// Category tells the UI which warning to surface for a failed fetch.
type Category string

const (
	CategoryNetwork  Category = "network"   // transport failure, DNS, refused connection
	CategoryNotFound Category = "not_found" // 404, typically an inactive webhook
	CategoryHTTP     Category = "http"      // any other non-2xx status
	CategoryDecode   Category = "decode"    // body arrived but is not JSON
)

// Error is a categorized fetch failure. Shape problems inside valid JSON
// are not errors; those degrade to empty results in the normalizers.
type Error struct {
	Category Category
	Op       string
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Warning is the operator-facing message for this failure.
func (e *Error) Warning() string {
	switch e.Category {
	case CategoryNetwork:
		return "Error de red: no se pudo contactar el endpoint"
	case CategoryNotFound:
		return "Endpoint no encontrado o inactivo"
	case CategoryDecode:
		return "La respuesta del endpoint no es JSON válido"
	default:
		return "Error HTTP del endpoint"
	}
}

type Client struct {
	ContactsURL string
	MessagesURL string
	HTTPClient  *http.Client
}

// NewClient builds a feed client. The http.Client deliberately carries no
// timeout: the upstream automation can take a long while to wake up and the
// caller relies on the transport's own failure signaling (plus context
// cancellation on shutdown).
func NewClient(contactsURL, messagesURL string) *Client {
	return &Client{
		ContactsURL: contactsURL,
		MessagesURL: messagesURL,
		HTTPClient:  &http.Client{},
	}
}

// FetchContacts retrieves the raw contacts payload. A body that is not
// valid JSON is a decode-category error.
func (c *Client) FetchContacts(ctx context.Context) ([]byte, error) {
	body, err := c.get(ctx, "fetch contacts", c.ContactsURL)
	if err != nil {
		return nil, err
	}
	if !json.Valid(body) {
		return nil, &Error{Category: CategoryDecode, Op: "fetch contacts", Err: fmt.Errorf("body is not valid JSON")}
	}
	return body, nil
}

// FetchMessages retrieves the raw message list for one contact. waID must
// be the contact's original feed key when one is known, else its normalized
// number. An empty body is a valid empty conversation, not an error.
func (c *Client) FetchMessages(ctx context.Context, waID string) ([]byte, error) {
	endpoint := c.MessagesURL + "?wa_id=" + url.QueryEscape(waID)
	body, err := c.get(ctx, "fetch messages", endpoint)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, nil
	}
	if !json.Valid(body) {
		return nil, &Error{Category: CategoryDecode, Op: "fetch messages", Err: fmt.Errorf("body is not valid JSON")}
	}
	return body, nil
}

func (c *Client) get(ctx context.Context, op, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &Error{Category: CategoryNetwork, Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, &Error{Category: CategoryNetwork, Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, &Error{Category: CategoryNotFound, Op: op, Err: fmt.Errorf("status %d", resp.StatusCode)}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &Error{Category: CategoryHTTP, Op: op, Err: fmt.Errorf("status %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Category: CategoryNetwork, Op: op, Err: err}
	}
	return body, nil
}
