package feed

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestFetchContacts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Accept"); got != "application/json" {
			t.Errorf("Accept header = %q", got)
		}
		w.Write([]byte(`["59896243943"]`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, srv.URL)
	body, err := client.FetchContacts(context.Background())
	if err != nil {
		t.Fatalf("FetchContacts: %v", err)
	}
	if string(body) != `["59896243943"]` {
		t.Errorf("body = %s", body)
	}
}

func TestFetchMessagesQueryParam(t *testing.T) {
	var gotWaID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotWaID = r.URL.Query().Get("wa_id")
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, srv.URL)
	// original keys travel verbatim, so the separator must survive escaping
	if _, err := client.FetchMessages(context.Background(), "59896243943 | Lucas Perazzo"); err != nil {
		t.Fatalf("FetchMessages: %v", err)
	}
	if gotWaID != "59896243943 | Lucas Perazzo" {
		t.Errorf("wa_id = %q, want the raw key round-tripped", gotWaID)
	}
}

func TestFetchMessagesEmptyBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, srv.URL)
	body, err := client.FetchMessages(context.Background(), "59896243943")
	if err != nil {
		t.Fatalf("empty body must not be an error, got %v", err)
	}
	if body != nil {
		t.Errorf("body = %q, want nil", body)
	}
}

func TestFetchErrorCategories(t *testing.T) {
	cases := []struct {
		name    string
		handler http.HandlerFunc
		want    Category
	}{
		{
			"not found",
			func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNotFound) },
			CategoryNotFound,
		},
		{
			"server error",
			func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusInternalServerError) },
			CategoryHTTP,
		},
		{
			"invalid json",
			func(w http.ResponseWriter, r *http.Request) { w.Write([]byte(`{not json`)) },
			CategoryDecode,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			srv := httptest.NewServer(c.handler)
			defer srv.Close()

			client := NewClient(srv.URL, srv.URL)
			_, err := client.FetchContacts(context.Background())

			var feedErr *Error
			if !errors.As(err, &feedErr) {
				t.Fatalf("expected *feed.Error, got %v", err)
			}
			if feedErr.Category != c.want {
				t.Errorf("category = %q, want %q", feedErr.Category, c.want)
			}
			if feedErr.Warning() == "" {
				t.Error("warning must not be empty")
			}
		})
	}
}

func TestFetchNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	client := NewClient(srv.URL, srv.URL)
	_, err := client.FetchContacts(context.Background())

	var feedErr *Error
	if !errors.As(err, &feedErr) {
		t.Fatalf("expected *feed.Error, got %v", err)
	}
	if feedErr.Category != CategoryNetwork {
		t.Errorf("category = %q, want %q", feedErr.Category, CategoryNetwork)
	}
}

func TestFallbackContacts(t *testing.T) {
	now := time.Date(2025, time.November, 15, 12, 0, 0, 0, time.UTC)

	contacts := FallbackContacts(now)
	if len(contacts) != 3 {
		t.Fatalf("got %d fallback contacts, want 3", len(contacts))
	}
	if contacts[0].Number != "59896243943" {
		t.Errorf("first fallback = %q", contacts[0].Number)
	}
	for _, c := range contacts {
		if c.DisplayName == "" || c.DisplayName[0] != '+' {
			t.Errorf("fallback %s display = %q, want formatted number", c.Number, c.DisplayName)
		}
		if !c.LastActivity.Equal(now) {
			t.Errorf("fallback %s last activity = %v, want now", c.Number, c.LastActivity)
		}
	}
}
