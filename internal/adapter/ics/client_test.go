package ics

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testFeed = "BEGIN:VCALENDAR\r\nVERSION:2.0\r\n" +
	"BEGIN:VEVENT\r\n" +
	"SUMMARY:Diwali\r\n" +
	"DTSTART;VALUE=DATE:20241031\r\n" +
	"DTEND;VALUE=DATE:20241102\r\n" +
	"END:VEVENT\r\n" +
	"END:VCALENDAR\r\n"

func TestClientFetch(t *testing.T) {
	t.Run("parses a healthy feed", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "text/calendar")
			w.Write([]byte(testFeed)) //nolint:errcheck
		}))
		defer srv.Close()

		client := NewClient(srv.URL, 5*time.Second, slog.Default())
		catalog, err := client.Fetch(context.Background())

		require.NoError(t, err)
		require.Len(t, catalog, 1)
		assert.Equal(t, "Diwali", catalog[0].Name)
		assert.Equal(t, time.Date(2024, 11, 1, 0, 0, 0, 0, time.UTC), catalog[0].End)
	})

	t.Run("server error yields FeedUnavailableError", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		client := NewClient(srv.URL, 5*time.Second, slog.Default())
		_, err := client.Fetch(context.Background())

		var feedErr *FeedUnavailableError
		require.ErrorAs(t, err, &feedErr)
		assert.Equal(t, srv.URL, feedErr.URL)
	})

	t.Run("malformed body yields FeedUnavailableError", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte("<html>down for maintenance</html>")) //nolint:errcheck
		}))
		defer srv.Close()

		client := NewClient(srv.URL, 5*time.Second, slog.Default())
		_, err := client.Fetch(context.Background())

		var feedErr *FeedUnavailableError
		require.ErrorAs(t, err, &feedErr)
	})

	t.Run("unreachable host yields FeedUnavailableError", func(t *testing.T) {
		client := NewClient("http://127.0.0.1:1", 500*time.Millisecond, slog.Default())
		_, err := client.Fetch(context.Background())

		var feedErr *FeedUnavailableError
		require.ErrorAs(t, err, &feedErr)
	})
}
