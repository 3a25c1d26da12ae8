package web

import (
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestChat(t *testing.T) {
	t.Parallel()

	t.Run("fragment starts with the greeting", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer(t, newFakeBackend())
		w := doGet(srv, "/chat/fragment")
		require.Equal(t, http.StatusOK, w.Code)
		require.Contains(t, w.Body.String(), "Hello! How can I help you with your invoices today?")
	})

	t.Run("sent message appears immediately, reply lands asynchronously", func(t *testing.T) {
		t.Parallel()

		backend := newFakeBackend()
		backend.chatReply = "You spent $120 on software."
		srv := newTestServer(t, backend)

		w := doPostForm(srv, "/chat", url.Values{"message": {"how much on software?"}})
		require.Equal(t, http.StatusSeeOther, w.Code)

		body := doGet(srv, "/chat/fragment").Body.String()
		require.Contains(t, body, "how much on software?")

		require.Eventually(t, func() bool {
			frag := doGet(srv, "/chat/fragment").Body.String()
			return !strings.Contains(frag, "data-thinking") && strings.Contains(frag, "You spent $120 on software.")
		}, 2*time.Second, 20*time.Millisecond)
	})

	t.Run("backend failure becomes an error bubble, never an error page", func(t *testing.T) {
		t.Parallel()

		backend := newFakeBackend()
		backend.chatErr = &timeoutErr{}
		srv := newTestServer(t, backend)

		w := doPostForm(srv, "/chat", url.Values{"message": {"hi"}})
		require.Equal(t, http.StatusSeeOther, w.Code)

		require.Eventually(t, func() bool {
			frag := doGet(srv, "/chat/fragment").Body.String()
			return strings.Contains(frag, "Sorry, the assistant is unavailable right now.")
		}, 2*time.Second, 20*time.Millisecond)
	})

	t.Run("empty reply becomes the fallback bubble", func(t *testing.T) {
		t.Parallel()

		backend := newFakeBackend()
		backend.chatReply = ""
		srv := newTestServer(t, backend)

		w := doPostForm(srv, "/chat", url.Values{"message": {"???"}})
		require.Equal(t, http.StatusSeeOther, w.Code)

		require.Eventually(t, func() bool {
			frag := doGet(srv, "/chat/fragment").Body.String()
			return strings.Contains(frag, "not sure how to respond to that.")
		}, 2*time.Second, 20*time.Millisecond)
	})

	t.Run("blank message is ignored", func(t *testing.T) {
		t.Parallel()

		backend := newFakeBackend()
		srv := newTestServer(t, backend)

		w := doPostForm(srv, "/chat", url.Values{"message": {"   "}})
		require.Equal(t, http.StatusSeeOther, w.Code)
		require.Equal(t, 0, backend.callCount("SendChatMessage"))
	})

	t.Run("toggle opens and closes the widget", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer(t, newFakeBackend())
		w := doPostForm(srv, "/chat/toggle", url.Values{})
		require.Equal(t, http.StatusSeeOther, w.Code)

		var opened bool
		for _, c := range w.Result().Cookies() {
			if c.Name == chatOpenCookie && c.Value == "1" {
				opened = true
			}
		}
		require.True(t, opened)
	})
}

type timeoutErr struct{}

func (*timeoutErr) Error() string { return "deadline exceeded" }

