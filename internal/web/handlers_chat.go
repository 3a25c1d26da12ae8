package web

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/invoxai/invoice-console/internal/logger"
)

const (
	assistantUnavailable = "Sorry, the assistant is unavailable right now. Please try again."
	assistantNoAnswer    = "I'm not sure how to respond to that."
)

// handleChatSend appends the user's message and kicks off the assistant
// call in the background so the page can re-render immediately with the
// thinking indicator. The reply (or an error bubble) lands in the
// transcript when the backend answers.
func (s *Server) handleChatSend(c *gin.Context) {
	session := sessionID(c)
	message := strings.TrimSpace(c.PostForm("message"))
	if message == "" {
		redirectBack(c, "/")
		return
	}

	s.chats.AppendUser(session, message)
	c.SetCookie(chatOpenCookie, "1", 0, "/", "", false, true)

	ctx, cancel := context.WithTimeout(context.WithoutCancel(c.Request.Context()), s.cfg.HTTPTimeout)
	go func() {
		defer cancel()
		reply, err := s.backend.SendChatMessage(ctx, message, session)
		if err != nil {
			logger.Log.Warn().Err(err).
				Str("session", logger.HashSessionID(session)).
				Msg("Chat backend call failed")
			s.chats.AppendBotError(session, assistantUnavailable)
			return
		}
		if reply == "" {
			reply = assistantNoAnswer
		}
		s.chats.AppendBot(session, reply)
	}()

	redirectBack(c, "/")
}

func (s *Server) handleChatToggle(c *gin.Context) {
	if chatOpen(c) {
		c.SetCookie(chatOpenCookie, "", -1, "/", "", false, true)
	} else {
		c.SetCookie(chatOpenCookie, "1", 0, "/", "", false, true)
	}
	redirectBack(c, "/")
}

// handleChatFragment renders just the widget body, for the polling script
// that refreshes the transcript while the assistant is thinking.
func (s *Server) handleChatFragment(c *gin.Context) {
	c.HTML(http.StatusOK, "chat_messages", gin.H{
		"Chat": s.chats.Transcript(sessionID(c)),
	})
}
