package web

import (
	"bytes"
	"html/template"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/invoxai/invoice-console/internal/chat"
	"github.com/invoxai/invoice-console/internal/logger"
)

const (
	flashCookie    = "invox_flash"
	chatOpenCookie = "invox_chat_open"

	// flashMaxAge keeps banners transient: they disappear on their own
	// even if the next page load never pops them.
	flashMaxAge = 5
)

// Flash is a one-shot banner shown at the top of the next rendered page.
type Flash struct {
	Kind string // "success" or "error"
	Text string
}

// PageData is the chrome every page template receives.
type PageData struct {
	Title    string
	Active   string // current nav item
	Flash    *Flash
	Chat     chat.Transcript
	ChatOpen bool
}

// pageData builds the shared chrome for a page render, popping any pending
// flash banner.
func (s *Server) pageData(c *gin.Context, title, active string) PageData {
	return PageData{
		Title:    title,
		Active:   active,
		Flash:    popFlash(c),
		Chat:     s.chats.Transcript(sessionID(c)),
		ChatOpen: chatOpen(c),
	}
}

func setFlash(c *gin.Context, kind, text string) {
	v := url.QueryEscape(kind + "|" + text)
	c.SetCookie(flashCookie, v, flashMaxAge, "/", "", false, true)
}

func popFlash(c *gin.Context) *Flash {
	raw, err := c.Cookie(flashCookie)
	if err != nil {
		return nil
	}
	c.SetCookie(flashCookie, "", -1, "/", "", false, true)

	decoded, err := url.QueryUnescape(raw)
	if err != nil {
		return nil
	}
	kind, text, ok := strings.Cut(decoded, "|")
	if !ok || text == "" {
		return nil
	}
	return &Flash{Kind: kind, Text: text}
}

func chatOpen(c *gin.Context) bool {
	v, err := c.Cookie(chatOpenCookie)
	return err == nil && v == "1"
}

var markdownRenderer = goldmark.New(goldmark.WithExtensions(extension.GFM))

// renderMarkdown converts backend-supplied markdown to HTML. Raw HTML in
// the source is dropped by goldmark's default policy, so the output is
// safe to embed.
func renderMarkdown(src string) template.HTML {
	var buf bytes.Buffer
	if err := markdownRenderer.Convert([]byte(src), &buf); err != nil {
		logger.Log.Warn().Err(err).Msg("Failed to render markdown")
		return template.HTML(template.HTMLEscapeString(src))
	}
	return template.HTML(buf.String())
}

// splitLines breaks text into non-empty lines for templates that render
// multi-line backend text as separate paragraphs.
func splitLines(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// redirectBack sends the browser to the page it came from, defaulting to
// fallback when the referer is missing or off-site.
func redirectBack(c *gin.Context, fallback string) {
	ref := c.Request.Referer()
	if ref == "" {
		c.Redirect(http.StatusSeeOther, fallback)
		return
	}
	u, err := url.Parse(ref)
	if err != nil || u.Path == "" {
		c.Redirect(http.StatusSeeOther, fallback)
		return
	}
	target := u.Path
	if u.RawQuery != "" {
		target += "?" + u.RawQuery
	}
	c.Redirect(http.StatusSeeOther, target)
}
