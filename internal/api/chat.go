package api

import "context"

type chatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id"`
}

type chatResponse struct {
	Reply string `json:"reply"`
}

// SendChatMessage sends one user turn to the assistant and returns its
// reply. An empty reply is returned as-is; the widget substitutes its own
// fallback text.
func (c *Client) SendChatMessage(ctx context.Context, message, sessionID string) (string, error) {
	var resp chatResponse
	if err := c.post(ctx, "/chat/", chatRequest{Message: message, SessionID: sessionID}, &resp); err != nil {
		return "", err
	}
	return resp.Reply, nil
}
