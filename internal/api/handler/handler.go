package handler

import "randochat/backend/internal/chathub"

// Handler exposes the HTTP surface: anon token issuance, the WebSocket
// upgrade, and operational stats.
type Handler struct {
	Coordinator *chathub.Coordinator
	secret      []byte
}

func NewHandler(co *chathub.Coordinator, secret []byte) *Handler {
	return &Handler{Coordinator: co, secret: secret}
}
