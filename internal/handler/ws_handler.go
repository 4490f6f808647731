/*
Package handler provides the HTTP handler function for WebSocket connection upgrading and initialization.

This file contains the HandleWebSocket function, which is responsible for rate
limiting, running the identity gate against the credential token, upgrading the
HTTP connection to WebSocket, and initiating the client lifecycle.
*/
package handler

import (
	"net"
	"net/http"

	"github.com/gorilla/websocket"

	"parley/internal/app/chat"
	"parley/internal/pkg/errs"
	"parley/internal/pkg/limiter"
	"parley/internal/pkg/logx"
	"parley/internal/pkg/randx"
	"parley/internal/pkg/resp"
)

// HandleWebSocket creates an HTTP HandlerFunc to process WebSocket connection requests.
// The credential token travels in the "token" query parameter because browser
// WebSocket clients cannot set an Authorization header.
func HandleWebSocket(upgrader websocket.Upgrader, rateLimiter *limiter.IPRateLimiter, deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}

		if ip == "" {
			ip = "unknown_ip"
		}

		if !rateLimiter.GetLimiter(ip).Allow() {
			logx.Warn("WebSocket connection rejected: Rate limit exceeded.", "ip", ip)
			resp.RespondError(w, r, errs.NewError(errs.ErrRateLimitExceeded))
			return
		}

		token := r.URL.Query().Get("token")

		identity, customErr := deps.Gate.Authorize(r.Context(), token)
		if customErr != nil {
			logx.Warn("WebSocket connection rejected by identity gate.",
				"code", customErr.Code, "ip", ip)
			resp.RespondError(w, r, customErr)
			return
		}

		logx.Info("Attempting to upgrade connection", "user_id", identity.UserID)

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logx.Error(err, "Failed to upgrade connection to WebSocket")
			return
		}

		connectionID := randx.ConnectionID()
		client := chat.NewClient(deps.Hall, conn, connectionID, *identity)

		go client.WritePump()

		logx.Info("WebSocket connection established and client registered",
			"connection_id", connectionID, "user_id", identity.UserID)

		deps.Hall.Join(client)

		client.ReadPump()
	}
}
