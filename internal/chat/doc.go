// Package chat implements the client side of a chat session: one websocket
// connection per mount, an append-only transcript, and transient
// notifications for connection lifecycle changes
package chat
