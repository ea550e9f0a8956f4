// Package api defines the shared data types for the assistant service
//
// This package contains the flow item taxonomy, preview projections, chat
// transcript messages, change events, and the HTTP and WebSocket message
// bodies exchanged with clients
package api
