// Package server implements the HTTP API server for the flow editor
//
// This package provides REST endpoints for reading and editing flows,
// exporting them to blob storage, a WebSocket stream of live previews, and
// the WebSocket chat relay
package server
