// Package export persists snapshots of flow collections to blob storage
package export
