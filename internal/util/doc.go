// Package util provides generic data structures shared across the service
//
// This package includes a set type, state transition tables, and an LRU
// cache with an eviction hook
package util
