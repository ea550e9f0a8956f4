// Package kwin holds build information shared by the kwin binaries
package kwin

const (
	Name    = "kwin"
	Version = "0.3.0"
)
