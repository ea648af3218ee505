package gni

import _ "embed"

const (
	AppName    = "gni"
	AppVersion = "(unknown)"
)

// DefaultEvents is the dataset used when no source has been configured.
//
//go:embed data/events.csv
var DefaultEvents []byte
