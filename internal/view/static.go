package view

import "embed"

// StaticFS holds the stylesheet and script served under /static.
//
//go:embed static
var StaticFS embed.FS
