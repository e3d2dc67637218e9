// Package web holds the embedded templates and static assets served by
// the console.
package web

import "embed"

// Templates holds the layout, partial and page templates.
//
//go:embed templates/**/*.html
var Templates embed.FS

// Static holds the stylesheet and browser-side scripts.
//
//go:embed static/**/*
var Static embed.FS
