// Package ui provides the styled terminal output shared by sysinsight's
// commands: semantic colors, status symbols, a line spinner for one-shot
// checks, and the spinner frames used inside the dashboard TUI.
//
// Colors are ANSI codes rendered through Lip Gloss. DisableColors switches
// the whole process to plain text for --no-color.
//
//	s := ui.NewSpinner("Checking http://localhost:5000/api/metrics/all")
//	s.Start()
//	// ... do work ...
//	s.Success() // or s.Fail()
package ui
