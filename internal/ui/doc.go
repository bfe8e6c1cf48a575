// Package ui provides semantic text formatting for CLI output.
//
// Formatters render appropriately for the terminal: colorized when
// supported, text decorations (backticks, quotes) when NO_COLOR is set or
// the terminal is dumb.
//
//	ui.Code.Sprint("veil vault register")   // Commands
//	ui.Path.Sprint("~/.local/share/veil")   // File paths
//	ui.Success.Sprint("✓")                  // Success indicators
//	ui.Error.Sprint("✗")                    // Error indicators
//	ui.Highlight.Sprint("alice")            // User values
package ui
