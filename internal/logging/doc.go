// Package logger provides leveled logging for Veil CLI commands.
//
// Logging behavior is controlled by two flags:
//
//   - --verbose: shows info messages
//   - --debug: shows debug messages
//
// Warnings and errors are always shown.
//
// # Log Methods
//
//	Logger.Infof()            // Shown with --verbose
//	Logger.Debugf()           // Shown only with --debug
//	Logger.Warnf()            // Stderr warnings
//	Logger.WarnfUser()        // User-facing warnings, always shown
//	Logger.Errorf()           // Stderr errors
//	Logger.ErrorfAndReturn()  // Log and return the error in one call
//
// Commands create a logger in their PersistentPreRun and share it through
// the cmd package.
package logger
