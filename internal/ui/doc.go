// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow over the music library:
//  1. [LoginView] : Email/password sign-in when no session can be restored
//  2. [LibraryView] : Browse songs with incremental load-more and favorite toggling
//  3. [UploadView] : Watch the upload queue drain with per-file progress
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// The start destination is resolved through the route guard, so a persisted
// session lands directly in the library. Upload progress flows through a
// channel from the uploads processor, providing non-blocking status reporting.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, f, m, u, q)
// with contextual help displayed via charmbracelet/bubbles/help.
package ui
