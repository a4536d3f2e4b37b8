// Package ui implements terminal rendering for the demo run using
// bubbletea's Elm architecture.
//
// The [Model] shows one line per run phase — pending, spinning, done, or
// failed — and a summary of what the data exercise found once the run
// completes. Progress updates flow through a channel from the demo Engine,
// providing non-blocking status reporting while the run executes.
//
// The lipgloss [Palette] doubles as the styling source for the plain CLI
// output, so styled and interactive output stay consistent.
package ui
