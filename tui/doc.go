// Package tui is the terminal front-end of the game. It draws the maze with
// tcell and builds the menu, level picker and end screens with tview.
//
// Terminals do not report key releases, so movement keys are tracked by
// HoldTracker: a direction stays held while auto-repeat keeps pressing it.
// Space releases every held direction and Esc pauses to the menu.
package tui
