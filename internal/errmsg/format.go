// Package errmsg provides consistent error formatting for user-facing messages.
package errmsg

import "fmt"

// Op represents an operation that can fail.
type Op string

// Operation constants - grouped by domain.
const (
	// Library operations
	OpLibraryScan Op = "scan library"
	OpLibraryLoad Op = "load library"
	OpTrackLoad   Op = "load track"

	// Crate operations
	OpCrateCreate    Op = "create crate"
	OpCrateRename    Op = "rename crate"
	OpCrateDelete    Op = "delete crate"
	OpCrateLock      Op = "update crate lock"
	OpCrateAutoDJ    Op = "update crate auto-DJ source"
	OpCrateAddTrack  Op = "add track to crate"
	OpCrateRemove    Op = "remove track from crate"
	OpCrateLoad      Op = "load crates"
	OpCrateRepair    Op = "repair crates"
	OpCrateMemberIDs Op = "load crate members"

	// Search operations
	OpSearchRun Op = "run search"

	// Initialization
	OpConfigLoad Op = "load configuration"
	OpInitialize Op = "initialize application"
)

// Format creates a user-friendly error message.
func Format(op Op, err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Failed to %s: %v", op, err)
}

// FormatWith creates an error message with additional context.
func FormatWith(op Op, context string, err error) string {
	if err == nil {
		return ""
	}
	if context == "" {
		return Format(op, err)
	}
	return fmt.Sprintf("Failed to %s '%s': %v", op, context, err)
}
