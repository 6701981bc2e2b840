//nolint:goconst // test cases intentionally repeat strings for readability
package errmsg

import (
	"errors"
	"testing"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		op       Op
		err      error
		expected string
	}{
		{
			name:     "nil error returns empty string",
			op:       OpCrateDelete,
			err:      nil,
			expected: "",
		},
		{
			name:     "formats error with operation",
			op:       OpCrateDelete,
			err:      errors.New("crate not found"),
			expected: "Failed to delete crate: crate not found",
		},
		{
			name:     "library scan operation",
			op:       OpLibraryScan,
			err:      errors.New("permission denied"),
			expected: "Failed to scan library: permission denied",
		},
		{
			name:     "search operation",
			op:       OpSearchRun,
			err:      errors.New("database is locked"),
			expected: "Failed to run search: database is locked",
		},
		{
			name:     "crate create operation",
			op:       OpCrateCreate,
			err:      errors.New("already exists"),
			expected: "Failed to create crate: already exists",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Format(tt.op, tt.err)
			if result != tt.expected {
				t.Errorf("Format(%q, %v) = %q, want %q", tt.op, tt.err, result, tt.expected)
			}
		})
	}
}

func TestFormatWith(t *testing.T) {
	tests := []struct {
		name     string
		op       Op
		context  string
		err      error
		expected string
	}{
		{
			name:     "nil error returns empty string",
			op:       OpCrateRename,
			context:  "Deep House",
			err:      nil,
			expected: "",
		},
		{
			name:     "formats error with context",
			op:       OpCrateRename,
			context:  "Deep House",
			err:      errors.New("crate is locked"),
			expected: "Failed to rename crate 'Deep House': crate is locked",
		},
		{
			name:     "empty context falls back to Format",
			op:       OpCrateRename,
			context:  "",
			err:      errors.New("crate is locked"),
			expected: "Failed to rename crate: crate is locked",
		},
		{
			name:     "search with clause context",
			op:       OpSearchRun,
			context:  "bpm >= 120",
			err:      errors.New("no such column"),
			expected: "Failed to run search 'bpm >= 120': no such column",
		},
		{
			name:     "scan with path context",
			op:       OpLibraryScan,
			context:  "/home/user/music",
			err:      errors.New("directory not found"),
			expected: "Failed to scan library '/home/user/music': directory not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := FormatWith(tt.op, tt.context, tt.err)
			if result != tt.expected {
				t.Errorf("FormatWith(%q, %q, %v) = %q, want %q", tt.op, tt.context, tt.err, result, tt.expected)
			}
		})
	}
}

func TestOpConstants(t *testing.T) {
	ops := []Op{
		OpLibraryScan, OpLibraryLoad, OpTrackLoad,
		OpCrateCreate, OpCrateRename, OpCrateDelete, OpCrateLock, OpCrateAutoDJ,
		OpCrateAddTrack, OpCrateRemove, OpCrateLoad, OpCrateRepair, OpCrateMemberIDs,
		OpSearchRun,
		OpConfigLoad, OpInitialize,
	}

	testErr := errors.New("test error")

	for _, op := range ops {
		t.Run(string(op), func(t *testing.T) {
			if op == "" {
				t.Error("Op constant should not be empty")
			}

			expected := "Failed to " + string(op) + ": test error"
			if result := Format(op, testErr); result != expected {
				t.Errorf("Format = %q, want %q", result, expected)
			}
		})
	}
}
