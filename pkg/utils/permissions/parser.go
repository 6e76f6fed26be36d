// Package permissions parses and formats the octal file modes used when
// writing project files.
package permissions

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Default modes for files and directories created inside a project.
const (
	DefaultFilePerms = 0o644
	DefaultDirPerms  = 0o755
)

// ParseOctalString parses an octal permission string into a uint16.
// Handles formats like "644", "0644", "0o644". An empty string yields
// fallback. Only the permission bits are accepted; setuid, setgid and
// sticky are rejected.
func ParseOctalString(s string, fallback uint16) (uint16, error) {
	if s == "" {
		return fallback, nil
	}

	trimmed := strings.TrimPrefix(s, "0o")
	trimmed = strings.TrimPrefix(trimmed, "0")
	if trimmed == "" {
		return 0, nil
	}

	val, err := strconv.ParseUint(trimmed, 8, 16)
	if err != nil {
		return fallback, fmt.Errorf("invalid permission string %q: %w", s, err)
	}
	if val > 0o777 {
		return fallback, fmt.Errorf("invalid permission string %q: only 0-0777 is allowed", s)
	}

	return uint16(val), nil
}

// FileMode converts a parsed permission value to an os.FileMode.
func FileMode(perm uint16) os.FileMode {
	return os.FileMode(perm) & os.ModePerm
}

// FormatOctal formats a permission value as an octal string
func FormatOctal(perm uint16) string {
	return fmt.Sprintf("0%o", perm)
}

// IsDirectory checks if permissions are appropriate for a directory
func IsDirectory(perm uint16) bool {
	// Directories need execute permission to be traversable
	return perm&0o100 != 0
}
