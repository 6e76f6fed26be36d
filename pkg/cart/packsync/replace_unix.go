//go:build !windows
// +build !windows

package packsync

import (
	"fmt"
	"os"

	"github.com/hashicorp/go-hclog"
)

// atomicReplace moves sourcePath over destPath. os.Rename is atomic within
// one filesystem on Unix.
func atomicReplace(sourcePath, destPath string, logger hclog.Logger) error {
	if err := os.Rename(sourcePath, destPath); err != nil {
		return fmt.Errorf("failed to rename file: %w", err)
	}
	logger.Trace("🔁 Replaced file", "source", sourcePath, "dest", destPath)
	return nil
}
