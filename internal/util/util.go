package util

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

// IsUUID checks if a string is a valid UUID
func IsUUID(str string) bool {
	// Simple UUID check - this is not a comprehensive validation
	// but will help differentiate between names and UUIDs
	if len(str) != 36 {
		return false
	}

	// Check for UUID format (8-4-4-4-12 pattern with hyphens)
	sections := []int{8, 4, 4, 4, 12}
	parts := strings.Split(str, "-")
	if len(parts) != 5 {
		return false
	}

	for i, length := range sections {
		if len(parts[i]) != length {
			return false
		}
	}

	return true
}

// OpenExternal opens a URL or document with the platform's default handler
func OpenExternal(target string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", target)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", target)
	default:
		cmd = exec.Command("xdg-open", target)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("error opening %s: %w", target, err)
	}
	return nil
}

// Truncate shortens a string to max runes, appending an ellipsis when cut
func Truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 1 {
		return string(runes[:max])
	}
	return string(runes[:max-1]) + "…"
}
