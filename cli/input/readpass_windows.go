//go:build windows

package input

import (
	"fmt"
	"os"
	"syscall"

	"golang.org/x/term"
)

// readSecurePassword reads the user's secret with prompt from the console.
func readSecurePassword(prompt string) (string, error) {
	_, err := os.Stdout.WriteString(prompt)
	if err != nil {
		return "", err
	}
	pass, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		return "", fmt.Errorf("failed to read secret: %w", err)
	}
	_, err = os.Stdout.WriteString("\n")
	return string(pass), err
}
