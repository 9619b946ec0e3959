package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

type uiMode string

const (
	uiModeAuto uiMode = "auto"
	uiModeOn   uiMode = "on"
	uiModeOff  uiMode = "off"
)

func readUIMode(cmd *cobra.Command) (uiMode, error) {
	value, err := cmd.Root().PersistentFlags().GetString("ui")
	if err != nil {
		return "", fmt.Errorf("failed to get ui flag: %w", err)
	}
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "auto":
		return uiModeAuto, nil
	case "", "off":
		return uiModeOff, nil
	case "on":
		return uiModeOn, nil
	default:
		return "", &usageError{err: fmt.Errorf("invalid --ui value %q (expected auto|on|off)", value)}
	}
}

func (a *app) shouldUseTUI(mode uiMode) bool {
	switch mode {
	case uiModeOn:
		return true
	case uiModeOff:
		return false
	default:
		return a.isTerminal(a.stdout)
	}
}
