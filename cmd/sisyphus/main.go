package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/lipgloss"
)

var version = "0.1.0"

var errStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#f38ba8"))

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, errStyle.Render("✖ "+err.Error()))
		os.Exit(1)
	}
}
