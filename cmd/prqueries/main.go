package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"runtime/debug"

	"github.com/charmbracelet/lipgloss"
	apperrors "github.com/shhac/prqueries/internal/errors"
)

func main() {
	os.Exit(runApp(os.Args[1:], os.Stdout, os.Stderr))
}

// runApp is the main application entry point with panic recovery.
// It returns the process exit code.
func runApp(args []string, stdout, stderr io.Writer) (code int) {
	// Bootstrap logger until the app's file logger exists
	tempLogger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))

	defer func() {
		if r := recover(); r != nil {
			tempLogger.Error("panic recovered",
				slog.Any("panic", r),
				slog.String("stack", string(debug.Stack())),
			)
			code = 1
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	c := newCLI(stdout, stderr)
	defer c.teardown()

	root := c.rootCmd()
	root.SetArgs(args)

	if err := root.ExecuteContext(ctx); err != nil {
		userErr := apperrors.ClassifyError(err)
		printError(stderr, userErr, c.debug)
		return userErr.ExitCode()
	}
	return 0
}

var (
	errTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	hintStyle     = lipgloss.NewStyle().Faint(true)
)

func printError(w io.Writer, e *apperrors.UserError, verbose bool) {
	fmt.Fprintf(w, "%s: %s\n", errTitleStyle.Render(e.Title), e.Message)
	for _, r := range e.Recovery {
		fmt.Fprintln(w, hintStyle.Render("  • "+r))
	}
	if verbose && e.Details != "" {
		fmt.Fprintln(w, hintStyle.Render("  details: "+e.Details))
	}
}
