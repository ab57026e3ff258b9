package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	Add(ctx context.Context) error
	List(ctx context.Context, category string) error
	Show(ctx context.Context) error
	Edit(ctx context.Context) error
	Review(ctx context.Context) error
	Delete(ctx context.Context) error
	Sync(ctx context.Context) error
}

// runREPL starts a simple read-eval-print loop for the recallbox CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//   - help             — show available commands
//   - add              — add a card (interactive prompts)
//   - list [category]  — list cards, optionally filtered by category
//   - show             — show a single card (interactive id prompt)
//   - edit             — edit a card's text
//   - review           — run a review session
//   - delete           — delete a card
//   - sync             — synchronize with the server now
//   - exit | quit      — leave the program
//
// Any errors returned by command handlers are ignored here; handlers should
// log their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		fmt.Printf("rbx %s> ", statusFn())
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			printlnFn("Available commands: add, (l)ist [category], show, edit, review, delete, sync, exit")

		case "add":
			_ = a.Add(ctx)

		case "l", "list":
			category := ""
			if len(args) > 0 {
				category = args[0]
			}
			_ = a.List(ctx, category)

		case "show":
			_ = a.Show(ctx)

		case "edit":
			_ = a.Edit(ctx)

		case "review":
			_ = a.Review(ctx)

		case "delete":
			_ = a.Delete(ctx)

		case "sync":
			_ = a.Sync(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}

func (a *App) getStatus() string {
	if a.scheduler.Online() {
		return "(online)"
	}
	return "(offline)"
}

func (a *App) Root(ctx context.Context) {
	printlnFn("Welcome to recallbox CLI (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.getStatus, scanner)
}
