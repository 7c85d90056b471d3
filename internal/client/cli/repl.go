package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// commandContext derives the context of a single command. Ctrl-C cancels it
// without leaving the REPL.
var commandContext = func(ctx context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(ctx, os.Interrupt)
}

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context, args []string) error
	Logout(ctx context.Context) error

	SetTitle(ctx context.Context, args []string) error
	SetBody(ctx context.Context) error
	Tag(ctx context.Context, args []string) error
	SetDate(ctx context.Context, args []string) error
	Show(ctx context.Context) error
	Reset(ctx context.Context) error

	AddImage(ctx context.Context, args []string) error
	Images(ctx context.Context) error
	RemoveImage(ctx context.Context, args []string) error
	Orphans(ctx context.Context, args []string) error

	Submit(ctx context.Context) error
	List(ctx context.Context) error
	Delete(ctx context.Context, args []string) error
}

const (
	helpLoggedOut = "Available commands: login [token], title, body, tag, date, show, reset, exit"
	helpLoggedIn  = "Available commands: title, body, tag <milo|oliver> [on|off], date, show, reset, " +
		"add <uri> [mime], images, remove <id>, orphans [forget <id>], submit, (l)ist, delete <id>, logout, exit"
)

// lineSource is what runREPL reads commands from. *bufio.Scanner satisfies it.
type lineSource interface {
	Scan() bool
	Text() string
}

// readerLines reads one line per Scan straight from a shared *bufio.Reader so
// prompts inside commands see the input that follows the command line.
type readerLines struct {
	r    *bufio.Reader
	text string
}

func (l *readerLines) Scan() bool {
	line, err := l.r.ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	l.text = strings.TrimRight(line, "\r\n")
	return true
}

func (l *readerLines) Text() string { return l.text }

// runREPL starts a simple read–eval–print loop for the CMS CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a' with the remaining tokens. The
// loop exits on scanner EOF or when the user types "exit" or "quit".
//
// Commands that talk to the CMS require a login; draft editing does not.
// Errors returned by handlers are printed and the loop continues.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner lineSource) {
	for {
		printlnFn(fmt.Sprintf("cms> %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		if cmd == "exit" || cmd == "quit" {
			printlnFn("Bye!")
			return
		}

		run, ok := dispatch(a, cmd, args)
		if !ok {
			printlnFn("Unknown command:", cmd)
			continue
		}
		if needsLogin(cmd) && !a.isLoggedIn() {
			printlnFn("Please login first")
			continue
		}

		cctx, stop := commandContext(ctx)
		err := run(cctx)
		stop()
		if err != nil {
			printlnFn("Error:", err.Error())
		}
	}
}

func needsLogin(cmd string) bool {
	switch cmd {
	case "add", "upload", "submit", "l", "list", "delete", "logout":
		return true
	}
	return false
}

func dispatch(a execIface, cmd string, args []string) (func(context.Context) error, bool) {
	switch cmd {
	case "help":
		return func(context.Context) error {
			if a.isLoggedIn() {
				printlnFn(helpLoggedIn)
			} else {
				printlnFn(helpLoggedOut)
			}
			return nil
		}, true
	case "login":
		return func(ctx context.Context) error { return a.Login(ctx, args) }, true
	case "logout":
		return a.Logout, true
	case "title":
		return func(ctx context.Context) error { return a.SetTitle(ctx, args) }, true
	case "body":
		return a.SetBody, true
	case "tag":
		return func(ctx context.Context) error { return a.Tag(ctx, args) }, true
	case "date":
		return func(ctx context.Context) error { return a.SetDate(ctx, args) }, true
	case "show":
		return a.Show, true
	case "reset":
		return a.Reset, true
	case "add", "upload":
		return func(ctx context.Context) error { return a.AddImage(ctx, args) }, true
	case "images":
		return a.Images, true
	case "remove":
		return func(ctx context.Context) error { return a.RemoveImage(ctx, args) }, true
	case "orphans":
		return func(ctx context.Context) error { return a.Orphans(ctx, args) }, true
	case "submit":
		return a.Submit, true
	case "l", "list":
		return a.List, true
	case "delete":
		return func(ctx context.Context) error { return a.Delete(ctx, args) }, true
	}
	return nil, false
}
