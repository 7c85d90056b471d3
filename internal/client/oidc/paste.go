package oidc

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"

	"golang.org/x/term"
)

// test seams
var (
	readPassword = term.ReadPassword
	isTerminal   = term.IsTerminal
)

// PasteAuthenticator prints the authorize URL and lets the user paste either
// the raw ID token or the whole redirect URL the browser ended up on. Input
// is not echoed when In is a terminal.
type PasteAuthenticator struct {
	In  *os.File
	Out io.Writer
}

func (a *PasteAuthenticator) StartInteractiveLogin(ctx context.Context, authURL string) (Result, error) {
	in := a.In
	if in == nil {
		in = os.Stdin
	}

	fmt.Fprintf(a.Out, "Open this URL in a browser and log in:\n%s\n", authURL)
	fmt.Fprint(a.Out, "Paste the ID token or the redirect URL (empty to cancel): ")

	line, err := a.readLine(in)
	fmt.Fprintln(a.Out)
	if err != nil {
		return Result{}, err
	}
	if ctx.Err() != nil {
		return Result{}, ctx.Err()
	}

	return parsePasted(strings.TrimSpace(line), stateOf(authURL))
}

func (a *PasteAuthenticator) readLine(in *os.File) (string, error) {
	fd := int(in.Fd())
	if isTerminal(fd) {
		b, err := readPassword(fd)
		if err != nil {
			return "", fmt.Errorf("read token: %w", err)
		}
		return string(b), nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if errors.Is(err, io.EOF) {
		return line, nil
	}
	if err != nil {
		return "", fmt.Errorf("read token: %w", err)
	}
	return line, nil
}

// parsePasted accepts a bare token, a redirect URL carrying the token in its
// fragment or query, or a raw "id_token=...&state=..." string.
func parsePasted(s, wantState string) (Result, error) {
	if s == "" {
		return Result{}, ErrLoginCancelled
	}
	if !strings.Contains(s, "id_token=") && !strings.Contains(s, "error=") {
		return Result{IDToken: s}, nil
	}

	raw := s
	if u, err := url.Parse(s); err == nil && (u.Fragment != "" || u.RawQuery != "") {
		raw = u.Fragment
		if raw == "" {
			raw = u.RawQuery
		}
	}
	v, err := url.ParseQuery(raw)
	if err != nil {
		return Result{}, fmt.Errorf("parse pasted response: %w", err)
	}
	return resultFromValues(v, wantState)
}
