package cli

import (
	"context"
	"fmt"
)

func (a *App) getStatus() string {
	s := ""
	if a.userName != "" {
		s = a.userName + " "
	}
	if m := a.currentMode(); m != "" {
		s = s + string(m)
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

// Root greets the user and runs the REPL on standard input.
func (a *App) Root(ctx context.Context) {
	fmt.Fprintln(a.out, "Welcome to the partusch CMS CLI (type 'help' for commands)")
	if !a.draft.IsEmpty() {
		fmt.Fprintln(a.out, "Restored unsaved draft, type 'show' to see it")
	}
	runREPL(ctx, a, a.getStatus, &readerLines{r: a.reader})
}
