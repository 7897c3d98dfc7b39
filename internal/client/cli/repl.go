package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/recipekeeper/internal/client/auth"
	"github.com/dmitrijs2005/recipekeeper/internal/client/importer"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Balance(ctx context.Context) error
	Buy(ctx context.Context, productID string) error
	Restore(ctx context.Context) error
	Import(ctx context.Context, args []string) error
	ImportImages(ctx context.Context, paths []string) error
	ImportPDF(ctx context.Context, path string) error
	List(ctx context.Context) error
	Show(ctx context.Context, id string) error
}

const (
	helpSignedOut = "Available commands: login, fmt, help, exit"
	helpSignedIn  = "Available commands: import <url> [start end] [lang=xx], importimg <file>..., importpdf <file>, " +
		"(l)ist, show <id>, balance, buy <product>, restore, fmt <digits>, logout, exit"
)

// runREPL starts a simple read–eval–print loop for the recipekeeper CLI.
//
// It reads a line from in, parses the first token as the command, and
// dispatches to methods on 'a'. Unknown commands are reported back to the
// user. The loop exits on EOF or when the user types "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	Signed out:
//	  - help                        show available commands
//	  - login                       paste an access token
//	  - fmt <digits>                preview timestamp formatting
//	  - exit | quit                 leave the program
//
//	Signed in, additionally:
//	  - import <url> [s e] [lang]   import from a website or video
//	  - importimg <file>...         import from photos
//	  - importpdf <file>            import from a PDF
//	  - list | l                    list recipes
//	  - show <id>                   show one recipe
//	  - balance                     refresh the token balance
//	  - buy <product>               buy tokens
//	  - restore                     restore purchases
//	  - logout                      sign out and clear the cache
//
// Errors returned by command handlers are printed and the loop continues.
func runREPL(ctx context.Context, a execIface, statusFn func() string, in *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("rk %s> ", statusFn()))
		line, err := in.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || strings.TrimSpace(line) == "") {
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		if done := dispatch(ctx, a, cmd, args); done {
			return
		}
	}
}

func dispatch(ctx context.Context, a execIface, cmd string, args []string) (done bool) {
	var err error

	switch cmd {
	case "help":
		if a.isLoggedIn() {
			printlnFn(helpSignedIn)
		} else {
			printlnFn(helpSignedOut)
		}

	case "fmt":
		if len(args) != 1 {
			printlnFn("Usage: fmt <digits>")
			break
		}
		printlnFn(importer.AutoFormatTimestamp(args[0]))

	case "exit", "quit":
		printlnFn("Bye!")
		return true

	case "login":
		err = a.Login(ctx)

	default:
		if !a.isLoggedIn() {
			if isKnownCommand(cmd) {
				printlnFn("Please login first.")
			} else {
				printlnFn("Unknown command:", cmd)
			}
			break
		}
		err = dispatchSignedIn(ctx, a, cmd, args)
	}

	switch {
	case err == nil:
	case auth.IsSessionError(err):
		printlnFn("Your session has ended. Please login again.")
	default:
		printlnFn("Error:", err)
	}
	return false
}

func dispatchSignedIn(ctx context.Context, a execIface, cmd string, args []string) error {
	switch cmd {
	case "logout":
		return a.Logout(ctx)

	case "balance":
		return a.Balance(ctx)

	case "buy":
		if len(args) != 1 {
			printlnFn("Usage: buy <product>")
			return nil
		}
		return a.Buy(ctx, args[0])

	case "restore":
		return a.Restore(ctx)

	case "import":
		if len(args) == 0 {
			printlnFn("Usage: import <url> [start end] [lang=xx]")
			return nil
		}
		return a.Import(ctx, args)

	case "importimg":
		if len(args) == 0 {
			printlnFn("Usage: importimg <file> [file...]")
			return nil
		}
		return a.ImportImages(ctx, args)

	case "importpdf":
		if len(args) != 1 {
			printlnFn("Usage: importpdf <file>")
			return nil
		}
		return a.ImportPDF(ctx, args[0])

	case "l", "list":
		return a.List(ctx)

	case "show":
		if len(args) != 1 {
			printlnFn("Usage: show <id>")
			return nil
		}
		return a.Show(ctx, args[0])

	default:
		printlnFn("Unknown command:", cmd)
		return nil
	}
}

func isKnownCommand(cmd string) bool {
	switch cmd {
	case "logout", "balance", "buy", "restore", "import", "importimg", "importpdf", "l", "list", "show":
		return true
	}
	return false
}
