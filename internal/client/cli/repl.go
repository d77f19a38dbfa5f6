package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface is the command surface the REPL dispatches to.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context) error
	ListTools(ctx context.Context, args []string) error
	AddTool(ctx context.Context) error
	UploadDocument(ctx context.Context, args []string) error
	ShowDocument(ctx context.Context, args []string) error
	WhoAmI(ctx context.Context) error
	Logout(ctx context.Context) error
}

// runREPL reads commands from reader until EOF, "exit" or "quit".
//
//	Not logged in:
//	  - help           show available commands
//	  - login          authenticate
//	  - exit | quit    leave the program
//
//	Logged in:
//	  - help           show available commands
//	  - tools [page]   list tools, newest first
//	  - addtool        add a tool
//	  - upload ID FILE attach a document to a tool
//	  - doc ID         print a download link for a tool's document
//	  - whoami         show the signed-in user
//	  - logout         sign out
//	  - exit | quit    leave the program
//
// Errors from handlers are ignored here; handlers report their own.
// The reader is shared with the handlers' prompts, so lines are read one at a
// time rather than through a buffering scanner.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("plms %s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		if cmd == "exit" || cmd == "quit" {
			printlnFn("Bye!")
			return
		}

		if !a.isLoggedIn() {
			switch cmd {
			case "help":
				printlnFn("Available commands: login, exit")
			case "login":
				_ = a.Login(ctx)
			default:
				printlnFn("Please log in first (type 'login').")
			}
			continue
		}

		switch cmd {
		case "help":
			printlnFn("Available commands: tools [page], addtool, upload <tool-id> <file>, doc <tool-id>, whoami, logout, exit")
		case "tools", "l":
			_ = a.ListTools(ctx, args)
		case "addtool":
			_ = a.AddTool(ctx)
		case "upload":
			_ = a.UploadDocument(ctx, args)
		case "doc":
			_ = a.ShowDocument(ctx, args)
		case "whoami":
			_ = a.WhoAmI(ctx)
		case "logout":
			_ = a.Logout(ctx)
		case "login":
			printlnFn("Already logged in.")
		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
