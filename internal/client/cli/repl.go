package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	ListSongs(ctx context.Context, args []string) error
	Show(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error
	MySongs(ctx context.Context) error
	AddSong(ctx context.Context) error
	Review(ctx context.Context, args []string) error
	AddPhoto(ctx context.Context, args []string) error
}

// runREPL reads a line from reader, parses the first token as the command
// and dispatches to a. It exits on EOF or on "exit"/"quit".
//
//	Always:
//	  - help               show available commands
//	  - register           create an account
//	  - login / logout
//	  - songs [page]       browse all songs
//	  - show <id>          a song with its reviews and photos
//	  - delete <id>        delete a song
//	  - exit | quit
//
//	Logged in:
//	  - mysongs            songs you own
//	  - addsong            add a song
//	  - review <songID>    review a song
//	  - addphoto <songID> <file>
//
// Command errors are printed and the loop goes on.
//
// Commands prompt through the same reader, so it must not be wrapped in a
// second buffer.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("sk (%s)> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		err = nil
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: songs [page], show <id>, mysongs, addsong, review <songID>, addphoto <songID> <file>, delete <id>, logout, exit")
			} else {
				printlnFn("Available commands: register, login, songs [page], show <id>, delete <id>, exit")
			}

		case "register":
			err = a.Register(ctx)
		case "login":
			err = a.Login(ctx)
		case "logout":
			err = a.Logout(ctx)
		case "songs", "l", "list":
			err = a.ListSongs(ctx, args)
		case "show":
			err = a.Show(ctx, args)
		case "delete":
			err = a.Delete(ctx, args)

		case "mysongs", "addsong", "review", "addphoto":
			if !a.isLoggedIn() {
				printlnFn("Please login first")
				continue
			}
			switch cmd {
			case "mysongs":
				err = a.MySongs(ctx)
			case "addsong":
				err = a.AddSong(ctx)
			case "addphoto":
				err = a.AddPhoto(ctx, args)
			default:
				err = a.Review(ctx, args)
			}

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			printlnFn("error:", err)
		}
	}
}
