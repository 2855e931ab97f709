package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/getfit/internal/common"
)

// command is one REPL verb. Commands with auth set are hidden from help and
// refused while logged out.
type command struct {
	name  string
	args  string
	help  string
	auth  bool
	run   func(ctx context.Context, args []string) error
	alias []string
}

func (a *App) commands() []command {
	return []command{
		{name: "register", help: "create an account", run: a.Register},
		{name: "signup", help: "create an account with a full fitness profile", run: a.Signup},
		{name: "login", help: "log in", run: a.Login},
		{name: "logout", help: "log out and forget stored credentials", auth: true, run: a.Logout},
		{name: "status", help: "show session state and token expiry", run: a.Status},
		{name: "profile", help: "show your profile and fitness summary", auth: true, run: a.Profile},
		{name: "goals", help: "edit daily nutrition goals", auth: true, run: a.Goals},
		{name: "date", args: "[prev|next|today|YYYY-MM-DD]", help: "show or change the selected date", auth: true, run: a.Date},
		{name: "meal", args: "[type]", help: "show or change the selected meal type", auth: true, run: a.Meal},
		{name: "meals", help: "list meals of the selected date", auth: true, run: a.Meals, alias: []string{"ls"}},
		{name: "type", args: "[type]", help: "list meals of one type on the selected date", auth: true, run: a.MealsByType},
		{name: "week", args: "[YYYY-MM-DD]", help: "list seven days of meals", auth: true, run: a.Week},
		{name: "summary", help: "nutrition totals of the selected date", auth: true, run: a.Summary},
		{name: "search", args: "<query>", help: "search foods", auth: true, run: a.Search},
		{name: "barcode", args: "<code>", help: "look a food up by barcode", auth: true, run: a.Barcode},
		{name: "food", args: "<id>", help: "show a food with nutrition per 100 g", auth: true, run: a.Food},
		{name: "log", args: "<food id> <grams> [notes]", help: "log a food to the selected date and meal", auth: true, run: a.Log},
		{name: "delete", args: "<entry id>", help: "delete a diary entry", auth: true, run: a.Delete},
		{name: "export", args: "[YYYY-MM-DD]", help: "upload a week of meals to object storage", auth: true, run: a.Export},
	}
}

// runREPL reads commands from reader until EOF or "exit". Errors returned
// by commands are printed and the loop continues.
func runREPL(ctx context.Context, reader *bufio.Reader, out io.Writer, cmds []command, loggedIn func() bool, statusFn func() string) {
	byName := make(map[string]command, len(cmds))
	for _, c := range cmds {
		byName[c.name] = c
		for _, al := range c.alias {
			byName[al] = c
		}
	}

	for {
		if s := statusFn(); s != "" {
			fmt.Fprintf(out, "getfit %s> ", s)
		} else {
			fmt.Fprint(out, "getfit> ")
		}

		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			fmt.Fprintln(out)
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		name, args := parts[0], parts[1:]

		switch name {
		case "exit", "quit":
			fmt.Fprintln(out, "Bye!")
			return
		case "help":
			printHelp(out, cmds, loggedIn())
			continue
		}

		c, ok := byName[name]
		if !ok {
			fmt.Fprintln(out, "Unknown command:", name)
			continue
		}
		if c.auth && !loggedIn() {
			printError(out, errNotLoggedIn)
			continue
		}
		if err := c.run(ctx, args); err != nil {
			printError(out, err)
		}
	}
}

func printHelp(out io.Writer, cmds []command, loggedIn bool) {
	fmt.Fprintln(out, "Available commands:")
	for _, c := range cmds {
		if c.auth && !loggedIn {
			continue
		}
		usage := c.name
		if c.args != "" {
			usage += " " + c.args
		}
		fmt.Fprintf(out, "  %-36s %s\n", usage, c.help)
	}
	fmt.Fprintf(out, "  %-36s %s\n", "help", "show this list")
	fmt.Fprintf(out, "  %-36s %s\n", "exit", "leave the program")
}

// printError shows the human-readable message, followed by the server's
// suggestion when it sent one.
func printError(out io.Writer, err error) {
	fmt.Fprintln(out, "Error:", err.Error())

	var ce *common.Error
	if errors.As(err, &ce) && ce.Suggestion != "" {
		fmt.Fprintln(out, "Hint:", ce.Suggestion)
	}
}
