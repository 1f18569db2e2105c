package repl

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/nsqlite/nsqliteseed/internal/nsqliteseed/styled"
)

type dotCmd struct {
	name string
	help string
}

var dotCmds = []dotCmd{
	{name: ".exit", help: "Exit the shell"},
	{name: ".help", help: "Show this help message"},
	{name: ".quit", help: "Exit the shell"},
	{name: ".schema", help: "Show the CREATE statements, optionally of a single table"},
	{name: ".seed", help: "Run the seed script again"},
	{name: ".tables", help: "List all tables with their row counts"},
}

func cmdHelp(r *Repl) {
	tw := styled.NewTableWriter()
	tw.AppendHeader(table.Row{"Command", "Description"})
	for _, cmd := range dotCmds {
		tw.AppendRow(table.Row{cmd.name, cmd.help})
	}
	tw.AppendRow(table.Row{"<sql>", "Any other input is executed as SQL"})

	fmt.Fprintln(r.out, tw.Render())
}

func cmdHelpCompleter(line string) []string {
	suggestions := []string{
		"SELECT ",
		"SELECT * FROM ",
		"SELECT COUNT(*) FROM ",
		"INSERT INTO ",
		"UPDATE ",
		"DELETE FROM ",
		"PRAGMA ",
	}
	for _, cmd := range dotCmds {
		suggestions = append(suggestions, cmd.name)
	}

	results := []string{}
	for _, suggestion := range suggestions {
		if strings.HasPrefix(strings.ToLower(suggestion), strings.ToLower(line)) {
			results = append(results, suggestion)
		}
	}

	return results
}
