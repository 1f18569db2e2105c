package repl

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/nsqlite/nsqliteseed/internal/nsqliteseed/styled"
	"github.com/nsqlite/nsqliteseed/internal/util/numutil"
)

func cmdQuery(r *Repl, input string) {
	res, err := r.db.Query(r.ctx, input)
	if err != nil {
		printError(r, err)
		return
	}

	if len(res.Columns) == 0 {
		fmt.Fprintln(r.out, "OK")
		return
	}

	tw := styled.NewTableWriter()
	header := table.Row{}
	for _, col := range res.Columns {
		header = append(header, col)
	}
	tw.AppendHeader(header)

	for _, values := range res.Rows {
		row := table.Row{}
		for _, v := range values {
			if b, ok := v.([]byte); ok {
				v = string(b)
			}
			row = append(row, v)
		}
		tw.AppendRow(row)
	}

	fmt.Fprintln(r.out, tw.Render())
	fmt.Fprintln(r.out, styled.DimmedColor().Sprintf(
		"%s row(s)", numutil.IntWithCommas(int64(len(res.Rows))),
	))
}

func cmdTables(r *Repl) {
	tables, err := r.db.Tables(r.ctx)
	if err != nil {
		printError(r, err)
		return
	}

	if len(tables) == 0 {
		fmt.Fprintln(r.out, styled.DimmedColor().Sprint("No tables"))
		return
	}

	tw := styled.NewTableWriter()
	tw.AppendHeader(table.Row{"Table", "Rows"})
	for _, t := range tables {
		tw.AppendRow(table.Row{t.Name, numutil.IntWithCommas(t.Rows)})
	}
	fmt.Fprintln(r.out, tw.Render())
}

func cmdSchema(r *Repl, args []string) {
	query := "SELECT sql FROM sqlite_master WHERE sql IS NOT NULL ORDER BY type DESC, name"
	params := []any{}
	if len(args) > 0 {
		query = "SELECT sql FROM sqlite_master WHERE sql IS NOT NULL AND tbl_name = ? ORDER BY type DESC, name"
		params = append(params, args[0])
	}

	res, err := r.db.Query(r.ctx, query, params...)
	if err != nil {
		printError(r, err)
		return
	}

	for _, row := range res.Rows {
		fmt.Fprintf(r.out, "%s;\n", row[0])
	}
}

func cmdSeed(r *Repl) {
	if err := r.db.Seed(r.ctx); err != nil {
		printError(r, err)
		return
	}
	fmt.Fprintln(r.out, "Seed script applied")
}

func printError(r *Repl, err error) {
	fmt.Fprintln(r.out, styled.ErrorColor().Sprintf("Error: %s", err))
}
