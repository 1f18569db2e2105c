package nsqliteseed

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/nsqlite/nsqliteseed/internal/nsqliteseed/styled"
	"github.com/nsqlite/nsqliteseed/internal/seeddb"
	"github.com/nsqlite/nsqliteseed/internal/util/numutil"
)

// renderTables renders the table summary printed after opening the
// database.
func renderTables(tables []seeddb.TableInfo) string {
	if len(tables) == 0 {
		return styled.DimmedColor().Sprint("The database has no tables")
	}

	var total int64
	tw := styled.NewTableWriter()
	tw.AppendHeader(table.Row{"Table", "Rows"})
	for _, t := range tables {
		tw.AppendRow(table.Row{t.Name, numutil.IntWithCommas(t.Rows)})
		total += t.Rows
	}
	tw.AppendFooter(table.Row{"Total", numutil.IntWithCommas(total)})

	return tw.Render()
}
