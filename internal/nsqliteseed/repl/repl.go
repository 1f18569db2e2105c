package repl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/nsqlite/nsqliteseed/internal/seeddb"
	"github.com/peterh/liner"
)

// Repl is an interactive SQL shell bound to an open database handle.
type Repl struct {
	ctx         context.Context
	db          *seeddb.Database
	out         io.Writer
	historyPath string
}

// NewRepl creates a Repl that writes its output to out.
func NewRepl(ctx context.Context, db *seeddb.Database, out io.Writer) *Repl {
	return &Repl{
		ctx:         ctx,
		db:          db,
		out:         out,
		historyPath: filepath.Join(os.TempDir(), ".nsqliteseed_history"),
	}
}

// Start runs the prompt loop until the user quits or the context is done.
func (r *Repl) Start() error {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)
	line.SetCompleter(cmdHelpCompleter)

	if file, err := os.Open(r.historyPath); err == nil {
		_, _ = line.ReadHistory(file)
		file.Close()
	}
	defer r.saveHistory(line)

	fmt.Fprintln(r.out, `Enter ".help" for usage hints and ".quit" or "CTRL+C" to quit`)
	fmt.Fprintln(r.out)

	for {
		if r.ctx.Err() != nil {
			return nil
		}

		input, err := line.Prompt("seed> ")
		if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)

		if quit := r.Handle(input); quit {
			return nil
		}
	}
}

// Handle runs a single line of input and reports whether the user asked
// to quit.
func (r *Repl) Handle(input string) bool {
	fields := strings.Fields(input)
	if len(fields) == 0 {
		return false
	}

	switch fields[0] {
	case ".exit", ".quit":
		return true
	case ".help":
		cmdHelp(r)
	case ".tables":
		cmdTables(r)
	case ".schema":
		cmdSchema(r, fields[1:])
	case ".seed":
		cmdSeed(r)
	default:
		if strings.HasPrefix(input, ".") {
			fmt.Fprintln(r.out, "Unknown command, type .help for usage hints")
			return false
		}
		cmdQuery(r, input)
	}

	return false
}

func (r *Repl) saveHistory(line *liner.State) {
	if file, err := os.Create(r.historyPath); err == nil {
		_, _ = line.WriteHistory(file)
		file.Close()
	}
}
