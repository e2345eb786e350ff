// heapdb opens (creating if absent) a database environment rooted at
// a directory and runs a SQL REPL over it.
//
// Usage:
//
//	heapdb <dbenv-path>
//
// Commands (in REPL):
//
//	CREATE TABLE name (col TYPE, ...)   Create a table
//	DROP TABLE name                     Drop a table
//	SHOW TABLES                         List user tables
//	SHOW COLUMNS FROM name               List a table's columns
//	quit                                 Exit
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	flag "github.com/spf13/pflag"

	"heapdb/internal/catalog"
	"heapdb/internal/dbtype"
	"heapdb/internal/executor"
	"heapdb/internal/sql"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "heapdb: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: heapdb <dbenv-path>\n")
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		return fmt.Errorf("expected exactly one dbenv-path argument")
	}
	dbenvPath := flag.Arg(0)

	if err := os.MkdirAll(dbenvPath, 0o755); err != nil {
		return fmt.Errorf("create dbenv %s: %w", dbenvPath, err)
	}

	tables, err := catalog.Open(dbenvPath)
	if err != nil {
		return fmt.Errorf("open dbenv %s: %w", dbenvPath, err)
	}
	defer tables.Close()

	repl := &REPL{tables: tables}
	return repl.Run()
}

// REPL is the interactive read-eval-print loop over one open catalog.
type REPL struct {
	tables *catalog.Tables
	liner  *liner.State
}

func historyFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".heapdb_history")
}

// Run starts the REPL loop; it returns nil on 'quit' or EOF.
func (r *REPL) Run() error {
	r.liner = liner.NewLiner()
	defer r.liner.Close()

	r.liner.SetCtrlCAborts(true)
	r.liner.SetCompleter(r.completer)

	if f, err := os.Open(historyFile()); err == nil {
		r.liner.ReadHistory(f)
		f.Close()
	}

	for {
		line, err := r.liner.Prompt("SQL> ")
		if err != nil {
			if err == liner.ErrPromptAborted || err == io.EOF {
				break
			}
			return fmt.Errorf("reading input: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		r.liner.AppendHistory(line)

		if strings.EqualFold(line, "quit") {
			break
		}

		r.execute(line)
	}

	r.saveHistory()
	return nil
}

func (r *REPL) saveHistory() {
	if path := historyFile(); path != "" {
		if f, err := os.Create(path); err == nil {
			r.liner.WriteHistory(f)
			f.Close()
		}
	}
}

func (r *REPL) completer(line string) []string {
	commands := []string{
		"CREATE TABLE", "DROP TABLE", "SHOW TABLES", "SHOW COLUMNS FROM", "quit",
	}

	var completions []string
	upper := strings.ToUpper(line)
	for _, cmd := range commands {
		if strings.HasPrefix(cmd, upper) {
			completions = append(completions, cmd)
		}
	}
	return completions
}

func (r *REPL) execute(line string) {
	stmt, err := sql.Parse(line)
	if err != nil {
		fmt.Println("Invalid SQL statement.")
		return
	}

	res := executor.Execute(r.tables, stmt)
	printResult(res)
}

func printResult(res executor.QueryResult) {
	if len(res.ColumnNames) > 0 {
		fmt.Println(strings.Join(res.ColumnNames, " | "))
		for _, row := range res.Rows {
			cells := make([]string, len(row))
			for i, v := range row {
				cells[i] = formatValue(v)
			}
			fmt.Println(strings.Join(cells, " | "))
		}
	}
	if res.Message != "" {
		fmt.Println(res.Message)
	}
}

func formatValue(v dbtype.Value) string {
	return v.String()
}
