// Package cli parses process arguments into store operations and prints
// their results.
package cli

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/sirupsen/logrus"

	"github.com/tuanemuy/local-task/internal/config"
	"github.com/tuanemuy/local-task/internal/store"
	"github.com/tuanemuy/local-task/internal/table"
)

// Exit codes
const (
	ExitOK       = 0
	ExitUsage    = 2
	ExitNotFound = 3
	ExitInvalid  = 4
	ExitStore    = 10
)

type GlobalFlags struct {
	DB      string
	JSON    bool
	Quiet   bool
	Verbose bool
}

type randReader struct{}

func (randReader) Read(p []byte) (int, error) { return rand.Read(p) }

func Run(args []string) int {
	gf, rest, err := extractGlobalFlags(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		return ExitUsage
	}

	if len(rest) == 0 {
		printHelp()
		return ExitUsage
	}

	cmd := rest[0]
	cmdArgs := rest[1:]

	switch cmd {
	case "help", "--help", "-h":
		printHelp()
		return ExitOK
	case "init", "add", "get", "search", "ls", "list", "todo", "done", "wip", "rm", "remove", "show", "summary":
		// handled below, against an open store
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		printHelp()
		return ExitUsage
	}

	if gf.DB == "" {
		cfg, err := config.Load(".")
		if err != nil {
			fmt.Fprintln(os.Stderr, "local-task:", err)
			return ExitStore
		}
		gf.DB = cfg.Database
	}

	log := newLogEntry(gf, cmd)
	st, err := store.Open(gf.DB, log)
	if err != nil {
		fmt.Fprintln(os.Stderr, "local-task:", err)
		return ExitStore
	}
	defer func() { _ = st.Close() }()

	ctx := context.Background()
	switch cmd {
	case "init":
		return cmdInit(gf)
	case "add":
		return cmdAdd(ctx, st, gf, cmdArgs)
	case "get":
		return cmdGet(ctx, st, gf, cmdArgs)
	case "search":
		return cmdSearch(ctx, st, gf, cmdArgs)
	case "ls", "list":
		return cmdList(ctx, st, gf, cmdArgs)
	case "todo":
		return cmdTodo(ctx, st, gf, cmdArgs)
	case "done":
		return cmdSetStatus(ctx, st, gf, "done", store.StatusDone, cmdArgs)
	case "wip":
		return cmdSetStatus(ctx, st, gf, "wip", store.StatusWIP, cmdArgs)
	case "rm", "remove":
		return cmdRemove(ctx, st, gf, cmdArgs)
	case "show":
		return cmdShow(ctx, st, gf, cmdArgs)
	case "summary":
		return cmdSummary(ctx, st, gf)
	default:
		return ExitUsage
	}
}

func printHelp() {
	fmt.Print(`local-task — project-local tasks in SQLite

Usage:
  local-task [global flags] <command> [args]

Global flags:
  --db <path>   Database file (default: .local-task/tasks.db, LOCAL_TASK_DB,
                or the database key of .local-task.yml)
  --json        JSON output for data commands
  --quiet
  --verbose

Commands:
  init                              Create the database and schema
  add <category> <jsonArray>        Insert or update tasks by customId
  get <category> <idOrCustomId>     Show one task
  search <category> <query>         Substring search (customId/name/description)
  list <category>                   All tasks in a category
  todo <category>                   Tasks still in progress
  done <category> <id> [comment]    Mark a task done
  wip <category> <id> [comment]     Mark a task in progress
  remove <category> <id>            Delete a task
  show <category>                   Table view of a category
  summary                           Per-category wip/done counts

Add items look like:
  [{"customId":"api-001","name":"Create user API","description":"...","status":"wip"}]
`)
}

func extractGlobalFlags(args []string) (GlobalFlags, []string, error) {
	gf := GlobalFlags{DB: os.Getenv("LOCAL_TASK_DB")}

	out := make([]string, 0, len(args))
	skip := 0
	for i := 0; i < len(args); i++ {
		if skip > 0 {
			skip--
			continue
		}
		a := args[i]
		switch a {
		case "--db":
			if i+1 >= len(args) {
				return gf, nil, errors.New("--db requires a value")
			}
			gf.DB = args[i+1]
			skip = 1
		case "--json":
			gf.JSON = true
		case "--quiet":
			gf.Quiet = true
		case "--verbose":
			gf.Verbose = true
		default:
			out = append(out, a)
		}
	}
	return gf, out, nil
}

func newLogEntry(gf GlobalFlags, cmd string) *logrus.Entry {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	if gf.Verbose {
		log.SetLevel(logrus.DebugLevel)
	} else {
		log.SetLevel(logrus.WarnLevel)
	}
	return log.WithFields(logrus.Fields{
		"invocation": newInvocationID(),
		"cmd":        cmd,
	})
}

func newInvocationID() string {
	t := ulid.Timestamp(time.Now().UTC())
	id, err := ulid.New(t, ulid.Monotonic(randReader{}, 0))
	if err != nil {
		return strconv.FormatInt(time.Now().UTC().UnixNano(), 10)
	}
	return id.String()
}

// fail reports err for cmd and maps its kind to the exit code.
func fail(cmd string, err error) int {
	fmt.Fprintln(os.Stderr, cmd+":", err)
	return exitCodeFor(err)
}

func exitCodeFor(err error) int {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return ExitNotFound
	case errors.Is(err, store.ErrInvalid), errors.Is(err, store.ErrInvalidID):
		return ExitInvalid
	default:
		return ExitStore
	}
}

func cmdInit(gf GlobalFlags) int {
	// Open already ensured the schema.
	if !gf.Quiet {
		fmt.Println("Initialized task store at:", gf.DB)
	}
	return ExitOK
}

func cmdAdd(ctx context.Context, st *store.Store, gf GlobalFlags, args []string) int {
	if len(args) < 2 {
		fmt.Fprintln(os.Stderr, `Usage: local-task add <category> '<jsonArray>'`)
		return ExitUsage
	}
	category := args[0]
	raw := strings.Join(args[1:], " ")

	items, err := store.ParseItems([]byte(raw))
	if err != nil {
		return fail("add", err)
	}
	count, err := st.UpsertBatch(ctx, category, items)
	if err != nil {
		return fail("add", err)
	}
	if gf.JSON {
		printJSON(map[string]any{"category": category, "count": count})
		return ExitOK
	}
	if !gf.Quiet {
		fmt.Printf("Upserted %d task(s) in %s\n", count, category)
	}
	return ExitOK
}

func cmdGet(ctx context.Context, st *store.Store, gf GlobalFlags, args []string) int {
	if len(args) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: local-task get <category> <idOrCustomId>")
		return ExitUsage
	}
	task, err := st.ResolveAndFetch(ctx, args[0], args[1])
	if err != nil {
		return fail("get", err)
	}
	if gf.JSON {
		printJSON(map[string]any{"task": task})
		return ExitOK
	}
	printTask(task)
	return ExitOK
}

func cmdSearch(ctx context.Context, st *store.Store, gf GlobalFlags, args []string) int {
	if len(args) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: local-task search <category> <query>")
		return ExitUsage
	}
	query := strings.Join(args[1:], " ")
	tasks, err := st.Search(ctx, args[0], query)
	if err != nil {
		return fail("search", err)
	}
	printTasks(tasks, gf)
	return ExitOK
}

func cmdList(ctx context.Context, st *store.Store, gf GlobalFlags, args []string) int {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: local-task list <category>")
		return ExitUsage
	}
	tasks, err := st.ListByCategory(ctx, args[0])
	if err != nil {
		return fail("list", err)
	}
	printTasks(tasks, gf)
	return ExitOK
}

func cmdTodo(ctx context.Context, st *store.Store, gf GlobalFlags, args []string) int {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: local-task todo <category>")
		return ExitUsage
	}
	tasks, err := st.ListByCategoryAndStatus(ctx, args[0], store.StatusWIP)
	if err != nil {
		return fail("todo", err)
	}
	printTasks(tasks, gf)
	return ExitOK
}

func cmdSetStatus(ctx context.Context, st *store.Store, gf GlobalFlags, name, status string, args []string) int {
	if len(args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: local-task %s <category> <id> [comment]\n", name)
		return ExitUsage
	}
	comment := strings.Join(args[2:], " ")
	task, err := st.SetStatus(ctx, args[0], args[1], status, comment)
	if err != nil {
		return fail(name, err)
	}
	if gf.JSON {
		printJSON(map[string]any{"task": task})
		return ExitOK
	}
	if !gf.Quiet {
		fmt.Printf("Marked %s #%d %s\n", task.CustomID, task.ID, task.Status)
	}
	return ExitOK
}

func cmdRemove(ctx context.Context, st *store.Store, gf GlobalFlags, args []string) int {
	if len(args) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: local-task remove <category> <id>")
		return ExitUsage
	}
	if err := st.Delete(ctx, args[0], args[1]); err != nil {
		return fail("remove", err)
	}
	if !gf.Quiet {
		fmt.Printf("Removed #%s from %s\n", args[1], args[0])
	}
	return ExitOK
}

func cmdShow(ctx context.Context, st *store.Store, gf GlobalFlags, args []string) int {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: local-task show <category>")
		return ExitUsage
	}
	tasks, err := st.ListByCategory(ctx, args[0])
	if err != nil {
		return fail("show", err)
	}
	if gf.JSON {
		printJSON(map[string]any{"tasks": tasks})
		return ExitOK
	}
	fmt.Print(showTable().Render(taskRows(tasks)))
	return ExitOK
}

func cmdSummary(ctx context.Context, st *store.Store, gf GlobalFlags) int {
	rows, err := st.StatusSummary(ctx)
	if err != nil {
		return fail("summary", err)
	}
	if gf.JSON {
		printJSON(map[string]any{"categories": rows})
		return ExitOK
	}
	fmt.Print(summaryTable().Render(summaryRows(rows)))
	return ExitOK
}

func showTable() *table.Table {
	return &table.Table{
		Columns: []table.Column{
			{Header: "ID", Min: 2},
			{Header: "CUSTOM ID", Min: 9},
			{Header: "NAME", Min: 4, Max: 40},
			{Header: "STATUS", Min: 6},
			{Header: "COMMENT", Min: 7, Max: 30},
			{Header: "UPDATED", Min: 16},
		},
		Empty: "(no tasks)",
	}
}

func taskRows(tasks []store.Task) [][]string {
	rows := make([][]string, 0, len(tasks))
	for _, t := range tasks {
		rows = append(rows, []string{
			strconv.FormatInt(t.ID, 10),
			t.CustomID,
			t.Name,
			t.Status,
			t.Comment,
			formatTime(t.UpdatedAt),
		})
	}
	return rows
}

func summaryTable() *table.Table {
	return &table.Table{
		Columns: []table.Column{
			{Header: "CATEGORY", Min: 8},
			{Header: "WIP", Min: 3},
			{Header: "DONE", Min: 4},
		},
		Empty: "nothing found",
	}
}

func summaryRows(rows []store.CategorySummary) [][]string {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, []string{
			r.Category,
			strconv.FormatInt(r.WIP, 10),
			strconv.FormatInt(r.Done, 10),
		})
	}
	return out
}

func printTasks(tasks []store.Task, gf GlobalFlags) {
	if gf.JSON {
		printJSON(map[string]any{"tasks": tasks})
		return
	}
	if len(tasks) == 0 {
		fmt.Println("(no tasks)")
		return
	}
	for i, t := range tasks {
		if i > 0 {
			fmt.Println()
		}
		printTask(t)
	}
}

func printTask(t store.Task) {
	fmt.Printf("%s [%s] #%d\n", t.CustomID, t.Category, t.ID)
	if t.Name != "" {
		fmt.Printf("  Name: %s\n", t.Name)
	}
	if t.Description != "" {
		fmt.Printf("  Description: %s\n", t.Description)
	}
	fmt.Printf("  Status: %s\n", t.Status)
	if t.Comment != "" {
		fmt.Printf("  Comment: %s\n", t.Comment)
	}
	fmt.Printf("  Created: %s\n", formatTime(t.CreatedAt))
	fmt.Printf("  Updated: %s\n", formatTime(t.UpdatedAt))
}

func printJSON(payload any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(payload)
}

func formatTime(sec int64) string {
	return time.Unix(sec, 0).UTC().Format("2006-01-02 15:04")
}
