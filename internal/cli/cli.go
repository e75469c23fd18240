package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/amirbrooks/doit/internal/board"
	"github.com/amirbrooks/doit/internal/config"
	"github.com/amirbrooks/doit/internal/logging"
	"github.com/amirbrooks/doit/internal/store"
)

// Exit codes
const (
	ExitOK       = 0
	ExitUsage    = 2
	ExitNotFound = 3
	ExitInternal = 10
)

type GlobalFlags struct {
	Root     string
	JSON     bool
	Plain    bool
	Quiet    bool
	Verbose  bool
	LogLevel string
}

// exitError carries the exit code a command failed with. A nil err means the
// command already reported the problem.
type exitError struct {
	code int
	cmd  string
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return e.cmd
	}
	return e.cmd + ": " + e.err.Error()
}

func (e *exitError) Unwrap() error { return e.err }

func usageErr(cmd string, err error) error {
	return &exitError{code: ExitUsage, cmd: cmd, err: err}
}

func notFound(cmd string, what string) error {
	return &exitError{code: ExitNotFound, cmd: cmd, err: errors.New(what)}
}

func internalErr(cmd string, err error) error {
	return &exitError{code: ExitInternal, cmd: cmd, err: err}
}

type app struct {
	gf     GlobalFlags
	stdout io.Writer
	stderr io.Writer

	cfg   config.Config
	log   *logrus.Logger
	st    *store.Dir
	board *board.Board
}

// Run executes the CLI and returns the process exit code.
func Run(args []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return run(ctx, args, os.Stdout, os.Stderr)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	a := &app{stdout: stdout, stderr: stderr}
	root := a.rootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	err := root.ExecuteContext(ctx)
	a.close()
	if err == nil {
		return ExitOK
	}
	var ee *exitError
	if errors.As(err, &ee) {
		if ee.err != nil {
			fmt.Fprintln(stderr, ee.Error())
		}
		return ee.code
	}
	fmt.Fprintln(stderr, "doit:", err)
	fmt.Fprintln(stderr, "Run 'doit --help' for usage.")
	return ExitUsage
}

func defaultRoot() string {
	if env := os.Getenv("DOIT_ROOT"); env != "" {
		return env
	}
	home, _ := os.UserHomeDir()
	if home != "" {
		return filepath.Join(home, ".doit")
	}
	return ".doit"
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "doit",
		Short: "doit - a local task board with colored filters",
		Long: `doit keeps a list of tasks grouped by day, each stamped with a colored filter.

Tasks and filters live in a small key-value store under --root (default ~/.doit or DOIT_ROOT).`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return &exitError{code: ExitUsage}
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.gf.Root, "root", defaultRoot(), "Store root")
	pf.BoolVar(&a.gf.JSON, "json", false, "JSON output")
	pf.BoolVar(&a.gf.Plain, "plain", false, "TSV output")
	pf.BoolVar(&a.gf.Quiet, "quiet", false, "Suppress informational output")
	pf.BoolVarP(&a.gf.Verbose, "verbose", "v", false, "Debug logging")
	pf.StringVar(&a.gf.LogLevel, "log-level", "", "Log level (overrides config)")

	root.AddCommand(a.addCmd())
	root.AddCommand(a.listCmd())
	root.AddCommand(a.doneCmd())
	root.AddCommand(a.editCmd())
	root.AddCommand(a.removeCmd())
	root.AddCommand(a.filterCmd())
	root.AddCommand(a.exportCmd())
	root.AddCommand(a.configCmd())
	root.AddCommand(a.boardCmd())
	return root
}

func (a *app) setup() error {
	if a.gf.JSON && a.gf.Plain {
		return usageErr("doit", errors.New("--json and --plain are mutually exclusive"))
	}
	a.gf.Root = store.ExpandHome(strings.TrimSpace(a.gf.Root))
	if a.gf.Root == "" {
		return usageErr("doit", errors.New("--root requires a value"))
	}
	cfg, err := config.Load(a.gf.Root)
	if err != nil {
		return internalErr("config", err)
	}
	a.cfg = cfg

	level := cfg.LogLevel
	if a.gf.LogLevel != "" {
		level = a.gf.LogLevel
	}
	if a.gf.Verbose {
		level = "debug"
	}
	a.log = logging.New(level, cfg.LogFormat, a.stderr)
	a.log.WithField("root", a.gf.Root).Debug("config loaded")
	return nil
}

// loadBoard opens the store and loads the board on first use.
func (a *app) loadBoard(cmd string) (*board.Board, error) {
	if a.board != nil {
		return a.board, nil
	}
	st, err := store.Open(a.gf.Root)
	if err != nil {
		return nil, internalErr(cmd, err)
	}
	a.st = st
	a.board = board.Load(st, board.Options{
		TimeLayout: a.cfg.TimeLayout(),
		Logger:     a.log,
	})
	return a.board, nil
}

func (a *app) close() {
	if a.st != nil {
		_ = a.st.Close()
	}
}

// saved turns a failed write during the command into an internal error.
func (a *app) saved(cmd string) error {
	if a.board == nil {
		return nil
	}
	if err := a.board.SaveErr(); err != nil {
		return internalErr(cmd, err)
	}
	return nil
}

func (a *app) printJSON(payload any) error {
	enc := json.NewEncoder(a.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}

func (a *app) info(format string, args ...any) {
	if a.gf.Quiet {
		return
	}
	fmt.Fprintf(a.stdout, format, args...)
}

func parseID(cmd, s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, usageErr(cmd, fmt.Errorf("invalid task id %q", s))
	}
	return id, nil
}
