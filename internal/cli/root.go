// Package cli wires the taskdesk commands. Without a subcommand the
// interactive terminal UI starts.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/tgienger/taskdesk/internal/api"
	"github.com/tgienger/taskdesk/internal/config"
	"github.com/tgienger/taskdesk/internal/db"
	"github.com/tgienger/taskdesk/internal/listctl"
	"github.com/tgienger/taskdesk/internal/session"
	"github.com/tgienger/taskdesk/internal/store"
	"github.com/tgienger/taskdesk/internal/suggest"
	"github.com/tgienger/taskdesk/internal/ui"
	"github.com/tgienger/taskdesk/internal/ui/styles"
	"github.com/tgienger/taskdesk/internal/ui/views"
)

// BuildInfo is set via ldflags in main
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

var errNotLoggedIn = errors.New("not logged in, run 'taskdesk login' first")

// NewRootCmd builds the command tree
func NewRootCmd(info BuildInfo) *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:   "taskdesk",
		Short: "taskdesk - a terminal client for your task board",
		Long: `taskdesk manages tasks on a remote task service.

Run without arguments to open the interactive UI, or use the subcommands
for scripting.`,
		RunE:          func(cmd *cobra.Command, args []string) error { return runTUI(cmd, info) },
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				log.SetOutput(cmd.ErrOrStderr())
			} else {
				log.SetOutput(io.Discard)
			}
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log requests to stderr")

	root.AddCommand(loginCmd(info))
	root.AddCommand(logoutCmd(info))
	root.AddCommand(tasksCmd(info))
	root.AddCommand(exportCmd(info))
	root.AddCommand(summaryCmd(info))
	root.AddCommand(invitesCmd(info))
	root.AddCommand(configCmd())
	root.AddCommand(versionCmd(info))

	root.Version = info.Version
	return root
}

// Execute runs the root command
func Execute(info BuildInfo) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := NewRootCmd(info).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

// env is everything a command needs to talk to the backend
type env struct {
	ctx    context.Context
	cfg    *config.Config
	db     *db.DB
	client *api.Client
	tokens *session.Store
	store  *store.Store
}

func openEnv(ctx context.Context, info BuildInfo) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if !styles.SetTheme(cfg.Theme) {
		log.Printf("[cli] unknown theme %q, using default", cfg.Theme)
	}

	database, err := db.New(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	client := api.New(cfg.APIURL, api.WithUserAgent("taskdesk/"+info.Version))
	tokens := session.NewStore(database, cfg.DataDir)
	st := store.New(ctx, client, tokens)
	st.Auth.Hydrate(time.Now())

	return &env{ctx: ctx, cfg: cfg, db: database, client: client, tokens: tokens, store: st}, nil
}

func (e *env) Close() {
	if err := e.db.Close(); err != nil {
		log.Printf("[cli] closing database: %v", err)
	}
}

// run executes an operation synchronously and applies its result
func (e *env) run(cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	e.store.Update(cmd())
}

func (e *env) token() (string, error) {
	token := e.store.Token()
	if token == "" || !e.tokens.LoggedIn() {
		return "", errNotLoggedIn
	}
	return token, nil
}

func runTUI(cmd *cobra.Command, info BuildInfo) error {
	e, err := openEnv(cmd.Context(), info)
	if err != nil {
		return err
	}
	defer e.Close()

	if err := os.MkdirAll(filepath.Dir(e.cfg.LogFile), 0755); err != nil {
		return err
	}
	f, err := tea.LogToFile(e.cfg.LogFile, "taskdesk")
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer f.Close()

	exportDir, err := os.Getwd()
	if err != nil {
		exportDir = e.cfg.DataDir
	}

	pipeline := suggest.New(e.ctx, e.store.Suggestion, e.client, e.cfg.SuggestDebounce)
	pipeline.SetLocation(time.Local)

	deps := &views.Deps{
		Ctx:       e.ctx,
		Store:     e.store,
		List:      listctl.New(e.store.Tasks, e.cfg.PageSize, e.cfg.SearchDebounce),
		Suggest:   pipeline,
		Exporter:  e.client,
		ExportDir: exportDir,
		Location:  time.Local,
	}

	log.Printf("[cli] starting taskdesk %s against %s", info.Version, e.client.BaseURL())
	p := tea.NewProgram(ui.NewApp(deps, e.db), tea.WithAltScreen(), tea.WithContext(e.ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running application: %w", err)
	}
	return nil
}

func versionCmd(info BuildInfo) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "taskdesk %s (commit: %s, built: %s)\n", info.Version, info.Commit, info.Date)
		},
	}
}
