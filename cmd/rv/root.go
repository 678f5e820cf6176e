package main

import (
	"fmt"
	"io"
	"net/http"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/Dicklesworthstone/review_viewer/pkg/api"
	"github.com/Dicklesworthstone/review_viewer/pkg/config"
	"github.com/Dicklesworthstone/review_viewer/pkg/logging"
	"github.com/Dicklesworthstone/review_viewer/pkg/review"
	"github.com/Dicklesworthstone/review_viewer/pkg/ui"
	"github.com/Dicklesworthstone/review_viewer/pkg/version"
	"github.com/Dicklesworthstone/review_viewer/pkg/watcher"
)

// app is the state shared by every command once configuration is loaded
type app struct {
	v       *viper.Viper
	cfgFile string

	cfg    config.Config
	logger *zap.Logger
	client *api.Client
	token  string
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:           "rv",
		Short:         "Browse and manage show reviews",
		Long:          `rv is a terminal browser for a remote show review service. It lists public or private reviews and lets you add, update and delete them.`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if !isTerminal(cmd.OutOrStdout()) {
				return a.printList(cmd.Context(), cmd.OutOrStdout(), a.cfg.Private, "table")
			}
			return a.runTUI(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "config file (default is $XDG_CONFIG_HOME/rv/config.yaml)")
	pf.String("base-url", "", "review API base URL")
	pf.String("token", "", "access token sent as a bearer token")
	pf.String("token-file", "", "file holding the access token; reloaded when it changes")
	pf.Bool("private", false, "show private reviews")
	pf.Int("page-size", 10, "rows per page (5, 10, 25 or 100)")
	pf.Int("delete-concurrency", review.DefaultDeleteConcurrency, "maximum deletes in flight")
	pf.Duration("timeout", api.DefaultTimeout, "per-request timeout")
	pf.Int("retries", api.DefaultMaxRetries, "retries for idempotent requests")
	pf.String("journal", "", "mutation journal database path")
	pf.String("log-file", "", "log file path")
	pf.Bool("debug", false, "enable debug logging")

	for key, flag := range map[string]string{
		config.KeyBaseURL:           "base-url",
		config.KeyToken:             "token",
		config.KeyTokenFile:         "token-file",
		config.KeyPrivate:           "private",
		config.KeyPageSize:          "page-size",
		config.KeyDeleteConcurrency: "delete-concurrency",
		config.KeyTimeout:           "timeout",
		config.KeyRetries:           "retries",
		config.KeyJournalPath:       "journal",
		config.KeyLogPath:           "log-file",
		config.KeyDebug:             "debug",
	} {
		cobra.CheckErr(a.v.BindPFlag(key, pf.Lookup(flag)))
	}

	root.AddCommand(
		newListCmd(a),
		newAddCmd(a),
		newUpdateCmd(a),
		newDeleteCmd(a),
		newExportCmd(a),
		newHistoryCmd(a),
		newVersionCmd(),
	)
	return root
}

// setup loads configuration and builds the logger and API client
func (a *app) setup() error {
	cfg, err := config.Load(a.v, a.cfgFile)
	if err != nil {
		return err
	}
	a.cfg = cfg

	logger, err := logging.New(cfg.LogPath, cfg.Debug)
	if err != nil {
		return err
	}
	a.logger = logger

	token, err := cfg.ResolveToken()
	if err != nil {
		return err
	}
	a.token = token

	client, err := api.NewClient(cfg.BaseURL,
		api.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
		api.WithLogger(logger),
		api.WithRetries(cfg.Retries, 0),
	)
	if err != nil {
		return err
	}
	a.client = client

	logger.Debug("configuration loaded",
		zap.String("base_url", client.BaseURL()),
		zap.Bool("private", cfg.Private),
		zap.Bool("token", token != ""),
	)
	return nil
}

func (a *app) openJournal() *review.Journal {
	if a.cfg.JournalPath == "" {
		return nil
	}
	return review.TryOpenJournal(a.cfg.JournalPath, a.client.BaseURL(), a.logger)
}

func (a *app) runTUI(cmd *cobra.Command) error {
	journal := a.openJournal()
	defer journal.Close()

	m := ui.NewTableModel(a.client, ui.TableOptions{
		Private:           a.cfg.Private,
		Token:             a.token,
		PageSize:          a.cfg.PageSize,
		DeleteConcurrency: a.cfg.DeleteConcurrency,
		Timeout:           a.cfg.Timeout,
		Journal:           journal,
		Logger:            a.logger,
		OnPrivacyChange: func(private bool) {
			a.logger.Info("privacy mode changed", zap.Bool("private", private))
		},
	}, ui.DefaultTheme(lipgloss.DefaultRenderer()))

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context()))

	if a.cfg.TokenFile != "" {
		onChange := func(token string) {
			p.Send(ui.TokenChangedMsg{Token: token})
		}
		go func() {
			if err := watcher.Watch(cmd.Context(), a.cfg.TokenFile, onChange, a.logger); err != nil {
				a.logger.Warn("token watcher stopped", zap.Error(err))
			}
		}()
	}

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running review table: %w", err)
	}

	if s := journal.Session(); s.Created+s.Updated+s.Deleted+s.Failed > 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "Session: %d created, %d updated, %d deleted, %d failed\n",
			s.Created, s.Updated, s.Deleted, s.Failed)
	}
	return nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
