package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	fyneapp "fyne.io/fyne/v2/app"
	"github.com/shhac/prqueries/internal/app"
	"github.com/shhac/prqueries/internal/kv"
	"github.com/spf13/cobra"
)

const fyneAppID = "com.shhac.prqueries"

// cli carries flag values and the wired application across a command run
type cli struct {
	stdout, stderr io.Writer

	repo    string
	backend string
	storage string
	debug   bool
	jsonOut bool

	app *app.App
}

func newCLI(stdout, stderr io.Writer) *cli {
	return &cli{stdout: stdout, stderr: stderr}
}

func (c *cli) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "prqueries",
		Short: "Manage pull-request query history and saved queries per repository",
		Long: `prqueries keeps, for each local repository, the ten most recently used
pull-request search queries and an ordered list of named saved queries.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return c.teardown()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&c.repo, "repo", "r", "", "Repository path (default: current directory)")
	flags.StringVar(&c.backend, "backend", "", "Storage backend: "+strings.Join(kv.Backends, ", "))
	flags.StringVar(&c.storage, "storage", "", "Storage directory (default: ~/.prqueries)")
	flags.BoolVar(&c.debug, "debug", false, "Enable debug logging")
	flags.BoolVar(&c.jsonOut, "json", false, "Print results as JSON")

	root.AddCommand(c.historyCmd())
	root.AddCommand(c.savedCmd())

	return root
}

// setup loads configuration, applies flag overrides and wires the app
func (c *cli) setup(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()

	// --storage also decides which config.yaml is read
	var storageDir string
	if flags.Changed("storage") {
		storageDir = c.storage
	}
	cfg, err := app.LoadConfig(storageDir)
	if err != nil {
		return err
	}

	if flags.Changed("backend") {
		cfg.Backend = c.backend
	}
	if flags.Changed("debug") {
		cfg.Debug = c.debug
	}
	c.debug = cfg.Debug

	if c.repo == "" {
		if c.repo, err = os.Getwd(); err != nil {
			return fmt.Errorf("determine current directory: %w", err)
		}
	}
	if c.repo, err = filepath.Abs(c.repo); err != nil {
		return fmt.Errorf("resolve repository path: %w", err)
	}

	var opts []app.Option
	if strings.EqualFold(cfg.Backend, kv.BackendPreferences) {
		opts = append(opts, app.WithFyneApp(fyneapp.NewWithID(fyneAppID)))
	}

	c.app, err = app.New(cmd.Context(), cfg, opts...)
	return err
}

func (c *cli) teardown() error {
	if c.app == nil {
		return nil
	}
	err := c.app.Close()
	c.app = nil
	return err
}
