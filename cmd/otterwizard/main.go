package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"

	"otterWizard/internal/config"
	"otterWizard/internal/importer"
	"otterWizard/internal/logger"
	"otterWizard/internal/notify"
	"otterWizard/internal/prefs"
	"otterWizard/internal/sound"
	"otterWizard/internal/tui"
	"otterWizard/internal/users"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

const defaultConfigPath = "configs/config.toml"

// app holds what every subcommand needs once the config is loaded.
type app struct {
	configPath string
	cfg        *config.Config
	// opener replaces the system file opener in tests
	opener importer.Opener
	player sound.Player
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd(&app{}).ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "otterwizard",
		Short: "Copy a station CSV into a glossary workbook template",
		Long: `Otter Wizard copies a glossary template, fills its Input sheet with the
rows of a station import CSV, saves the result and opens it.

Run without a subcommand to start the interactive form.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.load,
		RunE:              a.runUI,
	}

	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", defaultConfigPath, "Path to the TOML config file")

	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "ui",
			Short: "Start the interactive import form",
			Args:  cobra.NoArgs,
			RunE:  a.runUI,
		},
		newImportCmd(a),
		newUsersCmd(a),
		newSoundCmd(a),
		newPrefsCmd(a),
		&cobra.Command{
			Use:   "version",
			Short: "Print the version",
			Args:  cobra.NoArgs,
			// needs neither config nor log file
			PersistentPreRun: func(cmd *cobra.Command, args []string) {},
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "Otter Wizard version %s\n", config.Version)
			},
		},
	)

	return rootCmd
}

// load reads .env, resolves the config path and starts logging. Lines
// logged while loading the config are held until the log file is open.
func (a *app) load(cmd *cobra.Command, args []string) error {
	logger.Hold()

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}

	if !cmd.Flags().Changed("config") {
		if path := os.Getenv("OTTER_CONFIG"); path != "" {
			a.configPath = path
		}
	}

	cfg, err := config.LoadConfig(a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg

	if err := logger.Init(cfg.Paths.Log); err != nil {
		return err
	}
	return nil
}

func (a *app) store() prefs.Store {
	return prefs.Store{Path: a.cfg.Paths.Preferences}
}

// directory loads the preferences into a user directory. A corrupt file is
// an error here; the form shows it as a notice instead.
func (a *app) directory() (*users.Directory, error) {
	p, err := prefs.Load(a.cfg.Paths.Preferences)
	if err != nil {
		if errors.Is(err, prefs.ErrCorrupt) {
			return nil, fmt.Errorf("%w (run 'otterwizard prefs reset' to restore defaults)", err)
		}
		return nil, err
	}
	return users.New(p, a.store()), nil
}

func (a *app) pipeline(openOutput bool) *importer.Pipeline {
	return importer.New(importer.Options{
		Sheet:      a.cfg.Import.Sheet,
		StartRow:   a.cfg.Import.StartRow,
		StartCol:   a.cfg.Import.StartCol,
		ClearSheet: a.cfg.Import.ClearSheet,
		OpenOutput: openOutput,
	}, a.opener)
}

func (a *app) notifier() *notify.Notifier {
	player := a.player
	if player == nil {
		player = sound.NewSpeakerPlayer(a.cfg.UI.SoundPollInterval())
	}
	return notify.New(player, a.cfg.UI.SuccessTimeout())
}

func (a *app) runUI(cmd *cobra.Command, args []string) error {
	var startup *notify.Notice

	p, err := prefs.Load(a.cfg.Paths.Preferences)
	if err != nil {
		if !errors.Is(err, prefs.ErrCorrupt) {
			return err
		}
		notice := corruptPrefsNotice(err)
		startup = &notice
	}

	logger.Info("Starting Otter Wizard", "version", config.Version)

	return tui.RunForm(tui.Deps{
		Directory:     users.New(p, a.store()),
		Runner:        a.pipeline(a.cfg.Import.OpenOutput),
		Notifier:      a.notifier(),
		Version:       config.Version,
		StartupNotice: startup,
	})
}

func corruptPrefsNotice(err error) notify.Notice {
	return notify.Notice{
		Kind:    notify.KindError,
		Title:   "Preferences Error",
		Message: fmt.Sprintf("%v\nDefaults are in use. Run 'otterwizard prefs reset' to overwrite the file.", err),
	}
}
