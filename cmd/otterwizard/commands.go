package main

import (
	"errors"
	"fmt"
	"strings"

	"otterWizard/internal/importer"
	"otterWizard/internal/prefs"

	"github.com/spf13/cobra"
)

func newImportCmd(a *app) *cobra.Command {
	var (
		csvPath      string
		templatePath string
		outputPath   string
		user         string
		noOpen       bool
	)

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Run one import without the form",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := a.directory()
			if err != nil {
				return err
			}
			if user == "" {
				user = dir.Default()
			}

			job := importer.NewJob(csvPath, templatePath, outputPath, user)
			notifier := a.notifier()
			out := cmd.OutOrStdout()

			err = a.pipeline(a.cfg.Import.OpenOutput && !noOpen).Run(cmd.Context(), job, func(percent int) {
				fmt.Fprintf(out, "Progress: %d%%\n", percent)
			})
			if err != nil {
				return errors.New(notifier.Failure(job, err).Message)
			}

			p := dir.Preferences()
			notice, playSound := notifier.Success(job, p)
			fmt.Fprintln(out, notice.Message)

			if playSound {
				if failed := notifier.PlaySound(cmd.Context(), p.CompleteSoundPath); failed != nil {
					fmt.Fprintln(cmd.ErrOrStderr(), failed.Message)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&csvPath, "csv", "", "Station import file (.csv)")
	cmd.Flags().StringVar(&templatePath, "template", "", "Glossary template (.xlsx)")
	cmd.Flags().StringVar(&outputPath, "output", "", "Output workbook path")
	cmd.Flags().StringVar(&user, "user", "", "User recorded in the log (default: the default user)")
	cmd.Flags().BoolVar(&noOpen, "no-open", false, "Do not open the output workbook")

	return cmd
}

func newUsersCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage the user list",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List users; the default is marked",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				dir, err := a.directory()
				if err != nil {
					return err
				}
				for _, name := range dir.Users() {
					if name == dir.Default() {
						name += " (default)"
					}
					fmt.Fprintln(cmd.OutOrStdout(), name)
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "add <name>",
			Short: "Add a user",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				dir, err := a.directory()
				if err != nil {
					return err
				}
				name := strings.TrimSpace(args[0])
				added, err := dir.Add(name)
				if err != nil {
					return err
				}
				if !added {
					fmt.Fprintf(cmd.OutOrStdout(), "User '%s' not added\n", name)
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "User '%s' added\n", name)
				return nil
			},
		},
		&cobra.Command{
			Use:   "remove <name>",
			Short: "Remove a user other than the default",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				dir, err := a.directory()
				if err != nil {
					return err
				}
				if err := dir.Remove(args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "User '%s' removed\n", args[0])
				return nil
			},
		},
		&cobra.Command{
			Use:   "default <name>",
			Short: "Make a listed user the default",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				dir, err := a.directory()
				if err != nil {
					return err
				}
				dir.Select(args[0])
				if err := dir.SetDefault(); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Default user set to %s\n", args[0])
				return nil
			},
		},
	)

	return cmd
}

func newSoundCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sound",
		Short: "Configure the completion sound",
	}

	toggle := func(use string, enabled bool) *cobra.Command {
		return &cobra.Command{
			Use:   use,
			Short: fmt.Sprintf("%s the completion sound", strings.ToUpper(use[:1])+use[1:]),
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				dir, err := a.directory()
				if err != nil {
					return err
				}
				if err := dir.SetPlaySound(enabled); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Play complete sound on success: %t\n", enabled)
				return nil
			},
		}
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "set <path>",
			Short: "Set the sound played after a successful import (.mp3 or .wav)",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				dir, err := a.directory()
				if err != nil {
					return err
				}
				if err := dir.SetSound(args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Complete sound set to %s\n", args[0])
				return nil
			},
		},
		toggle("enable", true),
		toggle("disable", false),
	)

	return cmd
}

func newPrefsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "Manage the preferences file",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "reset",
		Short: "Overwrite the preferences file with defaults",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := prefs.Reset(a.cfg.Paths.Preferences); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Preferences reset: %s\n", a.cfg.Paths.Preferences)
			return nil
		},
	})

	return cmd
}
