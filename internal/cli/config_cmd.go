package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/alexanderramin/fyplan/internal/cli/formatter"
	"github.com/alexanderramin/fyplan/internal/config"
	"github.com/alexanderramin/fyplan/internal/domain"
	"github.com/spf13/cobra"
)

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or initialise the configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return printConfig(cmd, app.Config)
		},
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Print the effective configuration as TOML",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return printConfig(cmd, app.Config)
			},
		},
		&cobra.Command{
			Use:   "path",
			Short: "Print the config file path",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				fmt.Fprintln(cmd.OutOrStdout(), app.ConfigPath)
				return nil
			},
		},
		newConfigInitCmd(app),
	)

	return cmd
}

func printConfig(cmd *cobra.Command, cfg config.Config) error {
	return toml.NewEncoder(cmd.OutOrStdout()).Encode(cfg)
}

func newConfigInitCmd(app *App) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if config.Exists(app.ConfigPath) && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", app.ConfigPath)
			}
			cfg := config.DefaultConfig()
			if err := config.Save(app.ConfigPath, cfg); err != nil {
				return err
			}
			app.Config = cfg
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", app.ConfigPath)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config file")

	return cmd
}

func newOnboardCmd(app *App) *cobra.Command {
	var s domain.Session

	cmd := &cobra.Command{
		Use:   "onboard",
		Short: "Record your name and hospital",
		Long:  "Record the hospital you plan for. The dashboard and plan creation use it as the session context.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("hospital") {
				if !app.interactive() {
					return fmt.Errorf("--hospital is required")
				}
				cur := app.Config.Session
				s = domain.Session{Name: cur.Name, Email: cur.Email, Hospital: cur.Hospital, District: cur.District, Province: cur.Province}
				if err := wizardOnboard(app, &s).Run(); err != nil {
					return err
				}
			}

			hospital := strings.TrimSpace(s.Hospital)
			t, ok := app.Resolver.FacilityType(hospital)
			if !ok || t != domain.FacilityHospital {
				return fmt.Errorf("hospital %q: %w", hospital, domain.ErrNotFound)
			}

			cfg := app.Config
			now := app.now().UTC().Truncate(time.Second)
			cfg.Session = config.SessionConfig{
				Name:        strings.TrimSpace(s.Name),
				Email:       strings.TrimSpace(s.Email),
				Hospital:    hospital,
				District:    strings.TrimSpace(s.District),
				Province:    strings.TrimSpace(s.Province),
				Completed:   true,
				CompletedAt: &now,
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			if err := config.Save(app.ConfigPath, cfg); err != nil {
				return err
			}
			app.Config = cfg

			res := app.Resolver.Resolve(hospital)
			fmt.Fprintf(cmd.OutOrStdout(), "%s Planning for %s (%s; %d health centers)\n",
				formatter.StyleGreen.Render("✔"), formatter.Bold(hospital),
				strings.Join(res.Programs, ", "), len(res.SubFacilities))
			return nil
		},
	}

	cmd.Flags().StringVar(&s.Name, "name", "", "Your name")
	cmd.Flags().StringVar(&s.Email, "email", "", "Your email")
	cmd.Flags().StringVar(&s.Hospital, "hospital", "", "Hospital you plan for")
	cmd.Flags().StringVar(&s.District, "district", "", "District of the hospital")
	cmd.Flags().StringVar(&s.Province, "province", "", "Province of the hospital")

	return cmd
}
