package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/alexanderramin/fyplan/internal/catalog"
	"github.com/alexanderramin/fyplan/internal/cli/formatter"
	"github.com/alexanderramin/fyplan/internal/domain"
	"github.com/spf13/cobra"
)

func newCatalogCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect and validate activity catalogs",
	}

	cmd.AddCommand(
		newCatalogListCmd(app),
		newCatalogShowCmd(app),
		newCatalogValidateCmd(),
	)

	return cmd
}

func newCatalogListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List loaded program catalogs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatCatalogList(app.Catalog.Programs()))
			return nil
		},
	}
}

func newCatalogShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show PROGRAM",
		Short: "Show the activity templates of a program",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, ok := app.Catalog.Program(args[0])
			if !ok {
				return fmt.Errorf("program %q: %w", args[0], domain.ErrNotFound)
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatCatalog(p))
			return nil
		},
	}
}

func newCatalogValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate DIR",
		Short: "Validate program catalog files without loading them",
		Long:  "Validate every programs/*.json file under DIR and report all problems found.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fsys := os.DirFS(args[0])
			paths, err := filepath.Glob(filepath.Join(args[0], "programs", "*.json"))
			if err != nil {
				return err
			}
			if len(paths) == 0 {
				return fmt.Errorf("no program catalogs found in %s", filepath.Join(args[0], "programs"))
			}

			out := cmd.OutOrStdout()
			var failed []error
			for _, p := range paths {
				name := filepath.ToSlash(filepath.Join("programs", filepath.Base(p)))
				schema, err := catalog.LoadSchema(fsys, name)
				if err != nil {
					failed = append(failed, err)
					fmt.Fprintln(out, formatter.Error(err))
					continue
				}
				errs := catalog.ValidateSchema(schema)
				if len(errs) == 0 {
					fmt.Fprintf(out, "%s %s\n", formatter.StyleGreen.Render("✔"), filepath.Base(p))
					continue
				}
				for _, e := range errs {
					e = fmt.Errorf("%s: %w", filepath.Base(p), e)
					failed = append(failed, e)
					fmt.Fprintln(out, formatter.Error(e))
				}
			}
			if len(failed) > 0 {
				return fmt.Errorf("%d problem(s) found: %w", len(failed), errors.Join(failed...))
			}
			return nil
		},
	}
}
