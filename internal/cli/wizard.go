package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/fyplan/internal/cli/formatter"
	"github.com/alexanderramin/fyplan/internal/domain"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// fyplanHuhTheme returns a huh theme using the Gruvbox palette.
func fyplanHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	// Focused state: orange accent
	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.ErrorMessage = lipgloss.NewStyle().Foreground(formatter.ColorRed)

	// Blurred state: dimmed
	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// facilityOptions lists the session hospital followed by the health centers
// it supervises.
func facilityOptions(app *App) []huh.Option[string] {
	s := app.session()
	if !s.HasFacility() {
		var opts []huh.Option[string]
		for _, h := range app.Resolver.Hospitals() {
			opts = append(opts, huh.NewOption(h, h))
		}
		return opts
	}
	opts := []huh.Option[string]{huh.NewOption(s.Hospital+" (hospital)", s.Hospital)}
	for _, hc := range app.Resolver.Resolve(s.Hospital).SubFacilities {
		opts = append(opts, huh.NewOption(hc, hc))
	}
	return opts
}

// wizardSelectFacility creates a form to pick the facility a plan is for.
func wizardSelectFacility(app *App, result *string) *huh.Form {
	opts := facilityOptions(app)
	if len(opts) == 0 {
		return nil
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Which facility?").
				Options(opts...).
				Value(result),
		),
	).WithTheme(fyplanHuhTheme()).WithShowHelp(false)
}

// wizardSelectProgram creates a form to pick one of the programs run at a
// facility.
func wizardSelectProgram(programs []string, result *string) *huh.Form {
	if len(programs) == 0 {
		return nil
	}
	opts := make([]huh.Option[string], len(programs))
	for i, p := range programs {
		opts[i] = huh.NewOption(p, p)
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Which program?").
				Options(opts...).
				Value(result),
		),
	).WithTheme(fyplanHuhTheme()).WithShowHelp(false)
}

// wizardOnboard collects the session fields.
func wizardOnboard(app *App, s *domain.Session) *huh.Form {
	opts := make([]huh.Option[string], 0)
	for _, h := range app.Resolver.Hospitals() {
		opts = append(opts, huh.NewOption(h, h))
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Your name").Value(&s.Name),
			huh.NewInput().Title("Email").Value(&s.Email).Validate(validateOptionalEmail),
			huh.NewSelect[string]().Title("Hospital").Options(opts...).Value(&s.Hospital),
			huh.NewInput().Title("District").Value(&s.District),
			huh.NewInput().Title("Province").Value(&s.Province),
		),
	).WithTheme(fyplanHuhTheme()).WithShowHelp(false)
}

func validateOptionalEmail(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if at := strings.Index(s, "@"); at <= 0 || at == len(s)-1 {
		return fmt.Errorf("enter a valid email address")
	}
	return nil
}

// wizardConfirm creates a huh form for a yes/no confirmation.
func wizardConfirm(title string, result *bool) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative("Yes").
				Negative("No").
				Value(result),
		),
	).WithTheme(fyplanHuhTheme()).WithShowHelp(false)
}
