package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/vanderheijden86/newsboard/pkg/model"
)

// placeholderOption is the empty entry shown first in the user picker.
const placeholderOption = "-- Select User --"

// LoginView lets the user pick who to log in as.
type LoginView struct {
	form     *huh.Form
	selected *string
	roster   model.Roster
	theme    Theme
	width    int
}

// NewLoginView builds the picker over roster.
func NewLoginView(roster model.Roster, theme Theme) LoginView {
	v := LoginView{roster: roster, theme: theme, width: 60}
	v.build()
	return v
}

func (v *LoginView) build() {
	sel := new(string)
	opts := []huh.Option[string]{huh.NewOption(placeholderOption, "")}
	for _, u := range v.roster {
		opts = append(opts, huh.NewOption(u.Name, u.ID.String()))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Log in as").
				Options(opts...).
				Value(sel),
		),
	).WithShowHelp(true).WithTheme(huh.ThemeCharm()).WithWidth(v.width)
	// Embedded in a larger program: completion must not quit it.
	form.SubmitCmd = nil
	form.CancelCmd = nil

	v.form = form
	v.selected = sel
}

// Init returns the picker's startup commands.
func (v LoginView) Init() tea.Cmd { return v.form.Init() }

// SetWidth resizes the picker.
func (v *LoginView) SetWidth(w int) {
	if w <= 0 {
		return
	}
	v.width = w
	v.form = v.form.WithWidth(w)
}

// Options returns the picker entries in display order.
func (v LoginView) Options() []string {
	out := []string{placeholderOption}
	for _, u := range v.roster {
		out = append(out, u.Name)
	}
	return out
}

// Update forwards msg to the picker. Once a choice is made it emits an
// ActionLogin and resets so a failed login can be retried.
func (v LoginView) Update(msg tea.Msg) (LoginView, tea.Cmd) {
	fm, cmd := v.form.Update(msg)
	if f, ok := fm.(*huh.Form); ok {
		v.form = f
	}
	if v.form.State != huh.StateCompleted {
		return v, cmd
	}
	userID := *v.selected
	v.build()
	return v, tea.Batch(cmd, actionCmd(ActionMsg{Action: ActionLogin, UserID: userID}), v.form.Init())
}

// View renders the picker.
func (v LoginView) View() string {
	title := v.theme.Renderer.NewStyle().Foreground(v.theme.Primary).Bold(true).Render("Welcome to newsboard")
	return title + "\n\n" + v.form.View()
}
