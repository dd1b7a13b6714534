package login

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/tvnguyen/homeland/internal/theme"
)

// Mode switches the view between the sign-in and sign-up forms.
type Mode int

const (
	ModeSignIn Mode = iota
	ModeSignUp
)

// SubmittedMsg is sent when the sign-in form completes.
type SubmittedMsg struct {
	Email    string
	Password string
}

// RegisterSubmittedMsg is sent when the sign-up form completes.
type RegisterSubmittedMsg struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// FailedMsg carries an auth error back into the view for display.
type FailedMsg struct {
	Err error
}

// formValues holds the field bindings. The form keeps pointers into it,
// and Bubble Tea copies the model on every update, so the values live
// behind a shared pointer instead of on the model itself.
type formValues struct {
	email     string
	password  string
	firstName string
	lastName  string
}

// Model is the Bubble Tea model for the login/register screen.
type Model struct {
	mode   Mode
	form   *huh.Form
	vals   *formValues
	errMsg string
	width  int
	height int
}

// New creates the login view in sign-in mode.
func New(width, height int) Model {
	m := Model{
		mode:   ModeSignIn,
		vals:   &formValues{},
		width:  width,
		height: height,
	}
	m.form = m.buildForm()
	return m
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.form = m.buildForm()
}

// Init starts the active form.
func (m Model) Init() tea.Cmd {
	return m.form.Init()
}

// buildForm constructs the huh form for the current mode.
func (m *Model) buildForm() *huh.Form {
	fields := []huh.Field{
		huh.NewInput().
			Title("Email").
			Placeholder("you@example.com").
			Value(&m.vals.email).
			Validate(validateRequired("Email")),
		huh.NewInput().
			Title("Password").
			EchoMode(huh.EchoModePassword).
			Value(&m.vals.password).
			Validate(validateRequired("Password")),
	}

	if m.mode == ModeSignUp {
		fields = append(fields,
			huh.NewInput().
				Title("First name").
				Value(&m.vals.firstName).
				Validate(validateRequired("First name")),
			huh.NewInput().
				Title("Last name").
				Value(&m.vals.lastName).
				Validate(validateRequired("Last name")),
		)
	}

	width := m.width - 8
	if width < 30 {
		width = 30
	}
	return huh.NewForm(huh.NewGroup(fields...)).WithWidth(width)
}

// Update handles messages for the login view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case FailedMsg:
		m.errMsg = msg.Err.Error()
		m.form = m.buildForm()
		return m, m.form.Init()

	case tea.KeyMsg:
		// Tab between sign-in and sign-up before the form completes.
		if msg.String() == "ctrl+t" {
			if m.mode == ModeSignIn {
				m.mode = ModeSignUp
			} else {
				m.mode = ModeSignIn
			}
			m.errMsg = ""
			m.form = m.buildForm()
			return m, m.form.Init()
		}
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		submitted := m.submitMsg()
		// Rebuild so a failed attempt can be retried.
		m.form = m.buildForm()
		return m, func() tea.Msg { return submitted }
	}

	return m, cmd
}

// submitMsg packages the completed form values for the app to act on.
func (m Model) submitMsg() tea.Msg {
	if m.mode == ModeSignUp {
		return RegisterSubmittedMsg{
			Email:     m.vals.email,
			Password:  m.vals.password,
			FirstName: m.vals.firstName,
			LastName:  m.vals.lastName,
		}
	}
	return SubmittedMsg{Email: m.vals.email, Password: m.vals.password}
}

// View renders the login screen.
func (m Model) View() string {
	title := "Sign in to Homeland"
	if m.mode == ModeSignUp {
		title = "Create a Homeland account"
	}

	var b strings.Builder
	b.WriteString(theme.HeaderStyle.Render(title))
	b.WriteString("\n\n")
	b.WriteString(m.form.View())
	if m.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(theme.ErrStyle.Render(m.errMsg))
	}
	b.WriteString("\n")
	b.WriteString(theme.HelpStyle.Render("ctrl+t switch sign-in/sign-up · ctrl+c quit"))

	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}

// validateRequired returns a validator rejecting blank input.
func validateRequired(field string) func(string) error {
	return func(v string) error {
		if strings.TrimSpace(v) == "" {
			return &requiredError{field: field}
		}
		return nil
	}
}

type requiredError struct {
	field string
}

func (e *requiredError) Error() string {
	return e.field + " is required"
}
