package tui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"menucli/internal/session"
)

const fieldCount = 2

type loginForm struct {
	email    textinput.Model
	password textinput.Model
	focus    int
	errText  string
	busy     bool
}

func newLoginForm() loginForm {
	email := textinput.New()
	email.Placeholder = "e-mail"
	email.CharLimit = 120
	email.Focus()

	password := textinput.New()
	password.Placeholder = "senha"
	password.CharLimit = 120
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	return loginForm{email: email, password: password}
}

func (f *loginForm) update(msg tea.Msg) tea.Cmd {
	var cmds [fieldCount]tea.Cmd
	f.email, cmds[0] = f.email.Update(msg)
	f.password, cmds[1] = f.password.Update(msg)
	return tea.Batch(cmds[0], cmds[1])
}

func (f *loginForm) cycleFocus() {
	f.focus = (f.focus + 1) % fieldCount
	if f.focus == 0 {
		f.email.Focus()
		f.password.Blur()
	} else {
		f.password.Focus()
		f.email.Blur()
	}
}

func (f *loginForm) values() (email, password string) {
	return strings.TrimSpace(f.email.Value()), f.password.Value()
}

// applyError marks the form after a failed submit. Rejected credentials get
// the fixed field-level message; everything else shows the server's text.
func (f *loginForm) applyError(err error) {
	f.busy = false
	var loginErr *session.LoginError
	if errors.As(err, &loginErr) && loginErr.InvalidCredentials {
		f.errText = "E-mail ou senha inválidos."
		f.password.SetValue("")
		return
	}
	f.errText = err.Error()
}

func (f *loginForm) reset() {
	f.email.SetValue("")
	f.password.SetValue("")
	f.errText = ""
	f.busy = false
	f.focus = 0
	f.email.Focus()
	f.password.Blur()
}
