package views

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func signIn(t *testing.T, v *LoginView, deps *Deps) {
	t.Helper()
	_, cmd := v.Update(keyPress("ctrl+s"))
	drain(t, deps, cmd)
}

func fillCredentials(v *LoginView) {
	v.email.SetValue("a@b.com")
	v.password.SetValue("secret123")
}

func TestLoginRemembersByDefault(t *testing.T) {
	deps, b := newDeps(t)
	v := NewLoginView(deps)
	fillCredentials(v)

	signIn(t, v, deps)

	assert.Equal(t, []bool{true}, b.Remembered())
	assert.Equal(t, "t1", deps.Store.Token())
}

func TestLoginRememberToggle(t *testing.T) {
	deps, b := newDeps(t)
	v := NewLoginView(deps)
	fillCredentials(v)

	v.Update(keyPress("tab"))
	v.Update(keyPress("tab"))
	assert.Equal(t, loginRemember, v.focusIdx)
	v.Update(keyPress(" "))
	assert.False(t, v.remember)

	signIn(t, v, deps)
	assert.Equal(t, []bool{false}, b.Remembered())

	v.Reset()
	assert.True(t, v.remember)
}
