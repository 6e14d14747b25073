// Package session holds the signed-in user for the application shell.
package session

import (
	"fmt"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/ngmaloney/travel-terminal/internal/models"
)

// FakeUser is the only account the gate knows about.
var FakeUser = models.User{
	Name:   "Jack",
	Email:  "jack@example.com",
	Avatar: "https://i.pravatar.cc/100?u=zz",
}

// FakePassword is FakeUser's password.
const FakePassword = "qwerty"

type action interface{ isAction() }

type loginAction struct{ user models.User }

type logoutAction struct{}

func (loginAction) isAction()  {}
func (logoutAction) isAction() {}

type state struct {
	user          models.User
	authenticated bool
}

func reduce(s state, a action) state {
	switch a := a.(type) {
	case loginAction:
		return state{user: a.user, authenticated: true}
	case logoutAction:
		return state{}
	default:
		panic(fmt.Sprintf("session: unknown action type %T", a))
	}
}

// Gate decides whether the shell may be entered.
type Gate struct {
	account      models.User
	passwordHash []byte

	mu    sync.RWMutex
	state state
}

// NewGate creates a gate for a single account.
func NewGate(account models.User, password string) (*Gate, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}
	return &Gate{account: account, passwordHash: hash}, nil
}

// NewFakeGate creates a gate for FakeUser.
func NewFakeGate() (*Gate, error) {
	return NewGate(FakeUser, FakePassword)
}

// Login signs the account in when the credentials match.
func (g *Gate) Login(email, password string) bool {
	if email != g.account.Email {
		return false
	}
	if err := bcrypt.CompareHashAndPassword(g.passwordHash, []byte(password)); err != nil {
		return false
	}
	g.dispatch(loginAction{user: g.account})
	return true
}

// Logout signs the current user out.
func (g *Gate) Logout() {
	g.dispatch(logoutAction{})
}

// Current returns the signed-in user and whether anyone is signed in.
func (g *Gate) Current() (models.User, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.state.user, g.state.authenticated
}

func (g *Gate) dispatch(a action) {
	g.mu.Lock()
	g.state = reduce(g.state, a)
	g.mu.Unlock()
}
