// Package session holds the client's view of the login session: a small
// state machine that starts in Loading, settles in Login or Authenticated
// after the first session check, and moves between the two on login and
// sign-out.
package session

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/plms/internal/client/models"
	"github.com/dmitrijs2005/plms/internal/logging"
)

type State int

const (
	StateLoading State = iota
	StateLogin
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateLogin:
		return "login"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "invalid"
	}
}

// API is the part of the server API the controller needs.
type API interface {
	Me(ctx context.Context) (*models.User, error)
	Login(ctx context.Context, name, password string) (*models.User, error)
	Logout(ctx context.Context) error
}

// Controller is safe for concurrent use. The change callback runs after
// every transition, outside the lock.
type Controller struct {
	api API
	log logging.Logger

	mu       sync.Mutex
	state    State
	user     *models.User
	onChange func(State, *models.User)
}

func NewController(api API, log logging.Logger) *Controller {
	return &Controller{api: api, log: log.With("module", "session"), state: StateLoading}
}

// OnChange registers fn to observe transitions.
func (c *Controller) OnChange(fn func(State, *models.User)) {
	c.mu.Lock()
	c.onChange = fn
	c.mu.Unlock()
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// User returns the signed-in user, or nil outside StateAuthenticated.
func (c *Controller) User() *models.User {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.user
}

// Init performs the single initial session check. Any failure, including
// an unreachable server, lands in StateLogin.
func (c *Controller) Init(ctx context.Context) State {
	c.set(StateLoading, nil)

	u, err := c.api.Me(ctx)
	if err != nil {
		c.log.Debug(ctx, "no active session", "error", err)
		c.set(StateLogin, nil)
		return StateLogin
	}

	c.set(StateAuthenticated, u)
	return StateAuthenticated
}

// Login submits credentials. On success the returned user is adopted
// without another session check. On failure the state is unchanged and the
// error is returned for the caller to report generically.
func (c *Controller) Login(ctx context.Context, name, password string) error {
	u, err := c.api.Login(ctx, name, password)
	if err != nil {
		return err
	}
	c.set(StateAuthenticated, u)
	return nil
}

// SignOut calls logout and always returns to StateLogin, whatever the call
// returned. The logout error is reported for logging only.
func (c *Controller) SignOut(ctx context.Context) error {
	err := c.api.Logout(ctx)
	if err != nil {
		c.log.Warn(ctx, "logout call failed", "error", err)
	}
	c.set(StateLogin, nil)
	return err
}

func (c *Controller) set(s State, u *models.User) {
	c.mu.Lock()
	c.state, c.user = s, u
	fn := c.onChange
	c.mu.Unlock()

	if fn != nil {
		fn(s, u)
	}
}
