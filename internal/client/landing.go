package client

import (
	"context"
	"sync"

	"github.com/lysokunvoath/grex/internal/gateway"
	"github.com/lysokunvoath/grex/internal/navigation"
)

// LandingPage signs users in or up.
type LandingPage struct {
	app *App

	mu     sync.Mutex
	notice Notice
}

func newLandingPage(app *App) *LandingPage {
	return &LandingPage{app: app}
}

func (p *LandingPage) Screen() navigation.Screen { return navigation.Landing }

func (p *LandingPage) Notice() Notice {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.notice
}

func (p *LandingPage) set(n Notice) Notice {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.notice = n
	return n
}

func (p *LandingPage) SignIn(ctx context.Context, email, password string) Notice {
	p.set(Notice{})
	if _, err := p.app.gw.SignIn(ctx, email, password); err != nil {
		return p.set(failure(gateway.Message(err)))
	}
	if err := p.app.Refresh(ctx); err != nil {
		logFailure("load after sign-in", err)
	}
	return p.set(success("Logged in successfully!"))
}

// SignUp creates the account. Mismatched passwords never reach the gateway.
func (p *LandingPage) SignUp(ctx context.Context, displayName, email, password, confirm string) Notice {
	p.set(Notice{})
	if password != confirm {
		return p.set(failure("Passwords do not match."))
	}
	if _, err := p.app.gw.SignUp(ctx, displayName, email, password); err != nil {
		return p.set(failure(gateway.Message(err)))
	}
	if err := p.app.Refresh(ctx); err != nil {
		logFailure("load after sign-up", err)
	}
	return p.set(success("Account created!"))
}
