package cmd

import (
	"context"
	"fmt"
	"sync"

	"github.com/target/crewboard/internal/adapters/localstore"
	"github.com/target/crewboard/internal/client/api"
	"github.com/target/crewboard/internal/client/dom"
	"github.com/target/crewboard/internal/client/page"
	"github.com/target/crewboard/internal/client/prefstore"
	"github.com/target/crewboard/internal/ports"
)

// browser is one loaded board page with its preference store. A reload
// fetches the page again; the reloaded document is kept for display.
type browser struct {
	app    *app
	client *api.Client
	store  *prefstore.Store
	page   *page.Page

	mu       sync.Mutex
	reloaded *dom.Document
	reloads  int
}

func (a *app) newClient() (*api.Client, error) {
	return api.NewClient(api.Config{
		BaseURL:      a.cfg.BaseURL,
		User:         a.cfg.User,
		Groups:       a.cfg.Groups,
		UserHeader:   a.auth.UserHeader,
		GroupsHeader: a.auth.GroupsHeader,
		Timeout:      a.cfg.Timeout,
		Logger:       a.logger,
	})
}

// openBrowser loads the page from the server and boots it against the local
// preference file. When the server is unreachable and offlineOK is set, an
// empty page is booted so that local preferences still work.
func (a *app) openBrowser(ctx context.Context, offlineOK bool) (*browser, error) {
	client, err := a.newClient()
	if err != nil {
		return nil, err
	}
	storage, err := localstore.OpenFile(a.cfg.StateFile)
	if err != nil {
		return nil, err
	}

	b := &browser{app: a, client: client}
	store, err := prefstore.New(prefstore.Options{
		Storage:     storage,
		Syncer:      client,
		Reloader:    ports.ReloaderFunc(b.reload),
		SyncTimeout: a.cfg.SyncTimeout,
		Logger:      a.logger,
	})
	if err != nil {
		return nil, err
	}
	b.store = store

	doc, err := client.FetchPage(ctx)
	if err != nil {
		if !offlineOK {
			return nil, fmt.Errorf("load board: %w", err)
		}
		a.logger.Warn("server unreachable, using local preferences only", "url", a.cfg.BaseURL, "error", err)
		doc = dom.New()
	}

	p, err := page.Boot(ctx, page.Options{
		Document:  doc,
		Store:     store,
		Events:    client,
		Reloader:  ports.ReloaderFunc(b.reload),
		Alerter:   alerter{a},
		Navigator: navigator{a},
		Logger:    a.logger,
	})
	if err != nil {
		return nil, err
	}
	b.page = p
	return b, nil
}

func (b *browser) reload(ctx context.Context) {
	doc, err := b.client.FetchPage(ctx)
	if err != nil {
		b.app.logger.Warn("reload failed", "error", err)
		return
	}
	b.mu.Lock()
	b.reloaded = doc
	b.reloads++
	b.mu.Unlock()
	b.app.logger.Debug("page reloaded")
}

// current returns the most recent document: the reloaded one if any.
func (b *browser) current() *dom.Document {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.reloaded != nil {
		return b.reloaded
	}
	return b.page.Document()
}

type alerter struct{ a *app }

func (al alerter) Alert(message string) {
	fmt.Fprintln(al.a.stderr, errorStyle.Render("! ")+message)
}

type navigator struct{ a *app }

func (n navigator) Navigate(_ context.Context, path string) {
	fmt.Fprintln(n.a.stdout, mutedStyle.Render("→ "+path))
}
