// Package page wires a loaded board page: theme classes, role-view
// checkboxes, region visibility and the small standalone affordances.
package page

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/target/crewboard/internal/client/dom"
	"github.com/target/crewboard/internal/client/prefstore"
	"github.com/target/crewboard/internal/domain/prefs"
	"github.com/target/crewboard/internal/domain/visibility"
	"github.com/target/crewboard/internal/ports"
)

// Element ids and selectors the page scripts bind to.
const (
	ThemeCheckboxID   = "theme-checkbox"
	EmployeeViewBoxID = "view-checkbox"
	ManagerViewBoxID  = "manager-view-checkbox"
	navbarSelector    = ".navbar-inverse"
)

// EventStatusSetter changes the status of a scheduled show.
type EventStatusSetter interface {
	SetEventStatus(ctx context.Context, eventID int64, status string) error
}

// Options configures Boot. Only Document and Store are required; a missing
// collaborator disables the affordance that needs it.
type Options struct {
	Document *dom.Document
	Store    *prefstore.Store

	Events    EventStatusSetter
	Reloader  ports.Reloader
	Alerter   ports.Alerter
	Confirmer ports.Confirmer
	Navigator ports.Navigator
	Logger    *slog.Logger
}

// Page is a booted document.
type Page struct {
	doc    *dom.Document
	store  *prefstore.Store
	logger *slog.Logger

	mu        sync.Mutex
	directive visibility.Directive
	applied   []visibility.Region
}

// Boot loads the stored preferences, applies the theme and the initial
// visibility directive, and attaches the page listeners.
func Boot(ctx context.Context, opts Options) (*Page, error) {
	if opts.Document == nil {
		return nil, errors.New("page boot requires a document")
	}
	if opts.Store == nil {
		return nil, errors.New("page boot requires a preference store")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	p := &Page{doc: opts.Document, store: opts.Store, logger: logger.With("component", "page")}

	pref := p.store.Load()
	p.attachTheme(pref)
	p.syncCheckboxes(pref)
	p.apply(pref)

	p.store.OnChange(func(next prefs.ViewPreference) {
		p.syncCheckboxes(next)
		p.apply(next)
	})

	p.bindThemeCheckbox(ctx)
	p.bindViewCheckbox(ctx, EmployeeViewBoxID, prefs.ViewRoleEmployee)
	p.bindViewCheckbox(ctx, ManagerViewBoxID, prefs.ViewRoleManager)

	bindAffordances(ctx, p.doc, opts, p.logger)
	return p, nil
}

// Directive returns the directive last applied to the document.
func (p *Page) Directive() visibility.Directive {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.directive
}

// AppliedRegions returns the regions that had elements on the page.
func (p *Page) AppliedRegions() []visibility.Region {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]visibility.Region(nil), p.applied...)
}

// Document returns the page document.
func (p *Page) Document() *dom.Document { return p.doc }

func (p *Page) apply(pref prefs.ViewPreference) {
	d := visibility.Compute(pref)
	applied := visibility.Apply(p.doc, d)

	p.mu.Lock()
	p.directive = d
	p.applied = applied
	p.mu.Unlock()
}

func (p *Page) attachTheme(pref prefs.ViewPreference) {
	var targets []prefstore.ThemeTarget
	if body := p.doc.Body(); body != nil {
		targets = append(targets, body)
	}
	if nav := p.doc.QuerySelector(navbarSelector); nav != nil {
		targets = append(targets, nav)
	}
	p.store.AttachThemeTargets(targets...)

	if box := p.doc.GetElementByID(ThemeCheckboxID); box != nil {
		box.SetChecked(pref.Theme == prefs.ThemeDark)
	}
}

func (p *Page) syncCheckboxes(pref prefs.ViewPreference) {
	if box := p.doc.GetElementByID(EmployeeViewBoxID); box != nil {
		box.SetChecked(pref.ViewAsEmployee)
	}
	if box := p.doc.GetElementByID(ManagerViewBoxID); box != nil {
		box.SetChecked(pref.ViewAsManager)
	}
}

func (p *Page) bindThemeCheckbox(ctx context.Context) {
	box := p.doc.GetElementByID(ThemeCheckboxID)
	if box == nil {
		return
	}
	box.AddEventListener("change", func(ev *dom.Event) {
		theme := prefs.ThemeLight
		if ev.Target.Checked() {
			theme = prefs.ThemeDark
		}
		if err := p.store.SetTheme(ctx, theme); err != nil {
			p.logger.Warn("set theme", "theme", theme, "error", err)
		}
	})
}

func (p *Page) bindViewCheckbox(ctx context.Context, id string, role prefs.ViewRole) {
	box := p.doc.GetElementByID(id)
	if box == nil {
		return
	}
	box.AddEventListener("change", func(ev *dom.Event) {
		if _, err := p.store.SetViewMode(ctx, role, ev.Target.Checked()); err != nil {
			p.logger.Warn("set view mode", "role", role, "error", err)
		}
	})
}
