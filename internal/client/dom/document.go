// Package dom is a small headless document model: elements with attributes,
// class lists, inline styles, form state and event listeners. It stands in for
// the browser page the preference client drives, and can be built from served
// HTML.
package dom

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"golang.org/x/net/html"
)

// Listener handles a dispatched event.
type Listener func(*Event)

// Event is dispatched to an element's listeners.
type Event struct {
	Type   string
	Target *Element

	defaultPrevented bool
}

// PreventDefault cancels the event's default action (e.g. a form submission).
func (e *Event) PreventDefault() { e.defaultPrevented = true }

// DefaultPrevented reports whether a listener cancelled the default action.
func (e *Event) DefaultPrevented() bool { return e.defaultPrevented }

// Document holds elements in document order.
type Document struct {
	mu       sync.Mutex
	elements []*Element
	body     *Element
}

// New returns an empty document with an html root and a body.
func New() *Document {
	d := &Document{}
	root := d.newElement("html", nil, nil)
	d.body = d.newElement("body", nil, root)
	return d
}

// Parse builds a document from HTML. Text, comments and doctype nodes are
// dropped except for text directly inside elements, which is kept as the
// element's text content.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	d := &Document{}
	var walk func(n *html.Node, parent *Element)
	walk = func(n *html.Node, parent *Element) {
		current := parent
		switch n.Type {
		case html.ElementNode:
			attrs := make(map[string]string, len(n.Attr))
			for _, a := range n.Attr {
				attrs[a.Key] = a.Val
			}
			current = d.newElement(n.Data, attrs, parent)
			if n.Data == "body" {
				d.body = current
			}
		case html.TextNode:
			if parent != nil {
				parent.text += n.Data
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c, current)
		}
	}
	walk(root, nil)
	if d.body == nil {
		d.body = d.newElement("body", nil, nil)
	}
	return d, nil
}

func (d *Document) newElement(tag string, attrs map[string]string, parent *Element) *Element {
	if attrs == nil {
		attrs = map[string]string{}
	}
	el := &Element{
		doc:       d,
		parent:    parent,
		tag:       strings.ToLower(tag),
		attrs:     attrs,
		style:     map[string]string{},
		listeners: map[string][]Listener{},
	}
	if cls, ok := attrs["class"]; ok {
		el.classes = strings.Fields(cls)
	}
	if style, ok := attrs["style"]; ok {
		el.style = parseStyle(style)
	}
	_, el.checked = attrs["checked"]
	el.value = attrs["value"]
	d.elements = append(d.elements, el)
	return el
}

// Body returns the document body.
func (d *Document) Body() *Element { return d.body }

// AppendElement creates an element as the last child of the body. attrs are
// name/value pairs; a trailing odd name is ignored.
func (d *Document) AppendElement(tag string, attrs ...string) *Element {
	return d.body.AppendChild(tag, attrs...)
}

// GetElementByID returns the first element with the id, or nil.
func (d *Document) GetElementByID(id string) *Element {
	if id == "" {
		return nil
	}
	return d.QuerySelector("#" + id)
}

// QuerySelector returns the first element matching the selector, or nil.
func (d *Document) QuerySelector(selector string) *Element {
	all := d.QuerySelectorAll(selector)
	if len(all) == 0 {
		return nil
	}
	return all[0]
}

// QuerySelectorAll returns every element matching the selector in document
// order. Supported selectors are compound: an optional tag name followed by
// any number of #id and .class parts, e.g. "div.admin-field" or "#view-checkbox".
func (d *Document) QuerySelectorAll(selector string) []*Element {
	sel, ok := parseSelector(selector)
	if !ok {
		return nil
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []*Element
	for _, el := range d.elements {
		if sel.matches(el) {
			out = append(out, el)
		}
	}
	return out
}

func (d *Document) snapshot() []*Element {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]*Element(nil), d.elements...)
}

// SetDisplay sets the inline display style on every element matching the
// selector and returns the number of elements matched.
func (d *Document) SetDisplay(selector, display string) int {
	matched := d.QuerySelectorAll(selector)
	for _, el := range matched {
		el.SetStyle("display", display)
	}
	return len(matched)
}

// MetaContent returns the content attribute of <meta name="..."> or "".
func (d *Document) MetaContent(name string) string {
	for _, el := range d.QuerySelectorAll("meta") {
		if n, _ := el.Attr("name"); n == name {
			v, _ := el.Attr("content")
			return v
		}
	}
	return ""
}

// Element is a node of the document.
type Element struct {
	doc    *Document
	parent *Element

	tag       string
	attrs     map[string]string
	classes   []string
	style     map[string]string
	checked   bool
	value     string
	text      string
	listeners map[string][]Listener
}

// AppendChild creates a child element. attrs are name/value pairs.
func (e *Element) AppendChild(tag string, attrs ...string) *Element {
	m := make(map[string]string, len(attrs)/2)
	for i := 0; i+1 < len(attrs); i += 2 {
		m[attrs[i]] = attrs[i+1]
	}
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	return e.doc.newElement(tag, m, e)
}

// Tag returns the lower-case tag name.
func (e *Element) Tag() string { return e.tag }

// ID returns the id attribute.
func (e *Element) ID() string {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	return e.attrs["id"]
}

// Attr returns an attribute value.
func (e *Element) Attr(name string) (string, bool) {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	v, ok := e.attrs[name]
	return v, ok
}

// SetAttr sets an attribute value.
func (e *Element) SetAttr(name, value string) {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	e.attrs[name] = value
}

// Text returns the text directly inside the element.
func (e *Element) Text() string {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	return strings.TrimSpace(e.text)
}

// Classes returns a copy of the class list.
func (e *Element) Classes() []string {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	out := make([]string, len(e.classes))
	copy(out, e.classes)
	return out
}

// HasClass reports whether the class is present.
func (e *Element) HasClass(name string) bool {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	return e.hasClassLocked(name)
}

func (e *Element) hasClassLocked(name string) bool {
	for _, c := range e.classes {
		if c == name {
			return true
		}
	}
	return false
}

// AddClass adds the class if missing.
func (e *Element) AddClass(name string) { e.ToggleClass(name, true) }

// RemoveClass removes the class if present.
func (e *Element) RemoveClass(name string) { e.ToggleClass(name, false) }

// ToggleClass forces the class on or off, like classList.toggle(name, force).
func (e *Element) ToggleClass(name string, on bool) {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	has := e.hasClassLocked(name)
	switch {
	case on && !has:
		e.classes = append(e.classes, name)
	case !on && has:
		kept := e.classes[:0]
		for _, c := range e.classes {
			if c != name {
				kept = append(kept, c)
			}
		}
		e.classes = kept
	}
}

// Style returns an inline style property.
func (e *Element) Style(property string) string {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	return e.style[property]
}

// SetStyle sets an inline style property.
func (e *Element) SetStyle(property, value string) {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	e.style[property] = value
}

// Checked returns the checkbox state.
func (e *Element) Checked() bool {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	return e.checked
}

// SetChecked sets the checkbox state without dispatching an event.
func (e *Element) SetChecked(v bool) {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	e.checked = v
}

// Value returns the form value.
func (e *Element) Value() string {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	return e.value
}

// SetValue sets the form value without dispatching an event.
func (e *Element) SetValue(v string) {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	e.value = v
}

// AddEventListener registers a listener for the event type.
func (e *Element) AddEventListener(eventType string, fn Listener) {
	if fn == nil {
		return
	}
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	e.listeners[eventType] = append(e.listeners[eventType], fn)
}

// Dispatch runs the listeners for eventType and reports whether the default
// action should proceed.
func (e *Element) Dispatch(eventType string) bool {
	e.doc.mu.Lock()
	listeners := append([]Listener(nil), e.listeners[eventType]...)
	e.doc.mu.Unlock()

	ev := &Event{Type: eventType, Target: e}
	for _, fn := range listeners {
		fn(ev)
	}
	return !ev.DefaultPrevented()
}

// Toggle flips a checkbox as a user click would and dispatches "change".
func (e *Element) Toggle() {
	e.doc.mu.Lock()
	e.checked = !e.checked
	e.doc.mu.Unlock()
	e.Dispatch("change")
}

// Choose sets the value as a user selection would and dispatches "change".
func (e *Element) Choose(value string) {
	e.SetValue(value)
	e.Dispatch("change")
}

// Click dispatches "click" and reports whether the default action proceeds.
func (e *Element) Click() bool { return e.Dispatch("click") }

// Submit dispatches "submit" and reports whether the submission proceeds.
func (e *Element) Submit() bool { return e.Dispatch("submit") }

// QuerySelector returns the first descendant matching the selector, or nil.
func (e *Element) QuerySelector(selector string) *Element {
	for _, el := range e.doc.QuerySelectorAll(selector) {
		if el.descendantOf(e) {
			return el
		}
	}
	return nil
}

// FieldValue returns the value of the descendant form control with the name.
func (e *Element) FieldValue(name string) (string, bool) {
	for _, el := range e.doc.snapshot() {
		if !el.descendantOf(e) {
			continue
		}
		if n, _ := el.Attr("name"); n == name {
			return el.Value(), true
		}
	}
	return "", false
}

func (e *Element) descendantOf(ancestor *Element) bool {
	for p := e.parent; p != nil; p = p.parent {
		if p == ancestor {
			return true
		}
	}
	return false
}

func parseStyle(s string) map[string]string {
	out := map[string]string{}
	for _, decl := range strings.Split(s, ";") {
		prop, val, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		prop = strings.TrimSpace(strings.ToLower(prop))
		if prop == "" {
			continue
		}
		out[prop] = strings.TrimSpace(val)
	}
	return out
}
