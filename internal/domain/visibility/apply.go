package visibility

// Display values written for shown and hidden regions.
const (
	DisplayVisible = "block"
	DisplayHidden  = "none"
)

// Document is the part of a page the controller writes to.
type Document interface {
	// SetDisplay sets the inline display style on every element matching the
	// selector and returns how many elements matched.
	SetDisplay(selector, display string) int
}

// Apply writes the directive to the document. Regions with no matching
// elements are optional on a given page and are skipped. Apply returns the
// regions that were present. Applying the same directive twice leaves the
// document as after the first call.
func Apply(doc Document, d Directive) []Region {
	if doc == nil {
		return nil
	}
	applied := make([]Region, 0, len(d))
	for _, r := range d.Regions() {
		display := DisplayHidden
		if d[r] {
			display = DisplayVisible
		}
		if doc.SetDisplay(r.Selector(), display) > 0 {
			applied = append(applied, r)
		}
	}
	return applied
}
