package dom

import "strings"

// selector is a parsed compound selector: tag#id.class1.class2
type selector struct {
	tag     string
	id      string
	classes []string
}

func parseSelector(s string) (selector, bool) {
	s = strings.TrimSpace(s)
	if s == "" || strings.ContainsAny(s, " >+~[],:*") {
		return selector{}, false
	}
	var sel selector
	kind := byte(0)
	start := 0
	flush := func(end int) bool {
		part := s[start:end]
		switch kind {
		case 0:
			sel.tag = strings.ToLower(part)
			return true
		case '#':
			if part == "" || sel.id != "" {
				return false
			}
			sel.id = part
		case '.':
			if part == "" {
				return false
			}
			sel.classes = append(sel.classes, part)
		}
		return true
	}
	for i := 0; i < len(s); i++ {
		if s[i] == '#' || s[i] == '.' {
			if !flush(i) {
				return selector{}, false
			}
			kind = s[i]
			start = i + 1
		}
	}
	if !flush(len(s)) {
		return selector{}, false
	}
	return sel, true
}

// matches must be called with the document lock held.
func (s selector) matches(el *Element) bool {
	if s.tag != "" && el.tag != s.tag {
		return false
	}
	if s.id != "" && el.attrs["id"] != s.id {
		return false
	}
	for _, c := range s.classes {
		if !el.hasClassLocked(c) {
			return false
		}
	}
	return true
}
