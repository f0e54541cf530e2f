package webapp

import (
	"fmt"
	"html/template"
	"regexp"
	"sync"
)

var slotPattern = regexp.MustCompile(`<div data-region="([a-z0-9-]+)"></div>`)

// slot is the placeholder a page template leaves for a sub-region
func slot(name string) template.HTML {
	return template.HTML(`<div data-region="` + name + `"></div>`)
}

// View owns the mount point: the markup of the current page plus the
// contents of its sub-regions. Every navigation starts a new generation;
// writes carrying an older generation are dropped.
type View struct {
	mu         sync.Mutex
	generation uint64
	page       template.HTML
	regions    map[string]template.HTML
	loading    map[string]bool
	active     string
}

func NewView() *View {
	return &View{
		regions: make(map[string]template.HTML),
		loading: make(map[string]bool),
	}
}

// Begin starts a new generation and returns it
func (v *View) Begin() uint64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.generation++
	return v.generation
}

func (v *View) Generation() uint64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.generation
}

// Replace swaps the whole mount point. Regions are reset.
func (v *View) Replace(generation uint64, page template.HTML) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if generation != v.generation {
		return false
	}
	v.page = page
	v.regions = make(map[string]template.HTML)
	v.loading = make(map[string]bool)
	return true
}

// ReplaceRegion swaps the content of one sub-region, leaving the page intact
func (v *View) ReplaceRegion(generation uint64, name string, content template.HTML) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if generation != v.generation {
		return false
	}
	v.regions[name] = content
	return true
}

// SetLoading toggles the loading indicator of one sub-region
func (v *View) SetLoading(generation uint64, name string, loading bool) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if generation != v.generation {
		return false
	}
	v.loading[name] = loading
	return true
}

// Activate moves the active-menu highlight to href
func (v *View) Activate(href string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.active = href
}

func (v *View) Active() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.active
}

// Page returns the page markup without region contents
func (v *View) Page() template.HTML {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.page
}

func (v *View) Region(name string) template.HTML {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.regions[name]
}

func (v *View) Loading(name string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.loading[name]
}

// Markup returns the mount point with every region filled in
func (v *View) Markup() template.HTML {
	v.mu.Lock()
	defer v.mu.Unlock()

	return template.HTML(slotPattern.ReplaceAllStringFunc(string(v.page), func(placeholder string) string {
		name := slotPattern.FindStringSubmatch(placeholder)[1]
		class := "region"
		if v.loading[name] {
			class += " loading"
		}
		return fmt.Sprintf(`<div id="%s" class="%s">%s</div>`, name, class, v.regions[name])
	}))
}
