package highlight

import (
	"sort"
	"strings"
	"sync"
)

// Registry indexes languages by name and file extension.
type Registry struct {
	mu sync.RWMutex

	// byName maps lower-case language names to languages
	byName map[string]*Language

	// byExtension maps file extensions to languages
	byExtension map[string]*Language
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byName:      make(map[string]*Language),
		byExtension: make(map[string]*Language),
	}
}

// Register adds a language, replacing any language of the same name or
// extension.
func (r *Registry) Register(l *Language) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byName[strings.ToLower(l.Name())] = l
	for _, ext := range l.extensions {
		r.byExtension[ext] = l
	}
}

// Alias registers name as another name for an already registered language.
func (r *Registry) Alias(name, target string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	l, ok := r.byName[strings.ToLower(target)]
	if ok {
		r.byName[strings.ToLower(name)] = l
	}
	return ok
}

// ByName returns the language registered under name, ignoring case.
func (r *Registry) ByName(name string) (*Language, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	l, ok := r.byName[strings.ToLower(name)]
	return l, ok
}

// ByExtension returns the language for a file extension, with or without
// the leading dot.
func (r *Registry) ByExtension(ext string) (*Language, bool) {
	if ext == "" {
		return nil, false
	}
	if ext[0] != '.' {
		ext = "." + ext
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	l, ok := r.byExtension[strings.ToLower(ext)]
	return l, ok
}

// Names returns the registered language names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultRegistry returns a registry with the built-in languages. enry
// language names such as "C++" and "Go" are registered as aliases.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(CLanguage())
	r.Register(GoLanguage())
	r.Register(PythonLanguage())
	r.Register(PlainLanguage())

	r.Alias("c++", "c")
	r.Alias("cpp", "c")
	r.Alias("objective-c", "c")
	r.Alias("plain text", "text")
	return r
}
