package language

import (
	"fmt"
	"sort"
	"strings"

	"gitlab.com/fcv-2025.net/grader/internal/domain"
	"gitlab.com/fcv-2025.net/grader/internal/static/errs"
)

var _ IRegistry = (*Registry)(nil)

var builtinLanguages = map[string]domain.LanguageID{
	"c":          50,
	"cpp":        54,
	"csharp":     51,
	"go":         60,
	"java":       62,
	"javascript": 63,
	"kotlin":     78,
	"php":        68,
	"python":     71,
	"ruby":       72,
	"rust":       73,
	"swift":      83,
	"typescript": 74,
}

var aliases = map[string]string{
	"c++":     "cpp",
	"cs":      "csharp",
	"golang":  "go",
	"js":      "javascript",
	"node":    "javascript",
	"py":      "python",
	"python3": "python",
	"ts":      "typescript",
}

// Registry is immutable after construction and safe for concurrent use
type Registry struct {
	byName map[string]domain.LanguageID
}

// NewRegistry builds the built-in table with deployment overrides applied on top
func NewRegistry(overrides map[string]int) *Registry {
	byName := make(map[string]domain.LanguageID, len(builtinLanguages)+len(overrides))
	for name, id := range builtinLanguages {
		byName[name] = id
	}
	for name, id := range overrides {
		byName[normalize(name)] = domain.LanguageID(id)
	}
	return &Registry{byName: byName}
}

func normalize(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if canonical, ok := aliases[name]; ok {
		return canonical
	}
	return name
}

func (r *Registry) Resolve(name string) (domain.LanguageID, error) {
	id, ok := r.byName[normalize(name)]
	if !ok {
		return 0, fmt.Errorf("%w: %q", errs.ErrUnsupportedLanguage, name)
	}
	return id, nil
}

// ResolveOrDefault is a convenience for interactive tooling. An unknown name
// resolves to fallback, which the caller must have chosen explicitly; an empty
// or unknown fallback fails like Resolve.
func (r *Registry) ResolveOrDefault(name, fallback string) (domain.Language, error) {
	canonical := normalize(name)
	if id, ok := r.byName[canonical]; ok {
		return domain.Language{Name: canonical, ID: id}, nil
	}
	if fallback == "" {
		return domain.Language{}, fmt.Errorf("%w: %q", errs.ErrUnsupportedLanguage, name)
	}
	canonical = normalize(fallback)
	id, ok := r.byName[canonical]
	if !ok {
		return domain.Language{}, fmt.Errorf("%w: fallback %q", errs.ErrUnsupportedLanguage, fallback)
	}
	return domain.Language{Name: canonical, ID: id}, nil
}

func (r *Registry) Languages() []domain.Language {
	languages := make([]domain.Language, 0, len(r.byName))
	for name, id := range r.byName {
		languages = append(languages, domain.Language{Name: name, ID: id})
	}
	sort.Slice(languages, func(i, j int) bool {
		return languages[i].Name < languages[j].Name
	})
	return languages
}

// ForFilename guesses a logical language name from a source file extension
func ForFilename(filename string) string {
	dot := strings.LastIndex(filename, ".")
	if dot < 0 {
		return ""
	}
	switch strings.ToLower(filename[dot+1:]) {
	case "c":
		return "c"
	case "cc", "cpp", "cxx":
		return "cpp"
	case "cs":
		return "csharp"
	case "go":
		return "go"
	case "java":
		return "java"
	case "js", "mjs":
		return "javascript"
	case "kt":
		return "kotlin"
	case "php":
		return "php"
	case "py":
		return "python"
	case "rb":
		return "ruby"
	case "rs":
		return "rust"
	case "swift":
		return "swift"
	case "ts":
		return "typescript"
	}
	return ""
}
