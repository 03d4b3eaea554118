package language

import (
	"gitlab.com/fcv-2025.net/grader/internal/domain"
)

// IRegistry resolves logical language names to judge language ids
type IRegistry interface {
	// Resolve fails with errs.ErrUnsupportedLanguage for unknown names; it never falls back
	Resolve(name string) (domain.LanguageID, error)

	// Languages lists every resolvable language, sorted by name
	Languages() []domain.Language
}
