package domain

// LanguageID is the judge's numeric identifier of a compiler or interpreter
type LanguageID int

// Language pairs a logical language name with the judge identifier
type Language struct {
	Name string     `json:"name"`
	ID   LanguageID `json:"id"`
}
