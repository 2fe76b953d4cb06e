package core

// DocType enumerates the document categories the pipeline publishes.
type DocType int

const (
	DocTypeUnknown DocType = iota
	DocTypeHomily
	DocTypeAngelus
	DocTypeSpeech
	DocTypeAudience
	DocTypeLetter
)

// docTypeInfo maps each category to its URL path segment and its
// Spanish display and plural forms. Display logic reads this table
// instead of appending suffixes ad hoc.
var docTypeInfo = map[DocType]struct {
	pathSegment string
	display     string
	plural      string
}{
	DocTypeHomily:   {"homilies", "Homilía", "Homilías"},
	DocTypeAngelus:  {"angelus", "Ángelus", "Ángelus"},
	DocTypeSpeech:   {"speeches", "Discurso", "Discursos"},
	DocTypeAudience: {"audiences", "Audiencia", "Audiencias"},
	DocTypeLetter:   {"letters", "Carta", "Cartas"},
}

// DocTypeFromPath resolves a URL path segment ("homilies", "angelus", ...)
// to its category. Unrecognized segments map to DocTypeUnknown.
func DocTypeFromPath(segment string) DocType {
	for t, info := range docTypeInfo {
		if info.pathSegment == segment {
			return t
		}
	}
	return DocTypeUnknown
}

// Display returns the singular Spanish display name.
func (t DocType) Display() string {
	if info, ok := docTypeInfo[t]; ok {
		return info.display
	}
	return "Documento"
}

// Plural returns the plural Spanish display name.
func (t DocType) Plural() string {
	if info, ok := docTypeInfo[t]; ok {
		return info.plural
	}
	return "Documentos"
}

// PathSegment returns the vatican.va URL segment for the category.
func (t DocType) PathSegment() string {
	if info, ok := docTypeInfo[t]; ok {
		return info.pathSegment
	}
	return ""
}
