package ai

// DocumentTypes defines the valid document type labels a classifier may
// assign. Responses carrying any other label fail schema validation.
var DocumentTypes = []string{
	"ResearchReport",
	"CompletionDoc",
	"HandoffDoc",
	"TechSpec",
	"Tutorial",
	"Other",
}

// IsValidDocumentType reports whether label is one of the known document types.
func IsValidDocumentType(label string) bool {
	for _, t := range DocumentTypes {
		if t == label {
			return true
		}
	}
	return false
}

// FileMeta carries filename metadata passed alongside document text so the
// classifier can use extension and naming hints.
type FileMeta struct {
	// Path is the full source path of the file.
	Path string

	// Name is the base filename, including extension.
	Name string

	// Extension is the lowercase file extension, including the dot.
	Extension string
}

// ExtractedEntity is a named thing the classifier found mentioned in a
// document.
type ExtractedEntity struct {
	// Name is the entity name as it should appear in the graph.
	Name string

	// Type categorizes the entity (e.g. "technology", "person", "project").
	Type string
}

// Classification is the structured result of the classify capability.
type Classification struct {
	// Title is a human-readable title for the document.
	Title string

	// DocumentType is one of DocumentTypes.
	DocumentType string

	// Summary is a short prose summary; it is what gets embedded for
	// semantic search.
	Summary string

	// Entities are the named things the document mentions.
	Entities []ExtractedEntity
}

// ValidationResult is the structured result of the validate capability.
type ValidationResult struct {
	// IsValid is false when the classification contains fabricated or
	// contradicted entities.
	IsValid bool

	// Reasoning explains the verdict for operator logs.
	Reasoning string
}
