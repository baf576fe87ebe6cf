package layout

import (
	"encoding/json"
	"os"
)

// DebugDocument bundles a pagination result with the inputs that produced
// it, for offline inspection of page breaks.
type DebugDocument struct {
	Geometry   PageGeometry     `json:"geometry"`
	Formatting FormattingConfig `json:"formatting"`
	Run        []Paragraph      `json:"run"`
	PageSet    PageSet          `json:"pageSet"`
}

// WriteDebugJSON writes the document as indented JSON to path.
func WriteDebugJSON(path string, doc DebugDocument) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
