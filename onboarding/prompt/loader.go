package prompt

import (
	_ "embed"
	"strings"
)

var (
	//go:embed template/instructions.txt
	instructionsRaw string

	//go:embed template/preview_hint.txt
	previewHintRaw string
)

// PromptSet holds the text the server hands to clients.
type PromptSet struct {
	Instructions string
	PreviewHint  string
}

// LoadPromptSet returns a PromptSet with trimmed strings.
func LoadPromptSet() PromptSet {
	return PromptSet{
		Instructions: strings.TrimSpace(instructionsRaw),
		PreviewHint:  strings.TrimSpace(previewHintRaw),
	}
}
