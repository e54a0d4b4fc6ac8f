// Package ai provides the inference API client for gitquill.
package ai

import (
	"bytes"
	"text/template"

	"github.com/gitquill/gitquill/internal/pkg/git"
)

// ModifiedFilePrompt is the instruction used for files with a textual patch.
const ModifiedFilePrompt = `Please write a brief commit message for the following diff:
{{.Text}}`

// NewFilePrompt is the instruction used for newly added files, where the
// diff is the file's entire content.
const NewFilePrompt = `Please write a brief commit message for the following new file ({{.Path}}):
{{.Text}}`

// PromptTemplate selects and renders the instruction prompt for a diff.
type PromptTemplate struct {
	modified *template.Template
	newFile  *template.Template
}

// NewPromptTemplate creates a PromptTemplate with the fixed default prompts.
func NewPromptTemplate() (*PromptTemplate, error) {
	modified, err := template.New("modified").Parse(ModifiedFilePrompt)
	if err != nil {
		return nil, err
	}
	newFile, err := template.New("newfile").Parse(NewFilePrompt)
	if err != nil {
		return nil, err
	}
	return &PromptTemplate{modified: modified, newFile: newFile}, nil
}

// Render produces the user-role instruction for the given diff. The diff
// text is embedded verbatim; the template is chosen by the change kind so
// newly added files get "new file" phrasing.
func (pt *PromptTemplate) Render(diff *git.Diff) (string, error) {
	tmpl := pt.modified
	if diff.State == git.StateAdded {
		tmpl = pt.newFile
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, diff); err != nil {
		return "", err
	}
	return buf.String(), nil
}
