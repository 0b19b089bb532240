package renderer

import (
	"bytes"
	"encoding/json"

	md "github.com/nao1215/markdown"
)

// RemoteConfigMarkdown renders the backend configuration as a JSON block.
// Keys are sorted.
func RemoteConfigMarkdown(cfg map[string]any) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H2("Configuração do Servidor")
	if len(cfg) == 0 {
		doc.PlainText("Nenhuma configuração disponível.")
		return doc.String() + "\n"
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		doc.PlainText("Configuração ilegível: " + escape(err.Error()))
		return doc.String() + "\n"
	}
	doc.CodeBlocks(md.SyntaxHighlightJSON, string(data))
	return doc.String() + "\n"
}
