package renderer

import (
	"bytes"

	"github.com/etnz/pulse"
	md "github.com/nao1215/markdown"
)

// PositionsMarkdown renders the legacy positions view.
func PositionsMarkdown(ps []pulse.AssetPosition, opts Options) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H2("Posições")
	if len(ps) == 0 {
		doc.PlainText("Nenhuma posição encontrada.")
		return doc.String() + "\n"
	}
	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignLeft,
		},
		Header: []string{"Ativo", "Quantidade", "Preço Médio", "Preço Atual", "Valor Atual", "DATA ATT"},
	}
	for _, p := range ps {
		date := p.DataAtt
		if date == "" {
			date = pulse.Missing
		}
		table.Rows = append(table.Rows, []string{
			escape(p.Ativo),
			p.Quantidade.Format(opts.Style),
			p.PrecoMedio.Format(opts.Style),
			p.PrecoAtual.Format(opts.Style),
			p.ValorAtual.Format(opts.Style),
			escape(date),
		})
	}
	doc.Table(table)
	return doc.String()
}
