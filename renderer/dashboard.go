package renderer

import (
	"bytes"
	"strings"

	"github.com/etnz/pulse"
	md "github.com/nao1215/markdown"
)

// Placeholders and titles of the dashboard.
const (
	LoadingText   = "Carregando dados da carteira..."
	NoSummaryText = "Nenhum resumo de carteira disponível."
	NoAssetsText  = "Nenhum detalhe de ativo disponível."
	NoCategories  = "Nenhuma categoria disponível."
)

// Dashboard renders the client state:
//
//   - Idle or Loading: a single loading line.
//   - Error: the error message only.
//   - Ready: the summary tiles, then one row per asset in the received
//     order, or a placeholder when there are none, then the category
//     breakdown when the backend sent one.
func Dashboard(st pulse.ClientState, opts Options) string {
	switch st.Phase {
	case pulse.Ready:
	case pulse.Error:
		msg := st.ErrorMessage
		if msg == "" {
			msg = pulse.GenericErrorMessage
		}
		return "❌ " + msg + "\n"
	default:
		return LoadingText + "\n"
	}

	var b strings.Builder
	b.WriteString(SummaryMarkdown(st.Summary, opts))
	b.WriteString("\n")
	b.WriteString(AssetsMarkdown(st.Assets, opts))
	if len(st.Categories) > 0 {
		b.WriteString("\n")
		b.WriteString(CategoriesMarkdown(st.Categories, opts))
	}
	if !st.LastUpdate.IsZero() {
		b.WriteString("\n_Última atualização: " + st.LastUpdate.Format("02/01/2006 15:04:05") + "_\n")
	}
	return b.String()
}

// SummaryMarkdown renders the four summary tiles.
func SummaryMarkdown(s *pulse.PortfolioSummary, opts Options) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H1("Resumo da Carteira")
	if s == nil {
		doc.PlainText(NoSummaryText)
		return doc.String() + "\n"
	}
	doc.Table(md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight},
		Header:    []string{"Indicador", "Valor"},
		Rows: [][]string{
			{"Valor Total Atual", tile(s.ValorTotalAtual.Format(opts.Style), false)},
			{"Total Investido", tile(s.TotalInvestido.Format(opts.Style), false)},
			{"Lucro/Prejuízo", tile(s.LucroPrejuizo.Format(opts.Style), s.LucroPrejuizo.IsNegative())},
			{"ROI", tile(s.ROIPercentual.Format(opts.Style), s.ROIPercentual.IsNegative())},
		},
	})
	return doc.String()
}

// AssetsMarkdown renders the asset table, one row per asset in order.
func AssetsMarkdown(assets []pulse.AssetPosition, opts Options) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H2("Detalhes dos Ativos")
	if len(assets) == 0 {
		doc.PlainText(NoAssetsText)
		return doc.String() + "\n"
	}
	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
		},
		Header: []string{"Ativo", "Quantidade", "Preço Médio", "Preço Atual", "Valor Atual", "Lucro/Prejuízo", "ROI (%)"},
	}
	for _, a := range assets {
		table.Rows = append(table.Rows, []string{
			escape(a.Ativo),
			a.Quantidade.Format(opts.Style),
			a.PrecoMedio.Format(opts.Style),
			a.PrecoAtual.Format(opts.Style),
			a.ValorAtual.Format(opts.Style),
			a.LucroPrejuizo.Format(opts.Style),
			a.ROIPercentual.Format(opts.Style),
		})
	}
	doc.Table(table)
	return doc.String()
}

// CategoriesMarkdown renders the allocation by asset class, in the received
// order. Gains and losses over the period are marked.
func CategoriesMarkdown(categories []pulse.CategoryAllocation, opts Options) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H2("Categorias")
	if len(categories) == 0 {
		doc.PlainText(NoCategories)
		return doc.String() + "\n"
	}
	table := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight, md.AlignRight},
		Header:    []string{"Categoria", "Alocação", "Variação no Período"},
	}
	for _, c := range categories {
		table.Rows = append(table.Rows, []string{
			escape(c.Name),
			c.Value.Format(opts.Style),
			change(c.Change, opts),
		})
	}
	doc.Table(table)
	return doc.String()
}

func change(p pulse.Percent, opts Options) string {
	switch {
	case p.IsPositive():
		return "📈 +" + p.Format(opts.Style)
	case p.IsNegative():
		return "📉 " + p.Format(opts.Style)
	default:
		return p.Format(opts.Style)
	}
}

// tile emphasizes a summary value and flags losses.
func tile(s string, negative bool) string {
	if negative {
		return "🔻 " + md.Bold(s)
	}
	return md.Bold(s)
}

// escape makes s safe inside a table cell.
func escape(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}
