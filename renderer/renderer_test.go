package renderer

import (
	"strings"
	"testing"
	"time"

	"github.com/etnz/pulse"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

func petr4() pulse.AssetPosition {
	return pulse.AssetPosition{
		Ativo:         "PETR4",
		Quantidade:    pulse.Q(100),
		PrecoMedio:    pulse.M(25.0),
		PrecoAtual:    pulse.M(27.5),
		ValorAtual:    pulse.M(2750.0),
		LucroPrejuizo: pulse.M(250.0),
		ROIPercentual: pulse.P(10.0),
	}
}

func readyState() pulse.ClientState {
	return pulse.ClientState{
		Phase: pulse.Ready,
		Summary: &pulse.PortfolioSummary{
			ValorTotalAtual: pulse.M(5750),
			TotalInvestido:  pulse.M(5600),
			LucroPrejuizo:   pulse.M(150),
			ROIPercentual:   pulse.P(2.68),
		},
		Assets: []pulse.AssetPosition{
			petr4(),
			{Ativo: "VALE3", Quantidade: pulse.Q(50), PrecoMedio: pulse.M(62), PrecoAtual: pulse.M(60), ValorAtual: pulse.M(3000), LucroPrejuizo: pulse.M(-100), ROIPercentual: pulse.P(-3.23)},
			{Ativo: "ITUB4", Quantidade: pulse.Q(200), PrecoMedio: pulse.M(25)},
		},
	}
}

func TestDashboard_AssetRow(t *testing.T) {
	got := Dashboard(readyState(), Options{})
	want := "| PETR4 | 100 | R$ 25.00 | R$ 27.50 | R$ 2750.00 | R$ 250.00 | 10.00% |\n"
	if !strings.Contains(got, want) {
		t.Errorf("Dashboard() does not contain the PETR4 row %q:\n%s", want, got)
	}
	missing := "| ITUB4 | 200 | R$ 25.00 | N/A | N/A | N/A | N/A |\n"
	if !strings.Contains(got, missing) {
		t.Errorf("Dashboard() does not print missing values as N/A:\n%s", got)
	}
	if !strings.Contains(got, "**R$ 5750.00**") {
		t.Errorf("Dashboard() does not contain the total value tile:\n%s", got)
	}
}

func TestDashboard_Brazilian(t *testing.T) {
	st := pulse.ClientState{Phase: pulse.Ready, Summary: &pulse.PortfolioSummary{}, Assets: []pulse.AssetPosition{petr4()}}
	got := Dashboard(st, Options{Style: pulse.Brazilian})
	want := "| PETR4 | 100 | R$25,00 | R$27,50 | R$2.750,00 | R$250,00 | 10,00% |\n"
	if !strings.Contains(got, want) {
		t.Errorf("Dashboard() does not contain %q:\n%s", want, got)
	}
}

func TestDashboard_Phases(t *testing.T) {
	tests := []struct {
		name    string
		st      pulse.ClientState
		want    []string
		notWant []string
	}{
		{
			name:    "idle",
			st:      pulse.ClientState{},
			want:    []string{LoadingText},
			notWant: []string{"|", "Resumo"},
		},
		{
			name:    "loading hides previous data",
			st:      pulse.ClientState{Phase: pulse.Loading, Assets: []pulse.AssetPosition{petr4()}},
			want:    []string{LoadingText},
			notWant: []string{"PETR4", "|"},
		},
		{
			name:    "error",
			st:      pulse.ClientState{Phase: pulse.Error, ErrorMessage: pulse.GenericErrorMessage},
			want:    []string{pulse.GenericErrorMessage},
			notWant: []string{"|", LoadingText},
		},
		{
			name:    "ready without assets",
			st:      pulse.ClientState{Phase: pulse.Ready, Summary: readyState().Summary, Assets: []pulse.AssetPosition{}},
			want:    []string{"Resumo da Carteira", NoAssetsText},
			notWant: []string{"| Ativo |"},
		},
		{
			name:    "ready without summary",
			st:      pulse.ClientState{Phase: pulse.Ready, Assets: []pulse.AssetPosition{petr4()}},
			want:    []string{NoSummaryText, "| PETR4 |"},
			notWant: []string{NoAssetsText},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Dashboard(tt.st, Options{})
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("Dashboard() does not contain %q:\n%s", w, got)
				}
			}
			for _, w := range tt.notWant {
				if strings.Contains(got, w) {
					t.Errorf("Dashboard() contains %q:\n%s", w, got)
				}
			}
		})
	}
}

func TestDashboard_Deterministic(t *testing.T) {
	st := readyState()
	st.LastUpdate = time.Date(2024, 5, 17, 18, 30, 0, 0, time.UTC)
	first := Dashboard(st, Options{})
	if second := Dashboard(st, Options{}); first != second {
		t.Errorf("Dashboard() is not deterministic:\n%s\n---\n%s", first, second)
	}
	if !strings.Contains(first, "17/05/2024 18:30:00") {
		t.Errorf("Dashboard() does not show the last update:\n%s", first)
	}
}

// TestDashboard_Tables parses the rendered Markdown to check the tables
// have one row per asset, in order.
func TestDashboard_Tables(t *testing.T) {
	src := []byte(Dashboard(readyState(), Options{}))
	root := goldmark.New(goldmark.WithExtensions(extension.Table)).Parser().Parse(text.NewReader(src))

	var tables, rows int
	var firstCells []string
	ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n.(type) {
		case *extast.Table:
			tables++
		case *extast.TableRow:
			rows++
			if tables == 2 {
				firstCells = append(firstCells, string(n.FirstChild().Text(src)))
			}
		}
		return ast.WalkContinue, nil
	})
	if tables != 2 {
		t.Fatalf("got %d tables, want 2", tables)
	}
	if rows != 4+3 {
		t.Errorf("got %d rows, want 7", rows)
	}
	want := []string{"PETR4", "VALE3", "ITUB4"}
	if strings.Join(firstCells, ",") != strings.Join(want, ",") {
		t.Errorf("asset rows = %v, want %v", firstCells, want)
	}
}

func TestJournalMarkdown(t *testing.T) {
	base := time.Date(2024, 5, 17, 18, 30, 0, 0, time.UTC)
	entries := []pulse.LogEntry{
		{Message: "Conectando com Nord Research...", Timestamp: base, Severity: pulse.Info},
		{Message: "Atualização concluída!", Timestamp: base.Add(2 * time.Second), Severity: pulse.Success},
	}
	want := "## Logs\n\n" +
		"- `18:30:00` ℹ️ Conectando com Nord Research...\n" +
		"- `18:30:02` ✅ Atualização concluída!\n" +
		"\n"
	if got := JournalMarkdown(entries); got != want {
		t.Errorf("JournalMarkdown() =\n%q\nwant\n%q", got, want)
	}
	if got := JournalMarkdown(nil); got != "## Logs\n\nNenhum log disponível.\n\n" {
		t.Errorf("JournalMarkdown(nil) = %q", got)
	}
}

func TestStatusMarkdown(t *testing.T) {
	got := StatusMarkdown(StatusView{Online: true, Message: "operacional", LastUpdate: "2024-05-17 18:30:00"})
	want := "## Status do Servidor\n\n🟢 Online: operacional\n\nÚltima atualização: 2024-05-17 18:30:00\n"
	if got != want {
		t.Errorf("StatusMarkdown() =\n%q\nwant\n%q", got, want)
	}
	got = StatusMarkdown(StatusView{})
	if !strings.Contains(got, "🔴 Offline") || !strings.Contains(got, "Última atualização: N/A") {
		t.Errorf("StatusMarkdown() offline =\n%s", got)
	}
}

func TestPositionsMarkdown(t *testing.T) {
	p := petr4()
	p.DataAtt = "17/05/2024"
	got := PositionsMarkdown([]pulse.AssetPosition{p, {Ativo: "VALE3"}}, Options{})
	for _, want := range []string{
		"| PETR4 | 100 | R$ 25.00 | R$ 27.50 | R$ 2750.00 | 17/05/2024 |\n",
		"| VALE3 | N/A | N/A | N/A | N/A | N/A |\n",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("PositionsMarkdown() does not contain %q:\n%s", want, got)
		}
	}
	if got := PositionsMarkdown(nil, Options{}); !strings.Contains(got, "Nenhuma posição encontrada.") {
		t.Errorf("PositionsMarkdown(nil) = %q", got)
	}
}

func TestConnectionsMarkdown(t *testing.T) {
	got := ConnectionsMarkdown([]ConnectionResult{
		{Name: "Nord Research", OK: true, Message: "Login realizado"},
		{Name: "Levante Ideias", Message: "a | b"},
		{Name: "Planilha Excel", OK: true},
	})
	for _, want := range []string{
		"| Nord Research | ✅ OK | Login realizado |\n",
		"| Levante Ideias | ❌ Falha | a \\| b |\n",
		"| Planilha Excel | ✅ OK | N/A |\n",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("ConnectionsMarkdown() does not contain %q:\n%s", want, got)
		}
	}
}

func TestExcelMarkdown(t *testing.T) {
	p := pulse.ExcelPreview{
		Message: "Planilha lida com sucesso!",
		Columns: []string{"Ativo", "Quantidade", "DATA ATT"},
		Preview: []map[string]any{
			{"Ativo": "PETR4", "Quantidade": float64(100), "DATA ATT": "17/05/2024"},
			{"Ativo": "VALE3", "Quantidade": nil},
		},
	}
	got := ExcelMarkdown(p)
	for _, want := range []string{
		"| Ativo | Quantidade | DATA ATT |\n",
		"| PETR4 | 100 | 17/05/2024 |\n",
		"| VALE3 | N/A | N/A |\n",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("ExcelMarkdown() does not contain %q:\n%s", want, got)
		}
	}
}

func TestRemoteConfigMarkdown(t *testing.T) {
	got := RemoteConfigMarkdown(map[string]any{
		"nord":       map[string]any{"email": "a@b.c", "password": "***"},
		"excel_path": "carteira.xlsx",
	})
	want := "## Configuração do Servidor\n" +
		"```json\n" +
		"{\n" +
		"  \"excel_path\": \"carteira.xlsx\",\n" +
		"  \"nord\": {\n" +
		"    \"email\": \"a@b.c\",\n" +
		"    \"password\": \"***\"\n" +
		"  }\n" +
		"}\n" +
		"```\n"
	if got != want {
		t.Errorf("RemoteConfigMarkdown() =\n%s\nwant:\n%s", got, want)
	}

	if got := RemoteConfigMarkdown(nil); !strings.Contains(got, "Nenhuma configuração disponível.") {
		t.Errorf("RemoteConfigMarkdown(nil) = %q, want the placeholder", got)
	}
}

func TestCategoriesMarkdown(t *testing.T) {
	categories := []pulse.CategoryAllocation{
		{Name: "Ações LP", Value: pulse.P(35.2), Change: pulse.P(2.1)},
		{Name: "Cripto", Value: pulse.P(4.5), Change: pulse.P(-2.1)},
		{Name: "Renda Fixa", Value: pulse.P(1.5), Change: pulse.P(0)},
		{Name: "Outros", Value: pulse.P(0.5)},
	}
	got := CategoriesMarkdown(categories, Options{})
	for _, want := range []string{
		"## Categorias",
		"| Ações LP | 35.20% | 📈 +2.10% |",
		"| Cripto | 4.50% | 📉 -2.10% |",
		"| Renda Fixa | 1.50% | 0.00% |",
		"| Outros | 0.50% | N/A |",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("CategoriesMarkdown() does not contain %q:\n%s", want, got)
		}
	}
	if strings.Index(got, "Ações LP") > strings.Index(got, "Cripto") {
		t.Errorf("CategoriesMarkdown() does not keep the received order:\n%s", got)
	}

	if got := CategoriesMarkdown(nil, Options{}); !strings.Contains(got, NoCategories) {
		t.Errorf("CategoriesMarkdown(nil) = %q, want the placeholder", got)
	}
}

func TestDashboard_Categories(t *testing.T) {
	if got := Dashboard(readyState(), Options{}); strings.Contains(got, "## Categorias") {
		t.Errorf("Dashboard() without categories renders the section:\n%s", got)
	}

	st := readyState()
	st.Categories = []pulse.CategoryAllocation{{Name: "FII", Value: pulse.P(12), Change: pulse.P(0.9)}}
	got := Dashboard(st, Options{Style: pulse.Brazilian})
	if want := "| FII | 12,00% | 📈 +0,90% |"; !strings.Contains(got, want) {
		t.Errorf("Dashboard() does not contain %q:\n%s", want, got)
	}
	if strings.Index(got, "## Detalhes dos Ativos") > strings.Index(got, "## Categorias") {
		t.Errorf("categories should follow the assets:\n%s", got)
	}

	st.Phase = pulse.Error
	if got := Dashboard(st, Options{}); strings.Contains(got, "Categorias") {
		t.Errorf("Dashboard() in error renders data views:\n%s", got)
	}
}
