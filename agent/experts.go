package agent

import (
	"context"

	"github.com/etnz/pulse"
	"github.com/etnz/pulse/renderer"
	"google.golang.org/genai"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.5-flash"

// creates the facilitator
func newFacilitator(model string, experts ...*Expert) *Expert {
	if model == "" {
		model = DefaultModel
	}
	return &Expert{
		Name:      "Facilitator",
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(experts)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			You are in charge of the conversation with an investor about their
			Brazilian portfolio (stocks, FIIs, US stocks), valued in reais.

			Learn about the expert's skills from the Tools and ask them questions.
			They keep the context of your previous questions.

			Always look at the current portfolio snapshot before answering about
			figures. Answer in the language of the user, in Markdown.
		`}}},
		},
		Library: NewLibrary(experts),
	}
}

// NewResearcher returns an expert grounded on Google Search.
func NewResearcher(model string) *Expert {
	if model == "" {
		model = DefaultModel
	}
	return &Expert{
		Name: "Researcher",
		Description: `This is a market researcher, aware of the latest news about
		Brazilian companies, real estate funds (FIIs) and US stocks.
		Ask the Researcher whenever you need recent or grounding information.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{GoogleSearch: &genai.GoogleSearch{}},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			You are a market researcher. Leverage Google Search to ground your
			assertions, and relate the latest news to the user's request.
			`}}},
		},
	}
}

// Source is where the analyst reads the portfolio.
type Source interface {
	pulse.Backend
	LastUpdateTime(ctx context.Context) (string, error)
}

// NewAnalyst returns an expert reading the portfolio from src.
func NewAnalyst(model string, src Source, opts renderer.Options) *Expert {
	if model == "" {
		model = DefaultModel
	}
	lib := []Function{SnapshotFunc(src, opts), LastUpdateFunc(src)}
	return &Expert{
		Name: "Analyst",
		Description: `This is the Analyst. It reads the user's portfolio: the
		summary totals, every asset position with its profit and ROI, and the
		time of the last update.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(lib)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
				You are the analyst of the user's portfolio. Use the Tools to read
				the current snapshot before answering. Values marked N/A were not
				provided by the backend: never guess them.
			`}}},
		},
		Library: NewLibrary(lib),
	}
}

// Func implements a simple Function
type Func struct {
	Decl *genai.FunctionDeclaration
	Func func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse
}

func (f *Func) Declaration() *genai.FunctionDeclaration { return f.Decl }
func (f *Func) Call(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
	return f.Func(ctx, id, args)
}

// SnapshotFunc renders the current snapshot as Markdown.
func SnapshotFunc(src Source, opts renderer.Options) *Func {
	const name = "Snapshot"
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name:        name,
			Description: "Snapshot returns the current portfolio: the summary totals and one row per asset.",
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "A markdown document with the summary table and the asset table.",
			},
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			c := pulse.NewClient(src, nil)
			// the client state already carries the error message.
			_ = c.FetchSnapshot(ctx)
			st := c.State()
			if st.Phase == pulse.Error {
				return failure(id, name, errString(st.ErrorMessage))
			}
			return &genai.FunctionResponse{ID: id, Name: name, Response: map[string]any{"output": renderer.Dashboard(st, opts)}}
		},
	}
}

// LastUpdateFunc returns the time of the last backend update.
func LastUpdateFunc(src Source) *Func {
	const name = "LastUpdate"
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name:        name,
			Description: "LastUpdate returns when the backend last refreshed the portfolio.",
			Response:    &genai.Schema{Type: genai.TypeString},
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			t, err := src.LastUpdateTime(ctx)
			if err != nil {
				return failure(id, name, errString(pulse.GenericErrorMessage))
			}
			return &genai.FunctionResponse{ID: id, Name: name, Response: map[string]any{"output": t}}
		},
	}
}

type errString string

func (e errString) Error() string { return string(e) }
