package agent

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/etnz/costbasis"
	"github.com/etnz/costbasis/date"
	"github.com/etnz/costbasis/docs"
	"github.com/etnz/costbasis/renderer"
	"google.golang.org/genai"
)

const model = "gemini-2.5-pro"

// creates the facilitator
func newFacilitator(experts ...*Expert) *Expert {
	return &Expert{
		Name:      "Facilitator",
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(experts)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			As a facilitator you are in charge of the conversation and of solving the user's request.

			The experts listed in the Tools are at your service and keep the context of your previous questions.

			The user holds crypto assets across exchanges and wallets and wants to understand what they paid
			for them, what they gained, and how much of their holdings has a known cost.
			Plan the questions to ask each expert, then answer the user in markdown.
		`}}},
		},
		Library: NewLibrary(experts),
	}
}

// NewTrader returns an expert grounded on Google Search for market news.
func NewTrader() *Expert {
	return &Expert{
		Name: "Trader",
		Description: `An expert crypto trader, aware of the exchanges, the assets and the latest market news.
		Ask the Trader whenever you need recent or grounding information.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{GoogleSearch: &genai.GoogleSearch{}},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			You are an expert crypto trader. Use Google Search to ground your assertions and to relate
			the latest news to the questions you are asked.
			`}}},
		},
	}
}

// NewAccountant returns the expert that reads the accounting of as.
func NewAccountant(as *costbasis.AccountingSystem, window date.Range) *Expert {
	lib := AccountantTools(as, window)
	return &Expert{
		Name: "Accountant",
		Description: `The Accountant computes the FIFO cost basis of the user's assets from their trades and transfers.
		Ask about average buy prices, realized and unrealized P&L, fees, or the ledger of an asset.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(lib)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
				You are an accountant in charge of the user's cost basis.
				Use the Tools to read the figures, never guess them.
				Here is how they are computed:

				` + must(docs.GetTopics("ledger", "basis"))}}},
		},
		Library: NewLibrary(lib),
	}
}

// AccountantTools returns the functions the Accountant can call.
func AccountantTools(as *costbasis.AccountingSystem, window date.Range) []*Func {
	return []*Func{
		{
			Decl: &genai.FunctionDeclaration{
				Name:        "Assets",
				Description: "Assets lists the symbols of all assets found in the user's records.",
				Response:    &genai.Schema{Type: genai.TypeString, Description: "A comma separated list of symbols."},
			},
			Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
				return success(id, "Assets", strings.Join(as.Symbols(), ", "))
			},
		},
		symbolFunc("Snapshot", "Snapshot computes the cost basis, P&L and coverage of one asset.", as, func(symbol string) string {
			return renderer.SnapshotMarkdown(as.Snapshot(symbol))
		}),
		symbolFunc("Ledger", "Ledger lists the events of one asset, in time order.", as, func(symbol string) string {
			return renderer.EventsMarkdown(symbol, as.Events(symbol))
		}),
		{
			Decl: &genai.FunctionDeclaration{
				Name:        "Report",
				Description: "Report summarizes the cost basis and P&L of every asset and their totals.",
				Response:    &genai.Schema{Type: genai.TypeString, Description: "A markdown report."},
			},
			Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
				snapshots := as.Snapshots()
				return success(id, "Report", renderer.ReportMarkdown(window, snapshots, costbasis.NewTotals(as.Currency, snapshots)))
			},
		},
	}
}

// symbolFunc declares a function of a single known symbol.
func symbolFunc(name, description string, as *costbasis.AccountingSystem, f func(symbol string) string) *Func {
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name:        name,
			Description: description,
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"symbol": {
						Type:        genai.TypeString,
						Description: "The asset symbol, like BTC. Pairs like BTC/USDT are reduced to their base asset.",
					},
				},
				Required: []string{"symbol"},
			},
			Response: &genai.Schema{Type: genai.TypeString, Description: "A markdown document."},
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			symbol, err := stringArg(args, "symbol")
			if err != nil {
				return failure(id, name, err)
			}
			symbol = costbasis.NormalizeSymbol(symbol)
			if !slices.Contains(as.Symbols(), symbol) {
				return failure(id, name, fmt.Errorf("unknown asset %q, known assets are %s", symbol, strings.Join(as.Symbols(), ", ")))
			}
			return success(id, name, f(symbol))
		},
	}
}

// Func implements a simple Function
type Func struct {
	// Declare this function
	Decl *genai.FunctionDeclaration
	// Call this function
	Func func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse
}

func (f *Func) Declaration() *genai.FunctionDeclaration { return f.Decl }
func (f *Func) Call(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
	return f.Func(ctx, id, args)
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}
