package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/pulse/agent"
	"github.com/google/subcommands"
	"google.golang.org/genai"
)

type assistCmd struct{}

func (*assistCmd) Name() string     { return "assist" }
func (*assistCmd) Synopsis() string { return "chat with an assistant about the portfolio" }
func (*assistCmd) Usage() string {
	return `pulse assist [prompt]

  Starts an interactive session with an assistant that can read the current
  portfolio snapshot. Type "bye" to leave.

  Requires a Gemini API key, in assist.api_key or GOOGLE_API_KEY.
`
}

func (*assistCmd) SetFlags(_ *flag.FlagSet) {}

func (*assistCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := openSession()
	if err != nil {
		failf("Error loading configuration: %v", err)
		return subcommands.ExitFailure
	}
	defer s.close()

	var prompts []string
	if f.NArg() > 0 {
		prompts = append(prompts, strings.Join(f.Args(), " "))
	}

	var cc *genai.ClientConfig
	if s.cfg.Assist.APIKey != "" {
		cc = &genai.ClientConfig{APIKey: s.cfg.Assist.APIKey, Backend: genai.BackendGeminiAPI}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error initializing Gemini's client:", err)
		return subcommands.ExitFailure
	}

	model := s.cfg.Assist.Model
	analyst := agent.NewAnalyst(model, s.api, s.options())
	analyst.Logger = s.log
	a := agent.New(os.Stdout, os.Stdin, model, agent.NewResearcher(model), analyst)
	a.Print = s.print

	if err := a.Run(ctx, client, prompts...); err != nil {
		fmt.Fprintln(os.Stderr, "Agent failed:", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
