package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kisaragi-hiiragi/plotline/internal/completion"
	"github.com/kisaragi-hiiragi/plotline/internal/engine"
)

func init() {
	cmd := &cobra.Command{
		Use:   "generate [document-id]",
		Short: "Generate continuation text for a document",
		Long:  "Assemble context, compress it to the context budget, and ask the configured completion backend for a continuation.",
		Args:  cobra.ExactArgs(1),
		Run:   runGenerate,
	}

	cmd.Flags().IntP("position", "c", -1, "Cursor offset into the document (default: end of text)")
	cmd.Flags().IntP("budget", "b", 3000, "Max tokens of context sent to the backend")
	cmd.Flags().Int("max-tokens", 500, "Max tokens to generate")
	cmd.Flags().Float64("temperature", 0.8, "Sampling temperature")

	RootCmd.AddCommand(cmd)
}

func runGenerate(cmd *cobra.Command, args []string) {
	position, _ := cmd.Flags().GetInt("position")
	budget, _ := cmd.Flags().GetInt("budget")
	maxTokens, _ := cmd.Flags().GetInt("max-tokens")
	temperature, _ := cmd.Flags().GetFloat64("temperature")

	completer, err := completion.NewFromEnv()
	if err != nil {
		exitErr("generate", err)
	}

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	doc, err := s.GetDocument(cmd.Context(), args[0])
	if err != nil {
		exitErr("generate", err)
	}
	if position < 0 || position > len(doc.Content) {
		position = len(doc.Content)
	}

	assembler := engine.NewAssembler(s, loadKeywords(cmd))
	context, err := assembler.BuildContext(cmd.Context(), doc.ProjectID, doc.ID, position)
	if err != nil {
		exitErr("generate", err)
	}
	context = engine.NewCompressor().Compress(context, budget)

	text, err := completer.Complete(cmd.Context(), completion.Request{
		Prompt:      context,
		MaxTokens:   maxTokens,
		Temperature: temperature,
	})
	if err != nil {
		exitErr("generate", err)
	}
	fmt.Println(text)
}
