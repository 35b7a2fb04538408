package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kisaragi-hiiragi/plotline/internal/engine"
)

func init() {
	cmd := &cobra.Command{
		Use:   "context [document-id]",
		Short: "Assemble continuation context for a document",
		Long:  "Build the full context (project, world, cast, prior text) for a cursor position, optionally compressed to a token budget.",
		Args:  cobra.ExactArgs(1),
		Run:   runBuildContext,
	}

	cmd.Flags().IntP("position", "c", -1, "Cursor offset into the document (default: end of text)")
	cmd.Flags().IntP("budget", "b", 0, "Max tokens; 0 means uncompressed")

	RootCmd.AddCommand(cmd)
}

func runBuildContext(cmd *cobra.Command, args []string) {
	position, _ := cmd.Flags().GetInt("position")
	budget, _ := cmd.Flags().GetInt("budget")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	doc, err := s.GetDocument(cmd.Context(), args[0])
	if err != nil {
		exitErr("context", err)
	}
	if position < 0 || position > len(doc.Content) {
		position = len(doc.Content)
	}

	assembler := engine.NewAssembler(s, loadKeywords(cmd))
	context, err := assembler.BuildContext(cmd.Context(), doc.ProjectID, doc.ID, position)
	if err != nil {
		exitErr("context", err)
	}

	if budget > 0 {
		context = engine.NewCompressor().Compress(context, budget)
	}
	fmt.Println(context)
}
