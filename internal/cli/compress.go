package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/kisaragi-hiiragi/plotline/internal/engine"
)

func init() {
	cmd := &cobra.Command{
		Use:   "compress",
		Short: "Compress an assembled context to a token budget",
		Long:  "Read a context from stdin, fit it into the budget, print the result. A context already within budget passes through unchanged.",
		Run:   runCompress,
	}

	cmd.Flags().IntP("budget", "b", 4000, "Max tokens in output")

	RootCmd.AddCommand(cmd)
}

func runCompress(cmd *cobra.Command, args []string) {
	budget, _ := cmd.Flags().GetInt("budget")

	b, err := io.ReadAll(os.Stdin)
	if err != nil {
		exitErr("read stdin", err)
	}

	fmt.Println(engine.NewCompressor().Compress(string(b), budget))
}
