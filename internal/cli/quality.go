package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/kisaragi-hiiragi/plotline/internal/engine"
)

func init() {
	cmd := &cobra.Command{
		Use:   "quality",
		Short: "Score a context's completeness (advisory)",
		Long:  "Read a context from stdin and print a coarse quality report. Informational only; nothing gates on it.",
		Run:   runQuality,
	}

	RootCmd.AddCommand(cmd)
}

func runQuality(cmd *cobra.Command, args []string) {
	b, err := io.ReadAll(os.Stdin)
	if err != nil {
		exitErr("read stdin", err)
	}

	report := engine.AnalyzeQuality(string(b))
	out, _ := json.MarshalIndent(report, "", "  ")
	fmt.Println(string(out))
}
