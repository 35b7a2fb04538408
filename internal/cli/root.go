// Package cli implements the plotline CLI commands.
package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/kisaragi-hiiragi/plotline/internal/engine"
	"github.com/kisaragi-hiiragi/plotline/internal/store"
)

var (
	dbPath     string
	formatFlag string
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "plotline",
	Short: "Context assembly for long-form narrative writing",
	Long:  "A tiny CLI for narrative writing projects. Stores world, cast, and chapters in SQLite, and assembles token-budgeted context for LLM continuation.",
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "Database path (default: $PLOTLINE_DB or ~/.plotline/plotline.db)")
	RootCmd.PersistentFlags().StringVarP(&formatFlag, "format", "f", "json", "Output format: json or text")
	RootCmd.PersistentFlags().String("keywords", "", "YAML file with relevance keywords (default: built-in list)")
}

func getDBPath() string {
	if dbPath != "" {
		return dbPath
	}
	if env := os.Getenv("PLOTLINE_DB"); env != "" {
		return env
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".plotline", "plotline.db")
}

func openStore() (*store.SQLiteStore, error) {
	return store.NewSQLiteStore(getDBPath())
}

// loadKeywords resolves the keyword list from the --keywords flag.
func loadKeywords(cmd *cobra.Command) engine.KeywordList {
	path, _ := cmd.Flags().GetString("keywords")
	if path == "" {
		return engine.DefaultKeywords()
	}
	kl, err := engine.LoadKeywords(path)
	if err != nil {
		exitErr("load keywords", err)
	}
	return kl
}

// printOut renders v as indented JSON, or prints the text rendering
// when --format=text.
func printOut(v interface{}, text string) {
	if formatFlag == "text" {
		fmt.Println(text)
		return
	}
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(b))
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
