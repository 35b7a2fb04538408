package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kisaragi-hiiragi/plotline/internal/model"
	"github.com/kisaragi-hiiragi/plotline/internal/store"
)

func init() {
	docCmd := &cobra.Command{
		Use:   "doc",
		Short: "Manage documents (chapters)",
	}

	addCmd := &cobra.Command{
		Use:   "add [title]",
		Short: "Create a document",
		Long:  "Create a document. Content can be passed with --content or piped via stdin.",
		Args:  cobra.ExactArgs(1),
		Run:   runDocAdd,
	}
	addCmd.Flags().StringP("project", "p", "", "Project ID (required)")
	addCmd.Flags().String("content", "", "Document text")
	addCmd.Flags().Int("position", 0, "Ordering index (default: append)")
	addCmd.MarkFlagRequired("project")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List a project's documents",
		Run:   runDocList,
	}
	listCmd.Flags().StringP("project", "p", "", "Project ID (required)")
	listCmd.MarkFlagRequired("project")

	showCmd := &cobra.Command{
		Use:   "show [id]",
		Short: "Show one document",
		Args:  cobra.ExactArgs(1),
		Run:   runDocShow,
	}

	rmCmd := &cobra.Command{
		Use:   "rm [id]",
		Short: "Delete a document",
		Args:  cobra.ExactArgs(1),
		Run:   runDocRm,
	}

	docCmd.AddCommand(addCmd, listCmd, showCmd, rmCmd)
	RootCmd.AddCommand(docCmd)
}

func runDocAdd(cmd *cobra.Command, args []string) {
	projectID, _ := cmd.Flags().GetString("project")
	content, _ := cmd.Flags().GetString("content")
	position, _ := cmd.Flags().GetInt("position")

	if content == "" {
		stat, _ := os.Stdin.Stat()
		if (stat.Mode() & os.ModeCharDevice) == 0 {
			b, err := io.ReadAll(os.Stdin)
			if err != nil {
				exitErr("read stdin", err)
			}
			content = string(b)
		}
	}

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	d, err := s.CreateDocument(cmd.Context(), store.CreateDocumentParams{
		ProjectID: projectID,
		Title:     args[0],
		Content:   strings.TrimRight(content, "\n"),
		Position:  position,
	})
	if err != nil {
		exitErr("doc add", err)
	}

	printOut(d, docLine(*d))
}

func docLine(d model.Document) string {
	return fmt.Sprintf("%s  #%d %s (%d chars)", d.ID, d.Position, d.Title, len(d.Content))
}

func runDocList(cmd *cobra.Command, args []string) {
	projectID, _ := cmd.Flags().GetString("project")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	docs, err := s.ListDocuments(cmd.Context(), projectID)
	if err != nil {
		exitErr("doc list", err)
	}

	// Content stays out of the listing; titles and positions only.
	type row struct {
		ID       string `json:"id"`
		Title    string `json:"title"`
		Position int    `json:"position"`
		Chars    int    `json:"chars"`
	}
	rows := make([]row, len(docs))
	lines := make([]string, len(docs))
	for i, d := range docs {
		rows[i] = row{ID: d.ID, Title: d.Title, Position: d.Position, Chars: len(d.Content)}
		lines[i] = docLine(d)
	}

	printOut(rows, strings.Join(lines, "\n"))
}

func runDocShow(cmd *cobra.Command, args []string) {
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	d, err := s.GetDocument(cmd.Context(), args[0])
	if err != nil {
		exitErr("doc show", err)
	}

	printOut(d, docLine(*d)+"\n\n"+d.Content)
}

func runDocRm(cmd *cobra.Command, args []string) {
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	if err := s.DeleteDocument(cmd.Context(), args[0]); err != nil {
		exitErr("doc rm", err)
	}
	fmt.Println("deleted", args[0])
}
