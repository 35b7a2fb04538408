package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kisaragi-hiiragi/plotline/internal/model"
	"github.com/kisaragi-hiiragi/plotline/internal/store"
)

func init() {
	projectCmd := &cobra.Command{
		Use:   "project",
		Short: "Manage writing projects",
	}

	addCmd := &cobra.Command{
		Use:   "add [name]",
		Short: "Create a project",
		Args:  cobra.ExactArgs(1),
		Run:   runProjectAdd,
	}
	addCmd.Flags().StringP("genre", "g", "", "Genre: isekai, school, scifi, fantasy")
	addCmd.Flags().String("description", "", "Free-text description")
	addCmd.Flags().StringSliceP("setting", "s", nil, "Genre setting as key=value (repeatable)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List projects",
		Run:   runProjectList,
	}

	showCmd := &cobra.Command{
		Use:   "show [id]",
		Short: "Show one project",
		Args:  cobra.ExactArgs(1),
		Run:   runProjectShow,
	}

	rmCmd := &cobra.Command{
		Use:   "rm [id]",
		Short: "Delete a project",
		Args:  cobra.ExactArgs(1),
		Run:   runProjectRm,
	}

	projectCmd.AddCommand(addCmd, listCmd, showCmd, rmCmd)
	RootCmd.AddCommand(projectCmd)
}

func runProjectAdd(cmd *cobra.Command, args []string) {
	genre, _ := cmd.Flags().GetString("genre")
	description, _ := cmd.Flags().GetString("description")
	settingPairs, _ := cmd.Flags().GetStringSlice("setting")

	settings := map[string]string{}
	for _, pair := range settingPairs {
		k, v, ok := strings.Cut(pair, "=")
		if !ok {
			exitErr("project add", fmt.Errorf("invalid setting %q (use key=value)", pair))
		}
		settings[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	p, err := s.CreateProject(cmd.Context(), store.CreateProjectParams{
		Name:        args[0],
		Genre:       genre,
		Description: description,
		Settings:    settings,
	})
	if err != nil {
		exitErr("project add", err)
	}

	printOut(p, projectLine(*p))
}

func projectLine(p model.Project) string {
	return fmt.Sprintf("%s  %s [%s]", p.ID, p.Name, model.GenreLabel(p.Genre))
}

func runProjectList(cmd *cobra.Command, args []string) {
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	projects, err := s.ListProjects(cmd.Context())
	if err != nil {
		exitErr("project list", err)
	}

	lines := make([]string, len(projects))
	for i, p := range projects {
		lines[i] = projectLine(p)
	}
	printOut(projects, strings.Join(lines, "\n"))
}

func runProjectShow(cmd *cobra.Command, args []string) {
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	p, err := s.GetProject(cmd.Context(), args[0])
	if err != nil {
		exitErr("project show", err)
	}

	printOut(p, projectLine(*p))
}

func runProjectRm(cmd *cobra.Command, args []string) {
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	if err := s.DeleteProject(cmd.Context(), args[0]); err != nil {
		exitErr("project rm", err)
	}
	fmt.Println("deleted", args[0])
}
