package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kisaragi-hiiragi/plotline/internal/model"
	"github.com/kisaragi-hiiragi/plotline/internal/store"
)

func init() {
	charCmd := &cobra.Command{
		Use:   "character",
		Short: "Manage a project's cast",
	}

	addCmd := &cobra.Command{
		Use:   "add [name]",
		Short: "Create a character",
		Long:  "Create a character. Creation order matters: earlier characters survive compression longer.",
		Args:  cobra.ExactArgs(1),
		Run:   runCharacterAdd,
	}
	addCmd.Flags().StringP("project", "p", "", "Project ID (required)")
	addCmd.Flags().String("archetype", "", "Archetype label (protagonist, rival, mentor, ...)")
	addCmd.Flags().Int("age", 0, "Age")
	addCmd.Flags().String("gender", "", "Gender")
	addCmd.Flags().String("appearance", "", "Appearance text")
	addCmd.Flags().String("personality", "", "Personality text")
	addCmd.Flags().String("background", "", "Background text")
	addCmd.Flags().StringP("abilities", "a", "", "Comma-separated ability names")
	addCmd.MarkFlagRequired("project")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List a project's characters",
		Run:   runCharacterList,
	}
	listCmd.Flags().StringP("project", "p", "", "Project ID (required)")
	listCmd.MarkFlagRequired("project")

	linkCmd := &cobra.Command{
		Use:   "link [character-id] [target-id]",
		Short: "Record a relationship between two characters",
		Args:  cobra.ExactArgs(2),
		Run:   runCharacterLink,
	}
	linkCmd.Flags().StringP("relation", "r", "", "Relation label, e.g. rival, sister (required)")
	linkCmd.Flags().String("description", "", "Relationship description")
	linkCmd.MarkFlagRequired("relation")

	rmCmd := &cobra.Command{
		Use:   "rm [id]",
		Short: "Delete a character",
		Args:  cobra.ExactArgs(1),
		Run:   runCharacterRm,
	}

	charCmd.AddCommand(addCmd, listCmd, linkCmd, rmCmd)
	RootCmd.AddCommand(charCmd)
}

func runCharacterAdd(cmd *cobra.Command, args []string) {
	projectID, _ := cmd.Flags().GetString("project")
	archetype, _ := cmd.Flags().GetString("archetype")
	age, _ := cmd.Flags().GetInt("age")
	gender, _ := cmd.Flags().GetString("gender")
	appearance, _ := cmd.Flags().GetString("appearance")
	personality, _ := cmd.Flags().GetString("personality")
	background, _ := cmd.Flags().GetString("background")
	abilitiesStr, _ := cmd.Flags().GetString("abilities")

	var abilities []string
	if abilitiesStr != "" {
		for _, a := range strings.Split(abilitiesStr, ",") {
			a = strings.TrimSpace(a)
			if a != "" {
				abilities = append(abilities, a)
			}
		}
	}

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	c, err := s.CreateCharacter(cmd.Context(), store.CreateCharacterParams{
		ProjectID:   projectID,
		Name:        args[0],
		Archetype:   archetype,
		Age:         age,
		Gender:      gender,
		Appearance:  appearance,
		Personality: personality,
		Background:  background,
		Abilities:   abilities,
	})
	if err != nil {
		exitErr("character add", err)
	}

	printOut(c, characterLine(*c))
}

func characterLine(c model.Character) string {
	line := fmt.Sprintf("%s  %s", c.ID, c.Name)
	if c.Archetype != "" {
		line += " (" + c.Archetype + ")"
	}
	return line
}

func runCharacterList(cmd *cobra.Command, args []string) {
	projectID, _ := cmd.Flags().GetString("project")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	chars, err := s.ListCharacters(cmd.Context(), projectID)
	if err != nil {
		exitErr("character list", err)
	}

	lines := make([]string, len(chars))
	for i, c := range chars {
		lines[i] = characterLine(c)
	}
	printOut(chars, strings.Join(lines, "\n"))
}

func runCharacterLink(cmd *cobra.Command, args []string) {
	relation, _ := cmd.Flags().GetString("relation")
	description, _ := cmd.Flags().GetString("description")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	if err := s.AddRelationship(cmd.Context(), args[0], args[1], relation, description); err != nil {
		exitErr("character link", err)
	}
	fmt.Printf("linked %s -[%s]-> %s\n", args[0], relation, args[1])
}

func runCharacterRm(cmd *cobra.Command, args []string) {
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	if err := s.DeleteCharacter(cmd.Context(), args[0]); err != nil {
		exitErr("character rm", err)
	}
	fmt.Println("deleted", args[0])
}
