package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/terra-clan/nebula-guide/internal/models"
	"github.com/terra-clan/nebula-guide/internal/questionnaire"
)

var questionnaireCmd = &cobra.Command{
	Use:   "questionnaire",
	Short: "Inspect questionnaire definitions",
}

var questionnaireValidateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Check a questionnaire file (the built-in definition when no file is given)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		q, err := readQuestionnaire(args)
		if err != nil {
			return err
		}
		printSummary(cmd.OutOrStdout(), q)
		return nil
	},
}

var questionnaireDumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Print the built-in questionnaire as a starting point for a custom file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		enc := yaml.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(questionnaire.Default())
	},
}

func init() {
	questionnaireCmd.AddCommand(questionnaireValidateCmd)
	questionnaireCmd.AddCommand(questionnaireDumpCmd)
}

func readQuestionnaire(args []string) (*models.Questionnaire, error) {
	if len(args) == 0 {
		return questionnaire.Default(), nil
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", args[0], err)
	}
	return questionnaire.Parse(data)
}

func printSummary(w io.Writer, q *models.Questionnaire) {
	fmt.Fprintf(w, "%s: %d questions\n", q.Name, len(q.Questions))
	for _, c := range q.Categories {
		fmt.Fprintf(w, "  %-10s %s %v\n", c.ID, c.Label, c.QuestionIDs)
	}
	fmt.Fprintf(w, "risk: high <= %d, medium <= %d\n", q.Risk.High.Max, q.Risk.Medium.Max)
	fmt.Fprintf(w, "moods: %d images, %d current, %d future\n",
		q.Moods.Images, len(q.Moods.Current), len(q.Moods.Future))
	fmt.Fprintf(w, "advice: %d conditions\n", len(q.Advice))
}
