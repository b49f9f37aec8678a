package settings

import (
	"encoding/json"
	"fmt"

	"github.com/felixgeelhaar/bucketlist/adapter/cli"
	appSettings "github.com/felixgeelhaar/bucketlist/internal/settings"
	"github.com/spf13/cobra"
)

var vocabJSON bool

var vocabCmd = &cobra.Command{
	Use:   "vocab",
	Short: "Manage family members, categories and interests",
	Long: `Manage the user vocabularies offered when adding and filtering items.

Vocabularies: members, categories, interests`,
}

var vocabListCmd = &cobra.Command{
	Use:   "list <vocabulary>",
	Short: "List the terms of a vocabulary",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.SettingsService == nil {
			return errNotConfigured
		}
		v, err := appSettings.ParseVocabulary(args[0])
		if err != nil {
			return fmt.Errorf("%w: %q", err, args[0])
		}
		terms, err := app.SettingsService.Terms(cmd.Context(), v)
		if err != nil {
			return err
		}
		return printTerms(cmd, terms)
	},
}

var vocabAddCmd = &cobra.Command{
	Use:   "add <vocabulary> <term>",
	Short: "Add a term",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.SettingsService == nil {
			return errNotConfigured
		}
		v, err := appSettings.ParseVocabulary(args[0])
		if err != nil {
			return fmt.Errorf("%w: %q", err, args[0])
		}
		terms, err := app.SettingsService.AddTerm(cmd.Context(), v, args[1])
		if err != nil {
			return err
		}
		return printTerms(cmd, terms)
	},
}

var vocabRemoveCmd = &cobra.Command{
	Use:     "rm <vocabulary> <term>",
	Short:   "Remove a term",
	Aliases: []string{"remove"},
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.SettingsService == nil {
			return errNotConfigured
		}
		v, err := appSettings.ParseVocabulary(args[0])
		if err != nil {
			return fmt.Errorf("%w: %q", err, args[0])
		}
		terms, err := app.SettingsService.RemoveTerm(cmd.Context(), v, args[1])
		if err != nil {
			return err
		}
		return printTerms(cmd, terms)
	},
}

func printTerms(cmd *cobra.Command, terms []string) error {
	out := cmd.OutOrStdout()
	if vocabJSON {
		return json.NewEncoder(out).Encode(terms)
	}
	for _, t := range terms {
		fmt.Fprintln(out, t)
	}
	return nil
}

func init() {
	vocabCmd.PersistentFlags().BoolVar(&vocabJSON, "json", false, "output as JSON")

	vocabCmd.AddCommand(vocabListCmd)
	vocabCmd.AddCommand(vocabAddCmd)
	vocabCmd.AddCommand(vocabRemoveCmd)
}
