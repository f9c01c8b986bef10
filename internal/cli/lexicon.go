package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/digitalpulpit/pulpit/internal/lexicon"
)

// lexiconCmd represents the lexicon command
var lexiconCmd = &cobra.Command{
	Use:   "lexicon",
	Short: "Inspect and validate lexicon files",
}

var lexiconValidateCmd = &cobra.Command{
	Use:   "validate [path]",
	Short: "Validate a lexicon file",
	Long: `Validate compiles a lexicon YAML file and reports the first problem
found: missing version, empty keyword lists, negative weights, axes whose
poles are unknown or shared with another axis.

With no argument the configured lexicon is validated.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := lexiconArg(args)
		if err != nil {
			return err
		}
		lex, err := lexicon.Load(path)
		if err != nil {
			return fmt.Errorf("lexicon invalid: %w", err)
		}
		fmt.Printf("✓ %s is valid (version %s, %d categories, %d axes)\n",
			path, lex.Version, len(lex.CategoryNames), len(lex.AxisNames))
		return nil
	},
}

var lexiconShowCmd = &cobra.Command{
	Use:   "show [path]",
	Short: "Show a compiled lexicon",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := lexiconArg(args)
		if err != nil {
			return err
		}
		lex, err := lexicon.Load(path)
		if err != nil {
			return fmt.Errorf("lexicon invalid: %w", err)
		}

		fmt.Printf("Lexicon %s (version %s)\n\n", path, lex.Version)
		fmt.Println("Categories:")
		for _, name := range lex.CategoryNames {
			cat := lex.Category(name)
			pole := ""
			if cat.Axis != "" {
				sign := "+"
				if cat.Polarity < 0 {
					sign = "-"
				}
				pole = fmt.Sprintf("  [%s%s]", sign, cat.Axis)
			}
			fmt.Printf("  %-24s %3d keywords  weight %.1f%s\n",
				name, len(cat.Patterns), cat.Weight, pole)
		}
		if len(lex.AxisNames) > 0 {
			fmt.Println("\nAxes:")
			for _, name := range lex.AxisNames {
				axis, _ := lex.Axis(name)
				fmt.Printf("  %-24s %s ←→ %s\n", name, axis.Negative, axis.Positive)
			}
		}
		return nil
	},
}

func lexiconArg(args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	cfg, err := loadConfig()
	if err != nil {
		return "", err
	}
	return cfg.LexiconPath, nil
}

func init() {
	rootCmd.AddCommand(lexiconCmd)
	lexiconCmd.AddCommand(lexiconValidateCmd)
	lexiconCmd.AddCommand(lexiconShowCmd)
}
