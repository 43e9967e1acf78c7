package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/ukaji3/pptxstruct-go/pkg/pptxstruct"
	"github.com/ukaji3/pptxstruct-go/pkg/pptxstruct/models"
	"github.com/ukaji3/pptxstruct-go/pkg/pptxstruct/output"
)

func newExtractCommand() *cobra.Command {
	var (
		pretty     bool
		issuesOnly bool
		xlsxPath   string
	)
	cmd := &cobra.Command{
		Use:   "extract <input.pptx> <output.json>",
		Short: "Write the text inventory of a presentation",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := loadOptions()
			if err != nil {
				return err
			}
			if issuesOnly {
				opts.Mode = pptxstruct.ModeIssues
			}

			inv, err := pptxstruct.Extract(args[0], opts)
			if err != nil {
				return fmt.Errorf("extraction failed: %w", err)
			}
			if err := output.WriteJSON(args[1], inv, pretty); err != nil {
				return err
			}
			if xlsxPath != "" {
				if err := output.WriteInventoryXLSX(xlsxPath, inv); err != nil {
					return err
				}
			}
			output.NewReporter(os.Stdout).Extract(inv, args[1])
			return nil
		},
	}
	cmd.Flags().BoolVar(&pretty, "pretty", true, "Pretty-print JSON output")
	cmd.Flags().BoolVar(&issuesOnly, "issues-only", false, "Only include shapes with overlap or overflow")
	cmd.Flags().StringVar(&xlsxPath, "xlsx", "", "Also write the inventory as a spreadsheet")
	return cmd
}

func newApplyCommand() *cobra.Command {
	var noAutoShrink bool
	cmd := &cobra.Command{
		Use:   "apply <input.pptx> <replacements.json> <output.pptx>",
		Short: "Apply replacement content to a presentation",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := loadOptions()
			if err != nil {
				return err
			}
			if noAutoShrink {
				off := false
				opts.AutoShrink = &off
			}

			result, err := pptxstruct.Apply(args[0], args[1], args[2], opts)
			if err != nil {
				return fmt.Errorf("apply failed: %w", err)
			}
			output.NewReporter(os.Stdout).Apply(result, args[2])
			return nil
		},
	}
	cmd.Flags().BoolVar(&noAutoShrink, "no-auto-shrink", false, "Do not shrink fonts of overflowing paragraphs")
	return cmd
}

func newValidateCommand() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "validate <input.pptx> [content.json]",
		Short: "Check a presentation for structural and layout problems",
		Long: `Checks a presentation and, when a content file is given, compares it with
the planned slides. Exits 0 on PASS, 1 on FAIL and 2 on WARN.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := loadOptions()
			if err != nil {
				return err
			}
			var contentPath string
			if len(args) > 1 {
				contentPath = args[1]
			}

			result := pptxstruct.Validate(args[0], contentPath, opts)
			return report("PPTX Validation Report", result, asJSON)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the result as JSON")
	return cmd
}

func newLintCommand() *cobra.Command {
	var (
		inventoryPath string
		asJSON        bool
	)
	cmd := &cobra.Command{
		Use:   "lint <replacements.json>",
		Short: "Check a replacement file before applying it",
		Long: `Checks a replacement file against its JSON Schema and, with --inventory,
checks that every slide-N.shape-M address exists. Exits 0 on PASS, 1 on FAIL
and 2 on WARN.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := loadOptions()
			if err != nil {
				return err
			}
			result, err := pptxstruct.Lint(args[0], inventoryPath, opts)
			if err != nil {
				return err
			}
			return report("Replacement Lint Report", result, asJSON)
		},
	}
	cmd.Flags().StringVar(&inventoryPath, "inventory", "", "Inventory JSON to check addresses against")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the result as JSON")
	return cmd
}

// report prints a validation result and turns its status into the exit code.
func report(title string, result *models.ValidationResult, asJSON bool) error {
	if asJSON {
		data, err := output.ToJSON(result, true)
		if err != nil {
			return err
		}
		os.Stdout.Write(data)
	} else {
		output.NewReporter(os.Stdout).Validation(title, result)
	}
	if code := result.ExitCode(); code != 0 {
		return &exitError{code: code}
	}
	return nil
}
