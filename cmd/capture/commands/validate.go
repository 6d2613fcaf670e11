package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/capture-client/internal/constants"
	"github.com/fivetwenty-io/capture-client/pkg/capture"
)

// NewValidateCommand creates the validate command group
func NewValidateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Run server-side validation",
		Long:  "Validate documents and field values with the rules configured on the capture service",
	}

	cmd.AddCommand(newValidateDocumentCommand())
	cmd.AddCommand(newValidateFieldsCommand())
	cmd.AddCommand(newValidateAllCommand())
	cmd.AddCommand(newValidateRunCommand())
	cmd.AddCommand(newValidateReviewCommand())
	cmd.AddCommand(newValidateContextCommand())

	return cmd
}

func newValidateDocumentCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "document DOCUMENT_ID",
		Short: "Validate a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, closeFn, err := CreateClient(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			valid, err := client.Validation().ValidateDocument(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to validate document: %w", err)
			}

			return renderProperties(cmd.OutOrStdout(), map[string]bool{"valid": valid}, [][]string{
				{"Document", args[0]},
				{"Valid", strconv.FormatBool(valid)},
			})
		},
	}
}

func newValidateFieldsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "field DOCUMENT_TYPE_ID NAME=VALUE...",
		Short: "Validate field values against a document type",
		Long:  "Validate candidate field values without storing them. Each field is validated on its own",
		Args:  cobra.MinimumNArgs(constants.MinimumArgumentCount),
		RunE: func(cmd *cobra.Command, args []string) error {
			fields, err := parseFieldAssignments(args[1:])
			if err != nil {
				return err
			}

			client, closeFn, err := CreateClient(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			var results []capture.FieldValidationResult

			if len(fields) == 1 {
				var result *capture.FieldValidationResult

				result, err = client.Validation().ValidateField(cmd.Context(), args[0], fields[0])
				if err == nil {
					results = []capture.FieldValidationResult{*result}
				}
			} else {
				results, err = client.Validation().ValidateFields(cmd.Context(), args[0], fields)
			}

			if err != nil {
				return fmt.Errorf("failed to validate fields: %w", err)
			}

			return renderValidationResults(cmd.OutOrStdout(), results, results)
		},
	}
}

func newValidateAllCommand() *cobra.Command {
	var state capture.DocumentState

	cmd := &cobra.Command{
		Use:   "all DOCUMENT_TYPE_ID NAME=VALUE...",
		Short: "Validate a complete set of field values",
		Long:  "Validate field values together, including cross-field rules, in the context of a document state",
		Args:  cobra.MinimumNArgs(constants.MinimumArgumentCount),
		RunE: func(cmd *cobra.Command, args []string) error {
			fields, err := parseFieldAssignments(args[1:])
			if err != nil {
				return err
			}

			client, closeFn, err := CreateClient(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			result, err := client.Validation().ValidateAllFields(cmd.Context(), args[0], fields, &state)
			if err != nil {
				return fmt.Errorf("failed to validate fields: %w", err)
			}

			return renderValidationResults(cmd.OutOrStdout(), result, result.Fields)
		},
	}

	cmd.Flags().IntVar(&state.PageCount, "page-count", 0, "page count of the document being validated")
	cmd.Flags().BoolVar(&state.Rejected, "rejected", false, "validate as a rejected document")
	cmd.Flags().BoolVar(&state.ReviewValid, "review-valid", false, "validate as a review valid document")

	return cmd
}

func newValidateRunCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "run DOCUMENT_ID [FIELD...]",
		Short: "Run field validation on a stored document",
		Long:  "Run validation for the named fields of a document, or every field when none are named",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fields, err := parseFieldRefs(args[1:])
			if err != nil {
				return err
			}

			client, closeFn, err := CreateClient(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			result, err := client.Validation().RunFieldsValidation(cmd.Context(), args[0], fields...)
			if err != nil {
				return fmt.Errorf("failed to run field validation: %w", err)
			}

			return renderValidationResults(cmd.OutOrStdout(), result, result.Fields)
		},
	}
}

func newValidateReviewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "review DOCUMENT_ID",
		Short: "Validate a document for review",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, closeFn, err := CreateClient(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			result, err := client.Validation().ValidateForReview(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to validate for review: %w", err)
			}

			return renderProperties(cmd.OutOrStdout(), result, [][]string{
				{"Review Valid", strconv.FormatBool(result.ReviewValid)},
				{"Message", formatValue(result.Message)},
			})
		},
	}
}

func newValidateContextCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "context DOCUMENT_ID",
		Short: "Show the validation execution context of a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, closeFn, err := CreateClient(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			executionContext, err := client.Validation().GetExecutionContext(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to get validation context: %w", err)
			}

			return renderProperties(cmd.OutOrStdout(), executionContext, [][]string{
				{"Document", executionContext.DocumentID},
				{"Document Type", formatValue(executionContext.DocumentTypeID)},
				{"Folder", executionContext.FolderID},
				{"Page Count", strconv.Itoa(executionContext.PageCount)},
			})
		},
	}
}
