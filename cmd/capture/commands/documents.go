package commands

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/capture-client/internal/constants"
	"github.com/fivetwenty-io/capture-client/internal/source"
	"github.com/fivetwenty-io/capture-client/pkg/capture"
)

// fileLoader reads uploads and writes downloads for the document and page commands.
var fileLoader = source.NewLoader(nil)

var copyModes = map[string]capture.CopyMode{
	"structure": capture.CopyModeStructure,
	"fields":    capture.CopyModeFields,
	"all":       capture.CopyModeAll,
}

// NewDocumentsCommand creates the documents command group
func NewDocumentsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "documents",
		Aliases: []string{"document", "docs", "d"},
		Short:   "Manage documents",
		Long:    "Create, inspect, reorganize, classify and review capture documents",
	}

	cmd.AddCommand(newDocumentsCreateCommand())
	cmd.AddCommand(newDocumentsCreateWithPagesCommand())
	cmd.AddCommand(newDocumentsGetCommand())
	cmd.AddCommand(newDocumentsDeleteCommand())
	cmd.AddCommand(newDocumentsMoveCommand())
	cmd.AddCommand(newDocumentsCopyCommand())
	cmd.AddCommand(newDocumentsSplitCommand())
	cmd.AddCommand(newDocumentsMergeCommand())
	cmd.AddCommand(newDocumentsRejectCommand())
	cmd.AddCommand(newDocumentsUnrejectCommand())
	cmd.AddCommand(newDocumentsRejectedPagesCommand())
	cmd.AddCommand(newDocumentsTypeCommand())
	cmd.AddCommand(newDocumentsStatusCommand())
	cmd.AddCommand(newDocumentsFieldStatusCommand())
	cmd.AddCommand(newDocumentsFieldCommand())
	cmd.AddCommand(newDocumentsAlternativesCommand())
	cmd.AddCommand(newDocumentsUpdateFieldsCommand())
	cmd.AddCommand(newDocumentsSourceCommand())
	cmd.AddCommand(newDocumentsFileCommand())
	cmd.AddCommand(newDocumentsExtensionCommand())

	return cmd
}

// documentCreateFlags are shared by create and create-with-pages.
type documentCreateFlags struct {
	parentID       string
	name           string
	documentTypeID string
	insertIndex    int
	fields         []string
}

func (f *documentCreateFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.parentID, "parent", "", "parent folder id (a new folder is created when omitted)")
	cmd.Flags().StringVarP(&f.name, "name", "n", "", "document name")
	cmd.Flags().StringVar(&f.documentTypeID, "type", "", "document type id")
	cmd.Flags().IntVar(&f.insertIndex, "index", capture.AppendIndex, "insert position among sibling documents (-1 appends)")
	cmd.Flags().StringArrayVarP(&f.fields, "field", "f", nil, "initial field value NAME=VALUE (repeatable)")
}

func (f *documentCreateFlags) request() (*capture.DocumentCreateRequest, error) {
	fields, err := parseFieldAssignments(f.fields)
	if err != nil {
		return nil, err
	}

	return &capture.DocumentCreateRequest{
		ParentID:       f.parentID,
		Name:           f.name,
		Fields:         fields,
		InsertIndex:    f.insertIndex,
		DocumentTypeID: f.documentTypeID,
	}, nil
}

func renderCreatedDocument(w io.Writer, created *capture.CreatedDocument) error {
	return renderProperties(w, created, [][]string{
		{"Document", created.DocumentID},
		{"Folder", created.FolderID},
	})
}

func newDocumentsCreateCommand() *cobra.Command {
	flags := &documentCreateFlags{}

	var filePath string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a document",
		Long:  "Create a document, optionally from a file already on the capture server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			request, err := flags.request()
			if err != nil {
				return err
			}

			request.FilePath = filePath

			client, closeFn, err := CreateClient(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			created, err := client.Documents().Create(cmd.Context(), request)
			if err != nil {
				return fmt.Errorf("failed to create document: %w", err)
			}

			return renderCreatedDocument(cmd.OutOrStdout(), created)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&filePath, "server-file", "", "path of a file on the capture server to create the document from")

	return cmd
}

func newDocumentsCreateWithPagesCommand() *cobra.Command {
	flags := &documentCreateFlags{}

	cmd := &cobra.Command{
		Use:   "create-with-pages FILE...",
		Short: "Create a document from local files",
		Long:  "Create a document whose pages come from local images. Each PDF page becomes its own page",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			request, err := flags.request()
			if err != nil {
				return err
			}

			pages, err := fileLoader.ReadPages(args...)
			if err != nil {
				return err
			}

			client, closeFn, err := CreateClient(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			created, err := client.Documents().CreateWithPages(cmd.Context(), &capture.DocumentWithPagesCreateRequest{
				DocumentCreateRequest: *request,
				Pages:                 pages,
			})
			if err != nil {
				return fmt.Errorf("failed to create document: %w", err)
			}

			return renderCreatedDocument(cmd.OutOrStdout(), created)
		},
	}

	flags.register(cmd)

	return cmd
}

func newDocumentsGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get DOCUMENT_ID",
		Short: "Get document details",
		Long:  "Display a document with its pages and fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, closeFn, err := CreateClient(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			doc, err := client.Documents().Get(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to get document: %w", err)
			}

			return renderOutput(cmd.OutOrStdout(), doc, func(w io.Writer) error {
				return documentTable(w, doc)
			})
		},
	}
}

func documentTable(w io.Writer, doc *capture.Document) error {
	documentType := constants.NotAvailable
	if doc.DocumentType != nil {
		documentType = formatValue(doc.DocumentType.ID)
	}

	table := tablewriter.NewWriter(w)
	table.Header("Property", "Value")

	_ = table.Append("ID", doc.ID)
	_ = table.Append("Name", formatValue(doc.Name))
	_ = table.Append("Folder", doc.FolderID)
	_ = table.Append("Document Type", documentType)
	_ = table.Append("Classification Confident", strconv.FormatBool(doc.ClassificationConfident))
	_ = table.Append("Valid", strconv.FormatBool(doc.Valid))
	_ = table.Append("Review Valid", strconv.FormatBool(doc.ReviewValid))
	_ = table.Append("Rejected", strconv.FormatBool(doc.Rejected))

	if doc.Rejected {
		_ = table.Append("Rejection Reason", formatValue(doc.RejectionReason))
	}

	err := table.Render()
	if err != nil {
		return err
	}

	if len(doc.Pages) > 0 {
		_, _ = fmt.Fprintln(w, "\nPages:")

		pages := tablewriter.NewWriter(w)
		pages.Header("#", "ID", "Mime Type", "Rotation", "Rejected")

		for i, page := range doc.Pages {
			_ = pages.Append(strconv.Itoa(i), page.ID, formatValue(page.MimeType), strconv.Itoa(page.Rotation), strconv.FormatBool(page.Rejected))
		}

		err = pages.Render()
		if err != nil {
			return err
		}
	}

	if len(doc.Fields) > 0 {
		_, _ = fmt.Fprintln(w, "\nFields:")

		return fieldTable(w, doc.Fields)
	}

	return nil
}

func newDocumentsDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete DOCUMENT_ID...",
		Short: "Delete documents",
		Long:  "Delete one document, or several in a single call",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, closeFn, err := CreateClient(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			if len(args) == 1 {
				err = client.Documents().Delete(cmd.Context(), args[0])
			} else {
				err = client.Documents().DeleteMany(cmd.Context(), args)
			}

			if err != nil {
				return fmt.Errorf("failed to delete documents: %w", err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d document(s)\n", len(args))

			return nil
		},
	}
}

func newDocumentsMoveCommand() *cobra.Command {
	var index int

	cmd := &cobra.Command{
		Use:   "move DOCUMENT_ID FOLDER_ID",
		Short: "Move a document to another folder",
		Args:  cobra.ExactArgs(constants.MinimumArgumentCount),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, closeFn, err := CreateClient(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			err = client.Documents().Move(cmd.Context(), args[0], args[1], index)
			if err != nil {
				return fmt.Errorf("failed to move document: %w", err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Moved document %s to folder %s\n", args[0], args[1])

			return nil
		},
	}

	cmd.Flags().IntVar(&index, "index", capture.AppendIndex, "position among the destination documents (-1 appends)")

	return cmd
}

func newDocumentsCopyCommand() *cobra.Command {
	var (
		mode       string
		fieldNames []string
		withPages  bool
		index      int
	)

	cmd := &cobra.Command{
		Use:   "copy DOCUMENT_ID [FOLDER_ID]",
		Short: "Copy a document",
		Long: `Copy a document into FOLDER_ID.

--mode structure copies the classification only, fields also copies field
values (limited by --field) and all copies pages too. --with-pages copies the
document with its pages into its own folder at --index.`,
		Args: cobra.RangeArgs(1, constants.MinimumArgumentCount),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, closeFn, err := CreateClient(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			var documentID string

			if withPages {
				documentID, err = client.Documents().CopyWithPages(cmd.Context(), args[0], index)
				if err != nil {
					return fmt.Errorf("failed to copy document: %w", err)
				}

				return renderIDs(cmd.OutOrStdout(), "Document", documentID)
			}

			if len(args) < constants.MinimumArgumentCount {
				return fmt.Errorf("%w: FOLDER_ID", constants.ErrDestinationRequired)
			}

			copyMode, ok := copyModes[strings.ToLower(mode)]
			if !ok {
				return fmt.Errorf("%w: %q", constants.ErrInvalidCopyMode, mode)
			}

			documentID, err = client.Documents().Copy(cmd.Context(), &capture.DocumentCopyRequest{
				DocumentID:          args[0],
				DestinationFolderID: args[1],
				FieldNames:          fieldNames,
				Mode:                copyMode,
			})
			if err != nil {
				return fmt.Errorf("failed to copy document: %w", err)
			}

			return renderIDs(cmd.OutOrStdout(), "Document", documentID)
		},
	}

	cmd.Flags().StringVar(&mode, "mode", "structure", "copy mode (structure, fields, all)")
	cmd.Flags().StringSliceVar(&fieldNames, "field", nil, "field names to copy in fields mode")
	cmd.Flags().BoolVar(&withPages, "with-pages", false, "copy the document and its pages within its folder")
	cmd.Flags().IntVar(&index, "index", capture.AppendIndex, "position of the copy for --with-pages (-1 appends)")

	return cmd
}

func newDocumentsSplitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "split DOCUMENT_ID PAGE_INDEX",
		Short: "Split a document",
		Long:  "Move the pages from PAGE_INDEX onward into a new document placed right after the original",
		Args:  cobra.ExactArgs(constants.MinimumArgumentCount),
		RunE: func(cmd *cobra.Command, args []string) error {
			pageIndex, err := parseIndex(args[1])
			if err != nil {
				return err
			}

			client, closeFn, err := CreateClient(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			documentID, err := client.Documents().Split(cmd.Context(), args[0], pageIndex)
			if err != nil {
				return fmt.Errorf("failed to split document: %w", err)
			}

			return renderIDs(cmd.OutOrStdout(), "Document", documentID)
		},
	}
}

func newDocumentsMergeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "merge DOCUMENT_ID DOCUMENT_ID...",
		Short: "Merge documents",
		Long:  "Merge the pages of the listed documents, in order, into a new document",
		Args:  cobra.MinimumNArgs(constants.MinimumArgumentCount),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, closeFn, err := CreateClient(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			documentID, err := client.Documents().Merge(cmd.Context(), args)
			if err != nil {
				return fmt.Errorf("failed to merge documents: %w", err)
			}

			return renderIDs(cmd.OutOrStdout(), "Document", documentID)
		},
	}
}

func newDocumentsRejectCommand() *cobra.Command {
	var reason string

	cmd := &cobra.Command{
		Use:   "reject DOCUMENT_ID",
		Short: "Reject a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, closeFn, err := CreateClient(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			err = client.Documents().Reject(cmd.Context(), args[0], reason)
			if err != nil {
				return fmt.Errorf("failed to reject document: %w", err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Rejected document %s\n", args[0])

			return nil
		},
	}

	cmd.Flags().StringVarP(&reason, "reason", "r", "", "rejection reason")

	return cmd
}

func newDocumentsUnrejectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "unreject DOCUMENT_ID...",
		Short: "Clear document rejections",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, closeFn, err := CreateClient(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			err = client.Documents().Unreject(cmd.Context(), args)
			if err != nil {
				return fmt.Errorf("failed to unreject documents: %w", err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Unrejected %d document(s)\n", len(args))

			return nil
		},
	}
}

func newDocumentsRejectedPagesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rejected-pages DOCUMENT_ID",
		Short: "List rejected pages",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, closeFn, err := CreateClient(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			rejected, err := client.Documents().GetRejectedPages(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to get rejected pages: %w", err)
			}

			return renderOutput(cmd.OutOrStdout(), rejected, func(w io.Writer) error {
				table := tablewriter.NewWriter(w)
				table.Header("Page", "Reason")

				for _, pageIndex := range rejected.PageIndexes {
					_ = table.Append(strconv.Itoa(pageIndex), formatValue(rejected.Reasons[pageIndex]))
				}

				return table.Render()
			})
		},
	}
}

func newDocumentsTypeCommand() *cobra.Command {
	var (
		confidence float64
		confident  bool
	)

	cmd := &cobra.Command{
		Use:   "type DOCUMENT_ID DOCUMENT_TYPE_ID",
		Short: "Classify a document",
		Long:  "Set the document type. --confidence or --confident also records the classification confidence",
		Args:  cobra.ExactArgs(constants.MinimumArgumentCount),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, closeFn, err := CreateClient(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			documentType := capture.DocumentType{ID: args[1]}

			if cmd.Flags().Changed("confidence") || cmd.Flags().Changed("confident") {
				err = client.Documents().UpdateTypeWithConfidence(cmd.Context(), args[0], documentType, confident, confidence)
			} else {
				err = client.Documents().UpdateType(cmd.Context(), args[0], documentType)
			}

			if err != nil {
				return fmt.Errorf("failed to update document type: %w", err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Document %s is now %s\n", args[0], args[1])

			return nil
		},
	}

	cmd.Flags().Float64Var(&confidence, "confidence", 0, "classification confidence level")
	cmd.Flags().BoolVar(&confident, "confident", false, "mark the classification as confident")

	return cmd
}

func newDocumentsStatusCommand() *cobra.Command {
	var message string

	cmd := &cobra.Command{
		Use:   "status DOCUMENT_ID STATUS",
		Short: "Set document review status",
		Long:  "Apply a review transition: ReviewInvalid, ReviewValid, Override or Restore",
		Args:  cobra.ExactArgs(constants.MinimumArgumentCount),
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := capture.ParseItemStatus(args[1])
			if err != nil {
				return err
			}

			client, closeFn, err := CreateClient(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			err = client.Documents().SetStatus(cmd.Context(), args[0], status, message)
			if err != nil {
				return fmt.Errorf("failed to set document status: %w", err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Document %s is now %s\n", args[0], status)

			return nil
		},
	}

	cmd.Flags().StringVarP(&message, "message", "m", "", "reason recorded with the transition")

	return cmd
}

func newDocumentsFieldStatusCommand() *cobra.Command {
	flags := &fieldStatusFlags{}

	cmd := &cobra.Command{
		Use:   "field-status DOCUMENT_ID FIELD STATUS",
		Short: "Set a document field status",
		Long:  "Set the status of a document field. Verified requires the document to be valid",
		Args:  cobra.ExactArgs(3), //nolint:mnd // DOCUMENT_ID FIELD STATUS
		RunE: func(cmd *cobra.Command, args []string) error {
			request, err := flags.request(args[1], args[2])
			if err != nil {
				return err
			}

			client, closeFn, err := CreateClient(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			err = client.Documents().SetFieldStatus(cmd.Context(), args[0], request)
			if err != nil {
				return fmt.Errorf("failed to set document field status: %w", err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Field %s is now %s\n", request.Field, request.Status)

			return nil
		},
	}

	flags.register(cmd)

	return cmd
}

func newDocumentsFieldCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "field DOCUMENT_ID FIELD",
		Short: "Get a document field value",
		Long:  "Display one field. FIELD is a name or id, optionally followed by [ROW,COLUMN]",
		Args:  cobra.ExactArgs(constants.MinimumArgumentCount),
		RunE: func(cmd *cobra.Command, args []string) error {
			field, err := parseFieldRef(args[1])
			if err != nil {
				return err
			}

			client, closeFn, err := CreateClient(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			value, err := client.Documents().GetFieldValue(cmd.Context(), args[0], field)
			if err != nil {
				return fmt.Errorf("failed to get document field: %w", err)
			}

			return renderFieldValues(cmd.OutOrStdout(), []capture.FieldValue{*value})
		},
	}
}

func newDocumentsAlternativesCommand() *cobra.Command {
	var maxAlternatives int

	cmd := &cobra.Command{
		Use:   "alternatives DOCUMENT_ID FIELD...",
		Short: "Get extracted alternatives for document fields",
		Args:  cobra.MinimumNArgs(constants.MinimumArgumentCount),
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

			alternatives, err := client.Documents().GetFieldAlternatives(cmd.Context(), args[0], maxAlternatives, fields...)
			if err != nil {
				return fmt.Errorf("failed to get field alternatives: %w", err)
			}

			return renderOutput(cmd.OutOrStdout(), alternatives, func(w io.Writer) error {
				table := tablewriter.NewWriter(w)
				table.Header("Field", "#", "Value", "Confidence")

				for _, field := range alternatives {
					for i, alternative := range field.Alternatives {
						_ = table.Append(field.Key(), strconv.Itoa(i), alternative.Value, strconv.FormatFloat(alternative.Confidence, 'f', -1, 64))
					}
				}

				return table.Render()
			})
		},
	}

	cmd.Flags().IntVar(&maxAlternatives, "max", constants.DefaultAlternativesPerField, "maximum alternatives per field")

	return cmd
}

func newDocumentsUpdateFieldsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "update-fields DOCUMENT_ID NAME=VALUE...",
		Short: "Update document field values",
		Long:  "Write one or more document field values in a single batch. NAME may carry [ROW,COLUMN]",
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

			err = client.Documents().UpdateFieldValues(cmd.Context(), args[0], fields...)
			if err != nil {
				return fmt.Errorf("failed to update document fields: %w", err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Updated %d field(s) on document %s\n", len(fields), args[0])

			return nil
		},
	}
}

func newDocumentsSourceCommand() *cobra.Command {
	var (
		uploadPath string
		outPath    string
	)

	cmd := &cobra.Command{
		Use:   "source DOCUMENT_ID",
		Short: "Upload or download a document source file",
		Long:  "Replace the source file with --upload, or save it locally with --out",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if (uploadPath == "") == (outPath == "") {
				return constants.ErrUploadOrDownload
			}

			client, closeFn, err := CreateClient(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			var file *capture.SourceFile

			if uploadPath != "" {
				file, err = fileLoader.ReadSourceFile(uploadPath)
				if err != nil {
					return err
				}

				err = client.Documents().UpdateSourceFile(cmd.Context(), args[0], file)
				if err != nil {
					return fmt.Errorf("failed to update source file: %w", err)
				}

				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Uploaded %s (%s) to document %s\n", file.FileName, file.MimeType, args[0])

				return nil
			}

			file, err = client.Documents().GetSourceFile(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to get source file: %w", err)
			}

			err = fileLoader.WriteFile(outPath, file.Data)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Saved %s (%d bytes)\n", outPath, len(file.Data))

			return nil
		},
	}

	cmd.Flags().StringVar(&uploadPath, "upload", "", "local file to upload as the source file")
	cmd.Flags().StringVar(&outPath, "out", "", "local path to save the source file to")

	return cmd
}

func newDocumentsFileCommand() *cobra.Command {
	var (
		outPath  string
		fileType string
	)

	cmd := &cobra.Command{
		Use:   "file DOCUMENT_ID",
		Short: "Download a generated document file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, closeFn, err := CreateClient(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			data, err := client.Documents().GetFile(cmd.Context(), args[0], fileType)
			if err != nil {
				return fmt.Errorf("failed to get document file: %w", err)
			}

			err = fileLoader.WriteFile(outPath, data)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Saved %s (%d bytes)\n", outPath, len(data))

			return nil
		},
	}

	cmd.Flags().StringVar(&outPath, "out", "", "local path to save the file to")
	cmd.Flags().StringVar(&fileType, "type", "", "file type to generate (service default when omitted)")
	_ = cmd.MarkFlagRequired("out")

	return cmd
}

func newDocumentsExtensionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extension",
		Short: "Manage document text extensions",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "get DOCUMENT_ID NAME",
		Short: "Get a text extension",
		Args:  cobra.ExactArgs(constants.MinimumArgumentCount),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, closeFn, err := CreateClient(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			value, err := client.Documents().GetTextExtension(cmd.Context(), args[0], args[1])
			if err != nil {
				return fmt.Errorf("failed to get text extension: %w", err)
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), value)

			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set DOCUMENT_ID NAME VALUE",
		Short: "Save a text extension",
		Args:  cobra.ExactArgs(3), //nolint:mnd // DOCUMENT_ID NAME VALUE
		RunE: func(cmd *cobra.Command, args []string) error {
			client, closeFn, err := CreateClient(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			err = client.Documents().SaveTextExtension(cmd.Context(), args[0], args[1], args[2])
			if err != nil {
				return fmt.Errorf("failed to save text extension: %w", err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Saved extension %s\n", args[1])

			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete DOCUMENT_ID NAME",
		Short: "Delete an extension",
		Args:  cobra.ExactArgs(constants.MinimumArgumentCount),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, closeFn, err := CreateClient(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			err = client.Documents().DeleteExtension(cmd.Context(), args[0], args[1])
			if err != nil {
				return fmt.Errorf("failed to delete extension: %w", err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted extension %s\n", args[1])

			return nil
		},
	})

	return cmd
}
