package commands

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/capture-client/internal/constants"
	"github.com/fivetwenty-io/capture-client/pkg/capture"
)

// NewFoldersCommand creates the folders command group
func NewFoldersCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "folders",
		Aliases: []string{"folder", "f"},
		Short:   "Manage folders",
		Long:    "Create, inspect, reorganize and review capture folders",
	}

	cmd.AddCommand(newFoldersCreateCommand())
	cmd.AddCommand(newFoldersGetCommand())
	cmd.AddCommand(newFoldersDeleteCommand())
	cmd.AddCommand(newFoldersMoveCommand())
	cmd.AddCommand(newFoldersSplitCommand())
	cmd.AddCommand(newFoldersStatusCommand())
	cmd.AddCommand(newFoldersFieldStatusCommand())
	cmd.AddCommand(newFoldersFieldsCommand())
	cmd.AddCommand(newFoldersUpdateFieldsCommand())

	return cmd
}

func newFoldersCreateCommand() *cobra.Command {
	var (
		parentID       string
		name           string
		folderTypeID   string
		insertIndex    int
		fields         []string
		onlineLearning int
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a folder",
		Long:  "Create a root folder, or a child of --parent at --index (-1 appends)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, closeFn, err := CreateClient(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			var folderID string

			if cmd.Flags().Changed("online-learning") {
				folderID, err = client.Folders().CreateOnlineLearning(cmd.Context(), onlineLearning)
				if err != nil {
					return fmt.Errorf("failed to create online learning folder: %w", err)
				}

				return renderIDs(cmd.OutOrStdout(), "Folder", folderID)
			}

			runtimeFields, err := parseFieldAssignments(fields)
			if err != nil {
				return err
			}

			folderID, err = client.Folders().Create(cmd.Context(), &capture.FolderCreateRequest{
				ParentID:     parentID,
				Name:         name,
				FolderTypeID: folderTypeID,
				Fields:       runtimeFields,
				InsertIndex:  insertIndex,
			})
			if err != nil {
				return fmt.Errorf("failed to create folder: %w", err)
			}

			return renderIDs(cmd.OutOrStdout(), "Folder", folderID)
		},
	}

	cmd.Flags().StringVar(&parentID, "parent", "", "parent folder id")
	cmd.Flags().StringVarP(&name, "name", "n", "", "folder name")
	cmd.Flags().StringVar(&folderTypeID, "type", "", "folder type id")
	cmd.Flags().IntVar(&insertIndex, "index", capture.AppendIndex, "insert position among siblings (-1 appends)")
	cmd.Flags().StringArrayVarP(&fields, "field", "f", nil, "initial field value NAME=VALUE (repeatable)")
	cmd.Flags().IntVar(&onlineLearning, "online-learning", constants.DefaultOnlineLearningDocumentCount, "create an online learning folder sized for this many documents")

	return cmd
}

func newFoldersGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get FOLDER_ID",
		Short: "Get folder details",
		Long:  "Display a folder with its child folders, documents and fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, closeFn, err := CreateClient(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			folder, err := client.Folders().Get(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to get folder: %w", err)
			}

			return renderOutput(cmd.OutOrStdout(), folder, func(w io.Writer) error {
				return folderTable(w, folder)
			})
		},
	}
}

func folderTable(w io.Writer, folder *capture.Folder) error {
	table := tablewriter.NewWriter(w)
	table.Header("Property", "Value")

	_ = table.Append("ID", folder.ID)
	_ = table.Append("Name", formatValue(folder.Name))
	_ = table.Append("Parent", formatValue(folder.ParentID))
	_ = table.Append("Folder Type", formatValue(folder.FolderTypeID))
	_ = table.Append("Depth", strconv.Itoa(folder.Depth))
	_ = table.Append("Valid", strconv.FormatBool(folder.Valid))
	_ = table.Append("Review Valid", strconv.FormatBool(folder.ReviewValid))

	err := table.Render()
	if err != nil {
		return err
	}

	if len(folder.Folders) > 0 || len(folder.Documents) > 0 {
		_, _ = fmt.Fprintln(w, "\nChildren:")

		children := tablewriter.NewWriter(w)
		children.Header("#", "Kind", "ID", "Name", "Detail")

		for i, child := range folder.Folders {
			_ = children.Append(strconv.Itoa(i), "folder", child.ID, child.Name, "")
		}

		for i, doc := range folder.Documents {
			_ = children.Append(strconv.Itoa(i), "document", doc.ID, doc.Name, fmt.Sprintf("%s, %d pages", formatValue(doc.DocumentType), doc.PageCount))
		}

		err = children.Render()
		if err != nil {
			return err
		}
	}

	if len(folder.Fields) > 0 {
		_, _ = fmt.Fprintln(w, "\nFields:")

		return fieldTable(w, folder.Fields)
	}

	return nil
}

func newFoldersDeleteCommand() *cobra.Command {
	var (
		keepDocuments bool
		force         bool
	)

	cmd := &cobra.Command{
		Use:   "delete FOLDER_ID",
		Short: "Delete a folder",
		Long:  "Delete a folder with its subtree. --force deletes even when items are locked",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, closeFn, err := CreateClient(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			var options *capture.DeleteOptions
			if keepDocuments {
				options = &capture.DeleteOptions{KeepDocuments: true}
			}

			err = client.Folders().Delete(cmd.Context(), args[0], options, force)
			if err != nil {
				return fmt.Errorf("failed to delete folder: %w", err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted folder %s\n", args[0])

			return nil
		},
	}

	cmd.Flags().BoolVar(&keepDocuments, "keep-documents", false, "move documents to the parent folder instead of deleting them")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "delete even when items are locked")

	return cmd
}

func newFoldersMoveCommand() *cobra.Command {
	var (
		newParentID string
		index       int
	)

	cmd := &cobra.Command{
		Use:   "move FOLDER_ID",
		Short: "Move a folder",
		Long:  "Move a folder under --parent at --index. The folder must stay at the same depth",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, closeFn, err := CreateClient(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			err = client.Folders().Move(cmd.Context(), args[0], newParentID, index)
			if err != nil {
				return fmt.Errorf("failed to move folder: %w", err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Moved folder %s\n", args[0])

			return nil
		},
	}

	cmd.Flags().StringVar(&newParentID, "parent", "", "new parent folder id")
	cmd.Flags().IntVar(&index, "index", capture.AppendIndex, "position among the new siblings (-1 appends)")

	return cmd
}

func newFoldersSplitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "split FOLDER_ID DOCUMENT_INDEX",
		Short: "Split a folder",
		Long:  "Move the documents from DOCUMENT_INDEX onward into a new sibling folder",
		Args:  cobra.ExactArgs(constants.MinimumArgumentCount),
		RunE: func(cmd *cobra.Command, args []string) error {
			documentIndex, err := parseIndex(args[1])
			if err != nil {
				return err
			}

			client, closeFn, err := CreateClient(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			folderID, err := client.Folders().Split(cmd.Context(), args[0], documentIndex)
			if err != nil {
				return fmt.Errorf("failed to split folder: %w", err)
			}

			return renderIDs(cmd.OutOrStdout(), "Folder", folderID)
		},
	}
}

func newFoldersStatusCommand() *cobra.Command {
	var message string

	cmd := &cobra.Command{
		Use:   "status FOLDER_ID STATUS",
		Short: "Set folder review status",
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

			err = client.Folders().SetStatus(cmd.Context(), args[0], status, message)
			if err != nil {
				return fmt.Errorf("failed to set folder status: %w", err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Folder %s is now %s\n", args[0], status)

			return nil
		},
	}

	cmd.Flags().StringVarP(&message, "message", "m", "", "reason recorded with the transition")

	return cmd
}

// fieldStatusFlags are shared by the folder and document field-status commands.
type fieldStatusFlags struct {
	message   string
	value     string
	confident bool
}

func (f *fieldStatusFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.message, "message", "m", "", "error message for Invalid")
	cmd.Flags().StringVar(&f.value, "value", "", "confirmed value for Confirmed")
	cmd.Flags().BoolVar(&f.confident, "confident", false, "flag value for ExtractionConfident")
}

func (f *fieldStatusFlags) request(fieldRef, statusName string) (*capture.FieldStatusRequest, error) {
	status, err := capture.ParseFieldStatus(statusName)
	if err != nil {
		return nil, err
	}

	field, err := parseFieldRef(fieldRef)
	if err != nil {
		return nil, err
	}

	return &capture.FieldStatusRequest{
		Field:        field,
		Status:       status,
		ErrorMessage: f.message,
		Value:        f.value,
		Confident:    f.confident,
	}, nil
}

func newFoldersFieldStatusCommand() *cobra.Command {
	flags := &fieldStatusFlags{}

	cmd := &cobra.Command{
		Use:   "field-status FOLDER_ID FIELD STATUS",
		Short: "Set a folder field status",
		Long:  "Set the status of a folder field. Verified requires the folder to be valid",
		Args:  cobra.ExactArgs(3), //nolint:mnd // FOLDER_ID FIELD STATUS
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

			err = client.Folders().SetFieldStatus(cmd.Context(), args[0], request)
			if err != nil {
				return fmt.Errorf("failed to set folder field status: %w", err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Field %s is now %s\n", request.Field, request.Status)

			return nil
		},
	}

	flags.register(cmd)

	return cmd
}

func newFoldersFieldsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "fields FOLDER_ID [FIELD...]",
		Short: "Get folder field values",
		Long:  "Display the named folder fields, or every field when none are named",
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

			values, err := client.Folders().GetFieldValues(cmd.Context(), args[0], fields...)
			if err != nil {
				return fmt.Errorf("failed to get folder fields: %w", err)
			}

			return renderFieldValues(cmd.OutOrStdout(), values)
		},
	}
}

func newFoldersUpdateFieldsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "update-fields FOLDER_ID NAME=VALUE...",
		Short: "Update folder field values",
		Long:  "Write one or more folder field values in a single batch",
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

			err = client.Folders().UpdateFieldValues(cmd.Context(), args[0], fields...)
			if err != nil {
				return fmt.Errorf("failed to update folder fields: %w", err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Updated %d field(s) on folder %s\n", len(fields), args[0])

			return nil
		},
	}
}
