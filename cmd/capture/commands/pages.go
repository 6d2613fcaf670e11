package commands

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/capture-client/internal/constants"
	"github.com/fivetwenty-io/capture-client/pkg/capture"
)

// NewPagesCommand creates the pages command group
func NewPagesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "pages",
		Aliases: []string{"page", "p"},
		Short:   "Manage document pages",
		Long:    "Move, delete, reject and rotate pages, and work with page images and renditions",
	}

	cmd.AddCommand(newPagesSummaryCommand())
	cmd.AddCommand(newPagesMoveCommand())
	cmd.AddCommand(newPagesDeleteCommand())
	cmd.AddCommand(newPagesRejectCommand())
	cmd.AddCommand(newPagesRotateCommand())
	cmd.AddCommand(newPagesPropertiesCommand())
	cmd.AddCommand(newPagesImageCommand())
	cmd.AddCommand(newPagesSaveImageCommand())
	cmd.AddCommand(newPagesRenditionCommand())

	return cmd
}

func newPagesSummaryCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "summary DOCUMENT_ID",
		Short: "List the pages of a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, closeFn, err := CreateClient(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			pages, err := client.Pages().GetSummary(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to get page summary: %w", err)
			}

			return renderOutput(cmd.OutOrStdout(), pages, func(w io.Writer) error {
				table := tablewriter.NewWriter(w)
				table.Header("#", "ID", "Image", "Mime Type", "Rejected")

				for _, page := range pages {
					_ = table.Append(strconv.Itoa(page.PageIndex), page.ID, formatValue(page.ImageID), page.MimeType, strconv.FormatBool(page.Rejected))
				}

				return table.Render()
			})
		},
	}
}

func newPagesMoveCommand() *cobra.Command {
	var (
		insertIndex int
		byID        bool
	)

	cmd := &cobra.Command{
		Use:   "move SOURCE_DOCUMENT_ID DESTINATION_DOCUMENT_ID PAGE...",
		Short: "Move pages between documents",
		Long: `Move pages from one document into another at --index.

PAGE is a page position in the source document, or a page id with --by-id.
Moving within one document reorders its pages.`,
		Args: cobra.MinimumNArgs(3), //nolint:mnd // SOURCE DESTINATION PAGE
		RunE: func(cmd *cobra.Command, args []string) error {
			client, closeFn, err := CreateClient(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			if byID {
				err = client.Pages().MoveByID(cmd.Context(), args[0], args[1], args[2:], insertIndex)
			} else {
				var pageIndexes []int

				pageIndexes, err = parseIndexes(args[2:])
				if err != nil {
					return err
				}

				err = client.Pages().Move(cmd.Context(), &capture.PageMoveRequest{
					SourceDocumentID:      args[0],
					DestinationDocumentID: args[1],
					PageIndexes:           pageIndexes,
					InsertIndex:           insertIndex,
				})
			}

			if err != nil {
				return fmt.Errorf("failed to move pages: %w", err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Moved %d page(s) to document %s\n", len(args)-2, args[1])

			return nil
		},
	}

	cmd.Flags().IntVar(&insertIndex, "index", capture.AppendIndex, "position in the destination document (-1 appends)")
	cmd.Flags().BoolVar(&byID, "by-id", false, "address pages by id instead of position")

	return cmd
}

func newPagesDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete DOCUMENT_ID PAGE_INDEX...",
		Short: "Delete pages",
		Args:  cobra.MinimumNArgs(constants.MinimumArgumentCount),
		RunE: func(cmd *cobra.Command, args []string) error {
			pageIndexes, err := parseIndexes(args[1:])
			if err != nil {
				return err
			}

			client, closeFn, err := CreateClient(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			err = client.Pages().Delete(cmd.Context(), args[0], pageIndexes)
			if err != nil {
				return fmt.Errorf("failed to delete pages: %w", err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d page(s) from document %s\n", len(pageIndexes), args[0])

			return nil
		},
	}
}

func newPagesRejectCommand() *cobra.Command {
	var reason string

	cmd := &cobra.Command{
		Use:   "reject DOCUMENT_ID PAGE_INDEX...",
		Short: "Reject pages",
		Args:  cobra.MinimumNArgs(constants.MinimumArgumentCount),
		RunE: func(cmd *cobra.Command, args []string) error {
			pageIndexes, err := parseIndexes(args[1:])
			if err != nil {
				return err
			}

			client, closeFn, err := CreateClient(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			err = client.Pages().Reject(cmd.Context(), args[0], pageIndexes, reason)
			if err != nil {
				return fmt.Errorf("failed to reject pages: %w", err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Rejected %d page(s) of document %s\n", len(pageIndexes), args[0])

			return nil
		},
	}

	cmd.Flags().StringVarP(&reason, "reason", "r", "", "rejection reason")

	return cmd
}

func newPagesRotateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rotate DOCUMENT_ID PAGE_INDEX DEGREES",
		Short: "Set the rotation of a page",
		Args:  cobra.ExactArgs(3), //nolint:mnd // DOCUMENT_ID PAGE_INDEX DEGREES
		RunE: func(cmd *cobra.Command, args []string) error {
			pageIndex, err := parseIndex(args[1])
			if err != nil {
				return err
			}

			rotation, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("invalid rotation %q: %w", args[2], err)
			}

			client, closeFn, err := CreateClient(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			err = client.Pages().Update(cmd.Context(), args[0], []capture.PageUpdate{
				{PageIndex: pageIndex, Rotation: &rotation},
			})
			if err != nil {
				return fmt.Errorf("failed to update page: %w", err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Page %d of document %s rotated to %d\n", pageIndex, args[0], rotation)

			return nil
		},
	}
}

func newPagesPropertiesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "properties DOCUMENT_ID PAGE_INDEX [PROPERTY...]",
		Short: "Get page property values",
		Args:  cobra.MinimumNArgs(constants.MinimumArgumentCount),
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

			values, err := client.Pages().GetPropertyValues(cmd.Context(), args[0], pageIndex, args[2:]...)
			if err != nil {
				return fmt.Errorf("failed to get page properties: %w", err)
			}

			rows := make([][]string, 0, len(values))
			for _, name := range slices.Sorted(maps.Keys(values)) {
				rows = append(rows, []string{name, formatValue(values[name])})
			}

			return renderProperties(cmd.OutOrStdout(), values, rows)
		},
	}
}

func newPagesImageCommand() *cobra.Command {
	var (
		outPath string
		options capture.ImageOptions
	)

	cmd := &cobra.Command{
		Use:   "image IMAGE_ID",
		Short: "Download a page image",
		Long:  "Save a stored image locally, optionally scaled with --width/--height or converted with --format",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, closeFn, err := CreateClient(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			image, err := client.Pages().GetImage(cmd.Context(), args[0], &options)
			if err != nil {
				return fmt.Errorf("failed to get image: %w", err)
			}

			return saveImage(cmd.OutOrStdout(), outPath, image)
		},
	}

	cmd.Flags().StringVar(&outPath, "out", "", "local path to save the image to")
	cmd.Flags().IntVar(&options.Width, "width", 0, "scale to this width")
	cmd.Flags().IntVar(&options.Height, "height", 0, "scale to this height")
	cmd.Flags().StringVar(&options.Format, "format", "", "convert to this mime type")
	_ = cmd.MarkFlagRequired("out")

	return cmd
}

func newPagesSaveImageCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "save-image BATCH_ID FILE",
		Short: "Upload an image",
		Long:  "Store a local image in the image store and print its id",
		Args:  cobra.ExactArgs(constants.MinimumArgumentCount),
		RunE: func(cmd *cobra.Command, args []string) error {
			image, err := fileLoader.ReadImage(args[1])
			if err != nil {
				return err
			}

			client, closeFn, err := CreateClient(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			imageID, err := client.Pages().SaveImage(cmd.Context(), args[0], image)
			if err != nil {
				return fmt.Errorf("failed to save image: %w", err)
			}

			return renderIDs(cmd.OutOrStdout(), "Image", imageID)
		},
	}
}

func saveImage(w io.Writer, path string, image *capture.ImageData) error {
	err := fileLoader.WriteFile(path, image.Data)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(w, "Saved %s (%s, %d bytes)\n", path, image.MimeType, len(image.Data))

	return nil
}

// renditionArgs parses DOCUMENT_ID PAGE_INDEX RENDITION_INDEX.
func renditionArgs(args []string) (string, int, int, error) {
	indexes, err := parseIndexes(args[1:3])
	if err != nil {
		return "", 0, 0, err
	}

	return args[0], indexes[0], indexes[1], nil
}

func newPagesRenditionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rendition",
		Short: "Manage page renditions",
		Long:  "Store alternative images of a page and promote one to the page's source image",
	}

	var outPath string

	getCmd := &cobra.Command{
		Use:   "get DOCUMENT_ID PAGE_INDEX RENDITION_INDEX",
		Short: "Download a rendition",
		Args:  cobra.ExactArgs(3), //nolint:mnd // DOCUMENT_ID PAGE_INDEX RENDITION_INDEX
		RunE: func(cmd *cobra.Command, args []string) error {
			documentID, pageIndex, renditionIndex, err := renditionArgs(args)
			if err != nil {
				return err
			}

			client, closeFn, err := CreateClient(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			image, err := client.Pages().GetRendition(cmd.Context(), documentID, pageIndex, renditionIndex)
			if err != nil {
				return fmt.Errorf("failed to get rendition: %w", err)
			}

			return saveImage(cmd.OutOrStdout(), outPath, image)
		},
	}
	getCmd.Flags().StringVar(&outPath, "out", "", "local path to save the rendition to")
	_ = getCmd.MarkFlagRequired("out")

	cmd.AddCommand(&cobra.Command{
		Use:   "save DOCUMENT_ID PAGE_INDEX RENDITION_INDEX FILE",
		Short: "Store a rendition from a local image",
		Args:  cobra.ExactArgs(4), //nolint:mnd // DOCUMENT_ID PAGE_INDEX RENDITION_INDEX FILE
		RunE: func(cmd *cobra.Command, args []string) error {
			documentID, pageIndex, renditionIndex, err := renditionArgs(args)
			if err != nil {
				return err
			}

			image, err := fileLoader.ReadImage(args[3])
			if err != nil {
				return err
			}

			client, closeFn, err := CreateClient(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			err = client.Pages().SaveRendition(cmd.Context(), documentID, pageIndex, renditionIndex, image)
			if err != nil {
				return fmt.Errorf("failed to save rendition: %w", err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Saved rendition %d of page %d\n", renditionIndex, pageIndex)

			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "apply DOCUMENT_ID PAGE_INDEX RENDITION_INDEX",
		Short: "Use a rendition as the page's source image",
		Args:  cobra.ExactArgs(3), //nolint:mnd // DOCUMENT_ID PAGE_INDEX RENDITION_INDEX
		RunE: func(cmd *cobra.Command, args []string) error {
			documentID, pageIndex, renditionIndex, err := renditionArgs(args)
			if err != nil {
				return err
			}

			client, closeFn, err := CreateClient(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			err = client.Pages().SetSourceImageFromRendition(cmd.Context(), documentID, pageIndex, renditionIndex)
			if err != nil {
				return fmt.Errorf("failed to apply rendition: %w", err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Page %d now uses rendition %d\n", pageIndex, renditionIndex)

			return nil
		},
	})

	cmd.AddCommand(getCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "list DOCUMENT_ID PAGE_INDEX",
		Short: "List the renditions of a page",
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

			renditions, err := client.Pages().GetRenditionSummary(cmd.Context(), args[0], pageIndex)
			if err != nil {
				return fmt.Errorf("failed to list renditions: %w", err)
			}

			return renderOutput(cmd.OutOrStdout(), renditions, func(w io.Writer) error {
				table := tablewriter.NewWriter(w)
				table.Header("Rendition", "Mime Type", "Size")

				for _, rendition := range renditions {
					_ = table.Append(strconv.Itoa(rendition.RenditionIndex), rendition.MimeType, strconv.Itoa(rendition.Size))
				}

				return table.Render()
			})
		},
	})

	return cmd
}
