package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/capture-client/pkg/capture"
)

// NewUnlockCommand creates the unlock command
func NewUnlockCommand() *cobra.Command {
	var itemType string

	cmd := &cobra.Command{
		Use:   "unlock ITEM_ID",
		Short: "Force unlock a folder or document",
		Long:  "Release a lock held by another session on a folder or document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := parseItemType(itemType)
			if err != nil {
				return err
			}

			client, closeFn, err := CreateClient(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			err = client.Locks().ForceUnlock(cmd.Context(), capture.LockedItem{ID: args[0], Type: kind})
			if err != nil {
				return fmt.Errorf("failed to unlock %s: %w", itemType, err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Unlocked %s %s\n", itemType, args[0])

			return nil
		},
	}

	cmd.Flags().StringVarP(&itemType, "type", "t", "document", "item type (document, folder)")

	return cmd
}
