package client

import (
	"context"
	"fmt"

	"github.com/fivetwenty-io/capture-client/internal/constants"
	"github.com/fivetwenty-io/capture-client/pkg/capture"
)

// LocksClient implements capture.LocksClient.
type LocksClient struct {
	caller *caller
}

// NewLocksClient creates a new locks client.
func NewLocksClient(c *caller) *LocksClient {
	return &LocksClient{
		caller: c,
	}
}

// ForceUnlock implements capture.LocksClient.ForceUnlock.
func (c *LocksClient) ForceUnlock(ctx context.Context, item capture.LockedItem) error {
	err := c.caller.call(ctx, constants.OpForceUnlockItem, args{"item": item}, nil)
	if err != nil {
		return fmt.Errorf("unlocking item: %w", err)
	}

	return nil
}
