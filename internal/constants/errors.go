package constants

import "errors"

// Configuration errors.
var (
	ErrNoEndpointConfigured = errors.New("no capture endpoint configured, use 'capture login' or --api")
	ErrNoSessionConfigured  = errors.New("no session configured, use 'capture login' or --session")
	ErrUnknownConfigKey     = errors.New("unknown configuration key")
	ErrEndpointRequired     = errors.New("capture endpoint is required")
	ErrUsernameRequired     = errors.New("username is required")
)

// Session errors.
var (
	ErrNoConfigPersister = errors.New("no config persister configured")
	ErrEmptySession      = errors.New("log on returned an empty session id")
	ErrLogOnFailed       = errors.New("log on failed")
	ErrSessionNotSaved   = errors.New("session could not be saved")
)

// Argument errors.
var (
	ErrInvalidIndex        = errors.New("invalid index")
	ErrInvalidItemType     = errors.New("item type must be 'document' or 'folder'")
	ErrInvalidFieldFormat  = errors.New("invalid field format, expected NAME=VALUE")
	ErrNoPagesInSource     = errors.New("source file contains no pages")
	ErrUnsupportedOutput   = errors.New("unsupported output format")
	ErrInvalidCopyMode     = errors.New("copy mode must be 'structure', 'fields' or 'all'")
	ErrDestinationRequired = errors.New("destination is required")
	ErrUploadOrDownload    = errors.New("exactly one of --upload or --out is required")
	ErrInvalidFieldRule    = errors.New("invalid field rule, expected TYPE:FIELD=PATTERN")
	ErrInvalidTableCell    = errors.New("invalid table cell")
)
