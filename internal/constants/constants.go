package constants

import "time"

// File and directory permissions.
const (
	// ConfigDirPerm is the permission for configuration directories.
	ConfigDirPerm = 0750

	// ConfigFilePerm is the permission for configuration files.
	ConfigFilePerm = 0600

	// OutputFilePerm is the permission for downloaded documents and images.
	OutputFilePerm = 0640
)

// HTTP and network timeouts.
const (
	// DefaultHTTPTimeout is the default timeout for HTTP requests.
	DefaultHTTPTimeout = 30 * time.Second

	// ShortHTTPTimeout is used for log on and log off.
	ShortHTTPTimeout = 10 * time.Second

	// SandboxReadHeaderTimeout bounds header reads on the sandbox server.
	SandboxReadHeaderTimeout = 5 * time.Second
)

// Transport retry limits. Retries are opt-in; faults are never retried.
const (
	// DefaultRetryMax disables transport retries.
	DefaultRetryMax = 0

	// DefaultRetryWaitMin is the minimum wait between opted-in retries.
	DefaultRetryWaitMin = 1 * time.Second

	// DefaultRetryWaitMax is the maximum wait between opted-in retries.
	DefaultRetryWaitMax = 10 * time.Second
)

// Service paths relative to the configured endpoint.
const (
	// CaptureServicePath hosts the capture document operations.
	CaptureServicePath = "/CaptureDocumentService.svc/json"

	// UserServicePath hosts log on and log off.
	UserServicePath = "/UserService.svc/json"

	// DefaultUserAgent is sent when none is configured.
	DefaultUserAgent = "capture-client/1.0"
)

// User service operations.
const (
	OpLogOnWithPassword = "LogOnWithPassword"
	OpLogOff            = "LogOff"
)

// Folder operations.
const (
	OpCreateFolder               = "CreateFolder"
	OpCreateOnlineLearningFolder = "CreateOnlineLearningFolder"
	OpGetFolder                  = "GetFolder"
	OpDeleteFolder               = "DeleteFolder"
	OpMoveFolder                 = "MoveFolder"
	OpSplitFolder                = "SplitFolder"
	OpSetFolderStatus            = "SetFolderStatus"
	OpSetFolderFieldStatus       = "SetFolderFieldStatus"
	OpGetFolderFieldValues       = "GetFolderFieldValues"
	OpUpdateFolderFieldValues    = "UpdateFolderFieldValues"
)

// Validation and lock operations.
const (
	OpForceUnlockItem             = "ForceUnlockItem"
	OpValidateDocument            = "ValidateDocument"
	OpValidateDocumentField       = "ValidateDocumentField"
	OpValidateDocumentFields      = "ValidateDocumentFields"
	OpValidateAllDocumentFields   = "ValidateAllDocumentFields"
	OpRunDocumentFieldsValidation = "RunDocumentFieldsValidation"
	OpValidateDocumentForReview   = "ValidateDocumentForReview"
	OpGetValidationContext        = "GetValidationExecutionContext"
)

// Document operations.
const (
	OpCreateDocument                    = "CreateDocument"
	OpCreateDocumentWithPages           = "CreateDocumentWithPages"
	OpGetDocument                       = "GetDocument"
	OpDeleteDocument                    = "DeleteDocument"
	OpDeleteDocuments                   = "DeleteDocuments"
	OpCopyDocument                      = "CopyDocument"
	OpCopyDocumentWithPages             = "CopyDocumentWithPages"
	OpCopyDocumentFieldValues           = "CopyDocumentFieldValues"
	OpMoveDocument                      = "MoveDocument"
	OpSplitDocument                     = "SplitDocument"
	OpSplitDocumentAndClassify          = "SplitDocumentAndClassify"
	OpMergeDocuments                    = "MergeDocuments"
	OpRejectDocument                    = "RejectDocument"
	OpUnrejectDocuments                 = "UnrejectDocuments"
	OpSetDocumentStatus                 = "SetDocumentStatus"
	OpSetDocumentFieldStatus            = "SetDocumentFieldStatus"
	OpGetDocumentFieldValue             = "GetDocumentFieldValue"
	OpGetDocumentFieldsAlternatives     = "GetDocumentFieldsAlternatives"
	OpUpdateDocumentFieldValues         = "UpdateDocumentFieldValues"
	OpUpdateDocumentFieldPropertyValues = "UpdateDocumentFieldPropertyValues"
	OpInsertTableFieldRow               = "InsertTableFieldRow"
	OpUpdateDocumentType                = "UpdateDocumentType"
	OpUpdateDocumentTypeWithConfidence  = "UpdateDocumentTypeWithConfidence"
	OpUpdateSourceFile                  = "UpdateSourceFile"
	OpGetSourceFile                     = "GetSourceFile"
	OpGetDocumentFile                   = "GetDocumentFile"
	OpGetRejectedPages                  = "GetRejectedPages"
	OpSaveTextExtension                 = "SaveTextExtension"
	OpGetTextExtension                  = "GetTextExtension"
	OpDeleteExtension                   = "DeleteExtension"
)

// Operation defaults.
const (
	// DefaultAlternativesPerField is the alternative count the CLI asks for.
	DefaultAlternativesPerField = 1

	// DefaultOnlineLearningDocumentCount sizes an online learning folder.
	DefaultOnlineLearningDocumentCount = 10
)

// Page operations.
const (
	OpDeletePages                     = "DeletePages"
	OpMovePages                       = "MovePages"
	OpRejectPages                     = "RejectPages"
	OpUpdatePages                     = "UpdatePages"
	OpSavePageImage                   = "SavePageImage"
	OpSavePageRendition               = "SavePageRendition"
	OpSetPageSourceImageFromRendition = "SetPageSourceImageFromRendition"
	OpGetImage                        = "GetImage"
	OpGetPageRendition                = "GetPageRendition"
	OpGetPageRenditionImageSummary    = "GetPageRenditionImageSummary"
	OpGetPageSummary                  = "GetPageSummary"
	OpGetPagePropertyValues           = "GetPagePropertyValues"
	OpSavePageTextExtension           = "SavePageTextExtension"
	OpGetPageTextExtension            = "GetPageTextExtension"
)

// Format constants.
const (
	// FormatJSON represents JSON format.
	FormatJSON = "json"

	// FormatYAML represents YAML format.
	FormatYAML = "yaml"

	// FormatTable represents table format.
	FormatTable = "table"
)

// Mime types the source loader recognises.
const (
	MimeTypePDF  = "application/pdf"
	MimeTypeTIFF = "image/tiff"
	MimeTypePNG  = "image/png"
	MimeTypeJPEG = "image/jpeg"
	MimeTypeBin  = "application/octet-stream"
)

// CLI constants.
const (
	// MinimumArgumentCount for KEY VALUE style commands.
	MinimumArgumentCount = 2

	// NotAvailable is shown for empty values.
	NotAvailable = "N/A"

	// MaskedSecret hides credentials in output.
	MaskedSecret = "***"

	// DefaultSandboxAddress is where the sandbox server listens by default.
	DefaultSandboxAddress = "127.0.0.1:8765"

	// DefaultAuditSubject prefixes NATS audit subjects.
	DefaultAuditSubject = "capture.audit"
)
