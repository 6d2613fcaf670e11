package capture

import (
	"context"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// FoldersClient exposes folder lifecycle operations.
type FoldersClient interface {
	FieldUpdater

	Create(ctx context.Context, request *FolderCreateRequest) (string, error)
	CreateOnlineLearning(ctx context.Context, documentCount int) (string, error)
	Get(ctx context.Context, folderID string) (*Folder, error)
	Delete(ctx context.Context, folderID string, options *DeleteOptions, force bool) error
	Move(ctx context.Context, folderID, newParentID string, index int) error
	Split(ctx context.Context, folderID string, documentIndex int) (string, error)
	SetStatus(ctx context.Context, folderID string, status ItemStatus, message string) error
	SetFieldStatus(ctx context.Context, folderID string, request *FieldStatusRequest) error
	GetFieldValues(ctx context.Context, folderID string, fields ...FieldIdentity) ([]FieldValue, error)
}

// DocumentsClient exposes document lifecycle operations.
type DocumentsClient interface {
	FieldUpdater

	Create(ctx context.Context, request *DocumentCreateRequest) (*CreatedDocument, error)
	CreateWithPages(ctx context.Context, request *DocumentWithPagesCreateRequest) (*CreatedDocument, error)
	Get(ctx context.Context, documentID string) (*Document, error)
	Delete(ctx context.Context, documentID string) error
	DeleteMany(ctx context.Context, documentIDs []string) error
	Copy(ctx context.Context, request *DocumentCopyRequest) (string, error)
	CopyWithPages(ctx context.Context, documentID string, insertIndex int) (string, error)
	CopyFieldValues(ctx context.Context, sourceID, destinationID string, fields ...FieldIdentity) error
	Move(ctx context.Context, documentID, destinationFolderID string, insertIndex int) error
	Split(ctx context.Context, documentID string, pageIndex int) (string, error)
	SplitAndClassify(ctx context.Context, documentID string, splits []SplitDocumentInfo) ([]string, error)
	Merge(ctx context.Context, documentIDs []string) (string, error)
	Reject(ctx context.Context, documentID, reason string) error
	Unreject(ctx context.Context, documentIDs []string) error
	SetStatus(ctx context.Context, documentID string, status ItemStatus, message string) error
	SetFieldStatus(ctx context.Context, documentID string, request *FieldStatusRequest) error
	GetFieldValue(ctx context.Context, documentID string, field FieldIdentity) (*FieldValue, error)
	GetFieldAlternatives(ctx context.Context, documentID string, maxAlternatives int, fields ...FieldIdentity) ([]FieldAlternatives, error)
	UpdateFieldProperties(ctx context.Context, documentID string, field FieldIdentity, properties *FieldProperties) error
	InsertTableRow(ctx context.Context, documentID string, table FieldIdentity, rowIndex int) error
	UpdateType(ctx context.Context, documentID string, documentType DocumentType) error
	UpdateTypeWithConfidence(ctx context.Context, documentID string, documentType DocumentType, confident bool, confidence float64) error
	UpdateSourceFile(ctx context.Context, documentID string, file *SourceFile) error
	GetSourceFile(ctx context.Context, documentID string) (*SourceFile, error)
	GetFile(ctx context.Context, documentID, fileType string) ([]byte, error)
	GetRejectedPages(ctx context.Context, documentID string) (*RejectedPages, error)
	SaveTextExtension(ctx context.Context, documentID, name, value string) error
	GetTextExtension(ctx context.Context, documentID, name string) (string, error)
	DeleteExtension(ctx context.Context, documentID, name string) error
}

// PagesClient exposes page operations. Pages are addressed by position
// within their document unless the method says otherwise.
type PagesClient interface {
	Delete(ctx context.Context, documentID string, pageIndexes []int) error
	Move(ctx context.Context, request *PageMoveRequest) error
	MoveByID(ctx context.Context, sourceDocumentID, destinationDocumentID string, pageIDs []string, insertIndex int) error
	Reject(ctx context.Context, documentID string, pageIndexes []int, reason string) error
	Update(ctx context.Context, documentID string, updates []PageUpdate) error
	SaveImage(ctx context.Context, batchID string, image *ImageData) (string, error)
	SaveRendition(ctx context.Context, documentID string, pageIndex, renditionIndex int, image *ImageData) error
	SetSourceImageFromRendition(ctx context.Context, documentID string, pageIndex, renditionIndex int) error
	GetImage(ctx context.Context, imageID string, options *ImageOptions) (*ImageData, error)
	GetRendition(ctx context.Context, documentID string, pageIndex, renditionIndex int) (*ImageData, error)
	GetRenditionSummary(ctx context.Context, documentID string, pageIndex int) ([]ImageSummary, error)
	GetSummary(ctx context.Context, documentID string) ([]PageSummary, error)
	GetPropertyValues(ctx context.Context, documentID string, pageIndex int, properties ...string) (map[string]string, error)
	SaveTextExtension(ctx context.Context, documentID string, pageIndex int, name, value string) error
	GetTextExtension(ctx context.Context, documentID string, pageIndex int, name string) (string, error)
}

// ValidationClient runs validation rules owned by the service.
type ValidationClient interface {
	ValidateDocument(ctx context.Context, documentID string) (bool, error)
	ValidateField(ctx context.Context, documentTypeID string, field RuntimeField) (*FieldValidationResult, error)
	ValidateFields(ctx context.Context, documentTypeID string, fields []RuntimeField) ([]FieldValidationResult, error)
	ValidateAllFields(ctx context.Context, documentTypeID string, fields []RuntimeField, state *DocumentState) (*ValidationResult, error)
	RunFieldsValidation(ctx context.Context, documentID string, fields ...FieldIdentity) (*ValidationResult, error)
	ValidateForReview(ctx context.Context, documentID string) (*ReviewValidationResult, error)
	GetExecutionContext(ctx context.Context, documentID string) (*ValidationExecutionContext, error)
}

// LocksClient releases server-side item locks.
type LocksClient interface {
	ForceUnlock(ctx context.Context, item LockedItem) error
}

// Client is the capture service façade. It holds one session and passes it
// with every call.
type Client interface {
	Folders() FoldersClient
	Documents() DocumentsClient
	Pages() PagesClient
	Validation() ValidationClient
	Locks() LocksClient

	// SessionID returns the session the client is currently bound to.
	SessionID(ctx context.Context) (string, error)
	// WithSession returns a client sharing this client's transport but bound to sessionID.
	WithSession(sessionID string) Client
}

// Logger interface for logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Config represents client configuration for building a capture.Client.
//
// # Sessions
//
// SessionID is used as-is when set. Otherwise Username and Password are used
// to log on once through the user service and the resulting session is kept
// for the lifetime of the client.
//
// # Retries
//
// Faults are never retried. RetryMax opts into transport-level retries for
// connection errors and 429/502/503/504 responses only; it defaults to zero.
type Config struct {
	// Endpoint: base URL of the capture server (e.g., "https://capture.example.com/TotalAgility/Services/Sdk").
	Endpoint string

	// SessionID: an existing session issued by the user service.
	SessionID string
	// Username and Password log on when SessionID is empty.
	Username string
	Password string

	// ServicePath overrides the capture document service path.
	ServicePath string
	// UserServicePath overrides the user service path used for log on.
	UserServicePath string

	// HTTPTimeout bounds each HTTP attempt.
	HTTPTimeout time.Duration
	// RetryMax: transport retries for connection errors and gateway statuses. Zero disables retry.
	RetryMax     int
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration

	// Debug enables request/response logging when a Logger is provided.
	Debug  bool
	Logger Logger
	// UserAgent overrides the default User-Agent header.
	UserAgent string
	// Interceptors observe every request and response.
	Interceptors *InterceptorChain
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Endpoint, validation.Required.Error(ErrEndpointRequired.Error()), is.URL),
		validation.Field(&c.SessionID, validation.When(c.Username == "", validation.Required.Error(ErrSessionRequired.Error()))),
		validation.Field(&c.Password, validation.When(c.SessionID == "" && c.Username != "", validation.Required)),
		validation.Field(&c.RetryMax, validation.Min(0)),
		validation.Field(&c.HTTPTimeout, validation.Min(time.Duration(0))),
	)
}
