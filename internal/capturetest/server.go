// Package capturetest provides an in-memory capture document service that
// speaks the JSON wire contract. It backs the client tests and the CLI
// sandbox command.
package capturetest

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"regexp"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/hashicorp/go-hclog"

	"github.com/fivetwenty-io/capture-client/internal/constants"
	"github.com/fivetwenty-io/capture-client/pkg/capture"
)

// request is the union of every argument the service operations accept.
type request struct {
	SessionID string `json:"sessionId"`

	FolderID              string   `json:"folderId"`
	ParentID              string   `json:"parentId"`
	NewParentID           string   `json:"newParentId"`
	DocumentID            string   `json:"documentId"`
	DocumentIDs           []string `json:"documentIds"`
	DestinationFolderID   string   `json:"destinationFolderId"`
	SourceDocumentID      string   `json:"sourceDocumentId"`
	DestinationDocumentID string   `json:"destinationDocumentId"`
	ImageID               string   `json:"imageId"`
	BatchID               string   `json:"batchId"`

	Name           string `json:"name"`
	FolderTypeID   string `json:"folderTypeId"`
	DocumentTypeID string `json:"documentTypeId"`
	FilePath       string `json:"filePath"`
	FileType       string `json:"fileType"`
	Message        string `json:"message"`
	Reason         string `json:"reason"`
	ErrorMessage   string `json:"errorMessage"`
	Value          string `json:"value"`
	MimeType       string `json:"mimeType"`
	Data           []byte `json:"data"`

	Index           int   `json:"index"`
	InsertIndex     int   `json:"insertIndex"`
	DocumentIndex   int   `json:"documentIndex"`
	PageIndex       int   `json:"pageIndex"`
	PageIndexes     []int `json:"pageIndexes"`
	RenditionIndex  int   `json:"renditionIndex"`
	RowIndex        int   `json:"rowIndex"`
	MaxAlternatives int   `json:"maxAlternatives"`
	DocumentCount   int   `json:"documentCount"`

	Status                  int     `json:"status"`
	Force                   bool    `json:"force"`
	Confident               bool    `json:"confident"`
	ClassificationConfident bool    `json:"classificationConfident"`
	ConfidenceLevel         float64 `json:"confidenceLevel"`

	Field        capture.RuntimeField        `json:"field"`
	Fields       []capture.RuntimeField      `json:"fields"`
	FieldNames   []string                    `json:"fieldNames"`
	CopyMode     capture.CopyMode            `json:"copyMode"`
	DocumentType capture.DocumentType        `json:"documentType"`
	Splits       []capture.SplitDocumentInfo `json:"splits"`
	SourceFile   *capture.SourceFile         `json:"sourceFile"`
	Item         capture.LockedItem          `json:"item"`
	State        *capture.DocumentState      `json:"state"`

	// Options, Properties and Pages change shape per operation.
	Options    json.RawMessage `json:"options"`
	Properties json.RawMessage `json:"properties"`
	Pages      json.RawMessage `json:"pages"`
}

type operation func(s *Server, req *request) (interface{}, error)

// Server is an in-memory capture service.
type Server struct {
	mu       sync.Mutex
	store    *store
	users    map[string]string
	sessions map[string]string
	logger   hclog.Logger
	router   chi.Router
}

// Option configures a Server.
type Option func(*Server)

// WithLogger logs every handled operation.
func WithLogger(logger hclog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// New creates an empty service.
func New(opts ...Option) *Server {
	server := &Server{
		store:    newStore(),
		users:    make(map[string]string),
		sessions: make(map[string]string),
		logger:   hclog.NewNullLogger(),
	}

	for _, opt := range opts {
		opt(server)
	}

	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Post(constants.UserServicePath+"/{operation}", server.handleUser)
	router.Post(constants.CaptureServicePath+"/{operation}", server.handleCapture)

	server.router = router

	return server
}

// Handler returns the HTTP handler serving both services.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves s on a local test listener until the test ends.
func (s *Server) Start(tb interface {
	Helper()
	Cleanup(func())
},
) *httptest.Server {
	tb.Helper()

	server := httptest.NewServer(s.router)
	tb.Cleanup(server.Close)

	return server
}

// AddUser registers credentials accepted by LogOnWithPassword.
func (s *Server) AddUser(userID, password string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.users[userID] = password
}

// NewSession issues a session for userID without a log on call.
func (s *Server) NewSession(userID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	sessionID := newID()
	s.sessions[sessionID] = userID

	return sessionID
}

// EndSession expires sessionID as if it had timed out on the service.
func (s *Server) EndSession(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, sessionID)
}

// Lock marks an item as locked by another user.
func (s *Server) Lock(item capture.LockedItem) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.store.locks[item.ID] = item.Type
}

// IsLocked reports whether an item holds a lock.
func (s *Server) IsLocked(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.store.locks[id]

	return ok
}

// AddFieldRule makes values of field name on documentTypeID valid only when
// they match pattern.
func (s *Server) AddFieldRule(documentTypeID, name, pattern string) error {
	rule, err := regexp.Compile(pattern)
	if err != nil {
		return fmt.Errorf("compiling field rule: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.store.rules[documentTypeID] == nil {
		s.store.rules[documentTypeID] = make(map[string]*regexp.Regexp)
	}

	s.store.rules[documentTypeID][name] = rule

	return nil
}

func (s *Server) handleUser(writer http.ResponseWriter, r *http.Request) {
	var body struct {
		SessionID string `json:"sessionId"`
		Identity  struct {
			UserID   string `json:"userId"`
			Password string `json:"password"`
		} `json:"userIdentityWithPassword"`
	}

	err := json.NewDecoder(r.Body).Decode(&body)
	if err != nil {
		writeFault(writer, capture.NewFault(capture.FaultKindRemote, "malformed request body"))

		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	switch chi.URLParam(r, "operation") {
	case constants.OpLogOnWithPassword:
		password, ok := s.users[body.Identity.UserID]
		if !ok || password != body.Identity.Password {
			writeFault(writer, &capture.Fault{Code: capture.FaultCodeInvalidSession, Title: "InvalidCredentials", Detail: "user id or password is incorrect"})

			return
		}

		sessionID := newID()
		s.sessions[sessionID] = body.Identity.UserID
		writeResult(writer, sessionID)
	case constants.OpLogOff:
		delete(s.sessions, body.SessionID)
		writeResult(writer, nil)
	default:
		writeFault(writer, unknownOperation(chi.URLParam(r, "operation")))
	}
}

func (s *Server) handleCapture(writer http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "operation")

	op, ok := operations[name]
	if !ok {
		writeFault(writer, unknownOperation(name))

		return
	}

	var req request

	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		writeFault(writer, capture.NewFault(capture.FaultKindRemote, "malformed request body: "+err.Error()))

		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[req.SessionID]; !ok {
		writeFault(writer, &capture.Fault{Code: capture.FaultCodeInvalidSession, Title: "InvalidSession", Detail: "session is not valid"})

		return
	}

	result, err := op(s, &req)
	if err != nil {
		s.logger.Debug("operation failed", "operation", name, "error", err)
		writeFault(writer, err)

		return
	}

	s.logger.Debug("operation handled", "operation", name)
	writeResult(writer, result)
}

func unknownOperation(name string) *capture.Fault {
	return capture.NewFault(capture.FaultKindRemote, fmt.Sprintf("unknown operation %q", name))
}

func writeResult(writer http.ResponseWriter, result interface{}) {
	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(writer).Encode(map[string]interface{}{"d": result})
}

func faultStatus(fault *capture.Fault) int {
	if fault.Code == capture.FaultCodeInvalidSession {
		return http.StatusUnauthorized
	}

	switch fault.Kind() {
	case capture.FaultKindNotFound:
		return http.StatusNotFound
	case capture.FaultKindInvalidOperation:
		return http.StatusConflict
	case capture.FaultKindPrecondition:
		return http.StatusPreconditionFailed
	case capture.FaultKindRemote:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

func writeFault(writer http.ResponseWriter, err error) {
	fault := &capture.Fault{}
	if !errors.As(err, &fault) {
		fault = capture.NewFault(capture.FaultKindRemote, err.Error())
	}

	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(faultStatus(fault))
	_ = json.NewEncoder(writer).Encode(capture.FaultResponse{Faults: []capture.Fault{*fault}})
}
