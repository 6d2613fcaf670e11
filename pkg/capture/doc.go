// Package capture provides types, interfaces, and helpers for working with a
// remote capture document service.
//
// # Overview
//
// The capture package defines the snapshots returned by the service (Folder,
// Document, Page, FieldValue) and the interfaces for the resource-oriented
// clients (FoldersClient, DocumentsClient, PagesClient, ValidationClient and
// LocksClient). A concrete implementation is provided by the captureclient
// package, which wires configuration, transport and session handling. Most
// consumers import captureclient to construct a client and then work with the
// interfaces exposed here.
//
// Getting a client
//
//	import (
//	  "context"
//	  "log"
//
//	  "github.com/fivetwenty-io/capture-client/pkg/capture"
//	  "github.com/fivetwenty-io/capture-client/pkg/captureclient"
//	)
//
//	func example() {
//	  ctx := context.Background()
//	  cli, err := captureclient.NewWithPassword(ctx, "https://capture.example.com", "user", "secret")
//	  if err != nil { log.Fatal(err) }
//
//	  folderID, err := cli.Folders().Create(ctx, &capture.FolderCreateRequest{InsertIndex: capture.AppendIndex})
//	  if err != nil { log.Fatal(err) }
//	  _ = folderID
//	}
//
// # Positional addressing
//
// The service addresses pages and sibling folders by their current position.
// Positions shift after every structural change, so callers either re-fetch
// the owning entity or use the id-based helpers (PagesClient.MoveByID and
// PageIndexesByID) which translate stable ids at call time.
//
// # Field updates
//
// Folders and documents share the FieldUpdater capability. A single update is
// a batch of one: UpdateFieldValue(ctx, updater, ownerID, field).
//
// # Errors
//
// Service faults surface as *FaultResponse values wrapping one or more Fault
// entries. IsRemoteFault matches any of them; IsNotFound, IsInvalidOperation
// and IsPrecondition narrow to a kind. IgnoreFault discards exactly one
// expected kind and passes everything else through.
//
// # Interceptors
//
// Request and response interceptors observe every call. The package ships
// logging, request id, header and NATS audit interceptors.
package capture
