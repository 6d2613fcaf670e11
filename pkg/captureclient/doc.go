// Package captureclient provides the primary entry point for constructing a
// capture document service client that implements the capture.Client interface.
//
// It normalizes the endpoint, validates the configuration and establishes the
// session on top of the resource interfaces and types defined in the capture
// package. Most applications import captureclient to build a client, then use
// the returned capture.Client to reach the resource clients: Folders(),
// Documents(), Pages(), Validation() and Locks().
//
// Quick start
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
//
//	  // With a session issued elsewhere:
//	  cli, err := captureclient.NewWithSession(ctx, "https://capture.example.com/Services/Sdk", "0A1B2C...")
//	  if err != nil { log.Fatal(err) }
//
//	  // Or with credentials. New logs on immediately.
//	  cli, err = captureclient.New(ctx, &capture.Config{
//	    Endpoint: "capture.example.com/Services/Sdk",
//	    Username: "user",
//	    Password: "pass",
//	  })
//	  if err != nil { log.Fatal(err) }
//	  defer func() { _ = captureclient.LogOff(ctx, cli) }()
//
//	  folderID, err := cli.Folders().Create(ctx, &capture.FolderCreateRequest{
//	    Name:        "Batch 42",
//	    InsertIndex: capture.AppendIndex,
//	  })
//	  if err != nil { log.Fatal(err) }
//	  _ = folderID
//	}
//
// # Faults
//
// Every operation returns the remote fault unchanged in its error chain. Use
// capture.IsNotFound, capture.IsInvalidOperation, capture.IsPrecondition and
// capture.IsInvalidSession to branch on it.
package captureclient
