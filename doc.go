// Package rollbar is a client-side error and event reporting pipeline. It
// turns an application-level report call into a bounded, scrubbed,
// size-truncated payload delivered to a remote collection endpoint, with
// optional batching and cycle-safe serialization of arbitrary object
// graphs.
//
// Basic usage:
//
//	client, err := rollbar.New(rollbar.Default().
//	    WithAccessToken("ad865e76e7fb496fab096ac07b1dbabb").
//	    WithEnvironment("production"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close(context.Background())
//
//	client.Info("server started", map[string]any{"port": 8080})
//	client.Error(err, nil)
//
// Errors that escaped application code are wrapped so the pipeline can
// deliver them and then hand them back:
//
//	if cfg.RaiseOnError is set:
//	    _, err := client.Error(rollbar.Uncaught(cause), nil)
//	    // err is the wrapper around cause, returned after delivery
//
// Global usage mirrors the client API:
//
//	rollbar.SetGlobal(client)
//	rollbar.Warning("cache miss storm", nil)
//	rollbar.Wait(ctx)
//
// With batching enabled, encoded items queue up and go out as one request
// once the batch size is reached or Flush is called. A per-process MaxItems
// ceiling caps total deliveries regardless of batching.
package rollbar
