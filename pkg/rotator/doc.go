// Package rotator implements the key/value rotation state behind lcdrotator.
//
// An lcd4linux display typically pairs two widgets: a label showing a name
// (for example a mount point alias) and a bar showing a measurement of the
// thing that name refers to. Each widget is re-evaluated on a fixed timer and
// has no memory of its own, so the rotation state has to live in the host
// process. This package provides that state.
//
// # Architecture Overview
//
//	┌───────────────────────────────────────────────┐
//	│  Poller (lcd4linux exec / HTTP / CLI)         │
//	└──────────────────────┬────────────────────────┘
//	                       │ "AllDisks key root=/,md0=/data"
//	┌──────────────────────▼────────────────────────┐
//	│  Registry                                     │
//	│    name → *Rotator, created on first use      │
//	└──────────────────────┬────────────────────────┘
//	                       │
//	┌──────────────────────▼────────────────────────┐
//	│  Rotator                                      │
//	│    keys:    [md0 root]   (front = next)       │
//	│    values:  {root:/ md0:/data}                │
//	│    pending: root                              │
//	└───────────────────────────────────────────────┘
//
// # The Key/Value Protocol
//
// A key request dequeues the front key, enqueues it at the back and marks it
// pending. Until a value request consumes it, further key requests return the
// same pending key, so a label widget that refreshes faster than its bar does
// not skip entries. A value request returns the value mapped to the pending
// key and clears it:
//
//	reg := rotator.NewRegistry(logger)
//	rot := reg.GetOrCreate("Disks")
//	rot.Initialize("Disks", []string{"a", "b"}, map[string]string{"a": "1", "b": "2"})
//
//	rot.Request(rotator.KindKey)   // "a"
//	rot.Request(rotator.KindValue) // "1"
//	rot.Request(rotator.KindKey)   // "b"
//
// # Initialization
//
// Initialize is first-call-wins. The name, the key list and the value map are
// each adopted the first time they are available and are frozen afterwards;
// later requests carrying a different key list for the same name do not
// change the rotation.
//
// # Errors
//
// A key request against an empty key list fails with ErrExhausted. A value
// request with nothing pending fails with ErrNoPendingKey and a pending key
// with no mapped value fails with ErrValueNotFound; both match ErrLookup.
// Failures never corrupt the rotation state, so the next poll proceeds
// normally once its input is valid.
//
// # Concurrency
//
// Every Rotator serializes its own requests with a mutex and the Registry
// guards its map, so concurrent pollers never observe duplicated or skipped
// keys.
package rotator
