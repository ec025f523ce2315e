// SPDX-License-Identifier: EPL-2.0

// Package progsnd resolves programmer sounds: sounds an event engine asks
// for by key at play time instead of having them baked into a bank.
//
// The engine signals "create" when an event needs its sound and "destroy"
// when it is done with it. A Resolver answers those signals by looking the
// key up in a table.Table and handing the location to a loader.Loader:
//
//	tbl, _ := table.LoadFile("banks/normal.yaml")
//	r, _ := progsnd.New(tbl, loader.NewFileLoader())
//
//	h, err := r.OnCreate(ctx, "Contact")
//	if err != nil {
//	    // NotFound, Corrupt and ResourceExhausted leave the event silent
//	}
//	...
//	r.OnDestroy(h)
//
// # Lifetime
//
// Every resolution goes through a Request with an explicit state:
//
//	Pending --resolve ok--> Active --release/cancel--> Released
//	Pending --resolve error--> Failed
//	Pending --cancel--> Released
//
// A Handle belongs to exactly one Request and is released exactly once.
// Releasing twice, releasing a handle of another resolver, or resolving a
// request that is no longer pending is an InvalidHandle error; in strict mode
// it panics. Outstanding reports the handles that were never released.
//
// # Banks
//
// SwapTable replaces the table atomically. Handles that are already active
// keep the sound they resolved; new requests see the new table.
//
// # Rendering
//
// For offline use, RenderKey resolves a key, renders it to mono 16-bit PCM
// and releases it again:
//
//	pcm, rate, err := progsnd.RenderKey(ctx, r, "Contact", 8000, 4096)
package progsnd
