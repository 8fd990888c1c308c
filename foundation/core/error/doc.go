// Package error provides the structured error type used outside the
// front-end pipeline.
//
// Package: error
// Title: arcq Error Handling
// Description: Errors carry a code, a severity, the failing operation and
//              free-form details next to the usual message and cause. The
//              front-end itself reports problems as diagnostics; this type
//              is used when configuration, storage or transport fail and
//              when a whole analysis must be turned into a Go error.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-15
// Modified: 2026-10-15
//
// Change History:
// - 2026-10-15 v0.1.0: Initial implementation
//
// Usage:
//
//	import mdwerror "github.com/msto63/arcanequest/foundation/core/error"
//
//	err := mdwerror.Wrap(dbErr, "failed to record run").
//		WithCode(mdwerror.CodeStorage).
//		WithOperation("store.Record").
//		WithDetail("run_id", id)
//
//	if mdwerror.HasCode(err, mdwerror.CodeStorage) {
//		// degrade gracefully
//	}
package error
