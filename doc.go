/*
Package socow implements a generic random-access sequence with two storage
strategies working in tandem: small vectors live in a private inline buffer
and never touch shared state, while larger vectors reference a heap buffer
that may be shared by several logical copies until one of them mutates
(copy-on-write).

From the outside a Vector behaves like a value-semantics dynamic array:
cloning it produces an independent sequence, but the expensive part of
copying — duplicating the elements — is deferred until the copies actually
diverge. Read operations never allocate and never unshare; write operations
regain exclusive ownership of the backing buffer first.

A vector created by

	socow.Vector[int]{}

is a valid object and behaves like an empty sequence with the default
small-size threshold. The threshold and the element copier are configured
with options at creation time:

	vec := socow.New(socow.SmallSize[rune](16))

Failure model

Element copying is pluggable (see CopyWith) and may fail. Every operation
that copies elements reports such a failure through its error return and
leaves the vector exactly as it was before the call: replacement buffers
are built completely before they are adopted, so no intermediate state is
ever observable. Out-of-range indices are a programming error and panic.
Allocation failure is an unrecoverable runtime condition in Go and is not
part of the error surface.

Concurrency

Vector is a single-threaded value type. Reference counts on shared buffers
are plain integers; clones sharing a buffer must not be used from multiple
goroutines without external synchronization, just as a plain slice must
not be.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package socow

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'socow'.
func tracer() tracing.Trace {
	return tracing.Select("socow")
}
