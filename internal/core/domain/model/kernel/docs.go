// Package kernel contains the shared value objects of the domain model:
// identifiers and postal addresses used by every aggregate. Types in this
// package are immutable and safe for concurrent use.
package kernel
