// SPDX-License-Identifier: EPL-2.0

// Package bundle reads sound bundles: plain zip archives whose file entries
// are addressed by a zero based sub-index in archive order. Directories are
// skipped and do not take an index.
//
//	b, err := bundle.Open(f, size)
//	name, data, err := b.Read(2)
package bundle
