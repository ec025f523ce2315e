// SPDX-License-Identifier: EPL-2.0

// Package table maps sound keys to the location of the sound: a path, a
// sub-index inside a bundle, and the loader mode. A Table is never modified
// once built; switching banks means building a new Table.
//
// Tables come from YAML files:
//
//	name: normal
//	root: media/normal
//	entries:
//	  - key: Contact
//	    path: contact.ogg
//	    mode: [compressed, nonblocking]
//	  - key: Welcome
//	    path: lines.zip
//	    sub_index: 2
//
// or from a directory scan with FromDir. A relative root is resolved against
// the directory of the YAML file.
package table
