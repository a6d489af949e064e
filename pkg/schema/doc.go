// Package schema describes the form contract served by the remote form
// service: a titled form made of ordered sections, each holding ordered fields
// with optional validation metadata.
//
// The package also knows how to load schemas from files, fs.FS entries, or
// URLs (JSON or YAML) and how to strip markup from remote strings before they
// reach a terminal.
package schema
