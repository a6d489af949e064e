// Package template defines the template rendering seam used for receipts and
// terminal section headers.
package template
