// Package watch reports source files that change below a set of
// directories, in batches separated by a quiet period.
package watch
