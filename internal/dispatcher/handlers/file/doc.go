// Package file provides handlers for saving and reloading the file behind a
// view:
//   - file.save: Write the view text to its path
//   - file.saveAs: Write to the "path" argument and remember it
//   - file.reload: Replace the view text with the file contents
//
// Paths are tracked per view id. The FileManager does the actual I/O, so
// tests and embedders can swap the filesystem.
package file
