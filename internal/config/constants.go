// Package config holds version/file-extension constants and the user
// config file format, following the shape of the teacher's
// internal/config/constants.go.
package config

// Version is the current ulc version.
var Version = "0.1.0"

// SourceFileExt is the canonical recognized source file extension.
const SourceFileExt = ".ulc"

// SourceFileExtensions are all recognized source file extensions.
var SourceFileExtensions = []string{".ulc"}

// TrimSourceExt removes any recognized source extension from a filename.
// Returns the original string if no extension matches.
func TrimSourceExt(name string) string {
	for _, ext := range SourceFileExtensions {
		if len(name) >= len(ext) && name[len(name)-len(ext):] == ext {
			return name[:len(name)-len(ext)]
		}
	}
	return name
}

// HasSourceExt returns true if the path ends with any recognized source
// extension.
func HasSourceExt(path string) bool {
	for _, ext := range SourceFileExtensions {
		if len(path) >= len(ext) && path[len(path)-len(ext):] == ext {
			return true
		}
	}
	return false
}
