package driven

// FileProvider gives the directory loader read-only access to the filesystem.
type FileProvider interface {
	// DirectoryExists reports whether path exists and is a directory.
	DirectoryExists(path string) bool

	// ListFiles returns the regular files in dir whose names match the glob
	// pattern (e.g., "*.so"), in lexical order. It does not recurse.
	ListFiles(dir, pattern string) ([]string, error)
}
