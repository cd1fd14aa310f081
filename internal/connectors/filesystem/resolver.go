package filesystem

import "strings"

// fileScheme prefixes uris that point at the local filesystem.
const fileScheme = "file://"

// LocalPath converts a file:// uri to a local path.
// The boolean is false for any other uri.
func LocalPath(uri string) (string, bool) {
	if !strings.HasPrefix(uri, fileScheme) {
		return "", false
	}
	return strings.TrimPrefix(uri, fileScheme), true
}
