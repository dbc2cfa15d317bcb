package env

import "os"

// IsDev reports whether the process runs in development mode. Dev mode shows
// error details, re-reads the template per request and marks rendered pages
// with a dev comment.
func IsDev() bool {
	return os.Getenv("SKALD_DEV") == "1"
}
