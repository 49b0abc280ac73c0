package ports

// Reporter surfaces failures to the user (a status line, a dialog, stderr).
type Reporter interface {
	Report(message string)
}

// ReporterFunc adapts a function to the Reporter interface.
type ReporterFunc func(message string)

// Report calls f(message).
func (f ReporterFunc) Report(message string) {
	f(message)
}

// Catalog is a flat key to string lookup for the active language.
type Catalog interface {
	GetString(key string) string
}
