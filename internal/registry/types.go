// Package registry provides the per-ecosystem registry clients (C5) and the
// ecosystem-keyed factory registry that routes a PURL type to a concrete
// client (C6 depends on this factory; it does not itself live here).
package registry

import "time"

// Version is a single published release of a package, as reported by its
// registry. Number is the string exactly as the registry names it - no
// ecosystem normalization is applied here, that is the matcher's job.
type Version struct {
	Number      string
	PublishedAt time.Time
	Yanked      bool
	Deprecated  bool
	Retracted   bool
	Prerelease  bool
	// Features holds named feature/extra keys available at this version
	// (Cargo features, PyPI extras). Nil when the ecosystem has none.
	Features map[string]bool
}

// Metadata is the package-level record used for hover and completion:
// name, short description, and the links a hover card shows.
type Metadata struct {
	Name             string
	Description      string
	RepositoryURL    string
	DocumentationURL string
	LatestStable     string
}
