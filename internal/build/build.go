// Package build provides build information that is linked into the application. Other
// packages within the project can use this information in logs etc..
package build

var (
	// Version is the build version of the app (e.g. 0.1.0).
	Version = "dev"

	// Commit is the sha of the git commit the app was built against.
	Commit = "none"

	// Date is the date when the app was built.
	Date = "unknown"

	// ProjectName is the name used in tracer names, metric namespaces and the CLI.
	ProjectName = "canopy"

	// MinimumSupportedDatastoreSchemaRevision is the lowest schema revision the server
	// accepts before reporting the datastore as not ready.
	MinimumSupportedDatastoreSchemaRevision int64 = 2
)
