// version.go: release identity, overridable at build time via
// -ldflags "-X github.com/paanini-lang/paanini.Version=..."
package paanini

var (
	// Version is the release version of the language toolchain.
	Version = "0.2.0"

	// BuildDate is stamped by the release build.
	BuildDate = "unknown"
)
