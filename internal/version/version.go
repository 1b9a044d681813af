package version

// Version is the released version of the action.
// Release builds override it with -ldflags "-X .../internal/version.Version=x.y.z".
var Version = "0.1.0"

// FullVersion returns the version with the v prefix.
func FullVersion() string {
	return "v" + Version
}

// UserAgent identifies the action in outgoing API requests.
func UserAgent() string {
	return "prtitle/" + FullVersion()
}
