// Package tocfeed builds a static table of contents dataset of recent journal
// articles and a companion journal metrics dataset.
package tocfeed

// AppName is used for config and cache directories.
const AppName = "tocfeed"

// Version of the tools, set at build time.
var Version = "0.1.0"

// UserAgent returns the default user agent for API requests.
func UserAgent() string {
	return AppName + "/" + Version
}
