// Package version holds the build version of patentid.
package version

// Version is set at build time with -ldflags "-X ...".
var Version = "0.1.0-dev"
