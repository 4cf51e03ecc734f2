// Package version holds the build version of the sequence editor.
package version

// Version is the release version, overridden at build time with:
//
//	go build -ldflags "-X github.com/AaronLay10/nina-sequence-editor/internal/version.Version=x.y.z"
var Version = "0.1.0"
