// Package version carries the build version and semver comparisons between
// the server and its clients.
package version

import (
	"strings"

	"golang.org/x/mod/semver"
)

// Current is set at build time:
//
//	go build -ldflags "-X github.com/customerly-inc/customerly/internal/shared/version.Current=v1.4.0"
var Current = "dev"

// Normalize adds the "v" prefix semver expects: "1.2.3" -> "v1.2.3".
func Normalize(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return ""
	}
	if !strings.HasPrefix(v, "v") {
		return "v" + v
	}
	return v
}

// IsDev reports whether v is a local build without a release tag.
func IsDev(v string) bool {
	return !semver.IsValid(Normalize(v))
}

// HasNewerVersion reports whether latest is a release newer than current.
// Development builds are always considered outdated.
func HasNewerVersion(current, latest string) bool {
	if latest == "" {
		return false
	}
	if IsDev(current) {
		return true
	}
	l := Normalize(latest)
	if !semver.IsValid(l) {
		return false
	}
	return semver.Compare(Normalize(current), l) < 0
}

// SameMajor reports whether a client built at client can talk to a server
// at server. Development builds on either side are accepted.
func SameMajor(client, server string) bool {
	if IsDev(client) || IsDev(server) {
		return true
	}
	return semver.Major(Normalize(client)) == semver.Major(Normalize(server))
}
