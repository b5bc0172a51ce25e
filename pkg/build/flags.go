// SPDX-License-Identifier: MIT
//
// Package build exposes the metadata stamped into the spectro binary at link
// time. The values are injected with -ldflags, for example:
//
//	go build -ldflags "-X spectro/pkg/build.buildVersion=0.3.0 -X spectro/pkg/build.buildCommit=$(git rev-parse --short HEAD)"
//
// Development builds run without them; the defaults below are reported instead.
package build

import (
	"errors"
	"fmt"
)

// Info describes the running binary.
type Info struct {
	Name        string
	Description string
	Time        string
	Commit      string
	Version     string
}

// String renders the version line printed by --version.
func (i Info) String() string {
	return fmt.Sprintf("%s (commit %s, built %s)", i.Version, i.Commit, i.Time)
}

var (
	buildName    string
	buildTime    string
	buildCommit  string
	buildVersion string
	buildInfo    = &Info{
		Name:        "spectro",
		Description: "Render an annotated spectrogram PNG from an audio file",
		Time:        "unknown",
		Commit:      "unknown",
		Version:     "dev",
	}
)

// ErrMissingFlags is returned by Initialize when one or more link-time
// values were not provided.
var ErrMissingFlags = errors.New("build flags missing")

// Initialize copies every link-time value that was set into the build info.
// It returns ErrMissingFlags naming the absent values; callers treat that as
// a development build and keep the defaults for those fields.
func Initialize() error {
	var missing []string
	set := func(dst *string, src, name string) {
		if src == "" {
			missing = append(missing, name)
			return
		}
		*dst = src
	}
	set(&buildInfo.Name, buildName, "name")
	set(&buildInfo.Time, buildTime, "time")
	set(&buildInfo.Commit, buildCommit, "commit")
	set(&buildInfo.Version, buildVersion, "version")

	if len(missing) > 0 {
		return fmt.Errorf("%w: %v", ErrMissingFlags, missing)
	}
	return nil
}

// GetBuildInfo returns the current build information.
func GetBuildInfo() *Info {
	return buildInfo
}
