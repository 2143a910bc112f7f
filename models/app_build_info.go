// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "fmt"

// NotAvailable stands in for build metadata the linker did not inject.
const NotAvailable = "N/A"

// AppBuildInfo is the version, date and commit of the running binary. It is
// printed at start-up and in the footer of every generated report.
type AppBuildInfo struct {
	buildVersion string
	buildDate    string
	buildCommit  string
}

func NewAppBuildInfo(buildVersion, buildDate, buildCommit string) AppBuildInfo {
	return AppBuildInfo{
		buildVersion: buildVersion,
		buildDate:    buildDate,
		buildCommit:  buildCommit,
	}
}

// Resolve fills missing metadata: an empty version falls back to
// fallbackVersion, and anything still empty becomes [NotAvailable].
func (a AppBuildInfo) Resolve(fallbackVersion string) AppBuildInfo {
	orNA := func(v string) string {
		if v == "" {
			return NotAvailable
		}
		return v
	}

	version := a.buildVersion
	if version == "" || version == NotAvailable {
		version = fallbackVersion
	}
	return NewAppBuildInfo(orNA(version), orNA(a.buildDate), orNA(a.buildCommit))
}

func (a AppBuildInfo) BuildVersion() string { return a.buildVersion }

func (a AppBuildInfo) BuildDate() string { return a.buildDate }

func (a AppBuildInfo) BuildCommit() string { return a.buildCommit }

// String renders the build as "VERSION (commit COMMIT, built DATE)".
func (a AppBuildInfo) String() string {
	return fmt.Sprintf("%s (commit %s, built %s)", a.buildVersion, a.buildCommit, a.buildDate)
}
