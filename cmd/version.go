package cmd

import (
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"
	"golang.org/x/mod/semver"
)

// Overridden with -ldflags "-X github.com/abhisek/studybuddy/cmd.version=v1.2.3".
var version = ""

// buildVersion falls back to the module version stamped by go install.
func buildVersion() string {
	if version != "" {
		return version
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		return info.Main.Version
	}
	return "(devel)"
}

// displayVersion canonicalises release tags and marks pre-releases.
// Anything that is not semver is shown as is.
func displayVersion(v string) string {
	if !semver.IsValid(v) {
		return v
	}
	if semver.Prerelease(v) != "" {
		return semver.Canonical(v) + " (pre-release)"
	}
	return semver.Canonical(v)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "studybuddy %s (%s %s/%s)\n",
			displayVersion(buildVersion()), runtime.Version(), runtime.GOOS, runtime.GOARCH)
	},
}
