package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/blang/semver"
	"github.com/creativeprojects/go-selfupdate"
	"github.com/spf13/cobra"
)

// repoSlug is the GitHub repository releases are published to.
const repoSlug = "hzegota/rtbhouse-go-sdk"

var (
	version   = "dev"
	buildTime = "unknown"
)

// SetVersion records the build metadata injected by the linker.
func SetVersion(v, bt string) {
	version = v
	buildTime = bt
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show the rtbhouse version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("rtbhouse %s (built %s)\n", version, buildTime)
	},
}

// upgradeCmd represents the upgrade command
var upgradeCmd = &cobra.Command{
	Use:   "upgrade",
	Short: "Update rtbhouse to the latest release",
	RunE:  runUpgrade,
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(upgradeCmd)
}

func runUpgrade(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	latest, found, err := selfupdate.DetectLatest(ctx, selfupdate.ParseSlug(repoSlug))
	if err != nil {
		return fmt.Errorf("failed to detect latest release: %w", err)
	}
	if !found {
		fmt.Println("No release found for this platform.")
		return nil
	}

	// Dev builds skip the comparison and always update.
	if current, err := semver.ParseTolerant(version); err == nil {
		if latestVer, err := semver.ParseTolerant(latest.Version()); err == nil && !latestVer.GT(current) {
			fmt.Printf("✓ Already up to date (%s)\n", version)
			return nil
		}
	}

	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("failed to locate executable: %w", err)
	}

	fmt.Printf("Updating %s → %s...\n", version, latest.Version())
	if err := selfupdate.UpdateTo(ctx, latest.AssetURL, latest.AssetName, exe); err != nil {
		return fmt.Errorf("failed to update binary: %w", err)
	}

	fmt.Printf("✓ Updated to %s\n", latest.Version())
	if latest.ReleaseNotes != "" {
		fmt.Printf("\nRelease notes:\n%s\n", latest.ReleaseNotes)
	}
	return nil
}
