package updater

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"

	"github.com/creativeprojects/go-selfupdate"

	"github.com/guiyumin/srt-translator/internal/core/version"
)

const (
	repoOwner = "guiyumin"
	repoName  = "srt-translator"
)

// ErrDevBuild is returned when the running binary has no release version.
var ErrDevBuild = errors.New("development build")

// Check is the outcome of a release lookup.
type Check struct {
	Current string
	Latest  *selfupdate.Release
	Newer   bool
}

func newUpdater() (*selfupdate.Updater, error) {
	source, err := selfupdate.NewGitHubSource(selfupdate.GitHubConfig{})
	if err != nil {
		return nil, err
	}
	return selfupdate.NewUpdater(selfupdate.Config{
		Source: source,
	})
}

// CurrentVersion returns the running version without a "v" prefix.
func CurrentVersion() string {
	return normalizeVersion(version.Version)
}

func normalizeVersion(v string) string {
	return strings.TrimPrefix(strings.TrimSpace(v), "v")
}

func isDevBuild(v string) bool {
	return v == "" || v == "dev" || strings.Contains(v, "-dev")
}

// CheckUpdate looks up the latest release.
func CheckUpdate(ctx context.Context) (*Check, error) {
	current := CurrentVersion()
	if isDevBuild(current) {
		return nil, ErrDevBuild
	}

	updater, err := newUpdater()
	if err != nil {
		return nil, err
	}

	latest, found, err := updater.DetectLatest(ctx, selfupdate.NewRepositorySlug(repoOwner, repoName))
	if err != nil {
		return nil, fmt.Errorf("failed to check for updates: %w", err)
	}
	if !found {
		return nil, fmt.Errorf("no releases found for %s/%s", repoOwner, repoName)
	}

	return &Check{
		Current: current,
		Latest:  latest,
		Newer:   latest.GreaterThan(current),
	}, nil
}

// Update replaces the running executable with the release in c.
func Update(ctx context.Context, c *Check) error {
	if c == nil || !c.Newer {
		return nil
	}

	updater, err := newUpdater()
	if err != nil {
		return err
	}

	exe, err := selfupdate.ExecutablePath()
	if err != nil {
		return fmt.Errorf("failed to get executable path: %w", err)
	}

	if err := updater.UpdateTo(ctx, c.Latest, exe); err != nil {
		return fmt.Errorf("failed to update: %w", err)
	}
	return nil
}

// PlatformAssetName returns the expected asset name for the current platform
func PlatformAssetName() string {
	return fmt.Sprintf("translator_%s_%s", runtime.GOOS, runtime.GOARCH)
}
