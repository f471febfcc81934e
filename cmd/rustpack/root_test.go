// SPDX-License-Identifier: MPL-2.0

package cmd

import "testing"

func TestGetVersionString(t *testing.T) {
	// Not parallel: subtests mutate package-level Version/Commit/BuildDate vars.

	t.Run("ldflags version takes priority", func(t *testing.T) {
		// Save and restore package-level vars.
		origVersion, origCommit, origBuildDate := Version, Commit, BuildDate
		t.Cleanup(func() {
			Version, Commit, BuildDate = origVersion, origCommit, origBuildDate
		})

		Version = "v1.2.3"
		Commit = "abc1234"
		BuildDate = "2025-06-15T10:00:00Z"

		got := getVersionString()
		want := "v1.2.3 (commit: abc1234, built: 2025-06-15T10:00:00Z)"
		if got != want {
			t.Errorf("getVersionString() = %q, want %q", got, want)
		}
	})

	t.Run("fallback to dev when no build info", func(t *testing.T) {
		origVersion, origCommit, origBuildDate := Version, Commit, BuildDate
		t.Cleanup(func() {
			Version, Commit, BuildDate = origVersion, origCommit, origBuildDate
		})

		Version = "dev"
		Commit = "unknown"
		BuildDate = "unknown"

		got := getVersionString()
		want := "dev (built from source)"
		if got != want {
			t.Errorf("getVersionString() = %q, want %q", got, want)
		}
	})
}

func TestBundleTransformOptions(t *testing.T) {
	// Not parallel: mutates package-level flag vars and loadedCfg.
	origCfg := loadedCfg
	t.Cleanup(func() {
		loadedCfg = origCfg
		bundleNoExpandModules = false
		bundleNoRemoveTests = false
		bundleNoRemoveDocs = false
	})

	opts := bundleTransformOptions()
	if !opts.ExpandModules || !opts.RemoveTests || !opts.RemoveDocs {
		t.Errorf("defaults should enable the whole pipeline, got %+v", opts)
	}

	bundleNoExpandModules = true
	bundleNoRemoveTests = true
	bundleNoRemoveDocs = true
	opts = bundleTransformOptions()
	if opts.ExpandModules || opts.RemoveTests || opts.RemoveDocs {
		t.Errorf("negative flags should disable the pipeline stages, got %+v", opts)
	}
}

func TestBundleMinifyOptions(t *testing.T) {
	// Not parallel: mutates package-level flag vars and loadedCfg.
	origCfg := loadedCfg
	t.Cleanup(func() {
		loadedCfg = origCfg
		bundleMinify = false
		bundleAggressiveMinify = false
	})

	if doMinify, _ := bundleMinifyOptions(); doMinify {
		t.Error("minification should be off by default")
	}

	bundleMinify = true
	if doMinify, aggressive := bundleMinifyOptions(); !doMinify || aggressive {
		t.Error("--minify should enable plain minification only")
	}

	bundleMinify = false
	bundleAggressiveMinify = true
	if doMinify, aggressive := bundleMinifyOptions(); !doMinify || !aggressive {
		t.Error("--aggressive-minify should imply --minify")
	}
}
