// ReelRadar - Watchlist-Driven Media Recommendations
// Copyright 2026 ReelRadar contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelradar/reelradar

package recommend

import "errors"

var (
	// ErrNotReady is returned by queries issued before any successful
	// build. It is distinct from an empty result.
	ErrNotReady = errors.New("recommend: index not ready")

	// ErrBuildInProgress is returned when a build is requested while
	// another one is running.
	ErrBuildInProgress = errors.New("recommend: build already in progress")

	// ErrEmptyCorpus is returned when a build source yields no items.
	ErrEmptyCorpus = errors.New("recommend: empty corpus")

	// ErrNoSource is returned when a build is required but no data
	// source is configured and no artifacts can be loaded.
	ErrNoSource = errors.New("recommend: no data source configured")

	// ErrArtifactsNotFound is returned by artifact stores when no
	// complete, checksum-valid artifact set exists.
	ErrArtifactsNotFound = errors.New("recommend: index artifacts not found")
)
