package domain

import "go.trai.ch/zerr"

var (
	// ErrRecipeAlreadyExists is returned when adding a recipe whose name is already in the graph.
	ErrRecipeAlreadyExists = zerr.New("recipe already exists")

	// ErrMissingInput is returned when a recipe references an input that is not in the graph.
	ErrMissingInput = zerr.New("missing input recipe")

	// ErrCycleDetected is returned when the input graph contains a cycle.
	ErrCycleDetected = zerr.New("dependency cycle detected")

	// ErrRecipeNotFound is returned when a requested recipe is not in the graph.
	ErrRecipeNotFound = zerr.New("recipe not found")

	// ErrMissingName is returned when a recipe has no name.
	ErrMissingName = zerr.New("recipe has no name")

	// ErrMissingVersion is returned when a recipe has no version.
	ErrMissingVersion = zerr.New("recipe has no version")

	// ErrIncompleteSource is returned when a source descriptor lacks a fetch coordinate.
	ErrIncompleteSource = zerr.New("incomplete source descriptor")

	// ErrInvalidHash is returned when a declared source hash cannot be parsed.
	ErrInvalidHash = zerr.New("invalid source hash")

	// ErrHashMismatch is returned when fetched content does not match the declared hash.
	ErrHashMismatch = zerr.New("source hash mismatch")

	// ErrInvalidPlatform is returned when a platform string is not of the form os/arch.
	ErrInvalidPlatform = zerr.New("invalid platform")

	// ErrUnsupportedPlatform is returned when a recipe does not support the build platform.
	ErrUnsupportedPlatform = zerr.New("unsupported platform")

	// ErrMissingCheckTarget is returned when the check phase is enabled without a target.
	ErrMissingCheckTarget = zerr.New("check enabled without a target")

	// ErrNoTargetsSpecified is returned when a build is requested without target packages.
	ErrNoTargetsSpecified = zerr.New("no target packages specified")

	// ErrBuildExecutionFailed wraps phase failures surfaced to the CLI.
	ErrBuildExecutionFailed = zerr.New("build execution failed")
)
