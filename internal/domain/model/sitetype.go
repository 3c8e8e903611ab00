package model

import (
	"fmt"
	"slices"
	"strings"
)

// SiteType selects the build toolchain for a repository.
type SiteType string

const (
	SiteTypeSvelteKit SiteType = "sveltekit"
	SiteTypeVite      SiteType = "vite"
	SiteTypeZola      SiteType = "zola"
	SiteTypeCustom    SiteType = "custom"
	// SiteTypeAuto defers the choice to detection against the cloned tree.
	SiteTypeAuto SiteType = "auto"
)

// Valid reports whether the site type is supported.
func (t SiteType) Valid() bool {
	switch t {
	case SiteTypeSvelteKit, SiteTypeVite, SiteTypeZola, SiteTypeCustom, SiteTypeAuto:
		return true
	default:
		return false
	}
}

// ParseSiteType normalizes a site type string and reports whether it is supported.
func ParseSiteType(value string) (SiteType, bool) {
	t := SiteType(strings.ToLower(strings.TrimSpace(value)))
	if t.Valid() {
		return t, true
	}
	return "", false
}

// DefaultBuildCommand returns the build command used when no override is configured.
func (t SiteType) DefaultBuildCommand() string {
	switch t {
	case SiteTypeSvelteKit, SiteTypeVite:
		return "npm ci && npm run build"
	case SiteTypeZola:
		return "zola build"
	default:
		return ""
	}
}

// DefaultOutputDir returns the artifact directory used when no override is configured.
func (t SiteType) DefaultOutputDir() string {
	switch t {
	case SiteTypeSvelteKit:
		return "build"
	case SiteTypeVite:
		return "dist"
	case SiteTypeZola:
		return "public"
	default:
		return ""
	}
}

// BuildSpec is the fully resolved build plan for one job: a concrete site
// type plus the command to run and the directory it produces.
type BuildSpec struct {
	SiteType     SiteType
	BuildCommand string
	OutputDir    string
}

// ResolveBuildSpec combines a (non-auto) site type with optional overrides
// from the job or the repo's deploy config. Overrides win field-by-field.
func ResolveBuildSpec(siteType SiteType, buildCommand, outputDir *string) (BuildSpec, error) {
	if siteType == SiteTypeAuto {
		return BuildSpec{}, fmt.Errorf("site type must be resolved before building")
	}
	spec := BuildSpec{
		SiteType:     siteType,
		BuildCommand: siteType.DefaultBuildCommand(),
		OutputDir:    siteType.DefaultOutputDir(),
	}
	if buildCommand != nil && strings.TrimSpace(*buildCommand) != "" {
		spec.BuildCommand = *buildCommand
	}
	if outputDir != nil && strings.TrimSpace(*outputDir) != "" {
		spec.OutputDir = *outputDir
	}
	if spec.BuildCommand == "" {
		return BuildSpec{}, fmt.Errorf("site type %q requires an explicit build_command", siteType)
	}
	if spec.OutputDir == "" {
		return BuildSpec{}, fmt.Errorf("site type %q requires an explicit output_dir", siteType)
	}
	return spec, nil
}

// DetectSiteType inspects a cloned tree's top-level file names and picks a
// concrete site type. It is a pure function of the listing (plus the contents
// of config.toml for the Zola heuristic) so it can be tested without a clone.
// Returns SiteTypeAuto when nothing matched.
func DetectSiteType(entries []string, configTOML string) SiteType {
	has := func(name string) bool { return slices.Contains(entries, name) }

	if has("svelte.config.js") || has("svelte.config.ts") {
		return SiteTypeSvelteKit
	}
	if has("vite.config.js") || has("vite.config.ts") {
		return SiteTypeVite
	}
	if has("config.toml") && strings.Contains(configTOML, "base_url") && strings.Contains(configTOML, "[markdown]") {
		return SiteTypeZola
	}
	if has("flake.nix") {
		return SiteTypeCustom
	}
	// A bare package.json most likely means a Vite-style npm build.
	if has("package.json") {
		return SiteTypeVite
	}
	return SiteTypeAuto
}
