package model

import (
	"fmt"
	"strings"
)

// SiteID derives the stable, filesystem-safe identifier for a logical site.
// Re-deploys of the same site map to the same ID, so artifact placement and
// route registration overwrite rather than accumulate.
func SiteID(org, repo string, prNumber *int) string {
	org = strings.ToLower(org)
	repo = strings.ToLower(repo)
	if prNumber != nil {
		return fmt.Sprintf("%s-%s-pr-%d", org, repo, *prNumber)
	}
	return fmt.Sprintf("%s-%s-main", org, repo)
}

// DeployedURL is the public URL for a deployment. The job's domain field
// already carries the full hostname (preview or main).
func DeployedURL(domain string) string {
	return fmt.Sprintf("https://%s/", domain)
}
