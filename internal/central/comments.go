package central

import (
	"fmt"
	"strings"
)

func shortSHA(sha string) string {
	if len(sha) > 7 {
		return sha[:7]
	}
	return sha
}

// BuildingComment is the PR comment body posted when a build starts.
func BuildingComment(commitSHA string) string {
	return fmt.Sprintf("🚀 **Deployment in progress**\n\n"+
		"Building commit `%s`...\n\n"+
		"_This comment will be updated when the deployment completes._",
		shortSHA(commitSHA))
}

// SuccessComment is the PR comment body posted after a successful deploy.
// Warnings (such as degraded build isolation) are appended so they are
// visible to the PR author, not just the operator.
func SuccessComment(commitSHA, deployedURL string, warnings []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "✅ **Deployment successful**\n\n"+
		"Commit `%s` has been deployed.\n\n"+
		"🔗 **Preview URL:** %s\n\n",
		shortSHA(commitSHA), deployedURL)
	if len(warnings) > 0 {
		b.WriteString("⚠️ **Warnings:**\n")
		for _, w := range warnings {
			fmt.Fprintf(&b, "- %s\n", w)
		}
		b.WriteString("\n")
	}
	b.WriteString("_This deployment will be automatically cleaned up when the PR is closed._")
	return b.String()
}

// FailureComment is the PR comment body posted after a failed deploy.
func FailureComment(commitSHA, errorMessage string) string {
	if errorMessage == "" {
		errorMessage = "Unknown error"
	}
	return fmt.Sprintf("❌ **Deployment failed**\n\n"+
		"Failed to deploy commit `%s`.\n\n"+
		"**Error:**\n```\n%s\n```\n\n"+
		"_Please check the build logs for more details._",
		shortSHA(commitSHA), errorMessage)
}
