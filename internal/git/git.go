package git

import (
	"fmt"
	"os/exec"
	"strings"
)

// GitStatus contains git integration status information
type GitStatus struct {
	IsRepo             bool
	TrackedArtifacts   []string // Sealed store files committed to git
	UntrackedArtifacts []string // Sealed store files not committed
	LockFile           string
	LockFileTracked    bool // Metadata/lock database committed; it changes on every write
	LockFileIgnored    bool
}

// IsGitRepo checks if the working directory is inside a git repository
func IsGitRepo(workDir string) bool {
	cmd := exec.Command("git", "rev-parse", "--is-inside-work-tree")
	cmd.Dir = workDir
	err := cmd.Run()
	return err == nil
}

// IsTracked checks if a file is tracked by git
func IsTracked(workDir, path string) bool {
	cmd := exec.Command("git", "ls-files", "--", path)
	cmd.Dir = workDir
	output, err := cmd.Output()

	if err != nil {
		return false
	}

	return len(strings.TrimSpace(string(output))) > 0
}

// IsIgnored checks if a file is ignored by git (handles all .gitignore files)
func IsIgnored(workDir, path string) bool {
	cmd := exec.Command("git", "check-ignore", "-q", "--", path)
	cmd.Dir = workDir
	err := cmd.Run()

	// git check-ignore returns exit code 0 if file is ignored
	return err == nil
}

// CheckGitIntegration checks git integration status for a store directory
func CheckGitIntegration(workDir string, artifacts []string, lockFile string) (*GitStatus, error) {
	status := &GitStatus{LockFile: lockFile}

	if !IsGitRepo(workDir) {
		return status, nil
	}
	status.IsRepo = true

	for _, file := range artifacts {
		if IsTracked(workDir, file) {
			status.TrackedArtifacts = append(status.TrackedArtifacts, file)
		} else {
			status.UntrackedArtifacts = append(status.UntrackedArtifacts, file)
		}
	}

	status.LockFileTracked = IsTracked(workDir, lockFile)
	status.LockFileIgnored = IsIgnored(workDir, lockFile)

	return status, nil
}

// FormatGitStatus formats git status for display
func FormatGitStatus(status *GitStatus) string {
	if status == nil || !status.IsRepo {
		return ""
	}

	var result strings.Builder
	result.WriteString("\nGit Integration:\n")

	switch {
	case len(status.UntrackedArtifacts) == 0:
		result.WriteString("   ok: store files are tracked by git\n")
	case len(status.TrackedArtifacts) == 0:
		result.WriteString("   info: store files are not tracked by git\n")
	default:
		// A partial commit cannot be decrypted after checkout
		result.WriteString(fmt.Sprintf("   error: only some store files are tracked (run: git add %s)\n",
			strings.Join(status.UntrackedArtifacts, " ")))
	}

	if status.LockFileTracked {
		result.WriteString(fmt.Sprintf("   error: %s is tracked by git (run: git rm --cached %s)\n", status.LockFile, status.LockFile))
	} else if !status.LockFileIgnored {
		result.WriteString(fmt.Sprintf("   warning: %s not in .gitignore (add to .gitignore)\n", status.LockFile))
	} else {
		result.WriteString(fmt.Sprintf("   ok: %s is ignored\n", status.LockFile))
	}

	return result.String()
}
