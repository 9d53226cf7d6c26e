package hooks

import (
	"fmt"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"github.com/iMAGRAY/ASTSentinel/internal/config"
)

// SessionGuard is a sessionStart hook that warns about workspace state and
// which review configuration will govern the session. It inspects the
// working tree through go-git (the same library internal/config's ignore
// matcher depends on) instead of shelling out to the git binary, and flags
// when no .hooks-config file was found — meaning the session runs on
// built-in defaults rather than whatever an operator configured.
// Always exits 0 (informational only, never blocks).
func SessionGuard(input HookInput, workDir string) (HookResult, int) {
	dir := workDir
	if dir == "" {
		dir = "."
	}

	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return NoOpMsg("Not a git repository"), 0
	}

	var warnings []string

	if wt, err := repo.Worktree(); err == nil {
		if status, err := wt.Status(); err == nil {
			staged, unstaged, untracked := countWorktreeStatus(status)
			if staged > 0 {
				warnings = append(warnings, fmt.Sprintf("warning: %d staged but uncommitted file(s)", staged))
			}
			if unstaged > 0 {
				warnings = append(warnings, fmt.Sprintf("warning: %d modified unstaged file(s)", unstaged))
			}
			if untracked > 0 {
				warnings = append(warnings, fmt.Sprintf("warning: %d untracked file(s)", untracked))
			}
		}
	}

	if head, err := repo.Head(); err != nil || head.Name() == plumbing.HEAD {
		warnings = append(warnings, "warning: detached HEAD state")
	}

	if _, found := config.FindSettingsPathFrom(dir); !found {
		warnings = append(warnings, "notice: no .hooks-config file found, running on built-in defaults")
	}

	if len(warnings) == 0 {
		return NoOpMsg("workspace clean"), 0
	}

	return NoOpMsg(strings.Join(warnings, "; ")), 0
}

func countWorktreeStatus(status git.Status) (staged, unstaged, untracked int) {
	for _, s := range status {
		if s.Worktree == git.Untracked {
			untracked++
			continue
		}
		if s.Staging != git.Unmodified {
			staged++
		}
		if s.Worktree != git.Unmodified {
			unstaged++
		}
	}
	return staged, unstaged, untracked
}
