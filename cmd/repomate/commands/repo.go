package commands

import (
	"errors"
	"os"

	"github.com/Sumatoshi-tech/repomate/internal/config"
	"github.com/Sumatoshi-tech/repomate/internal/gitrepo"
)

// errNoRepo is returned when neither the --repo flag nor the configuration
// names a repository.
var errNoRepo = errors.New("no repository: pass --repo or set repo_path in config")

// openSession resolves the target repository for a CLI command: the --repo
// flag wins, then the configured default, then the current directory.
func openSession(repoFlag, configPath string) (*gitrepo.Session, error) {
	path := repoFlag

	if path == "" {
		cfg, err := config.Load(configPath)
		if err != nil {
			return nil, err
		}

		path = cfg.RepoPath
	}

	if path == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, errNoRepo
		}

		path = cwd
	}

	return gitrepo.NewSession(path)
}
