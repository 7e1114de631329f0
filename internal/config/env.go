package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// DefaultEnvFile is looked up in the target repository when no env file is given.
const DefaultEnvFile = ".env"

// LoadEnv loads git identity variables such as GIT_AUTHOR_NAME from an env
// file into the process environment, where the git child process inherits
// them. An explicit path must exist; the repository default may be absent.
// Variables already set in the environment win.
func LoadEnv(path, repo string) (string, error) {
	explicit := path != ""
	if !explicit {
		path = filepath.Join(repo, DefaultEnvFile)
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) && !explicit {
			return "", nil
		}
		return "", fmt.Errorf("failed to stat env file: %w", err)
	}
	if err := godotenv.Load(path); err != nil {
		return "", fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return path, nil
}
