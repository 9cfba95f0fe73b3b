// Package validator checks the environment before a batch runs: a usable
// browser binary and the credential variables the session manager needs.
package validator

import (
	"fmt"
	"os"

	"github.com/go-rod/rod/lib/launcher"

	"studioup/internal/config"
	"studioup/internal/utils"
)

// requiredEnvVars must be set before a batch can authenticate.
var requiredEnvVars = []string{
	config.EnvEmail,
	config.EnvPassword,
}

// optionalEnvVars are reported but not required.
var optionalEnvVars = []string{
	config.EnvRecoveryEmail,
	config.EnvUploadURL,
}

// ValidateBrowser checks for a system browser. Not finding one is only a
// warning: the launcher falls back to downloading its own Chromium.
func ValidateBrowser() error {
	path, found := launcher.LookPath()
	if !found {
		utils.LogWarning("No system browser found; a managed Chromium will be downloaded on first run")
		return nil
	}
	utils.LogVerbose("✓ browser found at %s", path)
	return nil
}

// ValidateEnvVars checks the credential environment.
func ValidateEnvVars() error {
	for _, name := range requiredEnvVars {
		if os.Getenv(name) == "" {
			return fmt.Errorf("required environment variable %s is not set", name)
		}
		utils.LogVerbose("✓ %s is set", name)
	}
	for _, name := range optionalEnvVars {
		if os.Getenv(name) == "" {
			utils.LogVerbose("optional %s is not set", name)
		}
	}
	return nil
}

// ValidateJobsFile parses the jobs file without running anything.
func ValidateJobsFile(path string) error {
	batch, err := config.Load(path)
	if err != nil {
		return err
	}
	utils.LogVerbose("✓ jobs file defines %d job(s)", len(batch.Jobs))
	return nil
}
