package cmd

import (
	"fmt"

	"studioup/internal/utils"
	"studioup/internal/validator"

	"github.com/spf13/cobra"
)

var validateJobsPath string

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate environment setup",
	Long:  `Check the browser, credential environment variables and optionally a jobs file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		utils.LogInfo("Validating environment...")

		if err := validator.ValidateBrowser(); err != nil {
			return fmt.Errorf("browser validation failed: %w", err)
		}
		utils.LogSuccess("Browser: OK")

		if err := validator.ValidateEnvVars(); err != nil {
			return fmt.Errorf("environment variables validation failed: %w", err)
		}
		utils.LogSuccess("Environment variables: OK")

		if validateJobsPath != "" {
			if err := validator.ValidateJobsFile(validateJobsPath); err != nil {
				return fmt.Errorf("jobs file validation failed: %w", err)
			}
			utils.LogSuccess("Jobs file: OK")
		}

		utils.LogSuccess("Environment validation completed successfully")
		return nil
	},
}

func init() {
	validateCmd.Flags().StringVarP(&validateJobsPath, "jobs", "j", "", "Jobs file to validate")
	rootCmd.AddCommand(validateCmd)
}
