package cmd

import (
	"fmt"

	"studioup/internal/config"
	"studioup/internal/utils"
	"studioup/internal/validator"
	"studioup/internal/workflow"

	"github.com/spf13/cobra"
)

var (
	jobsFilePath string
	headlessFlag bool
	userDataDir  string
	noSandbox    bool
)

var uploadCmd = &cobra.Command{
	Use:   "upload",
	Short: "Run an upload batch",
	Long:  `Upload every video defined in a YAML jobs file through one console session.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := validator.ValidateEnvVars(); err != nil {
			return fmt.Errorf("environment validation failed: %w", err)
		}
		if err := validator.ValidateBrowser(); err != nil {
			return fmt.Errorf("browser validation failed: %w", err)
		}

		batch, err := config.Load(jobsFilePath)
		if err != nil {
			return fmt.Errorf("failed to load jobs file: %w", err)
		}

		creds, err := config.CredentialsFromEnv()
		if err != nil {
			return fmt.Errorf("failed to load credentials: %w", err)
		}

		opts := workflow.Options{
			Browser:         batch.Browser,
			UploadURL:       batch.ResolvedUploadURL(),
			StrictPlaylists: batch.StrictPlaylists,
		}
		// Flags override the jobs file.
		if cmd.Flags().Changed("headless") {
			opts.Browser.Headless = headlessFlag
		}
		if userDataDir != "" {
			opts.Browser.UserDataDir = userDataDir
		}
		if noSandbox {
			opts.Browser.NoSandbox = true
		}

		runner := workflow.NewRunner(opts)
		results, err := runner.Run(cmd.Context(), creds, batch.VideoJobs())
		if err != nil {
			return fmt.Errorf("batch failed: %w", err)
		}

		failed := 0
		for _, result := range results {
			if result.Succeeded() {
				utils.LogSuccess("[%d] %s -> %s", result.JobIndex, result.Title, result.URL)
			} else {
				failed++
				utils.LogError("[%d] %s -> %v", result.JobIndex, result.Title, result.Err)
			}
		}
		if failed > 0 {
			utils.LogWarning("%d of %d job(s) failed", failed, len(results))
		}
		return nil
	},
}

func init() {
	uploadCmd.Flags().StringVarP(&jobsFilePath, "jobs", "j", "", "Path to the YAML jobs file (required)")
	uploadCmd.Flags().BoolVar(&headlessFlag, "headless", true, "Run the browser headless")
	uploadCmd.Flags().StringVar(&userDataDir, "user-data-dir", "", "Browser profile directory for session persistence")
	uploadCmd.Flags().BoolVar(&noSandbox, "no-sandbox", false, "Disable the browser sandbox (containers)")

	if err := uploadCmd.MarkFlagRequired("jobs"); err != nil {
		panic(err)
	}

	rootCmd.AddCommand(uploadCmd)
}
