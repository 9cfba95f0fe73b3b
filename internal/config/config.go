// Package config loads the batch definition: jobs from a YAML file,
// credentials from the environment.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"studioup/internal/services/browser"
	"studioup/internal/uploader"
)

// Environment variables consumed at batch start.
const (
	EnvEmail         = "YT_EMAIL"
	EnvPassword      = "YT_PASS"
	EnvRecoveryEmail = "YT_RECOVERY_EMAIL"
	EnvUploadURL     = "YT_UPLOAD_URL"
)

// Job is the YAML shape of one video job.
type Job struct {
	Path            string   `yaml:"path"`
	Title           string   `yaml:"title"`
	Description     string   `yaml:"description"`
	Tags            []string `yaml:"tags,omitempty"`
	Language        string   `yaml:"language,omitempty"`
	Playlist        string   `yaml:"playlist,omitempty"`
	Thumbnail       string   `yaml:"thumbnail,omitempty"`
	Visibility      string   `yaml:"visibility,omitempty"`
	DelayedPublic   bool     `yaml:"delayedPublic,omitempty"`
	EndCardPlaylist string   `yaml:"endCardPlaylist,omitempty"`
}

// Batch is the YAML jobs file.
type Batch struct {
	UploadURL       string          `yaml:"uploadURL,omitempty"`
	StrictPlaylists bool            `yaml:"strictPlaylists,omitempty"`
	Browser         browser.Options `yaml:"browser,omitempty"`
	Jobs            []Job           `yaml:"jobs"`
}

// Load reads and validates a jobs file.
func Load(path string) (*Batch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read jobs file: %w", err)
	}

	var batch Batch
	if err := yaml.Unmarshal(data, &batch); err != nil {
		return nil, fmt.Errorf("failed to parse jobs file: %w", err)
	}

	if err := batch.validate(); err != nil {
		return nil, err
	}
	return &batch, nil
}

func (b *Batch) validate() error {
	if len(b.Jobs) == 0 {
		return fmt.Errorf("jobs file defines no jobs")
	}
	for i, job := range b.Jobs {
		if job.Path == "" {
			return fmt.Errorf("job %d has no video path", i)
		}
		if job.Title == "" {
			return fmt.Errorf("job %d has no title", i)
		}
	}
	return nil
}

// VideoJobs converts the YAML jobs into workflow jobs.
func (b *Batch) VideoJobs() []uploader.VideoJob {
	jobs := make([]uploader.VideoJob, 0, len(b.Jobs))
	for _, j := range b.Jobs {
		jobs = append(jobs, uploader.VideoJob{
			Path:            j.Path,
			Title:           j.Title,
			Description:     j.Description,
			Tags:            j.Tags,
			Language:        j.Language,
			Playlist:        j.Playlist,
			Thumbnail:       j.Thumbnail,
			Visibility:      j.Visibility,
			DelayedPublic:   j.DelayedPublic,
			EndCardPlaylist: j.EndCardPlaylist,
		})
	}
	return jobs
}

// ResolvedUploadURL picks the upload URL: jobs file first, then the
// environment, then the built-in default (handled downstream when empty).
func (b *Batch) ResolvedUploadURL() string {
	if b.UploadURL != "" {
		return b.UploadURL
	}
	return os.Getenv(EnvUploadURL)
}

// CredentialsFromEnv reads the account credentials. Email and password are
// required; the recovery email is optional.
func CredentialsFromEnv() (uploader.Credentials, error) {
	creds := uploader.Credentials{
		Email:         os.Getenv(EnvEmail),
		Password:      os.Getenv(EnvPassword),
		RecoveryEmail: os.Getenv(EnvRecoveryEmail),
	}
	if creds.Email == "" {
		return creds, fmt.Errorf("%s is not set", EnvEmail)
	}
	if creds.Password == "" {
		return creds, fmt.Errorf("%s is not set", EnvPassword)
	}
	return creds, nil
}
