// Package configsource provides a concrete retrymode.ProfileSource
// backed by an AWS-style shared configuration file, the config-file
// format the credentials/config resolution chain in the corpus's
// viper-based configuration stacks is modeled after.
package configsource

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/go-ini/ini"
)

// EnvConfigFile and EnvProfile mirror the AWS CLI/SDK environment
// variables that locate the shared config file and select the active
// profile.
const (
	EnvConfigFile = "AWS_CONFIG_FILE"
	EnvProfile    = "AWS_PROFILE"

	defaultProfile = "default"
)

// FileProfileSource implements retrymode.ProfileSource by reading the
// retry_mode property from a profile section of an ini-formatted
// shared configuration file. Sections are named "default" or
// "profile <name>", matching the AWS shared config file convention.
type FileProfileSource struct {
	path    string
	profile string

	mu      sync.Mutex
	loaded  bool
	file    *ini.File
	loadErr error
}

// NewFileProfileSource builds a source that reads path under the given
// named profile. An empty profile means "default".
func NewFileProfileSource(path, profile string) *FileProfileSource {
	if profile == "" {
		profile = defaultProfile
	}
	return &FileProfileSource{path: path, profile: profile}
}

// DefaultFileProfileSource builds a source from the environment,
// resolving the config file location and profile name the same way the
// AWS CLI does: AWS_CONFIG_FILE (defaulting to ~/.aws/config) and
// AWS_PROFILE (defaulting to "default").
func DefaultFileProfileSource() *FileProfileSource {
	path := os.Getenv(EnvConfigFile)
	if path == "" {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, ".aws", "config")
		}
	}
	profile := os.Getenv(EnvProfile)
	return NewFileProfileSource(path, profile)
}

func (f *FileProfileSource) load() {
	if f.loaded {
		return
	}
	f.loaded = true
	if f.path == "" {
		f.loadErr = os.ErrNotExist
		return
	}
	cfg, err := ini.Load(f.path)
	if err != nil {
		f.loadErr = err
		return
	}
	f.file = cfg
}

// RetryModeProperty returns the retry_mode value from the active
// profile's section, if the file and section exist and set it.
func (f *FileProfileSource) RetryModeProperty() (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.load()
	if f.loadErr != nil || f.file == nil {
		return "", false
	}

	sectionName := f.profile
	if sectionName != defaultProfile {
		sectionName = "profile " + sectionName
	}
	section, err := f.file.GetSection(sectionName)
	if err != nil {
		return "", false
	}
	key, err := section.GetKey("retry_mode")
	if err != nil {
		return "", false
	}
	v := strings.TrimSpace(key.String())
	if v == "" {
		return "", false
	}
	return v, true
}
