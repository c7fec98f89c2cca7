// Package version provides build-time metadata for the status service.
// The string variables are populated via -ldflags when the container image
// is built; the rest is captured once per process.
package version

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	// Version is the semantic version or git describe output.
	// Set via: -ldflags "-X statusapi/internal/version.Version=..."
	Version = "unknown"

	// BuildDate is the ISO 8601 UTC timestamp when the binary was built.
	// Set via: -ldflags "-X statusapi/internal/version.BuildDate=..."
	BuildDate = "unknown"

	// GitCommit is the git commit SHA of the source code.
	// Set via: -ldflags "-X statusapi/internal/version.GitCommit=..."
	GitCommit = "unknown"
)

var startTime = time.Now()

// Info holds build metadata and the identity of this process. On Fargate the
// hostname is the task's private IP-based name, so InstanceID is what tells
// two replicas apart in logs and traces.
type Info struct {
	Version    string    `json:"version"`
	GitCommit  string    `json:"git_commit"`
	BuildDate  string    `json:"build_date"`
	InstanceID string    `json:"instance_id"`
	Hostname   string    `json:"hostname"`
	StartedAt  time.Time `json:"started_at"`
}

var (
	once sync.Once
	info Info
)

// GetInfo returns build metadata and process identity. The instance ID and
// hostname are computed on first call and cached.
func GetInfo() Info {
	once.Do(func() {
		info = Info{
			Version:    Version,
			GitCommit:  GitCommit,
			BuildDate:  BuildDate,
			InstanceID: uuid.New().String(),
			Hostname:   getHostname(),
			StartedAt:  startTime,
		}
	})
	return info
}

// Uptime reports how long the process has been running.
func (i Info) Uptime() time.Duration {
	if i.StartedAt.IsZero() {
		return 0
	}
	return time.Since(i.StartedAt)
}

func getHostname() string {
	hostname, err := os.Hostname()
	if err != nil || hostname == "" {
		return "unknown"
	}
	return hostname
}

// String formats version info for the -version flag.
func (i Info) String() string {
	return fmt.Sprintf("statusapi version %s (commit: %s, built: %s)", i.Version, i.GitCommit, i.BuildDate)
}
