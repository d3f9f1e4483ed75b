// pkg/registry/schema.go
package registry

import (
	"slices"
	"time"
)

type ActivityRegistry struct {
	Version     string     `json:"version"`
	LastUpdated string     `json:"lastUpdated"`
	Activities  []Activity `json:"activities"`
}

// Activity describes one operation the service exposes and the channels
// (http, telegram, cli, zeebe) it is reachable through.
type Activity struct {
	ID           string                 `json:"id"`
	DisplayName  string                 `json:"displayName"`
	Description  string                 `json:"description"`
	Version      string                 `json:"version"`
	TaskType     string                 `json:"taskType"`
	Status       string                 `json:"status"`
	InputSchema  map[string]interface{} `json:"inputSchema"`
	OutputSchema map[string]interface{} `json:"outputSchema"`
	ErrorCodes   []string               `json:"errorCodes"`
	Timeout      string                 `json:"timeout"`
	Retries      int                    `json:"retries"`
	Channels     []string               `json:"channels"`
}

// TimeoutDuration parses Timeout. An empty timeout is zero.
func (a *Activity) TimeoutDuration() (time.Duration, error) {
	if a.Timeout == "" {
		return 0, nil
	}
	return time.ParseDuration(a.Timeout)
}

func (a *Activity) ServedOver(channel string) bool {
	return slices.Contains(a.Channels, channel)
}
