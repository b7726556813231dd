// Package cmd defines core data structures for reviewbot configuration.
package cmd

// Config represents the structure of reviewbot.yaml
type Config struct {
	// URL is the base URL of the ReviewBoard server, e.g. "https://reviewboard.example.com/".
	URL string `yaml:"url"`
	// Username is the account reviewbot authenticates as. Comments
	// authored by this account suppress re-building a review.
	Username string `yaml:"username"`
	// PeriodHours is the recency window for the pending selector.
	PeriodHours int64 `yaml:"period_hours,omitempty"`
	// OnlyMine restricts the pending listing to reviews assigned to Username.
	OnlyMine bool `yaml:"only_mine,omitempty"`
	// Repository optionally restricts the pending listing to one
	// repository, by display name (case-insensitive).
	Repository string `yaml:"repository,omitempty"`
}
