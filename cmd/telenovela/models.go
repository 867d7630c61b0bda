package main

import "time"

// View models for daemon API responses.

type projectView struct {
	ID                  string    `json:"id"`
	Title               string    `json:"title"`
	Setting             string    `json:"setting"`
	NumEpisodes         int       `json:"num_episodes"`
	CurrentStep         int       `json:"current_step"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
	IdeaCount           int       `json:"idea_count"`
	EpisodeCount        int       `json:"episode_count"`
	EpisodesGenerated   int       `json:"episodes_generated"`
	ImagesPendingReview int       `json:"images_pending_review"`
}

type projectListView struct {
	Projects []projectView `json:"projects"`
}

type progressView struct {
	CurrentStep    int    `json:"current_step"`
	StepName       string `json:"step_name"`
	CanProceed     bool   `json:"can_proceed"`
	BlockingReason string `json:"blocking_reason"`
	ItemsTotal     int    `json:"items_total"`
	ItemsCompleted int    `json:"items_completed"`
	ItemsPending   int    `json:"items_pending"`
}

type stuckEntityView struct {
	Kind      string    `json:"kind"`
	ID        string    `json:"id"`
	State     string    `json:"state"`
	CreatedAt time.Time `json:"created_at"`
}

type stuckListView struct {
	Stuck []stuckEntityView `json:"stuck"`
}

type outcomeView struct {
	Requested   int      `json:"requested"`
	Applied     int      `json:"applied"`
	RolledBack  int      `json:"rolled_back"`
	Chunks      int      `json:"chunks"`
	SkippedKeys []string `json:"skipped_keys"`
}

type settingView struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

type settingsListView struct {
	Settings []settingView `json:"settings"`
}
