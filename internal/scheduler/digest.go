// Package scheduler runs the daily pending-requests digest: a log line
// summarizing the open queue so administrators see the morning backlog.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/kendoworks/taller/internal/models"
	"github.com/kendoworks/taller/internal/repo"
)

// Run registers the digest job with the given cron expression (e.g. "0 8 * * *")
// and starts the scheduler in the background. Returns an error only when the
// expression does not parse.
func Run(spec string, requests *repo.RequestRepo) error {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		counts, err := requests.CountByStatus(ctx)
		if err != nil {
			slog.Error("digest: count requests", "error", err)
			return
		}
		slog.Info("pending repair digest",
			"pending", counts[models.StatusPending],
			"summary", Summarize(counts))
	})
	if err != nil {
		return fmt.Errorf("scheduler: cron expression %q: %w", spec, err)
	}
	c.Start()
	slog.Info("scheduler: digest job registered", "cron", spec)
	return nil
}

// Summarize renders per-status counts as "status=N" pairs, enumerated
// statuses first in lifecycle order, anything unexpected after.
func Summarize(counts map[string]int) string {
	var parts []string
	seen := make(map[string]bool)
	for _, s := range models.Statuses {
		parts = append(parts, fmt.Sprintf("%s=%d", s, counts[s]))
		seen[s] = true
	}
	var extra []string
	for s := range counts {
		if !seen[s] {
			extra = append(extra, s)
		}
	}
	sort.Strings(extra)
	for _, s := range extra {
		parts = append(parts, fmt.Sprintf("%s=%d", s, counts[s]))
	}
	return strings.Join(parts, " ")
}
