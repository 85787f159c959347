package preflight

import (
	"context"
	"fmt"
	"strings"

	"vidsum/internal/config"
	"vidsum/internal/deps"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes the directory, dependency, and generation model checks.
func RunAll(ctx context.Context, cfg *config.Config, models ModelChecker) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{CheckDirectoryAccess("Work directory", cfg.Paths.WorkDir)}
	for _, status := range CheckSystemDeps(ctx, cfg) {
		results = append(results, resultFromStatus(status))
	}
	if models != nil {
		results = append(results, CheckGenerationModel(ctx, models, cfg.Generation.Model))
	}
	return results
}

// Failed returns the results that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, r)
		}
	}
	return failed
}

// Summarize joins failed results into one line suitable for an error message.
func Summarize(results []Result) string {
	parts := make([]string, 0, len(results))
	for _, r := range results {
		parts = append(parts, fmt.Sprintf("%s: %s", r.Name, r.Detail))
	}
	return strings.Join(parts, "; ")
}

func resultFromStatus(status deps.Status) Result {
	detail := status.Detail
	switch {
	case status.Available && status.Version != "":
		detail = status.Version
	case status.Available:
		detail = status.Path
	case status.Optional:
		detail = "optional: " + detail
	}
	return Result{Name: status.Name, Passed: status.Satisfied(), Detail: detail}
}
