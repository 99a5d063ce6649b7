package preflight

import (
	"comicbatch/internal/config"
	"comicbatch/internal/deps"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes the checks a run over inputDir needs. Optional tools that
// are missing are not reported as failures.
func RunAll(cfg *config.Config, inputDir string) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result

	// Input directory hosts the scratch area, so it must be writable.
	results = append(results, CheckDirectoryAccess("Input directory", inputDir))

	outputDir := cfg.Output.Dir
	if outputDir != "" && outputDir != inputDir {
		results = append(results, CheckDirectoryAccess("Output directory", outputDir))
	}

	statuses := CheckSystemDeps(cfg)
	for _, status := range statuses {
		if !status.Optional && status.Available {
			results = append(results, Result{Name: status.Name, Passed: true, Detail: status.Path})
		}
	}
	for _, status := range deps.Missing(statuses) {
		results = append(results, Result{Name: status.Name, Detail: status.Detail})
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
