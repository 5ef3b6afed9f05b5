package engine

import (
	"os"
	"path/filepath"
	"regexp"

	"github.com/hostforensics/collector/pkg/errors"
	"github.com/hostforensics/collector/pkg/types"
)

// job is one resolved acquisition: a concrete source path paired with the
// staging-relative destination it must land at.
type job struct {
	artifact    types.Artifact
	source      string
	destination string // relative to staging root
}

// resolve expands one artifact into its acquisition jobs using a
// three-way path-resolution strategy: a regex pattern, a glob pattern,
// or a literal path, tried in that order.
func resolve(artifact types.Artifact) ([]job, error) {
	switch {
	case artifact.Regex != "":
		return resolveRegex(artifact)
	case hasGlobMeta(artifact.SourcePath):
		return resolveGlob(artifact)
	default:
		return []job{{artifact: artifact, source: artifact.SourcePath, destination: artifact.DestinationName}}, nil
	}
}

// resolveRegex treats source_path as a directory root and acquires entries
// whose file name matches the pattern, preserving relative paths.
func resolveRegex(artifact types.Artifact) ([]job, error) {
	pattern, err := regexp.Compile(artifact.Regex)
	if err != nil {
		return nil, errors.New(errors.ErrCodeInternal, "invalid regex pattern").
			WithComponent("engine").WithOperation("resolve").WithContext("artifact", artifact.Name).WithCause(err)
	}

	var jobs []job
	walkErr := filepath.Walk(artifact.SourcePath, func(path string, info os.FileInfo, err error) error {
		if err != nil || info == nil || info.IsDir() {
			return nil
		}
		rel, relErr := filepath.Rel(artifact.SourcePath, path)
		if relErr != nil {
			return nil
		}
		if pattern.MatchString(info.Name()) {
			jobs = append(jobs, job{
				artifact:    artifact,
				source:      path,
				destination: filepath.Join(artifact.DestinationName, rel),
			})
		}
		return nil
	})
	if walkErr != nil {
		return nil, nil // walk failed: the artifact resolves to no jobs, without an error
	}
	return jobs, nil
}

// resolveGlob expands platform glob metacharacters in source_path; each
// match produces a job whose destination is destination_name suffixed by
// the match's relative path.
func resolveGlob(artifact types.Artifact) ([]job, error) {
	matches, err := filepath.Glob(artifact.SourcePath)
	if err != nil {
		return nil, errors.New(errors.ErrCodeInternal, "invalid glob pattern").
			WithComponent("engine").WithOperation("resolve").WithContext("artifact", artifact.Name).WithCause(err)
	}

	base := globBase(artifact.SourcePath)
	jobs := make([]job, 0, len(matches))
	for _, match := range matches {
		rel, relErr := filepath.Rel(base, match)
		if relErr != nil {
			rel = filepath.Base(match)
		}
		jobs = append(jobs, job{
			artifact:    artifact,
			source:      match,
			destination: filepath.Join(artifact.DestinationName, rel),
		})
	}
	return jobs, nil
}

// globBase returns the non-wildcard directory prefix of a glob pattern.
func globBase(pattern string) string {
	dir := filepath.Dir(pattern)
	for hasGlobMeta(dir) {
		dir = filepath.Dir(dir)
	}
	return dir
}

func hasGlobMeta(path string) bool {
	for _, c := range path {
		switch c {
		case '*', '?', '[':
			return true
		}
	}
	return false
}
