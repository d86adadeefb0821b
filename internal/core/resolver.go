package core

import (
	"context"
	"fmt"
	"strings"

	assert "github.com/ZanzyTHEbar/assert-lib"
	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"github.com/gofastskill/fastskill/internal/types"
)

// Resolver turns a declared dependency into a concrete fetch candidate
// by consulting sources in priority order. An unreachable source is
// recorded and skipped; resolution only fails when no reachable source
// can satisfy the dependency.
type Resolver struct {
	Registry Registry
}

func NewResolver(registry Registry) Resolver {
	return Resolver{Registry: registry}
}

// Resolve picks the candidate for dep. When dep pins a source by name
// only that source is consulted. Otherwise sources are grouped by
// priority value; the first group with a match wins, and within a
// group the source configured first takes the tie.
func (r Resolver) Resolve(ctx context.Context, dep types.DependencySpec) (types.Candidate, []types.SourceFailure, error) {
	assert.NotEmpty(ctx, string(dep.ID), "dependency id must be set")

	constraints, err := ParseConstraint(dep.Constraint)
	if err != nil {
		return types.Candidate{}, nil, err
	}

	sources := r.Registry.Sources()
	if dep.Source != "" {
		pinned, ok := r.Registry.SourceByName(dep.Source)
		if !ok {
			return types.Candidate{}, nil, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("skill %s pins unknown source %q", dep.ID, dep.Source))
		}
		sources = []types.RepositorySource{pinned}
	}
	if len(sources) == 0 {
		return types.Candidate{}, nil, errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg(fmt.Sprintf("no repository sources configured, cannot resolve %s", dep.ID))
	}

	var failures []types.SourceFailure
	consulted := make([]string, 0, len(sources))
	seenAnywhere := false

	for start := 0; start < len(sources); {
		end := start
		for end < len(sources) && sources[end].Priority == sources[start].Priority {
			end++
		}

		type match struct {
			source   types.RepositorySource
			versions []string
			byVer    map[string]types.SkillListing
		}
		var matches []match

		for _, source := range sources[start:end] {
			consulted = append(consulted, source.Name)
			listings, err := r.Registry.List(ctx, source)
			if err != nil {
				if ctx.Err() != nil {
					return types.Candidate{}, failures, err
				}
				log.Ctx(ctx).Warn().
					Str("source", source.Name).
					Err(err).
					Msg("source unavailable, skipping")
				failures = append(failures, types.SourceFailure{
					SourceName: source.Name,
					Message:    err.Error(),
				})
				continue
			}
			m := match{source: source, byVer: map[string]types.SkillListing{}}
			for _, listing := range listings {
				if listing.ID != dep.ID {
					continue
				}
				seenAnywhere = true
				version := listing.Version
				if version == "" {
					version = unversioned
				}
				ok, err := versionSatisfies(version, constraints)
				if err != nil || !ok {
					continue
				}
				if _, dup := m.byVer[version]; !dup {
					m.versions = append(m.versions, version)
				}
				m.byVer[version] = listing
			}
			if len(m.versions) > 0 {
				matches = append(matches, m)
			}
		}

		if len(matches) > 0 {
			// Equal-priority ties go to the source configured first;
			// the stable priority sort keeps configuration order
			// within a group.
			m := matches[0]
			version, err := bestCompatibleVersion(dep.ID, constraints, m.versions)
			if err != nil {
				return types.Candidate{}, failures, err
			}
			listing := m.byVer[version]
			return types.Candidate{
				SourceName:  m.source.Name,
				SourceType:  m.source.Type,
				Version:     version,
				Fetch:       buildFetchSpec(m.source, listing),
				ContentHash: listing.Digest,
			}, failures, nil
		}
		start = end
	}

	if seenAnywhere {
		return types.Candidate{}, failures, errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg(fmt.Sprintf("no version of %s satisfies %q in any source", dep.ID, dep.Constraint))
	}
	return types.Candidate{}, failures, errbuilder.New().
		WithCode(errbuilder.CodeNotFound).
		WithMsg(fmt.Sprintf("skill %s not found in any source (consulted: %s)", dep.ID, strings.Join(consulted, ", ")))
}

// unversioned stands in for sources that do not advertise a version.
// It is checked like any real version, so a pinned constraint rejects
// an unversioned source instead of silently accepting it.
const unversioned = "0.0.0"

// buildFetchSpec maps a source and its matched listing onto fetch
// instructions for the transport layer.
func buildFetchSpec(source types.RepositorySource, listing types.SkillListing) types.FetchSpec {
	switch source.Type {
	case types.SourceTypeGitMarketplace:
		return types.FetchSpec{
			Kind:   source.Type,
			GitURL: source.URL,
			GitRef: source.Ref,
			Subdir: listing.Path,
			Auth:   source.Auth,
		}
	case types.SourceTypeHTTPRegistry, types.SourceTypeArchiveURL:
		return types.FetchSpec{
			Kind:       source.Type,
			ArchiveURL: listing.DownloadURL,
			Auth:       source.Auth,
		}
	case types.SourceTypeLocal:
		return types.FetchSpec{
			Kind:      source.Type,
			LocalPath: listing.Path,
		}
	default:
		return types.FetchSpec{Kind: source.Type}
	}
}
