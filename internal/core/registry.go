package core

import (
	"context"
	"fmt"
	"sort"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"github.com/gofastskill/fastskill/internal/ports"
	"github.com/gofastskill/fastskill/internal/types"
)

// Registry holds the configured repository sources in priority order
// and dispatches listing calls to the port matching each source's type.
// The source set is validated once at construction and immutable
// afterwards.
type Registry struct {
	Marketplace ports.MarketplacePort
	RegistryAPI ports.RegistryClientPort
	Local       ports.LocalSourcePort

	sources []types.RepositorySource
}

func NewRegistry(marketplace ports.MarketplacePort, registry ports.RegistryClientPort, local ports.LocalSourcePort, sources []types.RepositorySource) (Registry, error) {
	seen := map[string]bool{}
	for _, source := range sources {
		if source.Name == "" {
			return Registry{}, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("repository source without a name")
		}
		if seen[source.Name] {
			return Registry{}, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("duplicate repository source: %s", source.Name))
		}
		seen[source.Name] = true
		if !types.KnownSourceType(source.Type) {
			return Registry{}, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("unknown source type %q for source %s", source.Type, source.Name))
		}
	}

	ordered := make([]types.RepositorySource, len(sources))
	copy(ordered, sources)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Priority < ordered[j].Priority
	})

	return Registry{
		Marketplace: marketplace,
		RegistryAPI: registry,
		Local:       local,
		sources:     ordered,
	}, nil
}

// Sources returns the configured sources, highest priority first.
func (r Registry) Sources() []types.RepositorySource {
	return r.sources
}

// SourceByName returns the named source, if configured.
func (r Registry) SourceByName(name string) (types.RepositorySource, bool) {
	for _, source := range r.sources {
		if source.Name == name {
			return source, true
		}
	}
	return types.RepositorySource{}, false
}

// List returns the skills advertised by one source. An archive-url
// source advertises exactly one skill named after the source itself;
// the other types delegate to their port.
func (r Registry) List(ctx context.Context, source types.RepositorySource) ([]types.SkillListing, error) {
	switch source.Type {
	case types.SourceTypeGitMarketplace:
		return r.Marketplace.List(ctx, source)
	case types.SourceTypeHTTPRegistry:
		return r.RegistryAPI.List(ctx, source)
	case types.SourceTypeLocal:
		return r.Local.List(ctx, source)
	case types.SourceTypeArchiveURL:
		id, err := types.ParseSkillID(source.Name)
		if err != nil {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("archive-url source %s: name is not a valid skill id", source.Name)).
				WithCause(err)
		}
		return []types.SkillListing{{
			ID:          id,
			Name:        source.Name,
			DownloadURL: source.URL,
		}}, nil
	default:
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("unknown source type %q", source.Type))
	}
}
