package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"github.com/gofastskill/fastskill/internal/ports"
	"github.com/gofastskill/fastskill/internal/shared"
	"github.com/gofastskill/fastskill/internal/types"
)

// marketplaceDoc is the marketplace.json catalog at the root of a
// marketplace repository (or under .claude-plugin/). Each plugin groups
// skill directories relative to the plugin's source path.
type marketplaceDoc struct {
	Name     string `json:"name"`
	Metadata struct {
		Description string `json:"description"`
		Version     string `json:"version"`
	} `json:"metadata"`
	Plugins []marketplacePlugin `json:"plugins"`
}

type marketplacePlugin struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Source      string   `json:"source"`
	Skills      []string `json:"skills"`
}

// marketplaceLocations are tried in order inside a checkout.
var marketplaceLocations = []string{
	filepath.Join(".claude-plugin", "marketplace.json"),
	"marketplace.json",
}

// MarketplaceGitAdapter lists skills from a git-marketplace source by
// cloning it shallowly and reading its catalog.
type MarketplaceGitAdapter struct {
	Git *GitCache
}

func NewMarketplaceGitAdapter(git *GitCache) MarketplaceGitAdapter {
	return MarketplaceGitAdapter{Git: git}
}

func (a MarketplaceGitAdapter) List(ctx context.Context, source types.RepositorySource) ([]types.SkillListing, error) {
	checkout, err := a.Git.Checkout(ctx, source.URL, source.Ref)
	if err != nil {
		return nil, err
	}

	var raw []byte
	for _, location := range marketplaceLocations {
		raw, err = os.ReadFile(filepath.Join(checkout, location))
		if err == nil {
			break
		}
	}
	if raw == nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("source %s has no marketplace.json", source.Name))
	}

	var doc marketplaceDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("source %s: failed to parse marketplace.json", source.Name)).
			WithCause(err)
	}

	var listings []types.SkillListing
	for _, plugin := range doc.Plugins {
		for _, skillPath := range plugin.Skills {
			resolved := resolveSkillPath(plugin.Source, skillPath)
			id, err := types.ParseSkillID(shared.NormalizeSkillName(path.Base(resolved)))
			if err != nil {
				continue
			}
			description := plugin.Description
			if description == "" {
				description = doc.Metadata.Description
			}
			// An absent catalog version stays empty; the resolver
			// substitutes its unversioned placeholder.
			listings = append(listings, types.SkillListing{
				ID:          id,
				Name:        path.Base(resolved),
				Description: description,
				Version:     doc.Metadata.Version,
				Path:        resolved,
			})
		}
	}
	return listings, nil
}

// resolveSkillPath joins a plugin source prefix with a skill path. A
// leading slash means relative to the repository root regardless of the
// plugin's source.
func resolveSkillPath(pluginSource string, skillPath string) string {
	if strings.HasPrefix(skillPath, "/") {
		return strings.TrimPrefix(skillPath, "/")
	}
	base := strings.TrimSuffix(pluginSource, "/")
	if base == "" || base == "." || base == "./" {
		return strings.TrimPrefix(skillPath, "./")
	}
	return path.Join(base, strings.TrimPrefix(skillPath, "./"))
}

var _ ports.MarketplacePort = MarketplaceGitAdapter{}
