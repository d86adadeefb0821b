package adapters

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"gopkg.in/yaml.v3"

	"github.com/gofastskill/fastskill/internal/ports"
	"github.com/gofastskill/fastskill/internal/shared"
	"github.com/gofastskill/fastskill/internal/types"
)

// LocalSourceAdapter lists skills from a local directory source. Every
// immediate subdirectory holding a SKILL.md is one skill; the directory
// name is the id and the frontmatter supplies name and version.
type LocalSourceAdapter struct{}

func NewLocalSourceAdapter() LocalSourceAdapter {
	return LocalSourceAdapter{}
}

func (a LocalSourceAdapter) List(_ context.Context, source types.RepositorySource) ([]types.SkillListing, error) {
	root := source.Path
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("source %s: cannot read %s", source.Name, root)).
			WithCause(err)
	}

	var listings []types.SkillListing
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		skillDir := filepath.Join(root, entry.Name())
		meta, err := ReadSkillMeta(skillDir)
		if err != nil {
			continue
		}
		id, err := types.ParseSkillID(shared.NormalizeSkillName(entry.Name()))
		if err != nil {
			continue
		}
		listings = append(listings, types.SkillListing{
			ID:          id,
			Name:        meta.Name,
			Description: meta.Description,
			Version:     meta.Version,
			Path:        skillDir,
		})
	}
	return listings, nil
}

var frontmatterDelimiter = []byte("---")

// ReadSkillMeta parses the YAML frontmatter of dir's SKILL.md. The
// frontmatter sits between the first two "---" lines; everything after
// is markdown and ignored.
func ReadSkillMeta(dir string) (types.SkillMeta, error) {
	raw, err := os.ReadFile(filepath.Join(dir, SkillFileName))
	if err != nil {
		return types.SkillMeta{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("no SKILL.md in %s", dir)).
			WithCause(err)
	}

	trimmed := bytes.TrimLeft(raw, "\uFEFF\n\r ")
	if !bytes.HasPrefix(trimmed, frontmatterDelimiter) {
		return types.SkillMeta{}, errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg(fmt.Sprintf("SKILL.md in %s has no frontmatter", dir))
	}
	rest := trimmed[len(frontmatterDelimiter):]
	end := bytes.Index(rest, append([]byte("\n"), frontmatterDelimiter...))
	if end < 0 {
		return types.SkillMeta{}, errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg(fmt.Sprintf("SKILL.md in %s has unterminated frontmatter", dir))
	}

	var meta types.SkillMeta
	if err := yaml.Unmarshal(rest[:end], &meta); err != nil {
		return types.SkillMeta{}, errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg(fmt.Sprintf("SKILL.md in %s has invalid frontmatter", dir)).
			WithCause(err)
	}
	if meta.Name == "" {
		return types.SkillMeta{}, errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg(fmt.Sprintf("SKILL.md in %s is missing the name field", dir))
	}
	return meta, nil
}

var _ ports.LocalSourcePort = LocalSourceAdapter{}
