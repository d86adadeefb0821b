package adapters

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"github.com/gofastskill/fastskill/internal/ports"
	"github.com/gofastskill/fastskill/internal/types"
)

// ExtractorAdapter installs fetched payloads into the skills directory.
// Content is staged into a hidden sibling directory first and swapped
// in with a rename, so the visible install is never half-written. Any
// entry that would land outside the staging root aborts the install.
type ExtractorAdapter struct{}

func NewExtractorAdapter() ExtractorAdapter {
	return ExtractorAdapter{}
}

func (a ExtractorAdapter) Install(ctx context.Context, payload ports.Payload, skillsDir string, id types.SkillID) (string, error) {
	if err := os.MkdirAll(skillsDir, 0o755); err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create skills directory").
			WithCause(err)
	}

	staging, err := os.MkdirTemp(skillsDir, fmt.Sprintf(".staging-%s-", id))
	if err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create staging directory").
			WithCause(err)
	}
	defer os.RemoveAll(staging)

	if payload.IsArchive {
		err = extractZip(ctx, payload.Path, staging)
	} else {
		src := payload.Path
		if payload.Subdir != "" {
			src, err = resolveSubdir(payload.Path, payload.Subdir)
		}
		if err == nil {
			err = copyTree(ctx, src, staging)
		}
	}
	if err != nil {
		return "", err
	}

	final := filepath.Join(skillsDir, string(id))
	return final, swapIn(staging, final, skillsDir, id)
}

// swapIn moves any prior install aside, renames staging into place, and
// restores the prior install when the rename fails.
func swapIn(staging string, final string, skillsDir string, id types.SkillID) error {
	var previous string
	if _, err := os.Stat(final); err == nil {
		previous, err = os.MkdirTemp(skillsDir, fmt.Sprintf(".previous-%s-", id))
		if err != nil {
			return errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("failed to create backup directory").
				WithCause(err)
		}
		os.Remove(previous)
		if err := os.Rename(final, previous); err != nil {
			return errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg(fmt.Sprintf("failed to move aside existing install of %s", id)).
				WithCause(err)
		}
	}

	if err := os.Rename(staging, final); err != nil {
		if previous != "" {
			if restoreErr := os.Rename(previous, final); restoreErr != nil {
				log.Warn().
					Str("skill", string(id)).
					Err(restoreErr).
					Msg("failed to restore previous install")
			}
		}
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("failed to install %s", id)).
			WithCause(err)
	}
	if previous != "" {
		os.RemoveAll(previous)
	}
	return nil
}

// pathEscapeError is the uniform rejection for entries that point
// outside the extraction root. It is never retried.
func pathEscapeError(name string) error {
	return errbuilder.New().
		WithCode(errbuilder.CodePermissionDenied).
		WithMsg(fmt.Sprintf("archive entry escapes extraction root: %s", name))
}

// safeJoin resolves an archive entry name under root, rejecting
// absolute paths and any traversal outside root.
func safeJoin(root string, name string) (string, error) {
	cleaned := filepath.Clean(filepath.FromSlash(name))
	if filepath.IsAbs(cleaned) || cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
		return "", pathEscapeError(name)
	}
	dest := filepath.Join(root, cleaned)
	rel, err := filepath.Rel(root, dest)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", pathEscapeError(name)
	}
	return dest, nil
}

// extractZip unpacks archive into root. Symlink entries are rejected
// outright: a link inside the tree could redirect later entries
// anywhere on the filesystem.
func extractZip(ctx context.Context, archive string, root string) error {
	reader, err := zip.OpenReader(archive)
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to open archive").
			WithCause(err)
	}
	defer reader.Close()

	for _, entry := range reader.File {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		dest, err := safeJoin(root, entry.Name)
		if err != nil {
			return err
		}
		mode := entry.Mode()
		if mode&os.ModeSymlink != 0 {
			return pathEscapeError(entry.Name)
		}
		if entry.FileInfo().IsDir() {
			if err := os.MkdirAll(dest, 0o755); err != nil {
				return extractWriteError(entry.Name, err)
			}
			continue
		}
		if !mode.IsRegular() {
			return pathEscapeError(entry.Name)
		}
		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			return extractWriteError(entry.Name, err)
		}
		if err := writeZipEntry(entry, dest); err != nil {
			return err
		}
	}
	return nil
}

func writeZipEntry(entry *zip.File, dest string) error {
	src, err := entry.Open()
	if err != nil {
		return extractWriteError(entry.Name, err)
	}
	defer src.Close()

	perm := entry.Mode().Perm()
	if perm == 0 {
		perm = 0o644
	}
	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return extractWriteError(entry.Name, err)
	}
	if _, err := io.Copy(out, src); err != nil {
		out.Close()
		return extractWriteError(entry.Name, err)
	}
	return out.Close()
}

func extractWriteError(name string, err error) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeInternal).
		WithMsg(fmt.Sprintf("failed to extract %s", name)).
		WithCause(err)
}

// resolveSubdir validates that subdir stays inside root and exists.
func resolveSubdir(root string, subdir string) (string, error) {
	dest, err := safeJoin(root, subdir)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(dest)
	if err != nil || !info.IsDir() {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("skill directory %s not found in checkout", subdir)).
			WithCause(err)
	}
	return dest, nil
}

// copyTree copies the regular files of src into dst. Symlinks and
// other non-regular entries are rejected, matching archive extraction.
func copyTree(ctx context.Context, src string, dst string) error {
	return filepath.WalkDir(src, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		switch {
		case entry.IsDir():
			return os.MkdirAll(target, 0o755)
		case entry.Type().IsRegular():
			return copyFile(path, target)
		default:
			return pathEscapeError(rel)
		}
	})
}

func copyFile(src string, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

var _ ports.ExtractorPort = ExtractorAdapter{}
