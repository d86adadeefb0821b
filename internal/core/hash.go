package core

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// HashTree computes the content hash of an installed skill tree. The
// hash covers every regular file's relative path, size, and bytes,
// visited in sorted path order, so two trees with identical content
// always hash the same regardless of filesystem iteration order.
// Symlinks and other non-regular files are skipped.
func HashTree(root string) (string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.Type().IsRegular() {
			rel, err := filepath.Rel(root, path)
			if err != nil {
				return err
			}
			paths = append(paths, filepath.ToSlash(rel))
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("hash walk %s: %w", root, err)
	}
	sort.Strings(paths)

	digest := sha256.New()
	for _, rel := range paths {
		full := filepath.Join(root, filepath.FromSlash(rel))
		info, err := os.Stat(full)
		if err != nil {
			return "", err
		}
		io.WriteString(digest, rel)
		digest.Write([]byte{0})
		binary.Write(digest, binary.BigEndian, info.Size())

		file, err := os.Open(full)
		if err != nil {
			return "", err
		}
		_, err = io.Copy(digest, file)
		file.Close()
		if err != nil {
			return "", err
		}
	}
	return "sha256:" + hex.EncodeToString(digest.Sum(nil)), nil
}

// SameHash compares two content hashes, tolerating a missing "sha256:"
// prefix on either side.
func SameHash(a string, b string) bool {
	trim := func(s string) string { return strings.TrimPrefix(s, "sha256:") }
	return a != "" && b != "" && trim(a) == trim(b)
}
