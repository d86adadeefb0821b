package adapters

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"github.com/gofastskill/fastskill/internal/shared"
)

const defaultGitCacheTTL = 15 * time.Minute

// GitCache keeps shallow checkouts of marketplace repositories, keyed
// by URL and ref. A fresh checkout is reused by both the listing and
// the fetch step within the TTL, so one install run clones each
// repository at most once.
type GitCache struct {
	Dir string
	TTL time.Duration

	mu sync.Mutex
}

func NewGitCache(dir string, ttl time.Duration) *GitCache {
	if ttl <= 0 {
		ttl = defaultGitCacheTTL
	}
	return &GitCache{Dir: dir, TTL: ttl}
}

// Checkout returns a directory holding a shallow clone of url at ref.
// The directory belongs to the cache; callers must not modify it.
func (g *GitCache) Checkout(ctx context.Context, url string, ref string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	dest := filepath.Join(g.Dir, checkoutKey(url, ref))
	if info, err := os.Stat(dest); err == nil {
		if time.Since(info.ModTime()) < g.TTL {
			return dest, nil
		}
		if err := os.RemoveAll(dest); err != nil {
			return "", errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("failed to evict stale checkout").
				WithCause(err)
		}
	}

	if err := os.MkdirAll(g.Dir, 0o755); err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create git cache directory").
			WithCause(err)
	}

	args := []string{"clone", "--depth", "1"}
	if strings.TrimSpace(ref) != "" {
		args = append(args, "--branch", ref)
	}
	args = append(args, url, dest)

	cmd := exec.CommandContext(ctx, "git", args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		os.RemoveAll(dest)
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("failed to clone %s", url)).
			WithCause(shared.CommandError(output, err))
	}
	return dest, nil
}

func checkoutKey(url string, ref string) string {
	sum := sha256.Sum256([]byte(url + "\x00" + ref))
	return hex.EncodeToString(sum[:])[:16]
}
