package adapters

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"github.com/gofastskill/fastskill/internal/ports"
	"github.com/gofastskill/fastskill/internal/shared"
	"github.com/gofastskill/fastskill/internal/types"
)

// FetchAdapter materializes resolved candidates: git checkouts via the
// shared cache, archives via HTTP download, local paths as-is.
type FetchAdapter struct {
	Git        *GitCache
	Client     *http.Client
	Retries    int
	RetryDelay time.Duration
}

func NewFetchAdapter(git *GitCache, timeoutSec int, retries int, retryDelayMs int) FetchAdapter {
	timeout := defaultHTTPTimeout
	if timeoutSec > 0 {
		timeout = time.Duration(timeoutSec) * time.Second
	}
	if retries <= 0 {
		retries = defaultHTTPRetries
	}
	delay := defaultHTTPRetryDelay
	if retryDelayMs > 0 {
		delay = time.Duration(retryDelayMs) * time.Millisecond
	}
	return FetchAdapter{
		Git:        git,
		Client:     &http.Client{Timeout: timeout},
		Retries:    retries,
		RetryDelay: delay,
	}
}

func noopCleanup() {}

func (a FetchAdapter) Fetch(ctx context.Context, id types.SkillID, spec types.FetchSpec) (ports.Payload, error) {
	switch spec.Kind {
	case types.SourceTypeGitMarketplace:
		checkout, err := a.Git.Checkout(ctx, spec.GitURL, spec.GitRef)
		if err != nil {
			return ports.Payload{}, err
		}
		return ports.Payload{
			Path:    checkout,
			Subdir:  spec.Subdir,
			Cleanup: noopCleanup,
		}, nil

	case types.SourceTypeHTTPRegistry, types.SourceTypeArchiveURL:
		return a.downloadArchive(ctx, id, spec)

	case types.SourceTypeLocal:
		info, err := os.Stat(spec.LocalPath)
		if err != nil || !info.IsDir() {
			return ports.Payload{}, errbuilder.New().
				WithCode(errbuilder.CodeNotFound).
				WithMsg(fmt.Sprintf("skill %s: local path %s is not a directory", id, spec.LocalPath)).
				WithCause(err)
		}
		return ports.Payload{Path: spec.LocalPath, Cleanup: noopCleanup}, nil

	default:
		return ports.Payload{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("skill %s: unknown fetch kind %q", id, spec.Kind))
	}
}

// downloadArchive streams the archive to a temp file, retrying on
// transient failures. The payload's cleanup removes the file.
func (a FetchAdapter) downloadArchive(ctx context.Context, id types.SkillID, spec types.FetchSpec) (ports.Payload, error) {
	if strings.TrimSpace(spec.ArchiveURL) == "" {
		return ports.Payload{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("skill %s has no download url", id))
	}

	var lastErr error
	for attempt := 0; attempt < a.Retries; attempt++ {
		if ctx.Err() != nil {
			return ports.Payload{}, ctx.Err()
		}
		path, retry, err := a.downloadOnce(ctx, id, spec)
		if err == nil {
			return ports.Payload{
				Path:      path,
				IsArchive: true,
				Cleanup:   func() { os.Remove(path) },
			}, nil
		}
		lastErr = err
		if !retry || attempt == a.Retries-1 {
			return ports.Payload{}, err
		}
		select {
		case <-time.After(httpRetryDelay(a.RetryDelay, attempt)):
		case <-ctx.Done():
			return ports.Payload{}, ctx.Err()
		}
	}
	return ports.Payload{}, lastErr
}

func (a FetchAdapter) downloadOnce(ctx context.Context, id types.SkillID, spec types.FetchSpec) (string, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, spec.ArchiveURL, nil)
	if err != nil {
		return "", false, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create download request").
			WithCause(err)
	}
	applyAuth(req, spec.Auth)

	resp, err := a.Client.Do(req)
	if err != nil {
		return "", true, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("failed to download %s", id)).
			WithCause(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		retry := shared.RetryableStatus(resp.StatusCode)
		return "", retry, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("failed to download %s", id)).
			WithCause(shared.HTTPStatusErrorWithBody(resp.StatusCode, spec.ArchiveURL, strings.TrimSpace(string(body))))
	}

	tmp, err := os.CreateTemp("", fmt.Sprintf("fastskill-%s-*.zip", id))
	if err != nil {
		return "", false, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create download file").
			WithCause(err)
	}
	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", true, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("failed to download %s", id)).
			WithCause(err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", false, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to finalize download").
			WithCause(err)
	}
	return filepath.Clean(tmp.Name()), false, nil
}

var _ ports.FetchPort = FetchAdapter{}
