package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"github.com/gofastskill/fastskill/internal/ports"
	"github.com/gofastskill/fastskill/internal/shared"
	"github.com/gofastskill/fastskill/internal/types"
)

const defaultHTTPTimeout = 30 * time.Second
const defaultHTTPRetries = 3
const defaultHTTPRetryDelay = 200 * time.Millisecond
const maxHTTPRetryDelay = 2 * time.Second

// registryIndex is the flat JSON index served by an http-registry
// source at its base URL.
type registryIndex struct {
	Skills []registrySkill `json:"skills"`
}

type registrySkill struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Version     string `json:"version"`
	DownloadURL string `json:"download_url"`
	SHA256      string `json:"sha256"`
}

// RegistryHTTPAdapter queries http-registry sources. Transient failures
// (5xx, 429, network errors) are retried with capped exponential
// backoff and jitter; client errors are not.
type RegistryHTTPAdapter struct {
	Client     *http.Client
	Retries    int
	RetryDelay time.Duration
}

func NewRegistryHTTPAdapter(timeoutSec int, retries int, retryDelayMs int) RegistryHTTPAdapter {
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
	return RegistryHTTPAdapter{
		Client:     &http.Client{Timeout: timeout},
		Retries:    retries,
		RetryDelay: delay,
	}
}

func (a RegistryHTTPAdapter) List(ctx context.Context, source types.RepositorySource) ([]types.SkillListing, error) {
	url := strings.TrimRight(strings.TrimSpace(source.URL), "/")
	if url == "" {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("source %s has no url", source.Name))
	}
	if !strings.HasSuffix(url, ".json") {
		url += "/index.json"
	}

	raw, err := a.getWithRetry(ctx, url, source.Auth)
	if err != nil {
		return nil, err
	}

	var index registryIndex
	if err := json.Unmarshal(raw, &index); err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("source %s: failed to parse registry index", source.Name)).
			WithCause(err)
	}

	var listings []types.SkillListing
	for _, skill := range index.Skills {
		id, err := types.ParseSkillID(shared.NormalizeSkillName(skill.ID))
		if err != nil {
			continue
		}
		listings = append(listings, types.SkillListing{
			ID:          id,
			Name:        skill.Name,
			Description: skill.Description,
			Version:     skill.Version,
			DownloadURL: skill.DownloadURL,
			Digest:      skill.SHA256,
		})
	}
	return listings, nil
}

func (a RegistryHTTPAdapter) getWithRetry(ctx context.Context, url string, auth *types.SourceAuth) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt < a.Retries; attempt++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		body, retry, err := a.getOnce(ctx, url, auth)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if !retry || attempt == a.Retries-1 {
			return nil, err
		}
		select {
		case <-time.After(httpRetryDelay(a.RetryDelay, attempt)):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return nil, lastErr
}

func (a RegistryHTTPAdapter) getOnce(ctx context.Context, url string, auth *types.SourceAuth) ([]byte, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, false, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create registry request").
			WithCause(err)
	}
	applyAuth(req, auth)

	resp, err := a.Client.Do(req)
	if err != nil {
		return nil, true, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("registry request failed").
			WithCause(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		retry := shared.RetryableStatus(resp.StatusCode)
		return nil, retry, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("registry request failed").
			WithCause(shared.HTTPStatusErrorWithBody(resp.StatusCode, url, strings.TrimSpace(string(body))))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to read registry response").
			WithCause(err)
	}
	return body, false, nil
}

// applyAuth attaches credentials from the environment. Secrets never
// live in the project file, only the env var names do.
func applyAuth(req *http.Request, auth *types.SourceAuth) {
	if auth == nil {
		return
	}
	switch strings.ToLower(strings.TrimSpace(auth.Type)) {
	case "bearer", "token":
		if token := os.Getenv(auth.EnvVar); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	case "basic":
		if password := os.Getenv(auth.PasswordEnv); password != "" {
			req.SetBasicAuth(auth.Username, password)
		}
	}
}

// httpRetryDelay doubles the base delay per attempt, caps it, and adds
// jitter so parallel workers do not retry in lockstep.
func httpRetryDelay(base time.Duration, attempt int) time.Duration {
	delay := base * time.Duration(1<<attempt)
	if delay > maxHTTPRetryDelay {
		delay = maxHTTPRetryDelay
	}
	jitter := time.Duration(rand.Int63n(int64(base)/2 + 1))
	return delay + jitter
}

var _ ports.RegistryClientPort = RegistryHTTPAdapter{}
