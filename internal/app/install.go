package app

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"github.com/gofastskill/fastskill/internal/core"
	"github.com/gofastskill/fastskill/internal/types"
)

// Install brings every declared dependency to the locked state. Entries
// are processed in parallel; one failing entry never blocks the others,
// and everything that succeeded is locked even when the run ends in
// partial failure.
func (s Service) Install(ctx context.Context, req InstallRequest) (InstallResult, error) {
	projectCtx, manifest, registry, lock, err := s.loadProject(req.StartDir)
	if err != nil {
		return InstallResult{}, err
	}

	deps := manifest.Dependencies
	if len(req.Only) > 0 {
		deps, err = selectDependencies(manifest, req.Only)
		if err != nil {
			return InstallResult{}, err
		}
	}
	if len(deps) == 0 {
		return InstallResult{Report: types.Report{Status: types.StatusNoDependencies}}, nil
	}

	report, err := s.runPipeline(ctx, projectCtx, registry, &lock, deps, s.workerCount(req.Parallel), false)
	if err != nil {
		return InstallResult{}, err
	}
	return InstallResult{Report: report}, nil
}

// selectDependencies filters the manifest down to the named ids.
func selectDependencies(manifest types.Manifest, only []string) ([]types.DependencySpec, error) {
	var out []types.DependencySpec
	for _, raw := range only {
		id, err := types.ParseSkillID(raw)
		if err != nil {
			return nil, err
		}
		dep, ok := manifest.Get(id)
		if !ok {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeNotFound).
				WithMsg(fmt.Sprintf("skill %s is not declared in skill-project.toml", id))
		}
		out = append(out, dep)
	}
	return out, nil
}

// entryOutcome is what one pipeline pass produces for one dependency.
type entryOutcome struct {
	entry          types.LockEntry
	skipped        bool
	failure        *types.EntryFailure
	sourceFailures []types.SourceFailure
}

// pipelineTask pairs a dependency with a snapshot of its prior lock
// entry, taken before the workers start. Workers never touch the
// shared lockfile; only the orchestrator mutates it while draining
// results.
type pipelineTask struct {
	dep   types.DependencySpec
	prior *types.LockEntry
}

// runPipeline processes deps through resolve, fetch, extract, and
// validate with a bounded worker pool, then locks the survivors. The
// lockfile save is fatal: a report that cannot be persisted is worth
// less than the error.
func (s Service) runPipeline(ctx context.Context, projectCtx types.ProjectContext, registry core.Registry, lock *types.Lockfile, deps []types.DependencySpec, workers int, force bool) (types.Report, error) {
	resolver := core.NewResolver(registry)

	if workers > len(deps) {
		workers = len(deps)
	}
	tasks := make(chan pipelineTask)
	results := make(chan entryOutcome, len(deps))
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for task := range tasks {
				results <- s.processEntry(ctx, projectCtx, resolver, task, force)
			}
		}()
	}
	go func() {
		wg.Wait()
		close(results)
	}()
	for _, dep := range deps {
		task := pipelineTask{dep: dep}
		if prior, ok := lock.Get(dep.ID); ok {
			task.prior = &prior
		}
		tasks <- task
	}
	close(tasks)

	report := types.Report{Status: types.StatusAllSucceeded}
	for outcome := range results {
		report.SourceFailures = append(report.SourceFailures, outcome.sourceFailures...)
		switch {
		case outcome.failure != nil:
			report.Failed = append(report.Failed, *outcome.failure)
		case outcome.skipped:
			report.Skipped = append(report.Skipped, outcome.entry.ID)
		default:
			lock.Put(outcome.entry)
			report.Succeeded = append(report.Succeeded, outcome.entry.ID)
		}
	}
	sortReport(&report)
	if len(report.Failed) > 0 {
		report.Status = types.StatusPartialFailure
	}

	// A pass where every entry was skipped leaves the lockfile bytes
	// untouched, so repeated installs of an unchanged manifest diff
	// clean.
	if len(report.Succeeded) > 0 {
		lock.GeneratedAt = s.Clock()
		if err := s.LockStore.Save(projectCtx, *lock); err != nil {
			return types.Report{}, err
		}
	}
	return report, nil
}

// processEntry walks one dependency through the stage machine. Failures
// carry the stage they happened in so the report can say where things
// went wrong.
func (s Service) processEntry(ctx context.Context, projectCtx types.ProjectContext, resolver core.Resolver, task pipelineTask, force bool) entryOutcome {
	dep := task.dep
	fail := func(stage types.EntryStage, err error) entryOutcome {
		return entryOutcome{failure: &types.EntryFailure{ID: dep.ID, Stage: stage, Message: err.Error()}}
	}
	if err := ctx.Err(); err != nil {
		return fail(types.StagePending, err)
	}

	logger := log.Ctx(ctx).With().Str("skill", string(dep.ID)).Logger()

	candidate, sourceFailures, err := resolver.Resolve(ctx, dep)
	if err != nil {
		outcome := fail(types.StageResolving, err)
		outcome.sourceFailures = sourceFailures
		return outcome
	}

	installDir := filepath.Join(projectCtx.SkillsDirectory, string(dep.ID))
	if !force && task.prior != nil {
		prior := *task.prior
		if prior.Version == candidate.Version && prior.SourceName == candidate.SourceName {
			if hash, err := core.HashTree(installDir); err == nil && core.SameHash(hash, prior.ContentHash) {
				logger.Debug().Str("version", prior.Version).Msg("already installed")
				return entryOutcome{entry: prior, skipped: true, sourceFailures: sourceFailures}
			}
		}
	}
	if err := ctx.Err(); err != nil {
		return fail(types.StageFetching, err)
	}

	logger.Info().
		Str("version", candidate.Version).
		Str("source", candidate.SourceName).
		Msg("installing")

	payload, err := s.Fetcher.Fetch(ctx, dep.ID, candidate.Fetch)
	if err != nil {
		outcome := fail(types.StageFetching, err)
		outcome.sourceFailures = sourceFailures
		return outcome
	}
	defer payload.Cleanup()

	if candidate.ContentHash != "" && payload.IsArchive {
		if err := verifyArchiveDigest(payload.Path, candidate.ContentHash); err != nil {
			outcome := fail(types.StageFetching, err)
			outcome.sourceFailures = sourceFailures
			return outcome
		}
	}

	if err := ctx.Err(); err != nil {
		return fail(types.StageExtracting, err)
	}
	installed, err := s.Extractor.Install(ctx, payload, projectCtx.SkillsDirectory, dep.ID)
	if err != nil {
		outcome := fail(types.StageExtracting, err)
		outcome.sourceFailures = sourceFailures
		return outcome
	}

	if err := s.Validator.Validate(installed, dep.ID); err != nil {
		os.RemoveAll(installed)
		outcome := fail(types.StageValidating, err)
		outcome.sourceFailures = sourceFailures
		return outcome
	}
	hash, err := core.HashTree(installed)
	if err != nil {
		outcome := fail(types.StageValidating, err)
		outcome.sourceFailures = sourceFailures
		return outcome
	}

	return entryOutcome{
		entry: types.LockEntry{
			ID:          dep.ID,
			Version:     candidate.Version,
			SourceName:  candidate.SourceName,
			SourceType:  candidate.SourceType,
			ContentHash: hash,
			ResolvedAt:  s.Clock(),
		},
		sourceFailures: sourceFailures,
	}
}

// verifyArchiveDigest compares a downloaded archive against the digest
// its source advertised.
func verifyArchiveDigest(path string, want string) error {
	file, err := os.Open(path)
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to open downloaded archive").
			WithCause(err)
	}
	defer file.Close()

	digest := sha256.New()
	if _, err := io.Copy(digest, file); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to hash downloaded archive").
			WithCause(err)
	}
	got := hex.EncodeToString(digest.Sum(nil))
	if !core.SameHash(got, want) {
		return errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg(fmt.Sprintf("archive digest mismatch: got sha256:%s, source advertised %s", got, want))
	}
	return nil
}

func sortReport(report *types.Report) {
	sort.Slice(report.Succeeded, func(i, j int) bool { return report.Succeeded[i] < report.Succeeded[j] })
	sort.Slice(report.Skipped, func(i, j int) bool { return report.Skipped[i] < report.Skipped[j] })
	sort.Slice(report.Failed, func(i, j int) bool { return report.Failed[i].ID < report.Failed[j].ID })
	sort.Slice(report.SourceFailures, func(i, j int) bool {
		return report.SourceFailures[i].SourceName < report.SourceFailures[j].SourceName
	})
	// Every failing entry reports the same unreachable source, keep one.
	deduped := report.SourceFailures[:0]
	for _, failure := range report.SourceFailures {
		if len(deduped) == 0 || deduped[len(deduped)-1].SourceName != failure.SourceName {
			deduped = append(deduped, failure)
		}
	}
	report.SourceFailures = deduped
}
