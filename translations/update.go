package translations

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/grynov/collabora-online/po"
)

// Update generates the diff template and creates or refreshes the
// per-language catalogs in the online repo.
func Update(ctx context.Context, opts Options) error {
	logger := opts.logger()
	onlineRepo := ExpandUser(opts.OnlineRepo)
	prefillSource := filepath.Join(ExpandUser(opts.prefillRepo()), "translations", "source")
	if _, err := os.Stat(prefillSource); err != nil {
		return fmt.Errorf("prefill translations dir not found: %s", prefillSource)
	}

	downstreamDir, upstreamDir, cleanup, err := resolvePotDirs(ctx, opts)
	if err != nil {
		return err
	}
	defer cleanup()

	diffPot, err := BuildDiffPot(downstreamDir, upstreamDir, logger)
	if err != nil {
		return err
	}

	outPot := PotPath(onlineRepo)
	if err := diffPot.Save(outPot); err != nil {
		return fmt.Errorf("failed to save template: %w", err)
	}
	logger.Info("wrote template",
		zap.String("path", outPot), zap.Int("entries", len(diffPot.Entries)))

	browserPo := PoDir(onlineRepo)
	if err := os.MkdirAll(browserPo, 0750); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	var langs []string
	if opts.Lang != "" {
		langs = []string{opts.Lang}
	} else if langs, err = DiscoverLanguages(browserPo); err != nil {
		return err
	}

	for _, langOnline := range langs {
		langCore := OnlineToCore(langOnline)
		poFile := CorePoPath(onlineRepo, langOnline)

		var trans Translations
		langDir := filepath.Join(prefillSource, langCore)
		if _, err := os.Stat(langDir); err == nil {
			trans = CollectTranslations(langDir, logger)
		}

		var merged *po.File
		if _, statErr := os.Stat(poFile); statErr == nil {
			merged, err = UpdateExistingPO(diffPot, poFile, trans)
			if err != nil {
				return err
			}
		} else {
			merged = CreateNewPO(diffPot, langCore, trans)
		}

		if err := merged.Save(poFile); err != nil {
			return fmt.Errorf("failed to save catalog: %w", err)
		}
		logger.Info("wrote catalog",
			zap.String("file", filepath.Base(poFile)),
			zap.String("language", DisplayName(langOnline)),
			zap.Int("entries", len(merged.Entries)),
			zap.Int("translated", translatedCount(merged)))
	}

	if opts.CreateNew {
		return createMissing(onlineRepo, prefillSource, diffPot, opts, logger)
	}
	return nil
}

// UpdateExistingPO merges the template into an existing catalog. Entries
// keep their non-empty translations; everything else is prefilled from
// the core translations.
func UpdateExistingPO(pot *po.File, existingPath string, trans Translations) (*po.File, error) {
	existing, err := po.ParseFile(existingPath)
	if err != nil {
		return nil, err
	}
	index := make(map[po.EntryKey]*po.Entry)
	for _, e := range existing.Active() {
		index[e.Key()] = e
	}

	merged := po.NewFile()
	for _, k := range existing.MetadataKeys() {
		merged.SetMetadata(k, existing.Metadata(k))
	}
	for _, e := range pot.Active() {
		c := e.Clone()
		if prev, ok := index[e.Key()]; ok && prev.Msgstr != "" {
			c.Msgstr = prev.Msgstr
		} else {
			c.Msgstr = trans.Lookup(e.Key(), e.Msgid)
		}
		merged.Append(c)
	}
	return merged, nil
}

// CreateNewPO builds a fresh catalog for a core-style language code,
// prefilled from the core translations.
func CreateNewPO(pot *po.File, langCore string, trans Translations) *po.File {
	out := po.NewFile()
	out.SetMetadata("Project-Id-Version", "core-"+langCore)
	out.SetMetadata("Language", langCore)
	out.SetMetadata("Content-Type", "text/plain; charset=UTF-8")
	out.SetMetadata("Content-Transfer-Encoding", "8bit")
	for _, e := range pot.Active() {
		c := e.Clone()
		c.Msgstr = trans.Lookup(e.Key(), e.Msgid)
		out.Append(c)
	}
	return out
}

// createMissing scans the prefill source for languages without an
// online catalog and creates one when it would carry translations.
func createMissing(onlineRepo, prefillSource string, diffPot *po.File, opts Options, logger *zap.Logger) error {
	existing, err := DiscoverLanguages(PoDir(onlineRepo))
	if err != nil {
		return err
	}
	have := make(map[string]bool, len(existing))
	for _, l := range existing {
		have[l] = true
	}

	dirs, err := os.ReadDir(prefillSource)
	if err != nil {
		return fmt.Errorf("failed to read prefill source: %w", err)
	}
	for _, d := range dirs {
		if !d.IsDir() {
			continue
		}
		langCore := d.Name()
		langOnline := CoreToOnline(langCore)
		if have[langOnline] {
			continue
		}
		if opts.Lang != "" && langOnline != opts.Lang {
			continue
		}

		trans := CollectTranslations(filepath.Join(prefillSource, langCore), logger)
		if len(trans.ByKey) == 0 {
			continue
		}
		created := CreateNewPO(diffPot, langCore, trans)
		if translatedCount(created) == 0 {
			continue
		}

		out := CorePoPath(onlineRepo, langOnline)
		if err := created.Save(out); err != nil {
			return fmt.Errorf("failed to save catalog: %w", err)
		}
		logger.Info("created catalog",
			zap.String("file", filepath.Base(out)),
			zap.String("language", DisplayName(langOnline)),
			zap.Int("entries", len(created.Entries)),
			zap.Int("translated", translatedCount(created)))
	}
	return nil
}

func translatedCount(f *po.File) int {
	n := 0
	for _, e := range f.Active() {
		if e.Msgstr != "" {
			n++
		}
	}
	return n
}

// resolvePotDirs returns the downstream and upstream pot trees,
// extracting them via git worktrees when only branches were given.
func resolvePotDirs(ctx context.Context, opts Options) (string, string, func(), error) {
	noop := func() {}
	if opts.DownstreamPotDir != "" && opts.UpstreamPotDir != "" {
		return opts.DownstreamPotDir, opts.UpstreamPotDir, noop, nil
	}
	if opts.DownstreamBranch == "" || opts.UpstreamBranch == "" {
		return "", "", noop, fmt.Errorf("provide either a pot dir pair or a branch pair")
	}

	coreRepo := ExpandUser(opts.CoreRepo)
	logger := opts.logger()

	downstream, downClean, err := extractPots(ctx, coreRepo, opts.DownstreamBranch, logger)
	if err != nil {
		return "", "", noop, err
	}
	upstream, upClean, err := extractPots(ctx, coreRepo, opts.UpstreamBranch, logger)
	if err != nil {
		downClean()
		return "", "", noop, err
	}
	return downstream, upstream, func() {
		downClean()
		upClean()
	}, nil
}

// extractPots checks a branch out into a temporary worktree and runs
// make translations there. The returned cleanup removes the worktree.
func extractPots(ctx context.Context, coreRepo, branch string, logger *zap.Logger) (string, func(), error) {
	tmp, err := os.MkdirTemp("", "core_pot_")
	if err != nil {
		return "", nil, fmt.Errorf("failed to create temp dir: %w", err)
	}
	wt := filepath.Join(tmp, "worktree")

	logger.Info("creating worktree",
		zap.String("branch", branch), zap.String("path", wt))
	if _, stderr, err := runner(ctx, coreRepo, "", "git", "worktree", "add", wt, branch); err != nil {
		os.RemoveAll(tmp)
		return "", nil, fmt.Errorf("failed to add worktree: %s", firstLine(stderr))
	}
	cleanup := func() {
		logger.Info("removing worktree", zap.String("path", wt))
		runner(ctx, coreRepo, "", "git", "worktree", "remove", "--force", wt)
		os.RemoveAll(tmp)
	}

	logger.Info("running make translations", zap.String("dir", wt))
	if _, stderr, err := runner(ctx, wt, "", "make", "translations"); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("failed to run make translations: %s", firstLine(stderr))
	}

	potDir := filepath.Join(wt, "workdir", "pot")
	if _, err := os.Stat(potDir); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("expected pot directory not found: %s", potDir)
	}
	return potDir, cleanup, nil
}
