package translations

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/grynov/collabora-online/po"
)

// Retrofit pushes finished translations from the online catalogs back
// into the core repo's translations/source tree.
func Retrofit(ctx context.Context, opts Options) error {
	logger := opts.logger()
	onlineRepo := ExpandUser(opts.OnlineRepo)
	coreRepo := ExpandUser(opts.CoreRepo)
	coreSource := filepath.Join(coreRepo, "translations", "source")
	if _, err := os.Stat(coreSource); err != nil {
		return fmt.Errorf("core translations dir not found: %s", coreSource)
	}

	potDir, err := ensurePotDir(ctx, coreRepo, logger)
	if err != nil {
		return err
	}

	var langs []string
	if opts.Lang != "" {
		if _, err := os.Stat(CorePoPath(onlineRepo, opts.Lang)); err != nil {
			return fmt.Errorf("catalog not found: %s", CorePoPath(onlineRepo, opts.Lang))
		}
		langs = []string{opts.Lang}
	} else {
		langs, err = DiscoverLanguages(PoDir(onlineRepo))
		if err != nil {
			return err
		}
		if len(langs) == 0 {
			return fmt.Errorf("no core-*.po catalogs found in %s", PoDir(onlineRepo))
		}
	}

	for _, langOnline := range langs {
		err := retrofitLang(ctx, CorePoPath(onlineRepo, langOnline),
			OnlineToCore(langOnline), coreSource, potDir, logger)
		if err != nil {
			return err
		}
	}
	logger.Info("retrofit complete")
	return nil
}

// ensurePotDir returns workdir/pot under the core repo, running make
// translations first when it does not exist yet.
func ensurePotDir(ctx context.Context, coreRepo string, logger *zap.Logger) (string, error) {
	potDir := filepath.Join(coreRepo, "workdir", "pot")
	if _, err := os.Stat(potDir); err == nil {
		return potDir, nil
	}
	logger.Info("pot directory missing, running make translations",
		zap.String("repo", coreRepo))
	if _, stderr, err := runner(ctx, coreRepo, "", "make", "translations"); err != nil {
		return "", fmt.Errorf("failed to run make translations: %s", firstLine(stderr))
	}
	if _, err := os.Stat(potDir); err != nil {
		return "", fmt.Errorf("make translations did not produce %s", potDir)
	}
	return potDir, nil
}

func retrofitLang(ctx context.Context, corePoFile, langCore, coreSource, potDir string, logger *zap.Logger) error {
	langDir := filepath.Join(coreSource, langCore)
	if _, err := os.Stat(langDir); err != nil {
		logger.Warn("skipping language, directory not found",
			zap.String("language", langCore), zap.String("dir", langDir))
		return nil
	}

	// Step 1: merge the latest pot entries in so new strings exist.
	merged, err := mergePotsIntoLang(ctx, langDir, potDir, logger)
	if err != nil {
		return err
	}
	logger.Info("msgmerge done",
		zap.String("language", DisplayName(langCore)), zap.Int("files", merged))

	// Step 2: apply the online translations.
	replacements, err := CollectReplacements(corePoFile)
	if err != nil {
		return err
	}
	changedFiles, changedEntries := 0, 0
	err = walkPoFiles(langDir, func(path string) error {
		f, err := po.ParseFile(path)
		if err != nil {
			return err
		}
		updated := 0
		for _, e := range f.Active() {
			repl, ok := replacements[e.Key()]
			if !ok || e.Msgstr == repl {
				continue
			}
			e.Msgstr = repl
			e.RemoveFlag("fuzzy")
			updated++
		}
		if updated == 0 {
			return nil
		}
		f.WrapWidth = 0
		if err := f.Save(path); err != nil {
			return err
		}
		changedFiles++
		changedEntries += updated
		return nil
	})
	if err != nil {
		return err
	}
	logger.Info("applied translations",
		zap.String("language", DisplayName(langCore)),
		zap.Int("entries", changedEntries), zap.Int("files", changedFiles))

	// Slovenian catalogs do not carry keyid comments; strip them from
	// touched files to keep the diff clean.
	if langCore == "sl" {
		if err := stripKeyids(ctx, langDir, logger); err != nil {
			return err
		}
	}

	reverted, noise, err := FilterNoise(ctx, langDir, logger)
	if err != nil {
		return err
	}
	if reverted > 0 || noise > 0 {
		logger.Info("noise filter",
			zap.String("language", langCore),
			zap.Int("reverted", reverted), zap.Int("hunks", noise))
	}
	return nil
}

// CollectReplacements indexes the translated entries of an online
// catalog by key.
func CollectReplacements(corePoFile string) (map[po.EntryKey]string, error) {
	f, err := po.ParseFile(corePoFile)
	if err != nil {
		return nil, err
	}
	out := make(map[po.EntryKey]string)
	for _, e := range f.Active() {
		if e.Msgstr != "" {
			out[e.Key()] = e.Msgstr
		}
	}
	return out, nil
}

// mergePotsIntoLang runs msgmerge for every catalog with a matching pot
// file and reports how many files changed.
func mergePotsIntoLang(ctx context.Context, langDir, potDir string, logger *zap.Logger) (int, error) {
	merged := 0
	err := walkPoFiles(langDir, func(path string) error {
		rel, err := filepath.Rel(langDir, path)
		if err != nil {
			return err
		}
		potFile := filepath.Join(potDir, strings.TrimSuffix(rel, ".po")+".pot")
		if _, err := os.Stat(potFile); err != nil {
			return nil
		}
		changed, err := msgmergePO(ctx, path, potFile, logger)
		if err != nil {
			return err
		}
		if changed {
			merged++
		}
		return nil
	})
	return merged, err
}

// msgmergePO merges new template entries into a catalog in place.
// Obsolete entries duplicating re-activated ones are dropped afterwards;
// msgmerge leaves them behind, and the next run then fails on duplicate
// message definitions. Merge failures are logged, not fatal.
func msgmergePO(ctx context.Context, poPath, potPath string, logger *zap.Logger) (bool, error) {
	before, err := os.ReadFile(poPath)
	if err != nil {
		return false, fmt.Errorf("failed to read catalog: %w", err)
	}

	_, stderr, err := runner(ctx, "", "",
		"msgmerge", "--quiet", "--update", "--no-fuzzy-matching",
		"--no-wrap", "--backup=none", poPath, potPath)
	if err != nil {
		logger.Warn("msgmerge failed",
			zap.String("pot", filepath.Base(potPath)),
			zap.String("error", firstLine(stderr)))
		return false, nil
	}

	if err := removeObsoleteDuplicates(poPath); err != nil {
		return false, err
	}
	after, err := os.ReadFile(poPath)
	if err != nil {
		return false, fmt.Errorf("failed to read catalog: %w", err)
	}
	return !bytes.Equal(before, after), nil
}

// removeObsoleteDuplicates drops #~ entries whose key duplicates an
// active entry, saving only when something was removed.
func removeObsoleteDuplicates(poPath string) error {
	f, err := po.ParseFile(poPath)
	if err != nil {
		return err
	}
	active := make(map[po.EntryKey]bool)
	for _, e := range f.Active() {
		active[e.Key()] = true
	}

	kept := f.Entries[:0]
	removed := false
	for _, e := range f.Entries {
		if e.Obsolete && active[e.Key()] {
			removed = true
			continue
		}
		kept = append(kept, e)
	}
	if !removed {
		return nil
	}
	f.Entries = kept
	f.WrapWidth = 0
	return f.Save(poPath)
}

// Keyids are 5-character identifier comments (e.g. "#. KGSPW") from the
// core build system.
var keyidRe = regexp.MustCompile(`^#\. .{5}$`)

// stripKeyids removes keyid comment lines from git-changed catalogs
// under langDir.
func stripKeyids(ctx context.Context, langDir string, logger *zap.Logger) error {
	repoRoot, changed, err := gitChangedPoFiles(ctx, langDir)
	if err != nil || len(changed) == 0 {
		return err
	}

	stripped := 0
	for _, rel := range changed {
		path := filepath.Join(repoRoot, rel)
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read catalog: %w", err)
		}
		lines := strings.SplitAfter(string(data), "\n")
		kept := lines[:0]
		for _, ln := range lines {
			if keyidRe.MatchString(strings.TrimRight(ln, "\n")) {
				continue
			}
			kept = append(kept, ln)
		}
		if len(kept) == len(lines) {
			continue
		}
		if err := os.WriteFile(path, []byte(strings.Join(kept, "")), 0644); err != nil {
			return fmt.Errorf("failed to write catalog: %w", err)
		}
		stripped++
	}
	if stripped > 0 {
		logger.Debug("stripped keyids", zap.Int("files", stripped))
	}
	return nil
}

// gitChangedPoFiles lists repo-relative .po files with uncommitted
// changes under dir. A dir outside any git repo yields nothing.
func gitChangedPoFiles(ctx context.Context, dir string) (string, []string, error) {
	out, _, err := runner(ctx, dir, "", "git", "rev-parse", "--show-toplevel")
	if err != nil {
		return "", nil, nil
	}
	repoRoot := strings.TrimSpace(out)

	out, _, err = runner(ctx, repoRoot, "", "git", "diff", "--name-only", "--", dir)
	if err != nil || strings.TrimSpace(out) == "" {
		return repoRoot, nil, nil
	}

	var files []string
	for _, rel := range strings.Split(strings.TrimSpace(out), "\n") {
		if strings.HasSuffix(rel, ".po") {
			files = append(files, rel)
		}
	}
	return repoRoot, files, nil
}
