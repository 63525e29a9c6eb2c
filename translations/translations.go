// Package translations maintains the string round trip between the
// online repo and the core office-suite repo.
//
// The downstream core branch carries features, and therefore
// translatable strings, that do not exist upstream, so the upstream
// translation project never sees them. The update workflow extracts
// exactly that string diff into browser/po/templates/core.pot and
// per-language browser/po/core-<lang>.po catalogs, prefilled from a
// newer core branch where possible. Once translated, the retrofit
// workflow pushes the finished strings back into the core repo's
// translations/source tree.
package translations

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// Options configures the update and retrofit workflows.
type Options struct {
	// OnlineRepo is the online repo checkout, holder of browser/po.
	OnlineRepo string
	// CoreRepo is the downstream core checkout translations are pushed
	// back into.
	CoreRepo string
	// PrefillRepo is a core checkout whose translations/source tree
	// seeds untranslated entries, usually a newer upstream branch where
	// the downstream strings already landed. Empty falls back to
	// CoreRepo.
	PrefillRepo string

	// Pre-extracted pot trees for the update workflow. When empty, the
	// branches below are checked out into temporary worktrees and
	// extracted with make translations.
	DownstreamPotDir string
	UpstreamPotDir   string
	DownstreamBranch string
	UpstreamBranch   string

	// Lang restricts processing to one online-style code, e.g. "zh_CN".
	Lang string
	// CreateNew also creates catalogs for languages present in the
	// prefill source but absent from the online repo.
	CreateNew bool

	Logger *zap.Logger
}

// DefaultOptions returns the conventional repo layout.
func DefaultOptions() Options {
	return Options{
		CoreRepo: "~/co-25.04",
		Logger:   zap.NewNop(),
	}
}

func (o *Options) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

func (o *Options) prefillRepo() string {
	if o.PrefillRepo != "" {
		return o.PrefillRepo
	}
	return o.CoreRepo
}

// PoDir returns the online repo's catalog directory.
func PoDir(onlineRepo string) string {
	return filepath.Join(onlineRepo, "browser", "po")
}

// PotPath returns the generated template path in the online repo.
func PotPath(onlineRepo string) string {
	return filepath.Join(PoDir(onlineRepo), "templates", "core.pot")
}

// CorePoPath returns the per-language catalog path for an online-style
// code.
func CorePoPath(onlineRepo, lang string) string {
	return filepath.Join(PoDir(onlineRepo), "core-"+lang+".po")
}

// ExpandUser resolves a leading "~" against the current home directory.
func ExpandUser(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}

// walkPoFiles visits every .po file under root, skipping helpcontent2
// subtrees. A missing root visits nothing.
func walkPoFiles(root string, fn func(path string) error) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if d.Name() == "helpcontent2" {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(d.Name(), ".po") {
			return nil
		}
		return fn(path)
	})
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
