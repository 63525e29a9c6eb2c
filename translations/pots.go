package translations

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/grynov/collabora-online/po"
)

// PotKey identifies a template entry by its pot file and message
// identity.
type PotKey struct {
	Path    string
	Msgctxt string
	Msgid   string
}

// CollectPotEntries walks every .pot file under root, skipping
// helpcontent2 subtrees, and returns the entries keyed by pot-relative
// path plus message identity.
func CollectPotEntries(root string) (map[PotKey]*po.Entry, error) {
	entries := make(map[PotKey]*po.Entry)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == "helpcontent2" {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(d.Name(), ".pot") {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		f, err := po.ParseFile(path)
		if err != nil {
			return fmt.Errorf("failed to parse pot: %w", err)
		}
		for _, e := range f.Active() {
			entries[PotKey{Path: rel, Msgctxt: e.Msgctxt, Msgid: e.Msgid}] = e
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// BuildDiffPot collects the template entries present in the downstream
// pot tree but missing from the upstream one. An entry is new when no
// upstream entry in the same pot file carries its msgctxt and msgid.
// New entries are merged by message identity across pot files, unioning
// their references; order is stable (sorted by pot path, then key).
func BuildDiffPot(downstreamDir, upstreamDir string, logger *zap.Logger) (*po.File, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	logger.Info("loading upstream entries", zap.String("dir", upstreamDir))
	upstream, err := CollectPotEntries(upstreamDir)
	if err != nil {
		return nil, err
	}
	logger.Info("loading downstream entries", zap.String("dir", downstreamDir))
	downstream, err := CollectPotEntries(downstreamDir)
	if err != nil {
		return nil, err
	}

	type ctxKey struct{ path, msgctxt string }
	upstreamIDs := make(map[ctxKey]map[string]bool)
	for k := range upstream {
		ck := ctxKey{k.Path, k.Msgctxt}
		ids := upstreamIDs[ck]
		if ids == nil {
			ids = make(map[string]bool)
			upstreamIDs[ck] = ids
		}
		ids[k.Msgid] = true
	}

	keys := make([]PotKey, 0, len(downstream))
	for k := range downstream {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.Path != b.Path {
			return a.Path < b.Path
		}
		if a.Msgctxt != b.Msgctxt {
			return a.Msgctxt < b.Msgctxt
		}
		return a.Msgid < b.Msgid
	})

	merged := make(map[po.EntryKey]*po.Entry)
	var order []po.EntryKey
	for _, k := range keys {
		if upstreamIDs[ctxKey{k.Path, k.Msgctxt}][k.Msgid] {
			continue
		}
		mergeOrAdd(merged, &order, downstream[k])
	}

	pot := po.NewFile()
	pot.SetMetadata("Project-Id-Version", "core-co-25.04")
	pot.SetMetadata("Content-Type", "text/plain; charset=UTF-8")
	pot.SetMetadata("Content-Transfer-Encoding", "8bit")
	for _, k := range order {
		pot.Append(merged[k])
	}

	logger.Info("diff pot built", zap.Int("entries", len(pot.Entries)))
	return pot, nil
}

// mergeOrAdd merges a pot entry into the diff set. Duplicate keys union
// their references and append unseen comments.
func mergeOrAdd(target map[po.EntryKey]*po.Entry, order *[]po.EntryKey, e *po.Entry) {
	key := e.Key()
	existing, ok := target[key]
	if !ok {
		target[key] = &po.Entry{
			Comment:          e.Comment,
			ExtractedComment: e.ExtractedComment,
			References:       append([]string(nil), e.References...),
			Flags:            append([]string(nil), e.Flags...),
			Msgctxt:          e.Msgctxt,
			Msgid:            e.Msgid,
		}
		*order = append(*order, key)
		return
	}

	seen := make(map[string]bool, len(existing.References))
	for _, r := range existing.References {
		seen[r] = true
	}
	for _, r := range e.References {
		if !seen[r] {
			existing.References = append(existing.References, r)
			seen[r] = true
		}
	}
	if e.ExtractedComment != "" && !strings.Contains(existing.ExtractedComment, e.ExtractedComment) {
		existing.ExtractedComment = strings.TrimSpace(existing.ExtractedComment + "\n" + e.ExtractedComment)
	}
	if e.Comment != "" && !strings.Contains(existing.Comment, e.Comment) {
		existing.Comment = strings.TrimSpace(existing.Comment + "\n" + e.Comment)
	}
}
