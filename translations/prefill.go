package translations

import (
	"go.uber.org/zap"

	"github.com/grynov/collabora-online/po"
)

// Translations indexes translated strings collected from a core
// language tree.
type Translations struct {
	// ByKey maps exact (msgctxt, msgid) pairs to their msgstr.
	ByKey map[po.EntryKey]string
	// ByMsgid is the context-free fallback. A msgid is recorded only
	// while every context agrees on one msgstr; a conflict erases it,
	// so the fallback never guesses across disagreeing contexts.
	ByMsgid map[string]string
}

// Lookup returns the translation for the exact key, falling back to the
// context-free msgid match. "" when neither is known.
func (t Translations) Lookup(key po.EntryKey, msgid string) string {
	if s := t.ByKey[key]; s != "" {
		return s
	}
	return t.ByMsgid[msgid]
}

// CollectTranslations reads every catalog under langDir. Files that
// fail to parse are logged and skipped; a missing langDir yields empty
// indexes.
func CollectTranslations(langDir string, logger *zap.Logger) Translations {
	if logger == nil {
		logger = zap.NewNop()
	}
	tr := Translations{
		ByKey:   make(map[po.EntryKey]string),
		ByMsgid: make(map[string]string),
	}
	conflicted := make(map[string]bool)

	// The callback never fails, so the walk cannot either.
	_ = walkPoFiles(langDir, func(path string) error {
		f, err := po.ParseFile(path)
		if err != nil {
			logger.Warn("failed to parse catalog",
				zap.String("path", path), zap.Error(err))
			return nil
		}
		for _, e := range f.Active() {
			if e.Msgstr == "" {
				continue
			}
			tr.ByKey[e.Key()] = e.Msgstr
			if conflicted[e.Msgid] {
				continue
			}
			if prev, ok := tr.ByMsgid[e.Msgid]; ok && prev != e.Msgstr {
				delete(tr.ByMsgid, e.Msgid)
				conflicted[e.Msgid] = true
				continue
			}
			tr.ByMsgid[e.Msgid] = e.Msgstr
		}
		return nil
	})
	return tr
}
