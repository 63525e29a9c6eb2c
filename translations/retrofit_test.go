package translations

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/grynov/collabora-online/po"
)

func TestCollectReplacements(t *testing.T) {
	path := filepath.Join(t.TempDir(), "core-de.po")
	writeFile(t, path, `
msgctxt "STR_DEL"
msgid "Delete"
msgstr "Löschen"

msgctxt "STR_INS"
msgid "Insert"
msgstr ""

#~ msgctxt "STR_OLD"
#~ msgid "Gone"
#~ msgstr "Weg"
`)

	repl, err := CollectReplacements(path)
	require.NoError(t, err)
	require.Equal(t, map[po.EntryKey]string{
		{Msgctxt: "STR_DEL", Msgid: "Delete"}: "Löschen",
	}, repl)
}

func TestRemoveObsoleteDuplicates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "messages.po")
	writeFile(t, path, `msgctxt "A"
msgid "Alpha"
msgstr "Eins"

#~ msgctxt "A"
#~ msgid "Alpha"
#~ msgstr "Alt"

#~ msgctxt "B"
#~ msgid "Beta"
#~ msgstr "Zwei"
`)

	require.NoError(t, removeObsoleteDuplicates(path))

	f, err := po.ParseFile(path)
	require.NoError(t, err)
	require.Len(t, f.Active(), 1)
	obsolete := f.ObsoleteEntries()
	require.Len(t, obsolete, 1)
	require.Equal(t, "Beta", obsolete[0].Msgid)
}

func TestRemoveObsoleteDuplicates_NoChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "messages.po")
	content := `msgctxt "A"
msgid "Alpha"
msgstr "Eins"

#~ msgctxt "B"
#~ msgid "Beta"
#~ msgstr "Zwei"
`
	writeFile(t, path, content)

	require.NoError(t, removeObsoleteDuplicates(path))

	// Nothing removed, nothing rewritten.
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, content, string(data))
}

func TestMsgmergePO_Changed(t *testing.T) {
	dir := t.TempDir()
	poPath := filepath.Join(dir, "messages.po")
	potPath := filepath.Join(dir, "messages.pot")
	writeFile(t, poPath, `msgctxt "A"
msgid "Alpha"
msgstr "Eins"
`)
	writeFile(t, potPath, potHeader)

	stubRunner(t, func(ctx context.Context, dir, stdin, name string, args ...string) (string, string, error) {
		require.Equal(t, "msgmerge", name)
		require.Equal(t, "--quiet", args[0])
		// Simulate a merge that revives an entry and leaves its obsolete
		// twin behind.
		writeFile(t, args[len(args)-2], `msgctxt "A"
msgid "Alpha"
msgstr "Eins"

msgctxt "B"
msgid "Beta"
msgstr ""

#~ msgctxt "B"
#~ msgid "Beta"
#~ msgstr "Alt"
`)
		return "", "", nil
	})

	changed, err := msgmergePO(context.Background(), poPath, potPath, zap.NewNop())
	require.NoError(t, err)
	require.True(t, changed)

	f, err := po.ParseFile(poPath)
	require.NoError(t, err)
	require.Len(t, f.Active(), 2)
	require.Empty(t, f.ObsoleteEntries())
}

func TestMsgmergePO_FailureSkipped(t *testing.T) {
	dir := t.TempDir()
	poPath := filepath.Join(dir, "messages.po")
	content := `msgid "Alpha"
msgstr "Eins"
`
	writeFile(t, poPath, content)

	stubRunner(t, func(ctx context.Context, dir, stdin, name string, args ...string) (string, string, error) {
		return "", "messages.po:12: duplicate message definition\nmore detail\n", errors.New("exit status 1")
	})

	changed, err := msgmergePO(context.Background(), poPath, filepath.Join(dir, "messages.pot"), zap.NewNop())
	require.NoError(t, err)
	require.False(t, changed)

	data, err := os.ReadFile(poPath)
	require.NoError(t, err)
	require.Equal(t, content, string(data))
}

func TestMergePotsIntoLang_SkipsWithoutPot(t *testing.T) {
	langDir := t.TempDir()
	potDir := t.TempDir()
	writeFile(t, filepath.Join(langDir, "sw", "messages.po"), `msgid "Alpha"
msgstr "Eins"
`)

	var calls int
	stubRunner(t, func(ctx context.Context, dir, stdin, name string, args ...string) (string, string, error) {
		calls++
		return "", "", nil
	})

	merged, err := mergePotsIntoLang(context.Background(), langDir, potDir, zap.NewNop())
	require.NoError(t, err)
	require.Zero(t, merged)
	require.Zero(t, calls)
}

func TestRetrofit(t *testing.T) {
	online := t.TempDir()
	coreRepo := t.TempDir()
	langDir := filepath.Join(coreRepo, "translations", "source", "de")
	potDir := filepath.Join(coreRepo, "workdir", "pot")

	writeFile(t, CorePoPath(online, "de"), `
msgctxt "STR_DEL"
msgid "Delete"
msgstr "Löschen"

msgctxt "STR_KEEP"
msgid "Keep"
msgstr "Behalten"
`)
	writeFile(t, filepath.Join(langDir, "sw", "messages.po"), `msgid ""
msgstr ""
"Project-Id-Version: PACKAGE VERSION\n"

#. XyZzW
#: sw/inc/strings.hrc:90
#, fuzzy
msgctxt "STR_DEL"
msgid "Delete"
msgstr "Entfernen"

msgctxt "STR_KEEP"
msgid "Keep"
msgstr "Behalten"
`)
	writeFile(t, filepath.Join(potDir, "sw", "messages.pot"), potHeader)

	var sawMsgmerge bool
	stubRunner(t, func(ctx context.Context, dir, stdin, name string, args ...string) (string, string, error) {
		switch name {
		case "msgmerge":
			sawMsgmerge = true
			return "", "", nil
		case "git":
			// Not a git repo, so keyid stripping and the noise filter
			// stay out of the way.
			return "", "fatal: not a git repository\n", errors.New("exit status 128")
		}
		return "", "", nil
	})

	err := Retrofit(context.Background(), Options{
		OnlineRepo: online,
		CoreRepo:   coreRepo,
		Lang:       "de",
		Logger:     zap.NewNop(),
	})
	require.NoError(t, err)
	require.True(t, sawMsgmerge)

	f, err := po.ParseFile(filepath.Join(langDir, "sw", "messages.po"))
	require.NoError(t, err)
	require.Equal(t, "PACKAGE VERSION", f.Metadata("Project-Id-Version"))

	del := f.Find("Delete", "STR_DEL")
	require.NotNil(t, del)
	require.Equal(t, "Löschen", del.Msgstr)
	require.False(t, del.Fuzzy())
	require.Equal(t, "XyZzW", del.ExtractedComment)
	require.Equal(t, "Behalten", f.Find("Keep", "STR_KEEP").Msgstr)

	// Rewritten catalogs stay unwrapped, one line per field.
	data, err := os.ReadFile(filepath.Join(langDir, "sw", "messages.po"))
	require.NoError(t, err)
	require.Contains(t, string(data), "msgstr \"Löschen\"\n")
	require.NotContains(t, string(data), "fuzzy")
}

func TestRetrofit_UntouchedFileNotRewritten(t *testing.T) {
	online := t.TempDir()
	coreRepo := t.TempDir()
	langDir := filepath.Join(coreRepo, "translations", "source", "de")
	require.NoError(t, os.MkdirAll(filepath.Join(coreRepo, "workdir", "pot"), 0750))

	writeFile(t, CorePoPath(online, "de"), `
msgctxt "STR_KEEP"
msgid "Keep"
msgstr "Behalten"
`)
	content := `msgctxt "STR_KEEP"
msgid "Keep"
msgstr "Behalten"
`
	poPath := filepath.Join(langDir, "sw", "messages.po")
	writeFile(t, poPath, content)

	stubRunner(t, func(ctx context.Context, dir, stdin, name string, args ...string) (string, string, error) {
		return "", "", errors.New("unexpected exec")
	})

	err := Retrofit(context.Background(), Options{
		OnlineRepo: online,
		CoreRepo:   coreRepo,
		Lang:       "de",
		Logger:     zap.NewNop(),
	})
	require.NoError(t, err)

	data, err := os.ReadFile(poPath)
	require.NoError(t, err)
	require.Equal(t, content, string(data))
}

func TestRetrofit_MissingCoreSource(t *testing.T) {
	err := Retrofit(context.Background(), Options{
		OnlineRepo: t.TempDir(),
		CoreRepo:   t.TempDir(),
		Logger:     zap.NewNop(),
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "core translations dir not found")
}

func TestRetrofit_MissingLangCatalog(t *testing.T) {
	coreRepo := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(coreRepo, "translations", "source"), 0750))
	require.NoError(t, os.MkdirAll(filepath.Join(coreRepo, "workdir", "pot"), 0750))

	err := Retrofit(context.Background(), Options{
		OnlineRepo: t.TempDir(),
		CoreRepo:   coreRepo,
		Lang:       "de",
		Logger:     zap.NewNop(),
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "catalog not found")
}

func TestRetrofit_NoCatalogs(t *testing.T) {
	coreRepo := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(coreRepo, "translations", "source"), 0750))
	require.NoError(t, os.MkdirAll(filepath.Join(coreRepo, "workdir", "pot"), 0750))

	err := Retrofit(context.Background(), Options{
		OnlineRepo: t.TempDir(),
		CoreRepo:   coreRepo,
		Logger:     zap.NewNop(),
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "no core-*.po catalogs found")
}

func TestEnsurePotDir(t *testing.T) {
	coreRepo := t.TempDir()
	potDir := filepath.Join(coreRepo, "workdir", "pot")

	var calls int
	stubRunner(t, func(ctx context.Context, dir, stdin, name string, args ...string) (string, string, error) {
		calls++
		require.Equal(t, "make", name)
		require.NoError(t, os.MkdirAll(filepath.Join(dir, "workdir", "pot"), 0750))
		return "", "", nil
	})

	got, err := ensurePotDir(context.Background(), coreRepo, zap.NewNop())
	require.NoError(t, err)
	require.Equal(t, potDir, got)
	require.Equal(t, 1, calls)

	// Second call finds the directory and skips make.
	_, err = ensurePotDir(context.Background(), coreRepo, zap.NewNop())
	require.NoError(t, err)
	require.Equal(t, 1, calls)
}

func TestEnsurePotDir_MakeProducesNothing(t *testing.T) {
	stubRunner(t, func(ctx context.Context, dir, stdin, name string, args ...string) (string, string, error) {
		return "", "", nil
	})

	_, err := ensurePotDir(context.Background(), t.TempDir(), zap.NewNop())
	require.Error(t, err)
	require.Contains(t, err.Error(), "did not produce")
}

func TestStripKeyids(t *testing.T) {
	repoRoot := t.TempDir()
	langDir := filepath.Join(repoRoot, "translations", "source", "sl")
	rel := filepath.Join("translations", "source", "sl", "sw", "messages.po")
	writeFile(t, filepath.Join(repoRoot, rel), `#. KGSPW
#: sw/inc/strings.hrc:1
msgctxt "A"
msgid "Alpha"
msgstr "x"

#. A longer extracted comment survives.
msgctxt "B"
msgid "Beta"
msgstr "y"
`)

	stubRunner(t, func(ctx context.Context, dir, stdin, name string, args ...string) (string, string, error) {
		require.Equal(t, "git", name)
		switch args[0] {
		case "rev-parse":
			return repoRoot + "\n", "", nil
		case "diff":
			return rel + "\n", "", nil
		}
		return "", "", errors.New("unexpected git call")
	})

	require.NoError(t, stripKeyids(context.Background(), langDir, zap.NewNop()))

	data, err := os.ReadFile(filepath.Join(repoRoot, rel))
	require.NoError(t, err)
	require.NotContains(t, string(data), "KGSPW")
	require.Contains(t, string(data), "#. A longer extracted comment survives.")

	// The file still parses cleanly after line surgery.
	f, err := po.ParseFile(filepath.Join(repoRoot, rel))
	require.NoError(t, err)
	require.Len(t, f.Active(), 2)
}

func TestGitChangedPoFiles_OutsideRepo(t *testing.T) {
	stubRunner(t, func(ctx context.Context, dir, stdin, name string, args ...string) (string, string, error) {
		return "", "fatal: not a git repository\n", errors.New("exit status 128")
	})

	root, files, err := gitChangedPoFiles(context.Background(), t.TempDir())
	require.NoError(t, err)
	require.Empty(t, root)
	require.Empty(t, files)
}

func TestGitChangedPoFiles_FiltersSuffix(t *testing.T) {
	stubRunner(t, func(ctx context.Context, dir, stdin, name string, args ...string) (string, string, error) {
		switch args[0] {
		case "rev-parse":
			return "/repo\n", "", nil
		case "diff":
			return "a/messages.po\nb/notes.txt\nc/strings.po\n", "", nil
		}
		return "", "", nil
	})

	root, files, err := gitChangedPoFiles(context.Background(), "/repo/a")
	require.NoError(t, err)
	require.Equal(t, "/repo", root)
	require.Equal(t, []string{"a/messages.po", "c/strings.po"}, files)
}
