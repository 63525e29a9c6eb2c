package translations

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"
)

// Header fields whose churn is bookkeeping, not translation work.
var headerKeywords = []string{
	"POT-Creation-Date", "PO-Revision-Date", "Last-Translator",
	"Language-Team", "MIME-Version", "Content-Type",
	"Content-Transfer-Encoding", "Plural-Forms", "X-Generator",
	"X-Accelerator-Marker", "X-POOTLE-MTIME", "Project-Id-Version",
	"Report-Msgid-Bugs-To", "Language:",
}

var (
	diffKeyRe         = regexp.MustCompile(`^[+-]msg(ctxt|id)\s`)
	diffMsgstrRe      = regexp.MustCompile(`^[+-]msgstr`)
	diffEmptyMsgstrRe = regexp.MustCompile(`^[+-]msgstr\s*""?\s*$`)
)

func containsHeaderKeyword(line string) bool {
	for _, kw := range headerKeywords {
		if strings.Contains(line, kw) {
			return true
		}
	}
	return false
}

// RealChange reports whether a hunk carries a real translation or
// structural change. Changed msgctxt and msgid lines count as
// structural since they alter entry identity; header metadata and empty
// msgstr churn do not count.
func RealChange(hunk []string) bool {
	for _, line := range hunk {
		if strings.HasPrefix(line, "@@") {
			continue
		}
		if diffKeyRe.MatchString(line) {
			return true
		}
		if diffMsgstrRe.MatchString(line) {
			if diffEmptyMsgstrRe.MatchString(line) {
				continue
			}
			if containsHeaderKeyword(line) {
				continue
			}
			return true
		}
		if len(line) >= 2 && (line[0] == '+' || line[0] == '-') && line[1] == '"' {
			if containsHeaderKeyword(line) {
				continue
			}
			content := strings.Trim(strings.TrimSpace(line[2:]), `"`)
			if content != "" && !strings.HasPrefix(content, "#") {
				return true
			}
		}
	}
	return false
}

// CommentOnly reports whether the hunk only touches comment or blank
// lines.
func CommentOnly(hunk []string) bool {
	for _, line := range hunk {
		if strings.HasPrefix(line, "@@") {
			continue
		}
		if strings.HasPrefix(line, "+") || strings.HasPrefix(line, "-") {
			content := line[1:]
			if strings.HasPrefix(content, "#") || strings.TrimSpace(content) == "" {
				continue
			}
			return false
		}
	}
	return true
}

// ParseDiff splits one file's unified diff into its header lines and
// individual @@ hunks.
func ParseDiff(text string) (header []string, hunks [][]string) {
	inHeader := true
	var current []string
	for _, line := range strings.Split(text, "\n") {
		switch {
		case strings.HasPrefix(line, "@@"):
			inHeader = false
			if current != nil {
				hunks = append(hunks, current)
			}
			current = []string{line}
		case inHeader:
			header = append(header, line)
		default:
			current = append(current, line)
		}
	}
	if current != nil {
		hunks = append(hunks, current)
	}
	return header, hunks
}

// FilterHunks keeps only hunks with real translation changes.
func FilterHunks(hunks [][]string) [][]string {
	var out [][]string
	for _, h := range hunks {
		if CommentOnly(h) {
			continue
		}
		if RealChange(h) {
			out = append(out, h)
		}
	}
	return out
}

// ReconstructDiff rebuilds an applyable diff from the header and kept
// hunks, "" when nothing is left.
func ReconstructDiff(header []string, hunks [][]string) string {
	if len(hunks) == 0 {
		return ""
	}
	lines := append([]string(nil), header...)
	for _, h := range hunks {
		lines = append(lines, h...)
	}
	out := strings.Join(lines, "\n")
	if !strings.HasSuffix(out, "\n") {
		out += "\n"
	}
	return out
}

// FilterNoise strips noise hunks from the uncommitted catalog changes
// under langDir: all-noise files are reverted, mixed files are reverted
// and re-patched with only their real hunks. Returns the number of
// files reverted and noise hunks stripped.
func FilterNoise(ctx context.Context, langDir string, logger *zap.Logger) (int, int, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	repoRoot, files, err := gitChangedPoFiles(ctx, langDir)
	if err != nil || len(files) == 0 {
		return 0, 0, err
	}

	reverted, stripped := 0, 0
	for _, rel := range files {
		diffOut, _, err := runner(ctx, repoRoot, "", "git", "diff", "--", rel)
		if err != nil || diffOut == "" {
			continue
		}

		header, hunks := ParseDiff(diffOut)
		kept := FilterHunks(hunks)
		noise := len(hunks) - len(kept)
		if noise == 0 {
			continue
		}

		// Revert to a clean state first, then re-apply what is real.
		if _, _, err := runner(ctx, repoRoot, "", "git", "checkout", "--", rel); err != nil {
			return reverted, stripped, fmt.Errorf("failed to revert %s: %w", rel, err)
		}

		if len(kept) == 0 {
			logger.Debug("reverted all-noise catalog", zap.String("file", rel))
			reverted++
			stripped += noise
			continue
		}

		realDiff := ReconstructDiff(header, kept)
		if _, stderr, err := runner(ctx, repoRoot, realDiff, "git", "apply", "-"); err != nil {
			logger.Warn("failed to re-apply filtered diff",
				zap.String("file", rel), zap.String("error", firstLine(stderr)))
			// Fall back to the original full change.
			runner(ctx, repoRoot, diffOut, "git", "apply", "-")
			continue
		}
		logger.Debug("stripped noise hunks",
			zap.String("file", rel), zap.Int("hunks", noise))
		stripped += noise
	}
	return reverted, stripped, nil
}
