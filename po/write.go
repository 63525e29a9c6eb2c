package po

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Save writes the catalog to a file, creating parent directories as
// needed.
func (f *File) Save(path string) error {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	out, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	writeErr := f.WriteTo(out)
	closeErr := out.Close()

	if writeErr != nil {
		// Attempt cleanup on write failure
		os.Remove(path)
		return writeErr
	}
	return closeErr
}

// WriteTo writes the catalog to a writer: header first, then every entry
// in order, separated by blank lines.
func (f *File) WriteTo(w io.Writer) error {
	bw := bufio.NewWriter(w)
	first := true
	if f.headerComment != "" || len(f.metaKeys) > 0 {
		f.writeHeader(bw)
		first = false
	}
	for _, e := range f.Entries {
		if !first {
			bw.WriteByte('\n')
		}
		first = false
		f.writeEntry(bw, e)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write catalog: %w", err)
	}
	return nil
}

// String renders the catalog as it would be saved.
func (f *File) String() string {
	var sb strings.Builder
	// strings.Builder writes cannot fail.
	_ = f.WriteTo(&sb)
	return sb.String()
}

func (f *File) writeHeader(w *bufio.Writer) {
	writeComment(w, "#", f.headerComment)
	w.WriteString("msgid \"\"\n")
	w.WriteString("msgstr \"\"\n")
	for _, k := range f.metaKeys {
		fmt.Fprintf(w, "\"%s\\n\"\n", escape(k+": "+f.meta[k]))
	}
}

func (f *File) writeEntry(w *bufio.Writer, e *Entry) {
	writeComment(w, "#", e.Comment)
	writeComment(w, "#.", e.ExtractedComment)
	for _, ref := range e.References {
		w.WriteString("#: " + ref + "\n")
	}
	if len(e.Flags) > 0 {
		w.WriteString("#, " + strings.Join(e.Flags, ", ") + "\n")
	}
	if e.PrevMsgctxt != "" {
		w.WriteString("#| msgctxt \"" + escape(e.PrevMsgctxt) + "\"\n")
	}
	if e.PrevMsgid != "" {
		w.WriteString("#| msgid \"" + escape(e.PrevMsgid) + "\"\n")
	}
	if e.PrevMsgidPlural != "" {
		w.WriteString("#| msgid_plural \"" + escape(e.PrevMsgidPlural) + "\"\n")
	}

	prefix := ""
	if e.Obsolete {
		prefix = "#~ "
	}
	if e.Msgctxt != "" {
		f.writeField(w, prefix, "msgctxt", e.Msgctxt)
	}
	f.writeField(w, prefix, "msgid", e.Msgid)
	if e.MsgidPlural != "" {
		f.writeField(w, prefix, "msgid_plural", e.MsgidPlural)
	}
	if len(e.MsgstrPlural) > 0 {
		idxs := make([]int, 0, len(e.MsgstrPlural))
		for i := range e.MsgstrPlural {
			idxs = append(idxs, i)
		}
		sort.Ints(idxs)
		for _, i := range idxs {
			f.writeField(w, prefix, fmt.Sprintf("msgstr[%d]", i), e.MsgstrPlural[i])
		}
	} else {
		f.writeField(w, prefix, "msgstr", e.Msgstr)
	}
}

// writeField emits one keyword block. Values containing newlines are
// split after each one, gettext style; with a positive wrap width long
// segments are additionally wrapped at spaces.
func (f *File) writeField(w *bufio.Writer, prefix, keyword, value string) {
	segs := splitSegments(value)
	if len(segs) == 1 {
		line := prefix + keyword + " \"" + segs[0] + "\""
		if f.WrapWidth <= 0 || len(line) <= f.WrapWidth {
			w.WriteString(line + "\n")
			return
		}
	}
	w.WriteString(prefix + keyword + " \"\"\n")
	for _, seg := range segs {
		for _, chunk := range wrapSegment(seg, f.WrapWidth-2) {
			w.WriteString(prefix + "\"" + chunk + "\"\n")
		}
	}
}

// splitSegments breaks the raw value after each newline and escapes the
// pieces.
func splitSegments(value string) []string {
	if !strings.Contains(value, "\n") {
		return []string{escape(value)}
	}
	parts := strings.SplitAfter(value, "\n")
	if parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}
	for i := range parts {
		parts[i] = escape(parts[i])
	}
	return parts
}

// wrapSegment greedily breaks an escaped segment after spaces. Escape
// sequences never contain spaces, so a space is always a safe cut point.
func wrapSegment(s string, width int) []string {
	if width <= 0 || len(s) <= width {
		return []string{s}
	}
	var out []string
	for len(s) > width {
		cut := strings.LastIndexByte(s[:width], ' ')
		if cut < 0 {
			cut = strings.IndexByte(s[width:], ' ')
			if cut < 0 {
				break
			}
			cut += width
		}
		out = append(out, s[:cut+1])
		s = s[cut+1:]
	}
	return append(out, s)
}

func writeComment(w *bufio.Writer, prefix, text string) {
	if text == "" {
		return
	}
	for _, line := range strings.Split(text, "\n") {
		if line == "" {
			w.WriteString(prefix + "\n")
			continue
		}
		w.WriteString(prefix + " " + line + "\n")
	}
}

func escape(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
