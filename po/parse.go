package po

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Long msgstr blocks in generated catalogs can exceed bufio's default
// line limit.
const maxLineBytes = 1 << 20

// Parse reads a catalog from r. The first entry with an empty msgid is
// taken as the header; its msgstr becomes the file metadata. Errors carry
// the offending line number.
func Parse(r io.Reader) (*File, error) {
	p := &parser{file: NewFile()}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	for sc.Scan() {
		p.n++
		line := sc.Text()
		if p.n == 1 {
			line = strings.TrimPrefix(line, "\uFEFF")
		}
		if err := p.feed(line); err != nil {
			return nil, err
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	if p.cur != nil && p.state != stateNone && !p.complete() {
		return nil, fmt.Errorf("line %d: truncated entry at end of catalog", p.n)
	}
	p.flush()
	return p.file, nil
}

// ParseFile reads a catalog from path.
func ParseFile(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	defer f.Close()
	parsed, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return parsed, nil
}

// fieldState tracks which string block continuation lines append to.
// Previous-string states sort before the keyword states so that
// "state >= stateMsgctxt" means the entry's keyword section has begun.
type fieldState int

const (
	stateNone fieldState = iota
	statePrevMsgctxt
	statePrevMsgid
	statePrevMsgidPlural
	stateMsgctxt
	stateMsgid
	stateMsgidPlural
	stateMsgstr
	stateMsgstrPlural
)

type parser struct {
	file      *File
	cur       *Entry
	state     fieldState
	plural    int
	n         int
	sawHeader bool
}

func (p *parser) feed(raw string) error {
	line := strings.TrimSpace(raw)
	if line == "" {
		// Blank lines separate entries once the msgstr block is done.
		if p.cur != nil && p.complete() {
			p.flush()
		}
		return nil
	}

	obsolete := false
	if strings.HasPrefix(line, "#~") {
		obsolete = true
		line = strings.TrimSpace(line[2:])
		if line == "" {
			return nil
		}
		// msgmerge writes obsolete previous-string lines as "#~| msgid".
		if strings.HasPrefix(line, "|") {
			line = "#" + line
		}
	}

	switch {
	case strings.HasPrefix(line, "\""):
		return p.continuation(line, obsolete)
	case strings.HasPrefix(line, "#"):
		return p.comment(line, obsolete)
	case strings.HasPrefix(line, "msgctxt"):
		return p.msgctxt(line, obsolete)
	case strings.HasPrefix(line, "msgid_plural"):
		return p.msgidPlural(line, obsolete)
	case strings.HasPrefix(line, "msgid"):
		return p.msgid(line, obsolete)
	case strings.HasPrefix(line, "msgstr["):
		return p.msgstrPlural(line, obsolete)
	case strings.HasPrefix(line, "msgstr"):
		return p.msgstr(line, obsolete)
	default:
		return fmt.Errorf("line %d: unrecognized input %q", p.n, line)
	}
}

// complete reports whether the current entry has reached its msgstr block,
// after which any new keyword or comment starts the next entry.
func (p *parser) complete() bool {
	return p.state == stateMsgstr || p.state == stateMsgstrPlural
}

// ensure makes sure an entry is under construction. The obsolete marker is
// sticky: one #~ line makes the whole entry obsolete.
func (p *parser) ensure(obsolete bool) {
	if p.cur == nil {
		p.cur = &Entry{}
	}
	if obsolete {
		p.cur.Obsolete = true
	}
}

// flush finishes the current entry. The first non-obsolete entry with an
// empty msgid and msgctxt is the catalog header; comment-only remnants
// (trailing comments with no msgid) are dropped.
func (p *parser) flush() {
	e := p.cur
	p.cur = nil
	p.state = stateNone
	p.plural = 0
	if e == nil {
		return
	}
	if !p.sawHeader && len(p.file.Entries) == 0 && !e.Obsolete &&
		e.Msgid == "" && e.Msgctxt == "" {
		p.sawHeader = true
		p.file.headerComment = e.Comment
		for _, ln := range strings.Split(e.Msgstr, "\n") {
			k, v, ok := strings.Cut(ln, ":")
			if !ok || strings.TrimSpace(k) == "" {
				continue
			}
			p.file.SetMetadata(strings.TrimSpace(k), strings.TrimSpace(v))
		}
		return
	}
	if e.Msgid == "" && e.Msgstr == "" && len(e.MsgstrPlural) == 0 {
		return
	}
	p.file.Entries = append(p.file.Entries, e)
}

func (p *parser) msgctxt(line string, obsolete bool) error {
	arg, err := p.keywordArg(line, "msgctxt")
	if err != nil {
		return err
	}
	if p.cur != nil && p.state >= stateMsgctxt {
		if !p.complete() {
			return fmt.Errorf("line %d: unexpected msgctxt", p.n)
		}
		p.flush()
	}
	p.ensure(obsolete)
	p.cur.Msgctxt = arg
	p.state = stateMsgctxt
	return nil
}

func (p *parser) msgid(line string, obsolete bool) error {
	arg, err := p.keywordArg(line, "msgid")
	if err != nil {
		return err
	}
	if p.cur != nil && p.state >= stateMsgid {
		if !p.complete() {
			return fmt.Errorf("line %d: unexpected msgid", p.n)
		}
		p.flush()
	}
	p.ensure(obsolete)
	p.cur.Msgid = arg
	p.state = stateMsgid
	return nil
}

func (p *parser) msgidPlural(line string, obsolete bool) error {
	arg, err := p.keywordArg(line, "msgid_plural")
	if err != nil {
		return err
	}
	if p.state != stateMsgid {
		return fmt.Errorf("line %d: msgid_plural without msgid", p.n)
	}
	p.ensure(obsolete)
	p.cur.MsgidPlural = arg
	p.state = stateMsgidPlural
	return nil
}

func (p *parser) msgstr(line string, obsolete bool) error {
	arg, err := p.keywordArg(line, "msgstr")
	if err != nil {
		return err
	}
	if p.state != stateMsgid {
		return fmt.Errorf("line %d: msgstr without msgid", p.n)
	}
	p.ensure(obsolete)
	p.cur.Msgstr = arg
	p.state = stateMsgstr
	return nil
}

func (p *parser) msgstrPlural(line string, obsolete bool) error {
	end := strings.IndexByte(line, ']')
	if end < 0 {
		return fmt.Errorf("line %d: malformed msgstr index in %q", p.n, line)
	}
	idx, err := strconv.Atoi(line[len("msgstr["):end])
	if err != nil {
		return fmt.Errorf("line %d: malformed msgstr index in %q", p.n, line)
	}
	arg, err := p.unquote(strings.TrimSpace(line[end+1:]))
	if err != nil {
		return err
	}
	switch p.state {
	case stateMsgid, stateMsgidPlural, stateMsgstrPlural:
	default:
		return fmt.Errorf("line %d: msgstr[%d] without msgid", p.n, idx)
	}
	p.ensure(obsolete)
	if p.cur.MsgstrPlural == nil {
		p.cur.MsgstrPlural = make(map[int]string)
	}
	p.cur.MsgstrPlural[idx] = arg
	p.plural = idx
	p.state = stateMsgstrPlural
	return nil
}

func (p *parser) continuation(line string, obsolete bool) error {
	arg, err := p.unquote(line)
	if err != nil {
		return err
	}
	if p.cur == nil {
		return fmt.Errorf("line %d: continuation outside entry", p.n)
	}
	p.ensure(obsolete)
	switch p.state {
	case stateMsgctxt:
		p.cur.Msgctxt += arg
	case stateMsgid:
		p.cur.Msgid += arg
	case stateMsgidPlural:
		p.cur.MsgidPlural += arg
	case stateMsgstr:
		p.cur.Msgstr += arg
	case stateMsgstrPlural:
		p.cur.MsgstrPlural[p.plural] += arg
	default:
		return fmt.Errorf("line %d: continuation outside entry", p.n)
	}
	return nil
}

func (p *parser) comment(line string, obsolete bool) error {
	// Comments belong to the entry that follows them.
	if p.cur != nil && p.complete() {
		p.flush()
	}
	p.ensure(obsolete)
	rest := line[1:]
	switch {
	case strings.HasPrefix(rest, "."):
		appendLine(&p.cur.ExtractedComment, strings.TrimPrefix(rest[1:], " "))
	case strings.HasPrefix(rest, ":"):
		p.cur.References = append(p.cur.References, strings.Fields(rest[1:])...)
	case strings.HasPrefix(rest, ","):
		for _, f := range strings.Split(rest[1:], ",") {
			if f = strings.TrimSpace(f); f != "" {
				p.cur.AddFlag(f)
			}
		}
	case strings.HasPrefix(rest, "|"):
		return p.previous(strings.TrimSpace(rest[1:]))
	default:
		appendLine(&p.cur.Comment, strings.TrimPrefix(rest, " "))
	}
	return nil
}

func (p *parser) previous(rest string) error {
	switch {
	case strings.HasPrefix(rest, "msgid_plural"):
		arg, err := p.keywordArg(rest, "msgid_plural")
		if err != nil {
			return err
		}
		p.cur.PrevMsgidPlural = arg
		p.state = statePrevMsgidPlural
	case strings.HasPrefix(rest, "msgctxt"):
		arg, err := p.keywordArg(rest, "msgctxt")
		if err != nil {
			return err
		}
		p.cur.PrevMsgctxt = arg
		p.state = statePrevMsgctxt
	case strings.HasPrefix(rest, "msgid"):
		arg, err := p.keywordArg(rest, "msgid")
		if err != nil {
			return err
		}
		p.cur.PrevMsgid = arg
		p.state = statePrevMsgid
	case strings.HasPrefix(rest, "\""):
		arg, err := p.unquote(rest)
		if err != nil {
			return err
		}
		switch p.state {
		case statePrevMsgctxt:
			p.cur.PrevMsgctxt += arg
		case statePrevMsgid:
			p.cur.PrevMsgid += arg
		case statePrevMsgidPlural:
			p.cur.PrevMsgidPlural += arg
		default:
			return fmt.Errorf("line %d: previous-string continuation outside #| block", p.n)
		}
	default:
		return fmt.Errorf("line %d: malformed previous-string comment %q", p.n, rest)
	}
	return nil
}

func (p *parser) keywordArg(line, keyword string) (string, error) {
	return p.unquote(strings.TrimSpace(strings.TrimPrefix(line, keyword)))
}

func (p *parser) unquote(s string) (string, error) {
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return "", fmt.Errorf("line %d: expected quoted string, got %q", p.n, s)
	}
	v, err := strconv.Unquote(s)
	if err != nil {
		return "", fmt.Errorf("line %d: malformed string %s", p.n, s)
	}
	return v, nil
}

func appendLine(dst *string, line string) {
	if *dst == "" {
		*dst = line
		return
	}
	*dst += "\n" + line
}
