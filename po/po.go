// Package po reads and writes GNU gettext catalogs (.po and .pot files).
//
// The model keeps entries in file order, obsolete (#~) entries included,
// together with their comments, source references, flags and
// previous-string records, plus the order-preserving header metadata.
// Output formatting is deterministic so that saving an unchanged catalog
// produces an unchanged file.
package po

// EntryKey identifies an entry by its msgctxt/msgid pair, the identity
// gettext itself uses.
type EntryKey struct {
	Msgctxt string
	Msgid   string
}

// Entry is a single catalog message.
type Entry struct {
	// Comment holds translator comments (# lines).
	Comment string
	// ExtractedComment holds comments extracted from source (#. lines).
	ExtractedComment string
	// References lists source locations (#: lines).
	References []string
	// Flags lists entry flags such as "fuzzy" (#, line).
	Flags []string

	// Previous strings recorded by msgmerge (#| lines).
	PrevMsgctxt     string
	PrevMsgid       string
	PrevMsgidPlural string

	Msgctxt     string
	Msgid       string
	MsgidPlural string
	Msgstr      string
	// MsgstrPlural maps plural form index to its msgstr[n] text.
	MsgstrPlural map[int]string

	// Obsolete marks entries kept under #~ prefixes.
	Obsolete bool
}

// Key returns the msgctxt/msgid identity of the entry.
func (e *Entry) Key() EntryKey {
	return EntryKey{Msgctxt: e.Msgctxt, Msgid: e.Msgid}
}

// Translated reports whether the entry carries any translation text.
func (e *Entry) Translated() bool {
	if e.Msgstr != "" {
		return true
	}
	for _, s := range e.MsgstrPlural {
		if s != "" {
			return true
		}
	}
	return false
}

// Fuzzy reports whether the entry carries the fuzzy flag.
func (e *Entry) Fuzzy() bool {
	return e.HasFlag("fuzzy")
}

// HasFlag reports whether flag is set on the entry.
func (e *Entry) HasFlag(flag string) bool {
	for _, f := range e.Flags {
		if f == flag {
			return true
		}
	}
	return false
}

// AddFlag sets flag on the entry unless already present.
func (e *Entry) AddFlag(flag string) {
	if !e.HasFlag(flag) {
		e.Flags = append(e.Flags, flag)
	}
}

// RemoveFlag clears flag from the entry.
func (e *Entry) RemoveFlag(flag string) {
	for i, f := range e.Flags {
		if f == flag {
			e.Flags = append(e.Flags[:i], e.Flags[i+1:]...)
			return
		}
	}
}

// Clone returns a deep copy of the entry.
func (e *Entry) Clone() *Entry {
	c := *e
	if e.References != nil {
		c.References = append([]string(nil), e.References...)
	}
	if e.Flags != nil {
		c.Flags = append([]string(nil), e.Flags...)
	}
	if e.MsgstrPlural != nil {
		c.MsgstrPlural = make(map[int]string, len(e.MsgstrPlural))
		for i, s := range e.MsgstrPlural {
			c.MsgstrPlural[i] = s
		}
	}
	return &c
}

const defaultWrapWidth = 78

// File is a catalog: ordered entries plus the header.
type File struct {
	// Entries holds every entry in file order, obsolete ones included.
	Entries []*Entry
	// WrapWidth is the column long strings are wrapped at on output.
	// Zero writes each string on a single line.
	WrapWidth int

	headerComment string
	metaKeys      []string
	meta          map[string]string
}

// NewFile returns an empty catalog with default wrapping.
func NewFile() *File {
	return &File{
		WrapWidth: defaultWrapWidth,
		meta:      make(map[string]string),
	}
}

// HeaderComment returns the translator comment above the header entry.
func (f *File) HeaderComment() string {
	return f.headerComment
}

// SetHeaderComment replaces the translator comment above the header entry.
func (f *File) SetHeaderComment(text string) {
	f.headerComment = text
}

// Metadata returns the header field value for key, "" when absent.
func (f *File) Metadata(key string) string {
	return f.meta[key]
}

// SetMetadata sets a header field. Keys keep the order they were first set
// in, so round-tripping a catalog does not reshuffle its header.
func (f *File) SetMetadata(key, value string) {
	if f.meta == nil {
		f.meta = make(map[string]string)
	}
	if _, ok := f.meta[key]; !ok {
		f.metaKeys = append(f.metaKeys, key)
	}
	f.meta[key] = value
}

// MetadataKeys returns the header field names in order.
func (f *File) MetadataKeys() []string {
	return append([]string(nil), f.metaKeys...)
}

// Append adds an entry at the end of the catalog.
func (f *File) Append(e *Entry) {
	f.Entries = append(f.Entries, e)
}

// Active returns the non-obsolete entries in order.
func (f *File) Active() []*Entry {
	var out []*Entry
	for _, e := range f.Entries {
		if !e.Obsolete {
			out = append(out, e)
		}
	}
	return out
}

// ObsoleteEntries returns the obsolete entries in order.
func (f *File) ObsoleteEntries() []*Entry {
	var out []*Entry
	for _, e := range f.Entries {
		if e.Obsolete {
			out = append(out, e)
		}
	}
	return out
}

// Find returns the first active entry with the given msgid and msgctxt,
// or nil.
func (f *File) Find(msgid, msgctxt string) *Entry {
	for _, e := range f.Entries {
		if !e.Obsolete && e.Msgid == msgid && e.Msgctxt == msgctxt {
			return e
		}
	}
	return nil
}
