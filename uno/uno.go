// Package uno classifies the .uno: command vocabulary that toolbar and
// menu items dispatch to the document host, so UI code can pick the
// right widget shape (plain button, toggle, dialog launcher, dropdown)
// without hard-coding per-item knowledge.
package uno

import (
	"strings"
	"unicode"
)

// Kind represents how a command behaves when dispatched.
type Kind int

const (
	// KindAction is a fire-and-forget command with no UI state.
	KindAction Kind = iota
	// KindToggle flips a boolean document or view state.
	KindToggle
	// KindDialog opens a dialog.
	KindDialog
	// KindDropdown opens a picker or menu attached to its button.
	KindDropdown
)

const prefix = ".uno:"

func set(names ...string) map[string]bool {
	m := make(map[string]bool, len(names))
	for _, n := range names {
		m[n] = true
	}
	return m
}

// Commands whose state is reported on/off by the host.
var toggles = set(
	"Bold", "Italic", "Underline", "UnderlineDouble", "Strikeout",
	"Shadowed", "SubScript", "SuperScript",
	"LeftPara", "CenterPara", "RightPara", "JustifyPara",
	"AlignLeft", "AlignHorizontalCenter", "AlignRight", "AlignBlock",
	"DefaultBullet", "DefaultNumbering",
	"WrapText", "ToggleMergeCells", "FreezePanes",
	"SpellOnline", "TrackChanges", "ShowTrackedChanges",
	"ShowResolvedAnnotations", "ControlCodes",
)

// Dialog launchers that do not follow the *Dialog naming convention.
var dialogs = set(
	"OutlineBullet", "EditRegion", "InsertSection", "InsertSymbol",
	"EditStyle", "PageSetup", "InsertQrCode", "AcceptTrackedChanges",
	"EditHeaderAndFooter", "DataSort", "DataDataValidation",
	"DefineName",
)

// Commands whose toolbar item folds out a picker.
var dropdowns = set(
	"BackColor", "CharBackColor", "FontColor", "HighlightColor",
	"FrameLineColor", "XLineColor", "FillColor", "SetBorderStyle",
	"LineSpacing", "CharmapControl", "InsertTable",
	"ConditionalFormatMenu", "NumberFormatType",
)

// Classify reports how a .uno: command behaves. Commands outside the
// known vocabulary are plain actions; names ending in "Dialog" are
// dialog launchers even when unlisted.
func Classify(command string) Kind {
	name := strings.TrimPrefix(command, prefix)
	switch {
	case toggles[name]:
		return KindToggle
	case dropdowns[name]:
		return KindDropdown
	case dialogs[name] || strings.HasSuffix(name, "Dialog"):
		return KindDialog
	}
	return KindAction
}

// IsToggle reports whether the command flips an on/off state.
func IsToggle(command string) bool { return Classify(command) == KindToggle }

// IsDialog reports whether the command opens a dialog.
func IsDialog(command string) bool { return Classify(command) == KindDialog }

// IsDropdown reports whether the command folds out a picker.
func IsDropdown(command string) bool { return Classify(command) == KindDropdown }

// Label derives a display caption from a command name by stripping the
// .uno: prefix and splitting camel case, e.g. ".uno:InsertAnnotation"
// becomes "Insert Annotation" and ".uno:PDFExport" becomes
// "PDF Export". It is a fallback for commands without a translated
// caption.
func Label(command string) string {
	name := strings.TrimPrefix(command, prefix)
	runes := []rune(name)
	var b strings.Builder
	b.Grow(len(name) + 4)
	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				b.WriteByte(' ')
			}
		}
		b.WriteRune(r)
	}
	return b.String()
}
