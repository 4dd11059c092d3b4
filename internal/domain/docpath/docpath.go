// Package docpath builds the dotted field paths used to address parts of a
// user document. Paths are only ever assembled from typed indices and
// validated labels, so request input cannot reach an arbitrary field.
package docpath

import (
	"errors"
	"strconv"
	"strings"
)

// Top-level and nested field names of the user document.
const (
	FieldOpenings     = "userOpenings"
	FieldInbox        = "inbox"
	FieldLanguage     = "language"
	FieldSettings     = "settings"
	FieldName         = "name"
	FieldSubname      = "subname"
	FieldArchived     = "archived"
	FieldVariations   = "variations"
	FieldComments     = "comments"
	FieldPdfBoards    = "pdfBoards"
	FieldPdfURL       = "pdfUrl"
	FieldCreatorEmail = "creatorEmail"
)

var (
	ErrInvalidIndex = errors.New("index must be a non-negative integer")
	ErrInvalidLabel = errors.New("label must be non-empty and must not contain '.', '$' prefix or NUL")
)

// Index is a position in an index-addressed sequence.
type Index uint32

// Label is a map key inside the document (comment move, board move, setting name).
type Label string

// Path is a dotted path into a user document.
type Path struct {
	segs []string
}

// ParseIndex accepts decimal non-negative integers only.
func ParseIndex(s string) (Index, error) {
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, ErrInvalidIndex
	}
	return Index(n), nil
}

// ParseLabel rejects anything that would be read as a path separator or operator.
func ParseLabel(s string) (Label, error) {
	if !validKey(s) {
		return "", ErrInvalidLabel
	}
	return Label(s), nil
}

// ParseField validates a top-level field name supplied by a client.
func ParseField(s string) (Path, error) {
	if !validKey(s) {
		return Path{}, ErrInvalidLabel
	}
	return root(s), nil
}

func validKey(s string) bool {
	return s != "" && !strings.HasPrefix(s, "$") && !strings.ContainsAny(s, ".\x00")
}

func root(field string) Path { return Path{segs: []string{field}} }

func (p Path) child(seg string) Path {
	segs := make([]string, len(p.segs), len(p.segs)+1)
	copy(segs, p.segs)
	return Path{segs: append(segs, seg)}
}

func (p Path) index(i Index) Path { return p.child(strconv.FormatUint(uint64(i), 10)) }

// Segments returns a copy of the path's components.
func (p Path) Segments() []string {
	out := make([]string, len(p.segs))
	copy(out, p.segs)
	return out
}

func (p Path) String() string { return strings.Join(p.segs, ".") }

func (p Path) IsZero() bool { return len(p.segs) == 0 }

func Openings() Path                   { return root(FieldOpenings) }
func Opening(i Index) Path             { return Openings().index(i) }
func OpeningName(i Index) Path         { return Opening(i).child(FieldName) }
func OpeningArchived(i Index) Path     { return Opening(i).child(FieldArchived) }
func OpeningPdfURL(i Index) Path       { return Opening(i).child(FieldPdfURL) }
func Variations(i Index) Path          { return Opening(i).child(FieldVariations) }
func Variation(i, j Index) Path        { return Variations(i).index(j) }
func VariationName(i, j Index) Path    { return Variation(i, j).child(FieldName) }
func VariationSubname(i, j Index) Path { return Variation(i, j).child(FieldSubname) }
func VariationArchived(i, j Index) Path {
	return Variation(i, j).child(FieldArchived)
}
func Comment(i Index, move Label) Path  { return Opening(i).child(FieldComments).child(string(move)) }
func PdfBoard(i Index, move Label) Path { return Opening(i).child(FieldPdfBoards).child(string(move)) }
func Inbox() Path                       { return root(FieldInbox) }
func InboxMail(k Index) Path            { return Inbox().index(k) }
func Language() Path                    { return root(FieldLanguage) }
func Setting(name Label) Path           { return root(FieldSettings).child(string(name)) }
