package holdings

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"regexp"
	"strings"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/rickgao/thirteenf/internal/model"
)

var informationTableRe = regexp.MustCompile(`(?is)<(?:[\w.-]+:)?informationTable\b[^>]*>.*</(?:[\w.-]+:)?informationTable>`)

const (
	stylesheetMarker = "<?xml-stylesheet"
	htmlMarker       = "<html"
)

// Parse converts a raw information table into a Snapshot. It fails with an
// error wrapping model.ErrMalformedDocument when the content cannot be parsed
// as XML even after recovery.
func Parse(raw []byte) (model.Snapshot, error) {
	content := cleanContent(decode(raw))

	root, err := parseTree(content)
	if err != nil {
		root, err = parseTree(dropWrapperLines(content))
		if err != nil {
			return nil, fmt.Errorf("%w: %w", model.ErrMalformedDocument, err)
		}
	}

	return extract(root), nil
}

// ParseString is Parse for text input.
func ParseString(content string) (model.Snapshot, error) {
	return Parse([]byte(content))
}

// ParseFile reads and parses a local information table.
func ParseFile(path string) (model.Snapshot, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return Parse(raw)
}

// decode converts raw bytes to UTF-8. A byte order mark selects the source
// encoding; otherwise input is taken as UTF-8 and invalid sequences dropped.
func decode(raw []byte) string {
	out, _, err := transform.Bytes(unicode.BOMOverride(encoding.Nop.NewDecoder()), raw)
	if err != nil {
		out = raw
	}
	return strings.ToValidUTF8(string(out), "")
}

// cleanContent strips stray BOMs and narrows wrapped documents down to the
// information table.
func cleanContent(content string) string {
	content = strings.ReplaceAll(strings.TrimSpace(content), "\ufeff", "")

	if !isWrapped(content) {
		return content
	}
	if fragment := informationTableRe.FindString(content); fragment != "" {
		return fragment
	}
	if start := strings.Index(content, "<?xml"); start > 0 {
		return content[start:]
	}
	return content
}

func isWrapped(content string) bool {
	return strings.Contains(content, stylesheetMarker) ||
		strings.Contains(strings.ToLower(content), htmlMarker)
}

func dropWrapperLines(content string) string {
	lines := strings.Split(content, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if strings.Contains(line, stylesheetMarker) || strings.Contains(strings.ToLower(line), htmlMarker) {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}

// -----------------------------------------------------------------------------
// Element tree
// -----------------------------------------------------------------------------

var errNoRoot = errors.New("no root element")

// parseTree strictly parses a complete XML document with exactly one root.
// Charset declarations are accepted as is because the content has already
// been decoded to UTF-8.
func parseTree(content string) (*etree.Element, error) {
	doc := etree.NewDocument()
	doc.ReadSettings = etree.ReadSettings{
		CharsetReader: func(_ string, input io.Reader) (io.Reader, error) {
			return input, nil
		},
	}
	if err := doc.ReadFromString(content); err != nil {
		return nil, err
	}

	var root *etree.Element
	for _, tok := range doc.Child {
		switch t := tok.(type) {
		case *etree.Element:
			if root != nil {
				return nil, fmt.Errorf("junk after document element <%s>", root.Tag)
			}
			root = t
		case *etree.CharData:
			if strings.TrimSpace(t.Data) != "" {
				return nil, errors.New("text outside of document element")
			}
		}
	}
	if root == nil {
		return nil, errNoRoot
	}
	return root, nil
}

// find returns the first child named local, preferring the one in namespace
// ns over one with no namespace.
func find(e *etree.Element, ns, local string) *etree.Element {
	var bare *etree.Element
	for _, c := range e.ChildElements() {
		if c.Tag != local {
			continue
		}
		switch c.NamespaceURI() {
		case ns:
			return c
		case "":
			if bare == nil {
				bare = c
			}
		}
	}
	return bare
}

// findText returns the trimmed text of a child, or "" if it is absent.
func findText(e *etree.Element, ns, local string) string {
	if c := find(e, ns, local); c != nil {
		return strings.TrimSpace(c.Text())
	}
	return ""
}

// entries returns e and every element below it named {ns}infoTable, in
// document order.
func entries(e *etree.Element, ns string, out []*etree.Element) []*etree.Element {
	if e.Tag == "infoTable" && e.NamespaceURI() == ns {
		out = append(out, e)
	}
	for _, c := range e.ChildElements() {
		out = entries(c, ns, out)
	}
	return out
}

// -----------------------------------------------------------------------------
// Extraction
// -----------------------------------------------------------------------------

func extract(root *etree.Element) model.Snapshot {
	ns := root.NamespaceURI()
	snapshot := make(model.Snapshot)

	for _, entry := range entries(root, ns, nil) {
		id := findText(entry, ns, "cusip")
		if id == "" {
			continue
		}

		h := model.Holding{
			Identifier: id,
			IssuerName: findText(entry, ns, "nameOfIssuer"),
			ClassTitle: findText(entry, ns, "titleOfClass"),
		}
		if v, ok := parseNumber(findText(entry, ns, "value")); ok {
			h.MarketValue = &v
		}
		if amt := find(entry, ns, "shrsOrPrnAmt"); amt != nil {
			if v, ok := parseNumber(findText(amt, ns, "sshPrnamt")); ok {
				h.ShareCount = v
			}
		}

		snapshot[id] = h
	}

	return snapshot
}

// parseNumber parses a decimal that may contain thousands separators.
// Non-numeric text, NaN and infinities are rejected.
func parseNumber(s string) (float64, bool) {
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, false
	}
	v := d.InexactFloat64()
	if math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
