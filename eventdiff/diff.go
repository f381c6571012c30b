// Package eventdiff compares the event sequences of two buffers line by
// line, using the dump format.
package eventdiff

import (
	"bufio"
	"io"

	"github.com/fatih/color"
	diffpatch "github.com/sergi/go-diff/diffmatchpatch"

	"github.com/signadot/xsb/buffer"
	"github.com/signadot/xsb/dump"
)

type Op int

const (
	Equal Op = iota
	Delete
	Insert
)

func (op Op) String() string {
	switch op {
	case Delete:
		return "-"
	case Insert:
		return "+"
	default:
		return " "
	}
}

// Line is one line of a diff.
type Line struct {
	Op   Op
	Text string
}

// Diff returns the diff from the events of a to the events of b.
func Diff(a, b *buffer.Buffer) ([]Line, error) {
	p := dump.NewPrinter()
	from, err := p.Lines(a)
	if err != nil {
		return nil, err
	}
	to, err := p.Lines(b)
	if err != nil {
		return nil, err
	}
	return DiffLines(from, to), nil
}

// DiffLines returns the line diff from from to to.
func DiffLines(from, to []string) []Line {
	lineMap := map[string]rune{}
	runeMap := map[rune]string{}
	fromRunes := mapLinesTo(lineMap, runeMap, from)
	toRunes := mapLinesTo(lineMap, runeMap, to)
	diffs := diffpatch.New().DiffMainRunes(fromRunes, toRunes, false)
	var res []Line
	for i := range diffs {
		diff := &diffs[i]
		var op Op
		switch diff.Type {
		case diffpatch.DiffDelete:
			op = Delete
		case diffpatch.DiffInsert:
			op = Insert
		default:
			op = Equal
		}
		for _, r := range diff.Text {
			res = append(res, Line{Op: op, Text: runeMap[r]})
		}
	}
	return res
}

// mapLinesTo assigns every distinct line a rune. Surrogate code points
// do not survive conversion to string and are skipped.
func mapLinesTo(m map[string]rune, im map[rune]string, lines []string) []rune {
	rs := make([]rune, len(lines))
	for i, line := range lines {
		r, ok := m[line]
		if !ok {
			r = rune(len(m))
			if r >= 0xD800 {
				r += 0x800
			}
			m[line] = r
			im[r] = line
		}
		rs[i] = r
	}
	return rs
}

// Changed reports whether the diff has any insertion or deletion.
func Changed(lines []Line) bool {
	for i := range lines {
		if lines[i].Op != Equal {
			return true
		}
	}
	return false
}

// Write writes lines to w prefixed by their op, optionally colored.
func Write(w io.Writer, lines []Line, colored bool) error {
	del, ins := color.New(color.FgRed), color.New(color.FgGreen)
	if colored {
		del.EnableColor()
		ins.EnableColor()
	} else {
		del.DisableColor()
		ins.DisableColor()
	}
	bw := bufio.NewWriter(w)
	for i := range lines {
		line := &lines[i]
		s := line.Op.String() + " " + line.Text
		switch line.Op {
		case Delete:
			s = del.Sprint(s)
		case Insert:
			s = ins.Sprint(s)
		}
		bw.WriteString(s)
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}
