package main

import (
	"bufio"
	"fmt"
	"image"
	"image/color"
	"io"
	"strconv"
	"strings"

	"github.com/example/sketchgen/internal/surface"
)

type opKind int

const (
	opColor opKind = iota
	opWidth
	opStroke
	opUndo
	opClear
)

// scriptOp is one line of a stroke script.
type scriptOp struct {
	kind   opKind
	line   int
	color  color.RGBA
	width  int
	points []image.Point
}

// parseScript reads a stroke script. Each non-blank line not starting with #
// is one of: color SPEC, width N, stroke x,y x,y ..., undo, clear.
func parseScript(r io.Reader) ([]scriptOp, error) {
	var ops []scriptOp
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		op := scriptOp{line: lineNo}
		switch strings.ToLower(fields[0]) {
		case "color", "colour":
			if len(fields) != 2 {
				return nil, fmt.Errorf("line %d: color takes one value", lineNo)
			}
			c, err := surface.ParseColor(fields[1])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			op.kind, op.color = opColor, c
		case "width":
			if len(fields) != 2 {
				return nil, fmt.Errorf("line %d: width takes one value", lineNo)
			}
			w, err := strconv.Atoi(fields[1])
			if err != nil || w < 1 {
				return nil, fmt.Errorf("line %d: invalid width %q", lineNo, fields[1])
			}
			op.kind, op.width = opWidth, w
		case "stroke":
			if len(fields) < 2 {
				return nil, fmt.Errorf("line %d: stroke needs at least one point", lineNo)
			}
			for _, f := range fields[1:] {
				p, err := parsePoint(f)
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", lineNo, err)
				}
				op.points = append(op.points, p)
			}
			op.kind = opStroke
		case "undo":
			op.kind = opUndo
		case "clear":
			op.kind = opClear
		default:
			return nil, fmt.Errorf("line %d: unknown command %q", lineNo, fields[0])
		}
		ops = append(ops, op)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	return ops, nil
}

func parsePoint(s string) (image.Point, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return image.Point{}, fmt.Errorf("invalid point %q, want x,y", s)
	}
	x, err := strconv.Atoi(strings.TrimSpace(xs))
	if err != nil {
		return image.Point{}, fmt.Errorf("invalid x in %q", s)
	}
	y, err := strconv.Atoi(strings.TrimSpace(ys))
	if err != nil {
		return image.Point{}, fmt.Errorf("invalid y in %q", s)
	}
	return image.Pt(x, y), nil
}

// replay applies ops to s the way pointer input would: each stroke is one
// press, a move per extra point and a release.
func replay(s *surface.Surface, ops []scriptOp) error {
	for _, op := range ops {
		var err error
		switch op.kind {
		case opColor:
			s.SetColor(op.color)
		case opWidth:
			s.SetWidth(op.width)
		case opStroke:
			s.BeginStroke(op.points[0])
			for _, p := range op.points[1:] {
				s.ExtendStroke(p)
			}
			err = s.EndStroke()
		case opUndo:
			err = s.Undo()
		case opClear:
			err = s.Clear()
		}
		if err != nil {
			return fmt.Errorf("line %d: %w", op.line, err)
		}
	}
	return nil
}
