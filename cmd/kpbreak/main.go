// seehuhn.de/go/breaking - optimal line and page breaking
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Kpbreak breaks a text file into lines and pages.
//
// Usage:
//
//	kpbreak [flags] [file]
//
// The input is read from the named file, or from standard input.
// Paragraphs are separated by blank lines, "[^ ... ]" inserts a footnote
// and a line "@float N caption" declares a float of N lines.  Pages are
// written to standard output, separated by form feeds.
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"golang.org/x/term"

	"seehuhn.de/go/breaking"
	"seehuhn.de/go/breaking/layout"
	"seehuhn.de/go/breaking/pagebreak"
)

type options struct {
	width, height     float64
	align, alignLast  string
	indent, threshold float64
	font              string
	size              float64
}

var errUsage = errors.New("too many arguments")

func main() {
	err := kpbreak()
	if errors.Is(err, errUsage) {
		flag.Usage()
		os.Exit(2)
	} else if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func kpbreak() error {
	opt := &options{}
	flag.Float64Var(&opt.width, "width", 0, "line width in columns (default: terminal width, or 72)")
	flag.Float64Var(&opt.height, "height", 40, "page height in lines")
	flag.StringVar(&opt.align, "align", "justify", "alignment of lines (start, end, center, justify)")
	flag.StringVar(&opt.alignLast, "align-last", "start", "alignment of the last line of a paragraph")
	flag.Float64Var(&opt.indent, "indent", 2, "indentation of the first line of a paragraph, in columns")
	flag.Float64Var(&opt.threshold, "threshold", 1, "maximal adjustment ratio for lines")
	flag.StringVar(&opt.font, "font", "mono", "font used to measure text (mono, goregular)")
	flag.Float64Var(&opt.size, "size", 10, "font size for -font goregular, in points")
	verbose := flag.Bool("v", false, "write debug messages to stderr")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [options] [file]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	breaking.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if opt.width <= 0 {
		opt.width = terminalWidth()
	}

	return runArgs(opt, flag.Args(), os.Stdout)
}

// runArgs reads the input from the file named in args, or from standard
// input if args is empty.
func runArgs(opt *options, args []string, out io.Writer) error {
	var in io.Reader = os.Stdin
	switch len(args) {
	case 0:
	case 1:
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("opening input file: %w", err)
		}
		defer f.Close()
		in = f
	default:
		return errUsage
	}
	return run(opt, in, out)
}

func terminalWidth() float64 {
	fd := int(os.Stdout.Fd())
	if term.IsTerminal(fd) {
		if w, _, err := term.GetSize(fd); err == nil && w > 0 {
			return float64(w)
		}
	}
	return 72
}

func run(opt *options, in io.Reader, out io.Writer) error {
	align, err := breaking.ParseAlignment(opt.align)
	if err != nil {
		return err
	}
	alignLast, err := breaking.ParseAlignment(opt.alignLast)
	if err != nil {
		return err
	}

	doc, err := layout.Parse(in)
	if err != nil {
		return err
	}

	var m layout.Measurer
	cell := 1.0
	switch opt.font {
	case "mono":
		m = layout.Monospace{}
	case "goregular":
		ot, err := layout.NewGoRegular(opt.size)
		if err != nil {
			return err
		}
		defer ot.Close()
		m = ot
		cell = opt.size / 2
	default:
		return fmt.Errorf("unknown font %q", opt.font)
	}
	_, _, skip := m.LineMetrics()

	params := layout.DefaultParameters(m, opt.width*cell, opt.height*skip)
	params.Indent = opt.indent * cell
	params.Alignment = align
	params.AlignmentLast = alignLast
	params.Threshold = opt.threshold

	// pages are printed with a ragged bottom
	params.Page = pagebreak.DefaultParameters(opt.height * skip)
	params.Page.Alignment = breaking.AlignStart

	res, err := layout.Layout(doc, params)
	if err != nil {
		return err
	}

	w := bufio.NewWriter(out)
	r := &renderer{
		w:    w,
		cols: int(opt.width),
		cell: cell,
		skip: skip,
	}
	for i := range res.Pages {
		if i > 0 {
			w.WriteString("\f\n")
		}
		r.page(&res.Pages[i])
	}
	return w.Flush()
}
