package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"

	bitlayout "github.com/reoring/bitlayout"
	"github.com/reoring/bitlayout/markdown"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	sub := os.Args[1]
	switch sub {
	case "doc":
		docCmd(os.Args[2:])
	case "decode":
		decodeCmd(os.Args[2:])
	case "encode":
		encodeCmd(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "bitlayout CLI\n\nUsage:\n  bitlayout doc -f layout.json|layout.yaml [-o out.md] [-no-types]\n  bitlayout decode -f layout.json -v 0x8E | -b 8e\n  bitlayout encode -f layout.json [-j '{\"Mode\": true}']\n\nNotes:\n  - encode reads the field mapping from stdin when -j is omitted.")
}

// loadLayout compiles a JSON or YAML layout description by file extension.
func loadLayout(path string) (*bitlayout.Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	title := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return bitlayout.CompileYAML(data, bitlayout.WithTitle(title))
	default:
		return bitlayout.CompileJSON(data, bitlayout.WithTitle(title))
	}
}

func docCmd(args []string) {
	fs := flag.NewFlagSet("doc", flag.ExitOnError)
	var file, out string
	var noTypes bool
	fs.StringVar(&file, "f", "", "layout description file (json or yaml)")
	fs.StringVar(&out, "o", "", "output file (defaults to stdout)")
	fs.BoolVar(&noTypes, "no-types", false, "omit the Type column")
	_ = fs.Parse(args)
	if file == "" {
		fs.Usage()
		os.Exit(2)
	}
	l, err := loadLayout(file)
	if err != nil {
		fatalf("compile %s: %v", file, err)
	}
	tables := markdown.RenderWithOptions(l, markdown.Options{IncludeTypes: !noTypes})
	doc := strings.Join(tables, "\n\n") + "\n"
	if out == "" {
		fmt.Print(doc)
		return
	}
	if err := os.WriteFile(out, []byte(doc), 0o644); err != nil {
		fatalf("writing output: %v", err)
	}
}

func decodeCmd(args []string) {
	fs := flag.NewFlagSet("decode", flag.ExitOnError)
	var file, value, bytesHex string
	fs.StringVar(&file, "f", "", "layout description file (json or yaml)")
	fs.StringVar(&value, "v", "", "record value (decimal or 0x-prefixed hex)")
	fs.StringVar(&bytesHex, "b", "", "record value as a big-endian hex byte string")
	_ = fs.Parse(args)
	if file == "" || (value == "") == (bytesHex == "") {
		fs.Usage()
		os.Exit(2)
	}
	l, err := loadLayout(file)
	if err != nil {
		fatalf("compile %s: %v", file, err)
	}
	var in *bitlayout.Instance
	if bytesHex != "" {
		raw, err := hex.DecodeString(bytesHex)
		if err != nil {
			fatalf("parse bytes %q: %v", bytesHex, err)
		}
		in, err = l.FromBytes(raw)
		if err != nil {
			fatalf("decode: %v", err)
		}
	} else {
		v, err := strconv.ParseUint(value, 0, 64)
		if err != nil {
			fatalf("parse value %q: %v", value, err)
		}
		in, err = l.FromInt(v)
		if err != nil {
			fatalf("decode: %v", err)
		}
	}
	m, err := in.ToJSON()
	if err != nil {
		fatalf("decode: %v", err)
	}
	out, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		fatalf("marshal: %v", err)
	}
	fmt.Println(string(out))
}

func encodeCmd(args []string) {
	fs := flag.NewFlagSet("encode", flag.ExitOnError)
	var file, fieldsJSON string
	fs.StringVar(&file, "f", "", "layout description file (json or yaml)")
	fs.StringVar(&fieldsJSON, "j", "", "field mapping as JSON (reads stdin when omitted)")
	_ = fs.Parse(args)
	if file == "" {
		fs.Usage()
		os.Exit(2)
	}
	l, err := loadLayout(file)
	if err != nil {
		fatalf("compile %s: %v", file, err)
	}
	raw := []byte(fieldsJSON)
	if fieldsJSON == "" {
		raw, err = io.ReadAll(os.Stdin)
		if err != nil {
			fatalf("reading stdin: %v", err)
		}
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		fatalf("parse field mapping: %v", err)
	}
	in, err := l.FromMap(m)
	if err != nil {
		fatalf("encode: %v", err)
	}
	fmt.Printf("%d\t0x%0*X\n", in.ToInt(), (l.Width()+3)/4, in.ToInt())
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
