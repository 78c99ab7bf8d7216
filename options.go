package fzf

import (
	"bytes"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/jessevdk/go-flags"
	"github.com/pkg/errors"
	"github.com/wellle/fzf/internal/util"
)

// CLIOptions holds the command-line flags parsed by go-flags. The
// "+x" toggle forms are rewritten into their long equivalents before
// parsing; see expandPlusOptions.
type CLIOptions struct {
	OptHelp          bool   `short:"h" long:"help" description:"show this help message and exit"`
	OptVersion       bool   `long:"version" description:"print the version and exit"`
	OptExtended      bool   `short:"x" long:"extended" description:"extended-search mode"`
	OptExtendedExact bool   `short:"e" long:"extended-exact" description:"extended-search mode (exact sub-terms)"`
	OptIgnoreCase    bool   `short:"i" long:"ignore-case" description:"force case-insensitive match"`
	OptCaseSensitive bool   `long:"case-sensitive" description:"force case-sensitive match (+i)"`
	OptNth           string `short:"n" long:"nth" description:"comma-separated list of field indices for limiting search scope\n(1-based; negative counts from the end)"`
	OptDelimiter     string `short:"d" long:"delimiter" description:"field delimiter regex for --nth (default: AWK-style)"`
	OptSort          int    `short:"s" long:"sort" default:"1000" description:"maximum number of matched items to sort"`
	OptNoSort        bool   `long:"no-sort" description:"do not sort the result (+s)"`
	OptMulti         bool   `short:"m" long:"multi" description:"enable multi-select with tab/shift-tab"`
	OptQuery         string `short:"q" long:"query" description:"start the finder with the given query"`
	OptSelect1       bool   `short:"1" long:"select-1" description:"automatically select the only match"`
	OptExit0         bool   `short:"0" long:"exit-0" description:"exit immediately when there is no match"`
	OptFilter        string `short:"f" long:"filter" description:"filter mode: print matches for the query and exit"`
	OptPrompt        string `long:"prompt" description:"prompt string"`
	OptRcfile        string `long:"rcfile" description:"path to the settings file"`
	OptColor         bool   `short:"c" long:"color" description:"enable colors (default)"`
	OptNoColor       bool   `long:"no-color" description:"disable colors (+c)"`
	Opt256           bool   `short:"2" long:"256" description:"force the 256-color palette"`
	OptNo256         bool   `long:"no-256" description:"use the 8-color palette (+2)"`
	OptBlack         bool   `long:"black" description:"use black background"`
	OptMouse         bool   `long:"mouse" description:"enable mouse (default)"`
	OptNoMouse       bool   `long:"no-mouse" description:"disable mouse"`
}

// plusOptions maps the "+x" toggle forms onto their long spellings.
var plusOptions = map[string]string{
	"+i": "--case-sensitive",
	"+s": "--no-sort",
	"+c": "--no-color",
	"+2": "--no-256",
}

// expandPlusOptions rewrites the "+x" forms so go-flags can parse them.
func expandPlusOptions(args []string) []string {
	out := make([]string, 0, len(args))
	for i, a := range args {
		if a == "--" {
			out = append(out, args[i:]...)
			break
		}
		if repl, ok := plusOptions[a]; ok {
			out = append(out, repl)
			continue
		}
		out = append(out, a)
	}
	return out
}

// defaultOptsEnv is prepended to argv, split with POSIX shell rules.
const defaultOptsEnv = "FZF_DEFAULT_OPTS"

// parse parses command-line arguments, folding in $FZF_DEFAULT_OPTS.
func (options *CLIOptions) parse(argv []string) ([]string, error) {
	var args []string
	if env := os.Getenv(defaultOptsEnv); env != "" {
		words, err := util.Shellwords(env)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to split $%s", defaultOptsEnv)
		}
		args = append(args, words...)
	}
	if len(argv) > 0 {
		args = append(args, argv[1:]...)
	}

	p := flags.NewParser(options, flags.PrintErrors|flags.PassDoubleDash)
	remaining, err := p.ParseArgs(expandPlusOptions(args))
	if err != nil {
		_, _ = os.Stderr.Write(options.help())
		return nil, errors.Wrap(err, "invalid command line options")
	}

	return remaining, nil
}

// ParseNth parses the --nth field list: comma-separated, 1-based,
// signed, zero forbidden.
func ParseNth(s string) ([]int, error) {
	if s == "" {
		return nil, nil
	}

	var nth []int
	for _, tok := range strings.Split(s, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(tok))
		if err != nil {
			return nil, errors.Wrapf(err, "invalid field index '%s'", tok)
		}
		if n == 0 {
			return nil, errors.New("field index must not be 0")
		}
		nth = append(nth, n)
	}
	return nth, nil
}

// help generates formatted help text from struct field tags.
func (options CLIOptions) help() []byte {
	buf := bytes.Buffer{}

	fmt.Fprintf(&buf, `
Usage: fzf [options]

Options:
`)

	t := reflect.TypeFor[CLIOptions]()
	for i := 0; i < t.NumField(); i++ {
		tag := t.Field(i).Tag

		var o string
		if s := tag.Get("short"); s != "" {
			o = fmt.Sprintf("-%s, --%s", s, tag.Get("long"))
		} else {
			o = fmt.Sprintf("--%s", tag.Get("long"))
		}

		// if multiline, we need to indent the proceeding lines
		desc := tag.Get("description")
		if i := strings.Index(desc, "\n"); i >= 0 {
			var descbuf bytes.Buffer
			descbuf.WriteString(desc[:i+1])
			desc = desc[i+1:]
			const indent = "                        "
			for {
				if i = strings.Index(desc, "\n"); i >= 0 {
					descbuf.WriteString(indent)
					descbuf.WriteString(desc[:i+1])
					desc = desc[i+1:]
					continue
				}
				break
			}
			if len(desc) > 0 {
				descbuf.WriteString(indent)
				descbuf.WriteString(desc)
			}
			desc = descbuf.String()
		}

		fmt.Fprintf(&buf, "  %-21s %s\n", o, desc)
	}

	return buf.Bytes()
}
