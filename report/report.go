// Package report prints build results for humans and machines.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strconv"

	"github.com/deepnoodle-ai/yulpack/hexutil"
	"github.com/deepnoodle-ai/yulpack/internal/table"
	"github.com/deepnoodle-ai/yulpack/section"
	"github.com/fatih/color"
	"github.com/hokaccha/go-prettyjson"
)

var (
	green = color.New(color.FgGreen).SprintFunc()
	bold  = color.New(color.Bold).SprintFunc()
)

// Stats prints one row per packed module, followed by a blank line.
func Stats(w io.Writer, title string, stats []section.Stat, sectionLength int) error {
	if title != "" {
		fmt.Fprintln(w, bold(title))
	}
	tbl := table.NewTable(w).
		WithHeader([]string{"SECTION", "MODULE", "BYTES", "FREE"}).
		WithHeaderAlignment([]table.Alignment{table.AlignCenter, table.AlignCenter, table.AlignCenter, table.AlignCenter}).
		WithColumnAlignment([]table.Alignment{table.AlignRight, table.AlignLeft, table.AlignRight, table.AlignRight})
	for _, s := range stats {
		tbl.Append([]string{
			strconv.Itoa(s.Section),
			filepath.Base(s.Source),
			strconv.Itoa(s.Length),
			strconv.Itoa(sectionLength - s.Length),
		})
	}
	if err := tbl.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w)
	return err
}

// Hex prints a labelled hex artifact in green, optionally annotated with
// its length in bytes.
func Hex(w io.Writer, name string, code []byte, withLen bool) error {
	label := name + ":"
	if withLen {
		label = fmt.Sprintf("%s (%d bytes):", name, len(code))
	}
	_, err := fmt.Fprintf(w, "%s\n%s\n\n", label, green(hexutil.Encode(code)))
	return err
}

// Summary is the machine readable form of a build.
type Summary struct {
	SectionLength       int            `json:"section_length"`
	RuntimeWithPush0    string         `json:"runtime_with_push0"`
	RuntimeWithoutPush0 string         `json:"runtime_without_push0"`
	Initcode            string         `json:"initcode"`
	InitcodeHash        string         `json:"initcode_hash,omitempty"`
	StatsWithPush0      []section.Stat `json:"stats_with_push0"`
	StatsWithoutPush0   []section.Stat `json:"stats_without_push0"`
}

// JSON prints v as indented JSON, coloured when colour is set.
func JSON(w io.Writer, v any, colour bool) error {
	var (
		out []byte
		err error
	)
	if colour {
		out, err = prettyjson.Marshal(v)
	} else {
		out, err = json.MarshalIndent(v, "", "  ")
	}
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s\n", out)
	return err
}
