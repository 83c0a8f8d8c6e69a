package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	newpkl "github.com/jvasti/new-pkl"
	"github.com/jvasti/new-pkl/pkg/diag"
	"github.com/jvasti/new-pkl/pkg/types"
)

var evalFormat string

var evalCmd = &cobra.Command{
	Use:   "eval <file>",
	Short: "Evaluate a document and print the resulting table",
	Args:  cobra.ExactArgs(1),
	RunE:  runEval,
}

func init() {
	evalCmd.Flags().StringVarP(&evalFormat, "format", "f", "yaml", "output format (yaml or json)")
}

func runEval(cmd *cobra.Command, args []string) error {
	path := args[0]
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	src := string(data)

	opts := []newpkl.Option{newpkl.WithBaseDir(filepath.Dir(path))}
	if debug {
		opts = append(opts, newpkl.WithDebug())
	}

	p := newpkl.New(opts...)
	if err := p.Parse(src); err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), diag.Render(src, err))
		return err
	}

	doc := make(map[string]interface{}, len(p.Names()))
	for _, name := range p.Names() {
		value, err := p.Get(name)
		if err != nil {
			return err
		}
		doc[name] = toPlain(value)
	}

	switch evalFormat {
	case "yaml":
		out, err := yaml.Marshal(doc)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), string(out))
		return nil
	case "json":
		out, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	default:
		return fmt.Errorf("unknown output format %q", evalFormat)
	}
}

// toPlain converts an evaluated value into plain Go data for the YAML and
// JSON encoders. Durations and data sizes render as their literal form.
func toPlain(v types.Value) interface{} {
	switch val := v.(type) {
	case types.Bool:
		return bool(val)
	case types.Int:
		return int64(val)
	case types.Float:
		return float64(val)
	case types.String:
		return string(val)
	case types.Char:
		return string(rune(val))
	case types.List:
		out := make([]interface{}, len(val))
		for i, e := range val {
			out[i] = toPlain(e)
		}
		return out
	case types.Object:
		names := make([]string, 0, len(val))
		for name := range val {
			names = append(names, name)
		}
		sort.Strings(names)
		out := make(map[string]interface{}, len(val))
		for _, name := range names {
			out[name] = toPlain(val[name])
		}
		return out
	case *types.ClassInstance:
		return toPlain(val.Fields)
	case *types.Duration:
		return val.String()
	case *types.DataSize:
		return val.String()
	default:
		return v.String()
	}
}
