package compiler

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-viper/mapstructure/v2"
)

// Options carries the compiler settings a bundle was configured with. Known
// settings get typed fields; everything else lands in Rest and is passed to
// the compiler binary verbatim.
type Options struct {
	Target  string         `json:"target"`
	Module  string         `json:"module"`
	Lib     []string       `json:"lib"`
	Strict  bool           `json:"strict"`
	RootDir string         `json:"root_dir"`
	Rest    map[string]any `json:",remain"`
}

// DecodeOptions converts the free-form compiler_options mapping from a
// bundle configuration into Options.
func DecodeOptions(raw map[string]any) (Options, error) {
	var opts Options
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName: "json",
		Result:  &opts,
	})
	if err != nil {
		return Options{}, err
	}
	if err := decoder.Decode(raw); err != nil {
		return Options{}, fmt.Errorf("decode compiler options: %w", err)
	}
	return opts, nil
}

// args renders the options as command line arguments for the compiler
// binary. Rest keys are emitted in sorted order so invocations are
// reproducible.
func (o Options) args() []string {
	var args []string
	if o.Target != "" {
		args = append(args, "--target", o.Target)
	}
	if o.Module != "" {
		args = append(args, "--module", o.Module)
	}
	if len(o.Lib) > 0 {
		args = append(args, "--lib", strings.Join(o.Lib, ","))
	}
	if o.Strict {
		args = append(args, "--strict")
	}

	keys := make([]string, 0, len(o.Rest))
	for k := range o.Rest {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		switch v := o.Rest[k].(type) {
		case bool:
			args = append(args, "--"+k, fmt.Sprintf("%v", v))
		case []any:
			parts := make([]string, len(v))
			for i := range v {
				parts[i] = fmt.Sprintf("%v", v[i])
			}
			args = append(args, "--"+k, strings.Join(parts, ","))
		default:
			args = append(args, "--"+k, fmt.Sprintf("%v", v))
		}
	}
	return args
}
