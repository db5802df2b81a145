package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	dynops "github.com/reoring/dynops"
	cborops "github.com/reoring/dynops/ops/cbor"
	jsonops "github.com/reoring/dynops/ops/json"
	yamlops "github.com/reoring/dynops/ops/yaml"
)

func main() {
	fs := flag.NewFlagSet("dynconv", flag.ExitOnError)
	var from, to, in, out string
	fs.StringVar(&from, "from", "json", "input format: json, yaml, or cbor")
	fs.StringVar(&to, "to", "yaml", "output format: json, yaml, or cbor")
	fs.StringVar(&in, "i", "-", "input file (- for stdin)")
	fs.StringVar(&out, "o", "-", "output file (- for stdout)")
	fs.Usage = usage(fs)
	_ = fs.Parse(os.Args[1:])

	data, err := readInput(in)
	if err != nil {
		fatal("read input: %v", err)
	}

	converted, err := convert(from, to, data)
	if err != nil {
		fatal("%v", err)
	}

	if err := writeOutput(out, converted); err != nil {
		fatal("write output: %v", err)
	}
}

func usage(fs *flag.FlagSet) func() {
	return func() {
		fmt.Fprintln(os.Stderr, "dynconv converts a document between serialization formats by\nrebuilding the value tree through the dynops conversion engine.\n\nUsage:\n  dynconv -from json -to yaml [-i in.json] [-o out.yaml]")
		fs.PrintDefaults()
	}
}

// convert decodes data in the source format and re-encodes the resulting
// tree in the target format.
func convert(from, to string, data []byte) ([]byte, error) {
	switch from {
	case "json":
		v, err := jsonops.Decode(data)
		if err != nil {
			return nil, fmt.Errorf("decode json: %w", err)
		}
		return encodeTo(to, jsonops.Instance, v)
	case "yaml":
		v, err := yamlops.Decode(data)
		if err != nil {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
		return encodeTo(to, yamlops.Instance, v)
	case "cbor":
		v, err := cborops.Decode(data)
		if err != nil {
			return nil, fmt.Errorf("decode cbor: %w", err)
		}
		return encodeTo(to, cborops.Instance, v)
	default:
		return nil, fmt.Errorf("unknown input format %q", from)
	}
}

func encodeTo[T any](to string, in dynops.Ops[T], v T) ([]byte, error) {
	switch to {
	case "json":
		return jsonops.Encode(dynops.Convert(in, jsonops.Instance, v))
	case "yaml":
		return yamlops.Encode(dynops.Convert(in, yamlops.Instance, v))
	case "cbor":
		return cborops.Encode(dynops.Convert(in, cborops.Instance, v))
	default:
		return nil, fmt.Errorf("unknown output format %q", to)
	}
}

func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

func writeOutput(path string, data []byte) error {
	if path == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "dynconv: "+format+"\n", args...)
	os.Exit(1)
}
