// Package cfg merges configuration from several sources into a single
// struct.
package cfg

import (
	"bytes"
	"flag"
	"os"

	"github.com/grafana/dskit/flagext"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Source is a generic configuration source. This function may do whatever is
// required to obtain the configuration. It is passed a pointer to the
// destination, which will be something compatible to `yaml.Unmarshal`. The
// obtained configuration may be written to this object, it may also contain
// data from previous sources.
type Source func(any) error

// Unmarshal merges the values of the various configuration sources and sets
// them on `dst`, in order. Later sources override earlier ones.
func Unmarshal(dst any, sources ...Source) error {
	if len(sources) == 0 {
		panic("No sources supplied to cfg.Unmarshal(). This is most likely a programming issue and should never happen. Check the code!")
	}
	for _, source := range sources {
		if err := source(dst); err != nil {
			return errors.Wrap(err, "sourcing")
		}
	}
	return nil
}

// Defaults sets dst to the default values of its flags. dst must implement
// [flagext.Registerer].
func Defaults() Source {
	return func(dst any) error {
		r, ok := dst.(flagext.Registerer)
		if !ok {
			return errors.Errorf("%T does not register flags", dst)
		}
		flagext.DefaultValues(r)
		return nil
	}
}

// YAML decodes data into dst. Unknown fields are rejected.
func YAML(data []byte) Source {
	return func(dst any) error {
		if len(bytes.TrimSpace(data)) == 0 {
			return nil
		}
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(dst); err != nil {
			return errors.Wrap(err, "decoding yaml")
		}
		return nil
	}
}

// YAMLFile decodes the YAML file at path into dst. An empty path is a no-op.
func YAMLFile(path string) Source {
	return func(dst any) error {
		if path == "" {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return errors.Wrap(err, "reading config file")
		}
		return errors.Wrapf(YAML(data)(dst), "config file %s", path)
	}
}

// Flags parses args as command line flags of dst. Only flags present in args
// change dst; values set by earlier sources are kept otherwise. dst must
// implement [flagext.Registerer].
func Flags(args []string) Source {
	return func(dst any) error {
		r, ok := dst.(flagext.Registerer)
		if !ok {
			return errors.Errorf("%T does not register flags", dst)
		}

		// Registering flags resets dst to the flag defaults, so the current
		// values are restored from a snapshot before parsing.
		snapshot, err := yaml.Marshal(dst)
		if err != nil {
			return errors.Wrap(err, "snapshotting config")
		}

		fs := flag.NewFlagSet("config", flag.ContinueOnError)
		fs.SetOutput(&bytes.Buffer{})
		r.RegisterFlags(fs)

		if err := yaml.Unmarshal(snapshot, dst); err != nil {
			return errors.Wrap(err, "restoring config")
		}
		return errors.Wrap(fs.Parse(args), "parsing flags")
	}
}
