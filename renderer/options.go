package renderer

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

var ErrInvalidOptions = errors.New("renderer: invalid options")

type Options struct {
	// Number of draw records the draw buffer has room for before it first
	// grows.
	InitialDraws int `toml:"initial_draws"`
	// Number of op-code words the op-code buffer has room for before it first
	// grows.
	InitialOpCodes int          `toml:"initial_op_codes"`
	Growth         GrowthPolicy `toml:"growth"`
}

func DefaultOptions() Options {
	return Options{
		InitialDraws:   1024,
		InitialOpCodes: 1024,
		Growth:         GrowPowerOfTwo,
	}
}

func (opts Options) Validate() error {
	if opts.InitialDraws < 0 {
		return fmt.Errorf("%w: initial_draws is %d", ErrInvalidOptions, opts.InitialDraws)
	}
	if opts.InitialOpCodes < 0 {
		return fmt.Errorf("%w: initial_op_codes is %d", ErrInvalidOptions, opts.InitialOpCodes)
	}
	if opts.Growth != GrowPowerOfTwo && opts.Growth != GrowExact {
		return fmt.Errorf("%w: growth is %s", ErrInvalidOptions, opts.Growth)
	}
	return nil
}

// DecodeOptions reads options in TOML format. Keys that are missing keep
// their default values, unknown keys are an error.
func DecodeOptions(r io.Reader) (Options, error) {
	opts := DefaultOptions()
	md, err := toml.NewDecoder(r).Decode(&opts)
	if err != nil {
		return Options{}, fmt.Errorf("couldn't decode renderer options: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Options{}, fmt.Errorf("%w: unknown keys %s", ErrInvalidOptions, strings.Join(keys, ", "))
	}
	if err := opts.Validate(); err != nil {
		return Options{}, err
	}
	return opts, nil
}

func LoadOptions(path string) (Options, error) {
	f, err := os.Open(path)
	if err != nil {
		return Options{}, err
	}
	defer f.Close()
	opts, err := DecodeOptions(f)
	if err != nil {
		return Options{}, fmt.Errorf("%s: %w", path, err)
	}
	return opts, nil
}

// EncodeOptions writes opts in the format read by DecodeOptions.
func EncodeOptions(w io.Writer, opts Options) error {
	return toml.NewEncoder(w).Encode(opts)
}
