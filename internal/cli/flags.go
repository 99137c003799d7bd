package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/pflag"

	"github.com/idelchi/hbs/internal/scan"
)

// maskValue is a no-argument flag that adds kinds to, or removes them
// from, a shared skip mask. Flags are applied in command-line order, so
// "-N -L" skips everything except symlinks.
type maskValue struct {
	mask  *scan.KindSet
	kinds scan.KindSet
	skip  bool
}

func (m *maskValue) String() string { return "false" }

func (m *maskValue) Type() string { return "bool" }

func (m *maskValue) Set(s string) error {
	on, err := strconv.ParseBool(s)
	if err != nil {
		return err
	}

	if on == m.skip {
		*m.mask = m.mask.Union(m.kinds)
	} else {
		*m.mask = m.mask.Minus(m.kinds)
	}

	return nil
}

// maskFlag registers a mask toggle on fs.
func maskFlag(fs *pflag.FlagSet, mask *scan.KindSet, name, shorthand string, kinds scan.KindSet, skip bool, usage string) {
	flag := fs.VarPF(&maskValue{mask: mask, kinds: kinds, skip: skip}, name, shorthand, usage)
	flag.NoOptDefVal = "true"
}

// modeValue parses an octal permission pattern and enables its test.
type modeValue struct {
	test *scan.ModeTest
}

func (m *modeValue) String() string {
	if m.test == nil || !m.test.Enabled {
		return ""
	}

	return fmt.Sprintf("%04o", m.test.Bits)
}

func (m *modeValue) Type() string { return "octal" }

func (m *modeValue) Set(s string) error {
	bits, err := strconv.ParseUint(s, 8, 32)
	if err != nil {
		return fmt.Errorf("invalid octal mode %q", s)
	}

	m.test.Enabled = true
	m.test.Bits = uint32(bits)

	return nil
}
