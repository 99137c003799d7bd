package scan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func file(name string, perm uint32) Entry {
	return Entry{Name: name, Kind: KindRegular, Perm: perm}
}

func TestPolicyGlob(t *testing.T) {
	p := NewPolicy(Options{Pattern: "*.c"})

	assert.True(t, p.Matches(file("a.c", 0o644)))
	assert.False(t, p.Matches(file("b.o", 0o644)))
	assert.False(t, p.Matches(file("a.c.bak", 0o644)))
	assert.False(t, p.Matches(file("A.C", 0o644)), "glob is case-sensitive")
}

func TestPolicyGlobClasses(t *testing.T) {
	testCases := []struct {
		pattern string
		name    string
		want    bool
	}{
		{"?.go", "a.go", true},
		{"?.go", "ab.go", false},
		{"[ab]*", "beta", true},
		{"[ab]*", "gamma", false},
		{"[!ab]*", "gamma", true},
		{"[!ab]*", "alpha", false},
		{"[^ab]*", "alpha", false},
		{"*", ".hidden", true},
		{`\[!x]`, "[!x]", true},
		{`\[!x]`, "[^x]", false},
		{"[]a]*", "]x", true},
		{"[]a]*", "ab", true},
		{"[]a]*", "bx", false},
		{"[a-]*", "-x", true},
		{"[a-]*", "ax", true},
		{"[a-]*", "bx", false},
		{"[-z]", "-", true},
		{"[!]]", "a", true},
		{"[!]]", "]", false},
		{"[ab", "[ab", true},
		{"[ab", "a", false},
		{"a[!x]c", "a!c", true},
		{"x!y", "x!y", true},
	}

	for _, tc := range testCases {
		t.Run(tc.pattern+"/"+tc.name, func(t *testing.T) {
			p := NewPolicy(Options{Pattern: tc.pattern})
			assert.Equal(t, tc.want, p.Matches(file(tc.name, 0o644)))
		})
	}
}

func TestPolicyExactModes(t *testing.T) {
	for _, name := range []string{"and", "xor"} {
		t.Run(name, func(t *testing.T) {
			opt := Options{}
			test := ModeTest{Enabled: true, Bits: 0o644}

			if name == "and" {
				opt.AndMode = test
			} else {
				opt.XorMode = test
			}

			p := NewPolicy(opt)

			assert.True(t, p.Matches(file("x", 0o644)))
			assert.False(t, p.Matches(file("x", 0o664)), "extra bit")
			assert.False(t, p.Matches(file("x", 0o604)), "missing bit")
			assert.False(t, p.Matches(file("x", 0o600)))
		})
	}
}

func TestPolicyOrMode(t *testing.T) {
	p := NewPolicy(Options{OrMode: ModeTest{Enabled: true, Bits: 0o111}})

	assert.True(t, p.Matches(file("x", 0o755)))
	assert.True(t, p.Matches(file("x", 0o601)))
	assert.False(t, p.Matches(file("x", 0o644)))
}

func TestPolicyConjunction(t *testing.T) {
	p := NewPolicy(Options{
		Pattern: "*.sh",
		OrMode:  ModeTest{Enabled: true, Bits: 0o100},
		AndMode: ModeTest{Enabled: true, Bits: 0o755},
	})

	assert.True(t, p.Matches(file("run.sh", 0o755)))
	assert.False(t, p.Matches(file("run.py", 0o755)), "name vetoes")
	assert.False(t, p.Matches(file("run.sh", 0o655)), "mode vetoes")
}

func TestPolicyTypeSkip(t *testing.T) {
	p := NewPolicy(Options{Skip: KindsOf(KindRegular)})

	assert.False(t, p.Matches(file("a", 0o644)))
	assert.True(t, p.Matches(Entry{Name: "fifo", Kind: KindFIFO}))
	assert.Equal(t, Skip, p.Decide(file("a", 0o644)))
	assert.Equal(t, CountFile, p.Decide(Entry{Name: "fifo", Kind: KindFIFO}))
}

func TestPolicyDirectories(t *testing.T) {
	dir := Entry{Name: "src", Kind: KindDir, Perm: 0o700}
	link := Entry{Name: "lnk", Kind: KindSymlink, Perm: 0o777, LinksToDir: true}
	fileLink := Entry{Name: "f.c", Kind: KindSymlink, Perm: 0o777}

	p := NewPolicy(Options{
		Pattern: "*.c",
		AndMode: ModeTest{Enabled: true, Bits: 0o644},
		Skip:    KindsOf(KindSymlink),
	})

	assert.Equal(t, CountDir, p.Decide(dir), "filters do not gate directories")
	assert.Equal(t, CountDir, p.Decide(link), "symlink mask does not gate directory links")
	assert.Equal(t, Skip, p.Decide(fileLink))

	p = NewPolicy(Options{Skip: KindsOf(KindDir)})

	assert.Equal(t, Skip, p.Decide(dir))
	assert.Equal(t, Skip, p.Decide(link))
	assert.Equal(t, CountFile, p.Decide(fileLink))
}

func TestOptionsValidate(t *testing.T) {
	require.NoError(t, Options{Pattern: "*.[ch]"}.Validate())
	require.NoError(t, Options{Pattern: "[!x]"}.Validate())
	require.NoError(t, Options{Pattern: "[a-"}.Validate(), "unclosed class is literal")
	require.NoError(t, Options{Pattern: "[]a]*"}.Validate())
	require.NoError(t, Options{Pattern: "[a-]*"}.Validate())
	require.NoError(t, Options{Pattern: `trailing\`}.Validate())
	require.Error(t, Options{AndMode: ModeTest{Enabled: true, Bits: 0o4755}}.Validate())
	require.NoError(t, Options{AndMode: ModeTest{Enabled: false, Bits: 0o4755}}.Validate())
}

func TestOptionsValidateNamesFirstBadMode(t *testing.T) {
	opt := Options{
		OrMode:  ModeTest{Enabled: true, Bits: 0o1000},
		XorMode: ModeTest{Enabled: true, Bits: 0o2000},
	}

	for range 20 {
		err := opt.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "or mode")
	}
}

func TestGlobPattern(t *testing.T) {
	testCases := []struct {
		in   string
		want string
	}{
		{"*.c", "*.c"},
		{"[!ab]*", "[^ab]*"},
		{`\[!x]`, `\[!x]`},
		{"[]a]", `[\]a]`},
		{"[a-]", `[a\-]`},
		{"[!-a]", `[^\-a]`},
		{"[ab", `\[ab`},
		{`a\`, `a\\`},
		{`[\]]`, `[\]]`},
	}

	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.want, globPattern(tc.in))
		})
	}
}

func TestKindSet(t *testing.T) {
	s := KindsOf(KindSymlink, KindFIFO)

	assert.True(t, s.Has(KindSymlink))
	assert.True(t, s.Has(KindFIFO))
	assert.False(t, s.Has(KindDir))
	assert.False(t, s.Has(KindUnknown))
	assert.Equal(t, "[symlink,fifo]", s.String())

	assert.Equal(t, AllKinds, s.Union(AllKinds))
	assert.Equal(t, KindsOf(KindSymlink), s.Minus(KindsOf(KindFIFO)))

	for k := KindSymlink; k < KindUnknown; k++ {
		assert.True(t, AllKinds.Has(k), k.String())
	}
}

func TestResolveDisplay(t *testing.T) {
	assert.Equal(t, DisplayNone, ResolveDisplay(false, false, true))
	assert.Equal(t, DisplayVerbose, ResolveDisplay(true, false, false))
	assert.Equal(t, DisplayDump, ResolveDisplay(true, true, false))
	assert.Equal(t, DisplayTree, ResolveDisplay(false, true, true))
}
