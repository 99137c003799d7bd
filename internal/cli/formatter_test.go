package cli

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idelchi/hbs/internal/scan"
)

func TestPermString(t *testing.T) {
	assert.Equal(t, "rwxr-xr-x", PermString(0o755))
	assert.Equal(t, "rw-r--r--", PermString(0o644))
	assert.Equal(t, "---------", PermString(0))
	assert.Equal(t, "rwxrwxrwx", PermString(0o777))
}

func TestScaleBytes(t *testing.T) {
	testCases := []struct {
		bytes  uint64
		scaled float64
		unit   byte
	}{
		{0, 0, 'K'},
		{512, 0.5, 'K'},
		{1024*1024 - 1024, 1023, 'K'},
		{1024 * 1024, 1, 'M'},
		{3 * 1024 * 1024 * 1024, 3, 'G'},
	}

	for _, tc := range testCases {
		scaled, unit := ScaleBytes(tc.bytes)
		assert.InDelta(t, tc.scaled, scaled, 1e-9)
		assert.Equal(t, tc.unit, unit)
	}
}

func TestPrintSummary(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, PrintSummary(scan.Stats{Bytes: 5 * 1024 * 1024, Files: 7, Dirs: 2}, &buf))
	assert.Equal(t, "\n000005242880 (5.0M) total bytes in 7 file(s) (2 directories)\n\n", buf.String())
}

func TestLineReporter(t *testing.T) {
	var out, errOut bytes.Buffer

	entry := scan.Entry{Dir: "/data", Name: "f.txt", Kind: scan.KindRegular, Size: 42, Perm: 0o640, UID: 7, GID: 9}
	dir := scan.Entry{Dir: "/data", Name: "sub", Kind: scan.KindDir, Size: 4096, Perm: 0o755}

	r := newLineReporter(&out, &errOut, scan.Options{Display: scan.DisplayVerbose, ShowPerms: true, ShowGID: true})
	r.Entry(entry, 0)
	r.Entry(dir, 0)
	assert.Equal(t, "       42 rw-r----- gid:9 /data/f.txt\n     4096 rwxr-xr-x gid:0 /data/sub/\n", out.String())

	out.Reset()

	r = newLineReporter(&out, &errOut, scan.Options{Display: scan.DisplayTree})
	r.Entry(entry, 2)
	assert.Equal(t, "       42        f.txt\n", out.String())

	out.Reset()

	r = newLineReporter(&out, &errOut, scan.Options{Display: scan.DisplayDump, ShowPerms: true})
	r.Entry(dir, 1)
	assert.Equal(t, "/data/sub/\n", out.String())

	r.Error("/locked", errors.New("permission denied"))
	assert.Equal(t, "Could not open directory: /locked [permission denied]\n", errOut.String())
}
