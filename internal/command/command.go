// Package command runs a user supplied shell command on matched files.
package command

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/idelchi/hbs/internal/scan"
)

// DefaultShell is the shell used when none is configured.
const DefaultShell = "sh"

// Runner builds and executes one shell command per matched file:
//
//	<template> <escaped name> <escaped derived path> [&]
type Runner struct {
	// Template is the command prefix, e.g. "rm" or "ls -l".
	Template string
	// Ext, if set, adds "<DestDir>/<name up to the first dot>.<Ext>".
	Ext string
	// DestDir is where derived paths point, normally the launch directory.
	DestDir string
	// Background appends "&" so the shell does not wait for the command.
	Background bool
	// Shell is the path of the shell binary.
	Shell string
	// Echo, if set, receives "Cmd: <line>" before each run.
	Echo io.Writer
	// Stdout and Stderr receive the command's output.
	Stdout io.Writer
	Stderr io.Writer
}

// New resolves the shell and returns a Runner writing to the process'
// standard streams.
func New(template, ext, destDir string, background bool) (*Runner, error) {
	shell, err := exec.LookPath(DefaultShell)
	if err != nil {
		return nil, fmt.Errorf("locating shell: %w", err)
	}

	return &Runner{
		Template:   template,
		Ext:        strings.TrimPrefix(ext, "."),
		DestDir:    destDir,
		Background: background,
		Shell:      filepath.ToSlash(shell),
		Stdout:     os.Stdout,
		Stderr:     os.Stderr,
	}, nil
}

// Dispatch runs the command for e inside the entry's directory.
func (r *Runner) Dispatch(ctx context.Context, e scan.Entry) error {
	return r.Run(ctx, e.Dir, e.Name)
}

// Run executes the command for the file name found in dir.
func (r *Runner) Run(ctx context.Context, dir, name string) error {
	line := r.Line(name)

	if r.Echo != nil {
		fmt.Fprintf(r.Echo, "Cmd: %s\n", line)
	}

	shell := r.Shell
	if shell == "" {
		shell = DefaultShell
	}

	cmd := exec.CommandContext(ctx, shell, "-c", line)
	cmd.Dir = dir
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("running %q: %w", line, err)
	}

	return nil
}

// Line returns the shell command line for name.
func (r *Runner) Line(name string) string {
	var derived, background string

	if r.Ext != "" {
		derived = Escape(DerivedPath(r.DestDir, name, r.Ext))
	}

	if r.Background {
		background = "&"
	}

	return fmt.Sprintf("%s %s %s %s", r.Template, Escape(name), derived, background)
}

// DerivedPath returns dir/<name up to the first dot>.<ext>.
func DerivedPath(dir, name, ext string) string {
	stem, _, _ := strings.Cut(name, ".")

	return filepath.Join(dir, stem+"."+ext)
}

// Escape puts a backslash before whitespace, quotes, parentheses and
// ampersands so name survives the shell as one word.
func Escape(name string) string {
	var b strings.Builder

	b.Grow(len(name) * 2)

	for i := range len(name) {
		switch name[i] {
		case ' ', '\t', '\'', '"', '(', ')', '&':
			b.WriteByte('\\')
		}

		b.WriteByte(name[i])
	}

	return b.String()
}
