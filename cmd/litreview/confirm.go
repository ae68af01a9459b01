package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/manifoldco/promptui"
)

var errAborted = errors.New("aborted")

// confirm asks a yes/no question unless --yes was given.
func (a *app) confirm(in io.Reader, out io.Writer, label string) error {
	if a.yes {
		return nil
	}
	p := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
		Stdin:     io.NopCloser(in),
		Stdout:    nopWriteCloser{out},
	}
	if _, err := p.Run(); err != nil {
		if errors.Is(err, promptui.ErrAbort) || errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
			return errAborted
		}
		return fmt.Errorf("confirmation prompt: %w", err)
	}
	return nil
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }
