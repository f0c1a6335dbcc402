package board

import (
	"fmt"
	"io"

	"github.com/fkcurrie/ledscroll-golang/pkg/bitbang"
)

type outputLine interface {
	bitbang.Output
	io.Closer
}

type inputLine interface {
	bitbang.Input
	io.Closer
}

// opener requests lines from one GPIO backend.
type opener interface {
	output(n int) (outputLine, error)
	input(n int) (inputLine, error)
}

type cdevOpener struct {
	chip string
}

func (o cdevOpener) output(n int) (outputLine, error) {
	return bitbang.RequestOutput(o.chip, n, consumer)
}

func (o cdevOpener) input(n int) (inputLine, error) {
	return bitbang.RequestInput(o.chip, n, consumer)
}

type sysfsOpener struct{}

func (sysfsOpener) output(n int) (outputLine, error) {
	return bitbang.OpenSysfs(n, "out")
}

func (sysfsOpener) input(n int) (inputLine, error) {
	return bitbang.OpenSysfs(n, "in")
}

// periphOpener names lines GPIO<n>, the BCM numbering periph.io registers.
type periphOpener struct{}

type periphLine struct {
	bitbang.Output
	bitbang.Input
}

func (periphLine) Close() error { return nil }

func (periphOpener) output(n int) (outputLine, error) {
	p, err := bitbang.PeriphOutput(fmt.Sprintf("GPIO%d", n))
	if err != nil {
		return nil, err
	}
	return periphLine{Output: p, Input: p}, nil
}

func (periphOpener) input(n int) (inputLine, error) {
	p, err := bitbang.PeriphInput(fmt.Sprintf("GPIO%d", n))
	if err != nil {
		return nil, err
	}
	return periphLine{Output: p, Input: p}, nil
}
