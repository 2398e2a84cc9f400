// Package nestest compares CPU execution against the canonical nestest.log
// trace: PC, A, X, Y, P, SP and total cycle count after every instruction.
package nestest

import (
	"bufio"
	"fmt"
	"io"
	"regexp"

	"nescore/internal/cpu"
)

var (
	pcRe  = regexp.MustCompile(`^[A-F0-9]{4}`)
	aRe   = regexp.MustCompile(`A:([A-F0-9]{2})`)
	xRe   = regexp.MustCompile(`X:([A-F0-9]{2})`)
	yRe   = regexp.MustCompile(`Y:([A-F0-9]{2})`)
	pRe   = regexp.MustCompile(`P:([A-F0-9]{2})`)
	spRe  = regexp.MustCompile(`SP:([A-F0-9]{2})`)
	cycRe = regexp.MustCompile(`CYC:(\d+)`)
)

// Line is one parsed trace-log expectation.
type Line struct {
	PC          uint16
	A, X, Y, P, SP uint8
	Cycle       int
	Raw         string
}

// ParseLine extracts the fields nestest.log carries for one instruction.
func ParseLine(line string) (Line, error) {
	var l Line
	l.Raw = line

	pcMatch := pcRe.FindString(line)
	if pcMatch == "" {
		return l, fmt.Errorf("nestest: no PC field in line %q", line)
	}
	if _, err := fmt.Sscanf(pcMatch, "%x", &l.PC); err != nil {
		return l, fmt.Errorf("nestest: parsing PC: %w", err)
	}

	fields := []struct {
		re  *regexp.Regexp
		dst *uint8
	}{
		{aRe, &l.A}, {xRe, &l.X}, {yRe, &l.Y}, {pRe, &l.P}, {spRe, &l.SP},
	}
	for _, f := range fields {
		m := f.re.FindStringSubmatch(line)
		if m == nil {
			return l, fmt.Errorf("nestest: missing field in line %q", line)
		}
		if _, err := fmt.Sscanf(m[1], "%x", f.dst); err != nil {
			return l, fmt.Errorf("nestest: parsing field: %w", err)
		}
	}

	m := cycRe.FindStringSubmatch(line)
	if m == nil {
		return l, fmt.Errorf("nestest: missing CYC field in line %q", line)
	}
	if _, err := fmt.Sscanf(m[1], "%d", &l.Cycle); err != nil {
		return l, fmt.Errorf("nestest: parsing cycle: %w", err)
	}
	return l, nil
}

// Mismatch describes the first line where the CPU's observed state
// diverged from the trace.
type Mismatch struct {
	LineNumber int
	Want       Line
	GotPC      uint16
	GotA, GotX, GotY, GotP, GotSP uint8
	GotCycle   int
}

func (m *Mismatch) Error() string {
	return fmt.Sprintf("nestest line %d: %q\n got PC=%04X A=%02X X=%02X Y=%02X P=%02X SP=%02X CYC=%d\nwant PC=%04X A=%02X X=%02X Y=%02X P=%02X SP=%02X CYC=%d",
		m.LineNumber, m.Want.Raw,
		m.GotPC, m.GotA, m.GotX, m.GotY, m.GotP, m.GotSP, m.GotCycle,
		m.Want.PC, m.Want.A, m.Want.X, m.Want.Y, m.Want.P, m.Want.SP, m.Want.Cycle)
}

// Run starts c at nestest's documented automation entry point (PC=$C000,
// SP=$FD, P=$24) and steps one instruction per log line, reporting the
// first divergence. c must already be wired to a bus holding nestest.nes.
func Run(c *cpu.CPU, log io.Reader) error {
	c.PC = 0xC000
	c.SP = 0xFD
	c.SetStatusByte(0x24)
	c.SetTotalCycles(7)

	scanner := bufio.NewScanner(log)
	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		want, err := ParseLine(scanner.Text())
		if err != nil {
			return err
		}

		gotP := c.GetStatusByte()
		if c.PC != want.PC || c.A != want.A || c.X != want.X || c.Y != want.Y ||
			gotP != want.P || c.SP != want.SP || int(c.TotalCycles()) != want.Cycle {
			return &Mismatch{
				LineNumber: lineNumber,
				Want:       want,
				GotPC:      c.PC, GotA: c.A, GotX: c.X, GotY: c.Y,
				GotP: gotP, GotSP: c.SP, GotCycle: int(c.TotalCycles()),
			}
		}

		if err := c.Step(); err != nil {
			return fmt.Errorf("nestest line %d: %w", lineNumber, err)
		}
		for remaining := c.PendingCycles(); remaining > 0; remaining = c.PendingCycles() {
			if err := c.Step(); err != nil {
				return fmt.Errorf("nestest line %d: %w", lineNumber, err)
			}
		}
	}
	return scanner.Err()
}
