// Package bridge implements the line protocol between the host and the PWM
// microcontroller. Each line is one command:
//
//	freq <channel> <hz>
//	duty <channel> <value>
//
// Duty values are 16-bit, 65535 being always on.
package bridge

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/google/shlex"
)

// Kind is the command verb.
type Kind string

const (
	Freq Kind = "freq"
	Duty Kind = "duty"
)

// MaxChannels bounds the channel numbers accepted on the wire.
const MaxChannels = 16

// ErrMalformed is returned for lines that are not a valid command.
var ErrMalformed = errors.New("malformed bridge command")

// Command is one decoded line.
type Command struct {
	Kind    Kind
	Channel int
	Value   int
}

// SetFreq returns a frequency command.
func SetFreq(channel, hz int) Command {
	return Command{Kind: Freq, Channel: channel, Value: hz}
}

// SetDuty returns a duty command.
func SetDuty(channel int, duty uint16) Command {
	return Command{Kind: Duty, Channel: channel, Value: int(duty)}
}

// String encodes the command without the line terminator.
func (c Command) String() string {
	return fmt.Sprintf("%s %d %d", c.Kind, c.Channel, c.Value)
}

// Validate checks the channel and value ranges of the command.
func (c Command) Validate() error {
	if c.Channel < 0 || c.Channel >= MaxChannels {
		return fmt.Errorf("%w: channel %d out of range", ErrMalformed, c.Channel)
	}
	switch c.Kind {
	case Freq:
		if c.Value <= 0 {
			return fmt.Errorf("%w: frequency %d", ErrMalformed, c.Value)
		}
	case Duty:
		if c.Value < 0 || c.Value > 0xffff {
			return fmt.Errorf("%w: duty %d", ErrMalformed, c.Value)
		}
	default:
		return fmt.Errorf("%w: unknown command %q", ErrMalformed, c.Kind)
	}
	return nil
}

// Encode writes the command as a single line.
func Encode(w io.Writer, c Command) error {
	if err := c.Validate(); err != nil {
		return err
	}
	_, err := io.WriteString(w, c.String()+"\n")
	return err
}

// Parse decodes one line. Blank lines and comments yield ok == false.
func Parse(line string) (cmd Command, ok bool, err error) {
	fields, err := shlex.Split(line)
	if err != nil {
		return Command{}, false, fmt.Errorf("%w: %q: %v", ErrMalformed, line, err)
	}
	if len(fields) == 0 {
		return Command{}, false, nil
	}
	if len(fields) != 3 {
		return Command{}, false, fmt.Errorf("%w: %q: want 3 fields, got %d", ErrMalformed, line, len(fields))
	}

	cmd.Kind = Kind(fields[0])
	if cmd.Channel, err = strconv.Atoi(fields[1]); err != nil {
		return Command{}, false, fmt.Errorf("%w: %q: bad channel", ErrMalformed, line)
	}
	if cmd.Value, err = strconv.Atoi(fields[2]); err != nil {
		return Command{}, false, fmt.Errorf("%w: %q: bad value", ErrMalformed, line)
	}
	if err := cmd.Validate(); err != nil {
		return Command{}, false, fmt.Errorf("%q: %w", line, err)
	}
	return cmd, true, nil
}

// Decode reads commands from r until EOF and hands each to fn. Malformed
// lines are passed to onErr and skipped; a nil onErr stops at the first one.
func Decode(r io.Reader, fn func(Command) error, onErr func(error)) error {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		cmd, ok, err := Parse(sc.Text())
		if err != nil {
			if onErr == nil {
				return err
			}
			onErr(err)
			continue
		}
		if !ok {
			continue
		}
		if err := fn(cmd); err != nil {
			return err
		}
	}
	return sc.Err()
}
