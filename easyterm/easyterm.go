// This file is part of Townsplay.
//
// Townsplay is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Townsplay is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Townsplay.  If not, see <https://www.gnu.org/licenses/>.

// Package easyterm is a wrapper for "github.com/pkg/term/termios". It
// provides terminal geometry and single key input, and wraps termios
// methods in functions with friendlier names.
package easyterm

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/pkg/term/termios"
	"golang.org/x/sys/unix"
)

// TermGeometry contains the dimensions of a terminal in characters.
type TermGeometry struct {
	Rows int
	Cols int
}

// Terminal is the main container for posix terminals.
type Terminal struct {
	input  *os.File
	output *os.File

	canAttr    unix.Termios
	cbreakAttr unix.Termios

	// sig/ack channels to control signal handler
	terminateHandlerSig chan bool
	terminateHandlerAck chan bool

	// geometry is updated by the signal handler
	crit     sync.Mutex
	geometry TermGeometry
}

// NewTerminal is the preferred method of initialisation for the Terminal
// type.
func NewTerminal(inputFile, outputFile *os.File) (*Terminal, error) {
	if inputFile == nil {
		return nil, errors.New("easyterm: terminal requires an input file")
	}
	if outputFile == nil {
		return nil, errors.New("easyterm: terminal requires an output file")
	}

	pt := &Terminal{
		input:               inputFile,
		output:              outputFile,
		terminateHandlerSig: make(chan bool),
		terminateHandlerAck: make(chan bool),
	}

	if err := termios.Tcgetattr(pt.input.Fd(), &pt.canAttr); err != nil {
		return nil, fmt.Errorf("easyterm: %w", err)
	}
	pt.cbreakAttr = pt.canAttr
	termios.Cfmakecbreak(&pt.cbreakAttr)

	_ = pt.UpdateGeometry()

	go func() {
		sigwinch := make(chan os.Signal, 1)
		signal.Notify(sigwinch, syscall.SIGWINCH)
		defer func() {
			signal.Stop(sigwinch)
			pt.terminateHandlerAck <- true
		}()

		for {
			select {
			case <-sigwinch:
				_ = pt.UpdateGeometry()
			case <-pt.terminateHandlerSig:
				return
			}
		}
	}()

	return pt, nil
}

// CleanUp restores canonical mode and stops the signal handler.
func (pt *Terminal) CleanUp() {
	_ = pt.CanonicalMode()
	pt.terminateHandlerSig <- true
	<-pt.terminateHandlerAck
}

// Print writes the formatted string to the output file
func (pt *Terminal) Print(s string, a ...any) {
	_, _ = pt.output.WriteString(fmt.Sprintf(s, a...))
}

// Geometry returns the most recent dimensions of the output terminal.
func (pt *Terminal) Geometry() TermGeometry {
	pt.crit.Lock()
	defer pt.crit.Unlock()
	return pt.geometry
}

// UpdateGeometry gets the current dimensions of the output terminal
func (pt *Terminal) UpdateGeometry() error {
	ws, err := unix.IoctlGetWinsize(int(pt.output.Fd()), unix.TIOCGWINSZ)
	if err != nil {
		return fmt.Errorf("easyterm: updating terminal geometry: %w", err)
	}

	pt.crit.Lock()
	defer pt.crit.Unlock()
	pt.geometry.Rows = int(ws.Row)
	pt.geometry.Cols = int(ws.Col)

	return nil
}

// CanonicalMode puts terminal into normal, everyday canonical mode
func (pt *Terminal) CanonicalMode() error {
	return termios.Tcsetattr(pt.input.Fd(), termios.TCSANOW, &pt.canAttr)
}

// CBreakMode puts terminal into cbreak mode. Keys are available to
// ReadKey() as soon as they are pressed and are not echoed.
func (pt *Terminal) CBreakMode() error {
	return termios.Tcsetattr(pt.input.Fd(), termios.TCSANOW, &pt.cbreakAttr)
}

// Flush makes sure the terminal's input/output buffers are empty
func (pt *Terminal) Flush() error {
	if err := termios.Tcflush(pt.input.Fd(), termios.TCIFLUSH); err != nil {
		return err
	}
	if err := termios.Tcflush(pt.output.Fd(), termios.TCOFLUSH); err != nil {
		return err
	}
	return nil
}

// ReadKey blocks until a key is pressed. Escape sequences are returned one
// byte at a time.
func (pt *Terminal) ReadKey() (byte, error) {
	var b [1]byte
	if _, err := pt.input.Read(b[:]); err != nil {
		return 0, err
	}
	return b[0], nil
}

// SuspendProcess manually suspends the current process. This is useful if
// terminal is in cbreak mode and the terminal is given the suspend key.
func SuspendProcess() error {
	p, err := os.FindProcess(os.Getppid())
	if err != nil {
		return fmt.Errorf("easyterm: %w", err)
	}
	return p.Signal(syscall.SIGTSTP)
}
