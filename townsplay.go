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

package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/bradleyjkemp/memviz"
	"github.com/scummvm/scummvm-sub071/digest"
	"github.com/scummvm/scummvm-sub071/disassembly"
	"github.com/scummvm/scummvm-sub071/driver"
	"github.com/scummvm/scummvm-sub071/hardware/opna"
	"github.com/scummvm/scummvm-sub071/logger"
	"github.com/scummvm/scummvm-sub071/modalflag"
	"github.com/scummvm/scummvm-sub071/performance"
	"github.com/scummvm/scummvm-sub071/player"
	"github.com/scummvm/scummvm-sub071/prefs"
	"github.com/scummvm/scummvm-sub071/statsview"
	"github.com/scummvm/scummvm-sub071/tracker"
	"github.com/scummvm/scummvm-sub071/version"
	"github.com/scummvm/scummvm-sub071/wavwriter"
)

// music that loops forever is cut off after this long in the RENDER and
// TRACE modes
const maxRenderDuration = 10 * time.Minute

// the number of samples rendered at a time in the non-interactive modes
const renderChunk = 1024

func main() {
	os.Exit(launch(os.Args[1:], os.Stdout))
}

// launch parses the arguments and runs the selected mode. the result is
// the status code for os.Exit()
func launch(args []string, output io.Writer) int {
	md := &modalflag.Modes{Output: output}
	md.NewArgs(args)
	md.NewMode()
	md.AddSubModes("PLAY", "RENDER", "TRACE", "DISASM", "DUMP", "PERFORMANCE", "REGRESS", "VERSION")

	p, err := md.Parse()
	switch p {
	case modalflag.ParseHelp:
		return 0

	case modalflag.ParseError:
		fmt.Fprintf(output, "* error: %v\n", err)
		return 10
	}

	switch md.Mode() {
	case "PLAY":
		err = play(md)

	case "RENDER":
		err = render(md)

	case "TRACE":
		err = trace(md)

	case "DISASM":
		err = disasm(md)

	case "DUMP":
		err = dump(md)

	case "PERFORMANCE":
		err = perform(md)

	case "REGRESS":
		err = regress(md)

	case "VERSION":
		err = showVersion(md)
	}

	if err != nil {
		fmt.Fprintf(output, "* error in %s mode: %s\n", md.String(), err)
		return 20
	}

	return 0
}

// playerFlags are the flags shared by the modes that create a player
type playerFlags struct {
	prefs *string
	sfx   *string
	log   *bool
}

func addPlayerFlags(md *modalflag.Modes) playerFlags {
	return playerFlags{
		prefs: md.AddString("prefs", "", "preferences for this session. eg. \"player.driver::86; player.samplerate::22050\""),
		sfx:   md.AddString("sfx", "", "sound effect resource"),
		log:   md.AddBool("log", false, "echo log to stdout"),
	}
}

// newPlayer creates a player with the preferences on disk overridden by
// the command line. the music resource is loaded and started
func newPlayer(md *modalflag.Modes, pf playerFlags, cfgHook func(*player.Config)) (*player.Preferences, *player.Player, error) {
	if *pf.log {
		logger.SetEcho(logger.NewColorizer(md.Output), false)
	} else {
		logger.SetEcho(nil, false)
	}

	switch len(md.RemainingArgs()) {
	case 0:
		return nil, nil, fmt.Errorf("music resource required for %s mode", md)
	case 1:
	default:
		return nil, nil, fmt.Errorf("too many arguments for %s mode", md)
	}

	prefs.PushCommandLineStack(*pf.prefs)
	pr, err := player.NewPreferences()
	if unused := prefs.PopCommandLineStack(); unused != "" {
		logger.Logf(logger.Allow, "townsplay", "unused preferences: %s", unused)
	}
	if err != nil {
		return nil, nil, err
	}

	cfg, err := pr.Config()
	if err != nil {
		return nil, nil, err
	}
	if cfgHook != nil {
		cfgHook(&cfg)
	}

	ply, err := player.NewPlayer(cfg)
	if err != nil {
		return nil, nil, err
	}
	ply.SetMusicVolume(pr.MusicVolume.Get().(int))
	ply.SetSoundEffectVolume(pr.SfxVolume.Get().(int))

	if *pf.sfx != "" {
		if err := ply.LoadSoundEffectsFile(*pf.sfx); err != nil {
			return nil, nil, err
		}
	}

	if err := ply.LoadMusicFile(md.GetArg(0)); err != nil {
		return nil, nil, err
	}

	return pr, ply, nil
}

// renderPlayer renders samples until the music finishes or the duration has
// been reached. a duration of zero means until the music finishes
func renderPlayer(ply *player.Player, duration time.Duration, out func([]int16) error) error {
	if duration <= 0 || duration > maxRenderDuration {
		duration = maxRenderDuration
	}
	remaining := int(duration.Seconds() * float64(ply.SampleRate()))

	buf := make([]int16, renderChunk)
	for remaining > 0 && !ply.Finished() {
		n := min(remaining, len(buf))
		ply.Render(buf[:n])
		if err := out(buf[:n]); err != nil {
			return err
		}
		remaining -= n
	}

	if remaining <= 0 {
		logger.Logf(logger.Allow, "townsplay", "render stopped after %v", duration)
	}

	return nil
}

func render(md *modalflag.Modes) error {
	md.NewMode()

	pf := addPlayerFlags(md)
	wav := md.AddString("wav", "out.wav", "output file")
	duration := md.AddDuration("duration", 0, "length of output. zero for the length of the music")
	sfxTrack := md.AddInt("sfxtrack", -1, "sound effect to start with the music")
	showDigest := md.AddBool("digest", false, "print a digest of the rendered audio")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	_, ply, err := newPlayer(md, pf, nil)
	if err != nil {
		return err
	}

	if *sfxTrack >= 0 {
		if err := ply.TriggerSfx(uint8(*sfxTrack)); err != nil {
			return err
		}
	}

	aw, err := wavwriter.New(*wav, ply.SampleRate())
	if err != nil {
		return err
	}

	dig := digest.NewAudio()
	err = renderPlayer(ply, *duration, func(buf []int16) error {
		if err := dig.SetAudio(buf); err != nil {
			return err
		}
		return aw.SetAudio(buf)
	})
	if err != nil {
		return err
	}

	if err := aw.EndMixing(); err != nil {
		return err
	}

	if *showDigest {
		fmt.Fprintln(md.Output, dig.Hash())
	}

	return nil
}

func perform(md *modalflag.Modes) error {
	md.NewMode()

	pf := addPlayerFlags(md)
	duration := md.AddDuration("duration", 5*time.Second, "run duration")
	profile := md.AddString("profile", "none", "run performance check with profiling: cpu, mem, trace, all (comma sep)")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	prf, err := performance.ParseProfile(*profile)
	if err != nil {
		return err
	}

	_, ply, err := newPlayer(md, pf, nil)
	if err != nil {
		return err
	}

	return performance.Check(md.Output, prf, ply, *duration)
}

func trace(md *modalflag.Modes) error {
	md.NewMode()

	pf := addPlayerFlags(md)
	duration := md.AddDuration("duration", 10*time.Second, "length of trace")
	changed := md.AddBool("changed", false, "only show writes that change a register")
	maxEntries := md.AddInt("max", 100000, "maximum number of register writes to keep")
	wav := md.AddString("wav", "", "replay the trace to a wav file")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	var tr *tracker.Tracker
	var numFM int

	_, ply, err := newPlayer(md, pf, func(cfg *player.Config) {
		numFM = cfg.Driver.NumFM
		cfg.Intercept = func(c driver.Chip) driver.Chip {
			tr = tracker.NewTracker(c, *maxEntries)
			return tr
		}
		cfg.OnTick = func() {
			tr.Tick()
		}
	})
	if err != nil {
		return err
	}

	if err := renderPlayer(ply, *duration, func([]int16) error { return nil }); err != nil {
		return err
	}

	entries := tr.Copy()

	pr := tracker.NewPrinter(md.Output, tracker.ColorAllowed(os.Stdout))
	pr.OnlyChanged = *changed
	if err := pr.Print(entries); err != nil {
		return err
	}

	if *wav == "" {
		return nil
	}

	chip, err := opna.NewOPNA(numFM)
	if err != nil {
		return err
	}

	aw, err := wavwriter.New(*wav, opna.SampleRate)
	if err != nil {
		return err
	}

	rp := tracker.NewReplayer(chip, entries)
	buf := make([]int16, renderChunk)
	limit := int(maxRenderDuration.Seconds()) * opna.SampleRate
	for n := 0; !rp.Done() && n < limit; n += len(buf) {
		rp.Render(buf)
		if err := aw.SetAudio(buf); err != nil {
			return err
		}
	}

	return aw.EndMixing()
}

func disasm(md *modalflag.Modes) error {
	md.NewMode()

	hw := md.AddString("driver", "towns", "hardware type: 26, 86, towns")
	sfx := md.AddInt("sfx", -1, "disassemble a track of a sound effect resource")
	bytecode := md.AddBool("bytecode", false, "include bytecode in disassembly")
	ticks := md.AddBool("ticks", false, "include tick count in disassembly")
	track := md.AddInt("track", -1, "show disassembly for a specific track")
	grep := md.AddString("grep", "", "only show events that match")
	scope := md.AddString("scope", "all", "scope of grep: mnemonic, operand, all")
	caseSensitive := md.AddBool("case", false, "case sensitive grep")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	switch len(md.RemainingArgs()) {
	case 0:
		return fmt.Errorf("resource required for %s mode", md)
	case 1:
	default:
		return fmt.Errorf("too many arguments for %s mode", md)
	}

	data, err := os.ReadFile(md.GetArg(0))
	if err != nil {
		return err
	}

	var dsm *disassembly.Disassembly
	if *sfx >= 0 {
		dsm, err = disassembly.FromSoundEffects(data, uint8(*sfx))
	} else {
		var t driver.Type
		t, err = driver.ParseType(*hw)
		if err != nil {
			return err
		}
		dsm, err = disassembly.FromMusic(data, driver.NewConfig(t))
	}
	if err != nil {
		return err
	}

	if *grep != "" {
		var s disassembly.GrepScope
		switch strings.ToLower(*scope) {
		case "mnemonic":
			s = disassembly.GrepMnemonic
		case "operand":
			s = disassembly.GrepOperand
		case "all":
			s = disassembly.GrepAll
		default:
			return fmt.Errorf("unknown grep scope (%s)", *scope)
		}
		_, err = dsm.Grep(md.Output, s, *grep, *caseSensitive)
		return err
	}

	attr := disassembly.WriteAttr{
		ByteCode: *bytecode,
		Tick:     *ticks,
	}

	if *track < 0 {
		return dsm.Write(md.Output, attr)
	}
	return dsm.WriteTrack(md.Output, attr, *track)
}

func dump(md *modalflag.Modes) error {
	md.NewMode()

	pf := addPlayerFlags(md)
	duration := md.AddDuration("duration", time.Second, "playback time before the dump")
	dot := md.AddString("dot", "", "write a graphviz diagram of the driver to the named file")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	_, ply, err := newPlayer(md, pf, nil)
	if err != nil {
		return err
	}

	if err := renderPlayer(ply, *duration, func([]int16) error { return nil }); err != nil {
		return err
	}

	fmt.Fprintf(md.Output, "tick %d\n", ply.TickCounter())
	for _, s := range ply.ChannelStates() {
		fmt.Fprintf(md.Output, "%-3s%d  active=%-5v eot=%-5v pos=%04x note=%02x ticks=%3d level=%02x freq=%04x\n",
			s.Kind, s.Index, s.Active, s.EOT, s.Position, s.Note, s.TicksLeft, s.TotalLevel, s.Frequency)
	}

	if *dot == "" {
		return nil
	}

	f, err := os.Create(*dot)
	if err != nil {
		return err
	}
	memviz.Map(f, ply.Driver())

	return f.Close()
}

func showVersion(md *modalflag.Modes) error {
	md.NewMode()

	revision := md.AddBool("revision", false, "display revision information from version control")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	if len(md.RemainingArgs()) > 0 {
		return errors.New("too many arguments for VERSION mode")
	}

	if *revision {
		fmt.Fprintln(md.Output, version.String())
	} else {
		v, _, _ := version.Version()
		fmt.Fprintf(md.Output, "%s %s\n", version.ApplicationName, v)
	}

	if statsview.Available() {
		fmt.Fprintf(md.Output, "statsview available at %s\n", statsview.Address)
	}

	return nil
}
