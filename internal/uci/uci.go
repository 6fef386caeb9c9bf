// Package uci implements the subset of the Universal Chess Interface the
// engine supports. Searches run synchronously, so "stop" has nothing to
// interrupt and "go" always searches to a fixed depth.
package uci

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"runtime/pprof"
	"strconv"
	"strings"
	"time"

	"github.com/hailam/athena/internal/board"
	"github.com/hailam/athena/internal/engine"
)

// UCI implements the Universal Chess Interface protocol.
type UCI struct {
	engine   *engine.Engine
	position *board.Position

	in  io.Reader
	out io.Writer

	// CPU profiling
	profileFile *os.File
}

// New creates a UCI handler reading commands from in and writing replies to out.
func New(eng *engine.Engine, in io.Reader, out io.Writer) *UCI {
	return &UCI{
		engine:   eng,
		position: board.NewPosition(),
		in:       in,
		out:      out,
	}
}

// Run reads commands until "quit" or end of input.
func (u *UCI) Run() error {
	scanner := bufio.NewScanner(u.in)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		parts := strings.Fields(line)
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "uci":
			u.handleUCI()
		case "isready":
			u.println("readyok")
		case "ucinewgame":
			u.position = board.NewPosition()
		case "position":
			if board.DebugMoveValidation {
				u.printf("info string DEBUG: position %s\n", strings.Join(args, " "))
			}
			u.handlePosition(args)
		case "go":
			u.handleGo(args)
		case "stop":
			// searches are synchronous; nothing is running here
		case "quit":
			u.stopProfile()
			return nil
		case "setoption":
			u.handleSetOption(args)
		// Debug commands
		case "d":
			u.println(u.position.String())
			u.printf("Fen: %s\n", u.position.FEN())
			u.printf("Key: %016X\n", u.position.Hash)
		case "eval":
			u.printf("Evaluation: %d (side to move)\n", u.engine.Evaluate(u.position))
		case "perft":
			u.handlePerft(args)
		case "divide":
			u.handleDivide(args)
		default:
			u.printf("info string Unknown command: %s\n", cmd)
		}
	}
	u.stopProfile()
	return scanner.Err()
}

func (u *UCI) printf(format string, args ...any) {
	fmt.Fprintf(u.out, format, args...)
}

func (u *UCI) println(args ...any) {
	fmt.Fprintln(u.out, args...)
}

// handleUCI responds to the "uci" command.
func (u *UCI) handleUCI() {
	u.println("id name Athena")
	u.println("id author Athena Team")
	u.println()
	u.printf("option name Depth type spin default %d min 1 max %d\n", u.engine.Options().Depth, engine.MaxDepth)
	u.println("option name Debug type check default false")
	u.println("option name CPUProfile type string default <empty>")
	u.println("uciok")
}

// handlePosition parses and sets up a position.
// Formats:
//   - position startpos
//   - position startpos moves e2e4 e7e5
//   - position fen <fen>
//   - position fen <fen> moves e2e4
//
// On any error the previous position is kept.
func (u *UCI) handlePosition(args []string) {
	if len(args) == 0 {
		return
	}

	movesAt := len(args)
	for i, arg := range args {
		if arg == "moves" {
			movesAt = i
			break
		}
	}

	var pos *board.Position
	switch args[0] {
	case "startpos":
		pos = board.NewPosition()
	case "fen":
		var err error
		pos, err = board.ParseFEN(strings.Join(args[1:movesAt], " "))
		if err != nil {
			u.printf("info string Invalid FEN: %v\n", err)
			return
		}
	default:
		return
	}

	if movesAt < len(args) {
		for _, text := range args[movesAt+1:] {
			m, err := board.MatchMove(pos, text)
			if err != nil {
				u.printf("info string Invalid move: %v\n", err)
				return
			}
			pos.Apply(m, true)
		}
	}
	u.position = pos

	if board.DebugMoveValidation {
		u.printf("info string DEBUG: After position setup - hash=%016x inCheck=%v legal=%d\n",
			pos.Hash, pos.InCheck(), pos.GenerateLegalMoves().Len())
	}
}

// handleGo searches the current position. Only "depth N" is honored; time
// controls are accepted and ignored.
func (u *UCI) handleGo(args []string) {
	depth := u.engine.Options().Depth
	for i := 0; i < len(args); i++ {
		if args[i] == "depth" && i+1 < len(args) {
			if d, err := strconv.Atoi(args[i+1]); err == nil {
				depth = d
			}
			i++
		}
	}

	u.engine.OnInfo = u.sendInfo
	defer func() { u.engine.OnInfo = nil }()

	move, err := u.engine.SearchDepth(u.position.Copy(), depth)
	if err != nil {
		u.printf("info string %v\n", err)
		u.println("bestmove 0000")
		return
	}
	// the null move prints as 0000 when there is no legal move
	u.printf("bestmove %s\n", move)
}

func (u *UCI) sendInfo(info engine.SearchInfo) {
	parts := []string{
		fmt.Sprintf("depth %d", info.Depth),
		"score " + engine.ScoreString(info.Score, info.Depth),
		fmt.Sprintf("nodes %d", info.Nodes+info.QNodes),
		fmt.Sprintf("time %d", info.Time.Milliseconds()),
	}
	if nps := info.NPS(); nps > 0 {
		parts = append(parts, fmt.Sprintf("nps %d", nps))
	}
	if !info.Move.IsNull() {
		parts = append(parts, "pv "+info.Move.String())
	}
	u.printf("info %s\n", strings.Join(parts, " "))
}

// handleSetOption processes "setoption" commands.
func (u *UCI) handleSetOption(args []string) {
	// Format: setoption name <name> value <value>
	var name, value string
	readingName := false
	readingValue := false

	for _, arg := range args {
		switch arg {
		case "name":
			readingName = true
			readingValue = false
		case "value":
			readingName = false
			readingValue = true
		default:
			if readingName {
				if name != "" {
					name += " "
				}
				name += arg
			} else if readingValue {
				if value != "" {
					value += " "
				}
				value += arg
			}
		}
	}

	switch strings.ToLower(name) {
	case "depth":
		depth, err := strconv.Atoi(value)
		if err != nil {
			u.printf("info string Invalid depth %q\n", value)
			return
		}
		if err := u.engine.SetDepth(depth); err != nil {
			u.printf("info string %v\n", err)
		}
	case "debug":
		enabled := strings.ToLower(value) == "true"
		board.DebugMoveValidation = enabled
		if enabled {
			u.println("info string Debug mode enabled")
		}
	case "cpuprofile":
		u.stopProfile()
		if value != "" && value != "stop" {
			f, err := os.Create(value)
			if err != nil {
				u.printf("info string Failed to create profile: %v\n", err)
				return
			}
			if err := pprof.StartCPUProfile(f); err != nil {
				f.Close()
				u.printf("info string Failed to start profile: %v\n", err)
				return
			}
			u.profileFile = f
			u.printf("info string CPU profiling to %s\n", value)
		}
	default:
		u.printf("info string Unknown option: %s\n", name)
	}
}

func (u *UCI) stopProfile() {
	if u.profileFile == nil {
		return
	}
	pprof.StopCPUProfile()
	u.profileFile.Close()
	u.profileFile = nil
	u.println("info string CPU profile saved")
}

func parseDepth(args []string, fallback int) int {
	if len(args) > 0 {
		if d, err := strconv.Atoi(args[0]); err == nil && d >= 0 {
			return d
		}
	}
	return fallback
}

// handlePerft runs a perft test.
func (u *UCI) handlePerft(args []string) {
	depth := parseDepth(args, 5)

	start := time.Now()
	nodes := u.engine.Perft(u.position, depth)
	elapsed := time.Since(start)

	u.printf("Nodes: %d\n", nodes)
	u.printf("Time: %v\n", elapsed)
	if elapsed > 0 {
		nps := float64(nodes) / elapsed.Seconds()
		u.printf("NPS: %.0f\n", nps)
	}
}

// handleDivide prints the perft count below each root move.
func (u *UCI) handleDivide(args []string) {
	depth := parseDepth(args, 1)
	if depth < 1 {
		depth = 1
	}
	var total uint64
	for _, e := range board.Divide(u.position, depth) {
		u.printf("%s: %d\n", e.Move, e.Nodes)
		total += e.Nodes
	}
	u.printf("\nNodes: %d\n", total)
}
