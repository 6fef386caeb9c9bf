// Command athena runs the engine from the command line: it searches single
// positions, counts perft nodes, plays self-play games into the game store,
// and manages stored games and preferences.
package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"runtime/pprof"
)

const usage = `usage: athena <command> [flags]

commands:
  bestmove   search a position and print the chosen move
  eval       print the static evaluation of a position
  perft      count leaf nodes of the legal move tree
  selfplay   play the engine against itself and store the games
  games      list stored games, newest first
  show       print one stored game
  stats      print aggregate statistics over stored games
  prefs      show or change stored preferences

Run "athena <command> -h" for the flags of a command.
`

type command func(args []string, out io.Writer) error

var commands = map[string]command{
	"bestmove": cmdBestMove,
	"eval":     cmdEval,
	"perft":    cmdPerft,
	"selfplay": cmdSelfPlay,
	"games":    cmdGames,
	"show":     cmdShow,
	"stats":    cmdStats,
	"prefs":    cmdPrefs,
}

func main() {
	log.SetFlags(log.Ltime)

	// Start CPU profiling if requested via environment variable
	if path := os.Getenv("CPUPROFILE"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			log.Fatal("could not create CPU profile: ", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal("could not start CPU profile: ", err)
		}
		defer pprof.StopCPUProfile()
	}

	if err := run(os.Args[1:], os.Stdout); err != nil {
		log.Printf("athena: %v", err)
		pprof.StopCPUProfile()
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	if len(args) == 0 || args[0] == "-h" || args[0] == "help" {
		fmt.Fprint(out, usage)
		return nil
	}
	cmd, ok := commands[args[0]]
	if !ok {
		return fmt.Errorf("unknown command %q (run \"athena help\")", args[0])
	}
	return cmd(args[1:], out)
}
