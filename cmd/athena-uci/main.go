package main

import (
	"flag"
	"log"
	"os"
	"runtime/pprof"

	"github.com/hailam/athena/internal/engine"
	"github.com/hailam/athena/internal/uci"
)

var (
	cpuprofile = flag.String("cpuprofile", "", "write cpu profile to file")
	depth      = flag.Int("depth", engine.DefaultOptions().Depth, "default search depth for \"go\" without a depth")
	verbose    = flag.Bool("v", false, "log every search to stderr")
)

func main() {
	flag.Parse()

	// Start CPU profiling if requested (via flag or environment variable)
	profilePath := *cpuprofile
	if profilePath == "" {
		profilePath = os.Getenv("CPUPROFILE")
	}
	if profilePath != "" {
		f, err := os.Create(profilePath)
		if err != nil {
			log.Fatal("could not create CPU profile: ", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal("could not start CPU profile: ", err)
		}
		defer pprof.StopCPUProfile()
		log.Printf("CPU profiling enabled, writing to %s", profilePath)
	}

	eng, err := engine.NewEngine(engine.Options{Depth: *depth, Verbose: *verbose})
	if err != nil {
		log.Fatal(err)
	}

	protocol := uci.New(eng, os.Stdin, os.Stdout)
	if err := protocol.Run(); err != nil {
		log.Printf("reading commands: %v", err)
	}
}
