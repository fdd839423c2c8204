package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
)

func main() {
	daemonFlag := flag.Bool("daemon", false, "Run the daemon in the foreground")
	statusFlag := flag.Bool("status", false, "Print current location, sun position, weather, and mode")
	setFlag := flag.String("set", "", "Set a manual override temperature: TEMP[,MINUTES]")
	resumeFlag := flag.Bool("resume", false, "Clear the manual override and resume solar tracking")
	setLocationFlag := flag.String("set-location", "", "Set location as lat,lon or a 5-digit ZIP code")
	refreshFlag := flag.Bool("refresh", false, "Synchronously refresh the weather cache")
	resetFlag := flag.Bool("reset", false, "Restore the display's native gamma and exit")
	versionFlag := flag.Bool("version", false, "Print the version and exit")
	flag.Parse()

	if *versionFlag {
		fmt.Println("abraxas", Version)
		return
	}

	paths, err := ResolvePaths()
	if err != nil {
		log.Fatalf("abraxas: %v", err)
	}

	switch {
	case *resetFlag:
		if err := cmdReset(); err != nil {
			fmt.Fprintf(os.Stderr, "abraxas: %v\n", err)
			os.Exit(1)
		}
	case *statusFlag:
		if err := cmdStatus(paths); err != nil {
			fmt.Fprintf(os.Stderr, "abraxas: %v\n", err)
			os.Exit(1)
		}
	case *setFlag != "":
		temp, minutes, err := parseSetArg(*setFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "abraxas: %v\n", err)
			os.Exit(1)
		}
		if err := cmdSet(paths, temp, minutes); err != nil {
			fmt.Fprintf(os.Stderr, "abraxas: %v\n", err)
			os.Exit(1)
		}
	case *resumeFlag:
		if err := cmdResume(paths); err != nil {
			fmt.Fprintf(os.Stderr, "abraxas: %v\n", err)
			os.Exit(1)
		}
	case *setLocationFlag != "":
		if err := cmdSetLocation(paths, *setLocationFlag); err != nil {
			fmt.Fprintf(os.Stderr, "abraxas: %v\n", err)
			os.Exit(1)
		}
	case *refreshFlag:
		if err := cmdRefresh(paths); err != nil {
			fmt.Fprintf(os.Stderr, "abraxas: %v\n", err)
			os.Exit(1)
		}
	case *daemonFlag:
		if err := RunDaemon(); err != nil {
			log.Fatalf("abraxas: %v", err)
		}
	default:
		if err := RunDaemon(); err != nil {
			log.Fatalf("abraxas: %v", err)
		}
	}
}

// parseSetArg splits "TEMP" or "TEMP,MINUTES" for --set, defaulting
// MINUTES to DefaultOverrideDurationMinutes (spec.md §6).
func parseSetArg(arg string) (temp int, minutes int, err error) {
	tempStr := arg
	minutes = DefaultOverrideDurationMinutes
	for i, c := range arg {
		if c == ',' {
			tempStr = arg[:i]
			m, merr := strconv.Atoi(arg[i+1:])
			if merr != nil {
				return 0, 0, fmt.Errorf("%w: invalid minutes %q", ErrInvalidInput, arg[i+1:])
			}
			minutes = m
			break
		}
	}
	temp, err = strconv.Atoi(tempStr)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: invalid temperature %q", ErrInvalidInput, tempStr)
	}
	return temp, minutes, nil
}
