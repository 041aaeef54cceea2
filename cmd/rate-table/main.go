// ABOUTME: Prints the sample rates a timer-driven DAC can actually play
// ABOUTME: Shows period, achieved rate and error for common requested rates
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/Profoundic/pmf-go/pkg/audio/rate"
)

var (
	busClock  = flag.Uint("bus", 48000000, "Timer bus clock in Hz")
	maxPeriod = flag.Uint("max-period", 0, "Largest timer reload value (0 means 32-bit)")
	rates     = flag.String("rates", "8000,11025,16000,22050,32000,44100,48000,96000", "Comma-separated requested rates")
	shield    = flag.Bool("shield", false, "Also show what the audio shield plays")
)

func main() {
	flag.Parse()

	requested, err := parseRates(*rates)
	if err != nil {
		log.Fatalf("Invalid -rates: %v", err)
	}

	timer := rate.Timer{BusClock: uint32(*busClock), MaxPeriod: uint32(*maxPeriod)}
	fixed := rate.Fixed{Rate: rate.AudioShieldRate}

	fmt.Printf("Bus clock: %d Hz\n\n", timer.BusClock)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', tabwriter.AlignRight)
	header := "requested\tperiod\tactual\terror %\t"
	if *shield {
		header += "shield\t"
	}
	fmt.Fprintln(w, header)

	for _, req := range requested {
		actual := timer.Quantize(req)
		line := fmt.Sprintf("%d\t%d\t%d\t%+.3f\t", req, timer.Period(req), actual, errorPercent(req, actual))
		if *shield {
			line += fmt.Sprintf("%d\t", fixed.Quantize(req))
		}
		fmt.Fprintln(w, line)
	}
	_ = w.Flush()
}

func parseRates(s string) ([]uint32, error) {
	var out []uint32
	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		v, err := strconv.ParseUint(field, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("rate %q: %w", field, err)
		}
		out = append(out, uint32(v))
	}
	return out, nil
}

func errorPercent(requested, actual uint32) float64 {
	if requested == 0 {
		return 0
	}
	return (float64(actual) - float64(requested)) * 100 / float64(requested)
}
