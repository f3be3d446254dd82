package main

import (
	"fmt"
	"io"
	"os"

	"github.com/ttacon/chalk"
	"github.com/urfave/cli"

	"github.com/xtding233/shooting-gallery/internal/sim"
)

func simAction(c *cli.Context) error {
	_, _, settings, err := setup(c)
	if err != nil {
		return err
	}
	p := sim.Params{
		Trials:   c.Int("trials"),
		Ticks:    c.Int("ticks"),
		Seed:     c.Uint64("seed"),
		Settings: settings,
		Policy: sim.Policy{
			Every: c.Int("every"),
			Stake: c.Int64("stake"),
			Lead:  c.BoolT("lead"),
		},
	}
	rep, err := sim.Run(p)
	if err != nil {
		return err
	}
	printReport(os.Stdout, rep)
	return nil
}

func printReport(w io.Writer, rep sim.Report) {
	p := rep.Params
	fmt.Fprintln(w, chalk.Bold.TextStyle("Shooting gallery simulation"))
	fmt.Fprintf(w, "  trials %d x %d ticks, stake %d every %d ticks, lead=%v, seed %d\n",
		p.Trials, p.Ticks, p.Policy.Stake, p.Policy.Every, p.Policy.Lead, p.Seed)
	fmt.Fprintf(w, "  shots %d  kills %d  apex %d  went broke %d\n", rep.Shots, rep.Kills, rep.ApexKills, rep.Broke)
	fmt.Fprintf(w, "  cost %d  payout %d\n", rep.Cost, rep.Payout)

	rtp := fmt.Sprintf("RTP %.4f", rep.RTP)
	switch {
	case rep.RTP >= 1:
		rtp = chalk.Red.Color(rtp + " (house loses)")
	case rep.RTP >= 0.9:
		rtp = chalk.Yellow.Color(rtp)
	default:
		rtp = chalk.Green.Color(rtp)
	}
	fmt.Fprintln(w, "  "+rtp)

	n := rep.Net
	fmt.Fprintf(w, "  net per session: mean %.1f sd %.1f  p50 %.1f  p90 %.1f  p99 %.1f  [%.0f, %.0f]\n",
		n.Mean, n.StdDev, n.P50, n.P90, n.P99, n.Min, n.Max)
}
