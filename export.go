package orrery

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/soniakeys/meeus/v3/julian"
)

// ExportTrajectory writes the closed orbit polyline of the elements as CSV
// rows of x,y,z in AU, preceded by a comment line naming the body.
func ExportTrajectory(w io.Writer, name string, el Elements, samples int) error {
	if _, err := fmt.Fprintf(w, "# %s\n", name); err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"x_au", "y_au", "z_au"}); err != nil {
		return err
	}
	for _, pt := range el.Trajectory(samples) {
		row := []string{fmtFloat(pt.X), fmtFloat(pt.Y), fmtFloat(pt.Z)}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportStates writes a resolved state time-series: n samples starting at
// start, step apart, as CSV rows of jd,x,y,z,distance. Useful for offline
// plotting of a body's motion without the live server.
func ExportStates(w io.Writer, name string, el Elements, start time.Time, step time.Duration, n int) error {
	if n <= 0 {
		return fmt.Errorf("sample count must be positive, got %d", n)
	}
	if step <= 0 {
		return fmt.Errorf("step must be positive, got %s", step)
	}
	if _, err := fmt.Fprintf(w, "# %s\n", name); err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"jd", "x_au", "y_au", "z_au", "distance_au"}); err != nil {
		return err
	}
	for k := 0; k < n; k++ {
		jd := julian.TimeToJD(start.Add(time.Duration(k) * step))
		s := el.Position(jd)
		row := []string{fmtFloat(jd), fmtFloat(s.X), fmtFloat(s.Y), fmtFloat(s.Z), fmtFloat(s.Distance)}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func fmtFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
