package orrery

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"strings"
	"testing"
	"time"
)

func TestExportTrajectory(t *testing.T) {
	var buf bytes.Buffer
	if err := ExportTrajectory(&buf, "Earth", Earth.Orbit, 10); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(buf.String(), "# Earth\n") {
		t.Fatalf("missing body comment, got %q", buf.String()[:16])
	}
	cr := csv.NewReader(&buf)
	cr.Comment = '#'
	rows, err := cr.ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	// Header plus 11 closed-loop points.
	if len(rows) != 1+11 {
		t.Fatalf("got %d rows", len(rows))
	}
	first, last := rows[1], rows[len(rows)-1]
	for k := range first {
		if first[k] != last[k] {
			t.Fatal("exported loop is not closed")
		}
	}
}

func TestExportStates(t *testing.T) {
	var buf bytes.Buffer
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	if err := ExportStates(&buf, "Mars", Mars.Orbit, start, 24*time.Hour, 5); err != nil {
		t.Fatal(err)
	}
	cr := csv.NewReader(&buf)
	cr.Comment = '#'
	rows, err := cr.ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1+5 {
		t.Fatalf("got %d rows", len(rows))
	}
	// Julian dates advance by exactly one day per row.
	prev, err := strconv.ParseFloat(rows[1][0], 64)
	if err != nil {
		t.Fatal(err)
	}
	for _, row := range rows[2:] {
		jd, err := strconv.ParseFloat(row[0], 64)
		if err != nil {
			t.Fatal(err)
		}
		if ok, errEq := floatEqual(jd-prev, 1); !ok {
			t.Fatalf("JD step: %s", errEq)
		}
		prev = jd
	}
}

func TestExportStatesRejectsBadArgs(t *testing.T) {
	var buf bytes.Buffer
	if err := ExportStates(&buf, "Mars", Mars.Orbit, time.Now(), time.Hour, 0); err == nil {
		t.Fatal("zero samples must error")
	}
	if err := ExportStates(&buf, "Mars", Mars.Orbit, time.Now(), -time.Hour, 3); err == nil {
		t.Fatal("negative step must error")
	}
}
