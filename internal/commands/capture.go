package commands

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"dsoctl/internal/config"
	"dsoctl/internal/scope"
	"dsoctl/internal/util"
)

// Waveform captures one channel's trace and writes it as CSV
// (time, value) rows.
func Waveform(s *scope.Scope, channel, points int, filename string) error {
	w, r := s.CaptureWaveform(channel, points)
	if err := r.Err(); err != nil {
		return err
	}

	if config.Verbose && len(w.Raw) > 0 {
		n := len(w.Raw)
		if n > 64 {
			n = 64
		}
		util.PrintHexDump(w.Raw[:n])
	}

	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("waveform: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := cw.Write([]string{"time_s", "value"}); err != nil {
		return err
	}
	times := w.Times()
	for i, v := range w.Samples {
		row := []string{
			strconv.FormatFloat(times[i], 'e', 9, 64),
			strconv.FormatFloat(v, 'g', -1, 64),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}

	fmt.Printf("Captured %d samples from channel %d to %s\n", len(w.Samples), channel, filename)
	return nil
}

// Screenshot captures the display to an image file. The extension is
// validated before any device interaction.
func Screenshot(s *scope.Scope, filename string) error {
	format, err := scope.ScreenshotFormat(filename)
	if err != nil {
		return err
	}

	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("screenshot: %w", err)
	}
	defer f.Close()

	r := s.Screenshot(f, format)
	if err := r.Err(); err != nil {
		os.Remove(filename)
		return err
	}
	fmt.Printf("Saved %s screenshot to %s\n", format, filename)
	return nil
}
