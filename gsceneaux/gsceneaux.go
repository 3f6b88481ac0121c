// Package gsceneaux provides helpers around gscene: writing documents to
// files or standard output, rendering grid previews and loading grid
// descriptions from YAML.
package gsceneaux

import (
	"bufio"
	"fmt"
	"os"
	"time"

	"github.com/soypat/gscene"
)

// Stdout is the destination name that selects standard output. The empty
// string selects standard output too.
const Stdout = "-"

// Emit writes text to dest. An empty dest or [Stdout] writes to standard
// output; any other dest names a file that is created or truncated.
// The file is closed on every path and a failed write is returned as an error.
func Emit(text []byte, dest string) (err error) {
	if dest == "" || dest == Stdout {
		_, err = os.Stdout.Write(text)
		if err != nil {
			return fmt.Errorf("writing to standard output: %w", err)
		}
		return nil
	}
	fp, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("creating scene file: %w", err)
	}
	defer func() {
		cerr := fp.Close()
		if err == nil && cerr != nil {
			err = fmt.Errorf("closing %s: %w", dest, cerr)
		}
	}()
	w := bufio.NewWriter(fp)
	_, err = w.Write(text)
	if err == nil {
		err = w.Flush()
	}
	if err != nil {
		return fmt.Errorf("writing %s: %w", dest, err)
	}
	err = syncRegular(fp)
	if err != nil {
		return fmt.Errorf("syncing %s: %w", dest, err)
	}
	gscene.Logger().Info("wrote scene document", "file", fp.Name(), "bytes", len(text))
	return nil
}

// WriteScene encodes s as compact JSON and emits it to dest. See [Emit].
func WriteScene(s *gscene.Scene, dest string) error {
	text, err := gscene.Marshal(s)
	if err != nil {
		return err
	}
	if dest == "" || dest == Stdout {
		text = append(text, '\n')
	}
	return Emit(text, dest)
}

// RenderConfig configures [Render].
type RenderConfig struct {
	// Dest is the scene document destination. Empty or [Stdout] writes to standard output.
	Dest string
	// Check runs [gscene.Scene.Check] before writing and aborts on failure.
	Check bool
	// PreviewFile, when set, receives a PNG preview of PreviewChannel.
	PreviewFile    string
	PreviewChannel string
	// PreviewCellSize is the preview cell size in pixels. Zero means 16.
	PreviewCellSize int
	// Silent suppresses progress lines on standard error.
	Silent bool
}

// Render is an auxiliary function to check, write and preview a generated scene in one call.
func Render(s *gscene.Scene, cfg RenderConfig) (err error) {
	log := func(args ...any) {
		if !cfg.Silent {
			fmt.Fprintln(os.Stderr, args...)
		}
	}
	if cfg.Check {
		watch := stopwatch()
		err = s.Check()
		if err != nil {
			return fmt.Errorf("checking scene %q: %w", s.Name, err)
		}
		log("checked", len(s.Samplers), "samplers and", len(s.Nodes), "nodes in", watch())
	}
	watch := stopwatch()
	err = WriteScene(s, cfg.Dest)
	if err != nil {
		return err
	}
	filename := "standard output"
	if cfg.Dest != "" && cfg.Dest != Stdout {
		filename = cfg.Dest
	}
	log("wrote", filename, "in", watch())
	if cfg.PreviewFile != "" {
		cell := cfg.PreviewCellSize
		if cell == 0 {
			cell = 16
		}
		channel := cfg.PreviewChannel
		if channel == "" {
			channel = gscene.ChannelAlbedo
		}
		watch = stopwatch()
		err = RenderPreviewPNGFile(cfg.PreviewFile, s, channel, cell)
		if err != nil {
			return fmt.Errorf("writing preview: %w", err)
		}
		log("wrote", cfg.PreviewFile, "preview of", channel, "in", watch())
	}
	return nil
}

// syncRegular flushes fp to stable storage when it is a regular file.
// Devices and pipes such as /dev/null reject fsync.
func syncRegular(fp *os.File) error {
	info, err := fp.Stat()
	if err != nil {
		return err
	}
	if !info.Mode().IsRegular() {
		return nil
	}
	return fp.Sync()
}

func stopwatch() func() time.Duration {
	start := time.Now()
	return func() time.Duration {
		return time.Since(start)
	}
}
