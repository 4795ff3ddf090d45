// Copyright ©2019 The hexmap Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package hexmap

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/text/encoding"

	"github.com/ctessum/hexmap/internal/logging"
)

// BatchDPI is the resolution of images rendered by PlotBatch.
const BatchDPI = 300

// BatchOptions configure PlotBatch.
type BatchOptions struct {
	// Draw is passed to Map.Draw for every file.
	Draw DrawOptions

	// Save sizes the images. Its Dir and DPI are ignored: images go to
	// the save directory at BatchDPI.
	Save SaveOptions

	// Encoding is the encoding of the map and data files. It defaults
	// to Latin1.
	Encoding encoding.Encoding
}

// BatchResult lists the images considered by PlotBatch.
type BatchResult struct {
	// Rendered holds the images written.
	Rendered []string

	// Skipped holds the images that already existed.
	Skipped []string
}

// PlotBatch renders the signature percentage map of every petition
// export under dataDir. See PlotBatchContext.
func PlotBatch(dataDir, mapPath, saveDir string, opts BatchOptions) (BatchResult, error) {
	return PlotBatchContext(context.Background(), dataDir, mapPath, saveDir, opts)
}

// PlotBatchContext walks dataDir and, for each file whose name contains
// ".csv", draws the signature percentage of that petition export over
// the map table at mapPath. Each image is saved in saveDir, named after
// the part of the file name before its first dot with a .png
// extension. Images that already exist are skipped.
//
// Files are processed one at a time in lexical order. The first error,
// or cancellation of ctx between files, stops the run; the result then
// lists the images handled so far.
func PlotBatchContext(ctx context.Context, dataDir, mapPath, saveDir string, opts BatchOptions) (BatchResult, error) {
	var res BatchResult
	if _, err := os.Stat(dataDir); err != nil {
		return res, fmt.Errorf("hexmap: %s does not exist: %w", dataDir, err)
	}
	enc := opts.Encoding
	if enc == nil {
		enc = Latin1
	}
	mapTable, err := ReadCSVFile(mapPath, WithEncoding(enc))
	if err != nil {
		return res, err
	}
	m := New()
	if err := m.SetSaveDir(saveDir); err != nil {
		return res, err
	}
	save := opts.Save
	save.Dir = ""
	save.DPI = BatchDPI

	start := time.Now()
	err = filepath.WalkDir(dataDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.Contains(d.Name(), ".csv") {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		stem, _, _ := strings.Cut(d.Name(), ".")
		name := stem + ".png"
		out := filepath.Join(saveDir, name)
		if _, err := os.Stat(out); err == nil {
			logging.Debug().
				Add(logging.Component("batch")).
				Add(logging.Output(out)).
				Msg("image exists, skipping")
			res.Skipped = append(res.Skipped, out)
			return nil
		}

		logging.Info().
			Add(logging.Component("batch")).
			Add(logging.File(path)).
			Msg("Getting map for " + d.Name())
		data, err := ReadCSVFile(path, WithEncoding(enc))
		if err != nil {
			return err
		}
		t, err := SignaturePercent(mapTable, data)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		if err := m.Load(t, SignaturePCColumn); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		if _, err := m.Draw(opts.Draw); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		if _, err := m.Save(name, save); err != nil {
			return err
		}
		res.Rendered = append(res.Rendered, out)
		return nil
	})
	if err != nil {
		logging.Error().
			Add(logging.Component("batch")).
			Add(logging.ErrorField(err)).
			Msg("batch stopped")
		return res, err
	}
	logging.Info().
		Add(logging.Component("batch")).
		Add(logging.Count("rendered", len(res.Rendered))).
		Add(logging.Count("skipped", len(res.Skipped))).
		Add(logging.Duration(time.Since(start))).
		Msg("batch finished")
	return res, nil
}
