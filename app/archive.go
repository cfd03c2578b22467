package app

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"io/ioutil"
	"log"
	"os"

	"github.com/yhkim82/clearparser-sub000/alg/featurevector"
	"github.com/yhkim82/clearparser-sub000/alg/linear/model"
	"github.com/yhkim82/clearparser-sub000/alg/transition"
	"github.com/yhkim82/clearparser-sub000/util"
)

const (
	ENTRY_FEATURE = "feature"
	ENTRY_LEXICA  = "lexica"
	ENTRY_MODEL   = "model"
)

var ErrBadArchive = errors.New("malformed model archive")

// Archive is everything a parser needs at prediction time: the feature
// setup and, per classifier, a frozen lexicon and a model.
type Archive struct {
	Setup  *transition.FeatureSetup
	Lexica []*featurevector.Lexicon
	Models []*model.OvAModel
}

// entryName is base for single-classifier archives and base.i otherwise.
func entryName(base string, i, n int) string {
	if n == 1 {
		return base
	}
	return fmt.Sprintf("%s.%d", base, i)
}

func (a *Archive) Write(w io.Writer) error {
	if len(a.Lexica) != len(a.Models) {
		return fmt.Errorf("%w: %d lexica, %d models", ErrBadArchive, len(a.Lexica), len(a.Models))
	}
	zw := zip.NewWriter(w)
	entry, err := zw.Create(ENTRY_FEATURE)
	if err != nil {
		return err
	}
	data, err := a.Setup.Marshal()
	if err != nil {
		return err
	}
	if _, err := entry.Write(data); err != nil {
		return err
	}
	n := len(a.Lexica)
	for i, lexicon := range a.Lexica {
		if entry, err = zw.Create(entryName(ENTRY_LEXICA, i, n)); err != nil {
			return err
		}
		if err := lexicon.Write(entry); err != nil {
			return err
		}
	}
	for i, m := range a.Models {
		if entry, err = zw.Create(entryName(ENTRY_MODEL, i, n)); err != nil {
			return err
		}
		if err := m.Write(entry); err != nil {
			return err
		}
	}
	return zw.Close()
}

func (a *Archive) WriteFile(filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	if err := a.Write(file); err != nil {
		file.Close()
		return fmt.Errorf("writing %s: %w", filename, err)
	}
	if err := file.Close(); err != nil {
		return err
	}
	if allOut {
		if sum, err := util.MD5File(filename); err == nil {
			log.Printf("Model MD5:\t\t%s", sum)
		}
	}
	return nil
}

// Extractors pairs the feature setup with each lexicon.
func (a *Archive) Extractors() []*transition.GenericExtractor {
	extractors := make([]*transition.GenericExtractor, len(a.Lexica))
	for i, lexicon := range a.Lexica {
		extractors[i] = &transition.GenericExtractor{Setup: a.Setup, Lexicon: lexicon}
	}
	return extractors
}

func ReadArchive(r io.ReaderAt, size int64) (*Archive, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, err
	}
	entries := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		entries[f.Name] = f
	}
	a := new(Archive)
	f, exists := entries[ENTRY_FEATURE]
	if !exists {
		return nil, fmt.Errorf("%w: no %s entry", ErrBadArchive, ENTRY_FEATURE)
	}
	if err := readEntry(f, func(r io.Reader) error {
		data, err := ioutil.ReadAll(r)
		if err != nil {
			return err
		}
		a.Setup, err = transition.LoadFeatureConf(data)
		return err
	}); err != nil {
		return nil, err
	}
	n, single := 1, true
	if _, exists := entries[ENTRY_LEXICA]; !exists {
		single = false
		for n = 0; ; n++ {
			if _, exists := entries[fmt.Sprintf("%s.%d", ENTRY_LEXICA, n)]; !exists {
				break
			}
		}
	}
	if n == 0 {
		return nil, fmt.Errorf("%w: no %s entry", ErrBadArchive, ENTRY_LEXICA)
	}
	name := func(base string, i int) string {
		if single {
			return base
		}
		return fmt.Sprintf("%s.%d", base, i)
	}
	a.Lexica = make([]*featurevector.Lexicon, n)
	a.Models = make([]*model.OvAModel, n)
	for i := 0; i < n; i++ {
		i := i
		if err := readEntry(entries[name(ENTRY_LEXICA, i)], func(r io.Reader) (err error) {
			a.Lexica[i], err = featurevector.ReadLexicon(r)
			return
		}); err != nil {
			return nil, err
		}
		f, exists := entries[name(ENTRY_MODEL, i)]
		if !exists {
			return nil, fmt.Errorf("%w: no %s entry", ErrBadArchive, name(ENTRY_MODEL, i))
		}
		if err := readEntry(f, func(r io.Reader) (err error) {
			a.Models[i], err = model.Load(r)
			return
		}); err != nil {
			return nil, err
		}
	}
	return a, nil
}

func ReadArchiveFile(filename string) (*Archive, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	info, err := file.Stat()
	if err != nil {
		return nil, err
	}
	a, err := ReadArchive(file, info.Size())
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", filename, err)
	}
	return a, nil
}

func readEntry(f *zip.File, read func(io.Reader) error) error {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()
	if err := read(rc); err != nil {
		return fmt.Errorf("entry %s: %w", f.Name, err)
	}
	return nil
}
