package storage

import (
	"fmt"
	"os"

	"github.com/gocarina/gocsv"
	"github.com/san-kum/synthfield/internal/field"
)

// SourceRecord is the CSV row for one source.
type SourceRecord struct {
	Index    int     `csv:"index"`
	Kind     string  `csv:"kind"`
	X        float64 `csv:"x"`
	Y        float64 `csv:"y"`
	Z        float64 `csv:"z"`
	Sigma    float64 `csv:"sigma"`
	Strength float64 `csv:"strength"`
}

func NewSourceRecords(sources []field.Source) []*SourceRecord {
	records := make([]*SourceRecord, len(sources))
	for i, s := range sources {
		p := s.Position()
		records[i] = &SourceRecord{
			Index:    i,
			Kind:     s.Kind().String(),
			X:        p[0],
			Y:        p[1],
			Z:        p[2],
			Sigma:    s.Sigma(),
			Strength: s.Strength(),
		}
	}
	return records
}

// Source validates the record and builds a field.Source.
func (r *SourceRecord) Source() (field.Source, error) {
	kind, err := field.ParseKind(r.Kind)
	if err != nil {
		return field.Source{}, err
	}
	return field.NewSource([3]float64{r.X, r.Y, r.Z}, r.Sigma, r.Strength, kind)
}

// WriteSourcesCSV writes one row per source, in order.
func WriteSourcesCSV(path string, sources []field.Source) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	records := NewSourceRecords(sources)
	if err := gocsv.MarshalFile(&records, f); err != nil {
		return fmt.Errorf("writing sources: %w", err)
	}
	return f.Close()
}

// ReadSourcesCSV reads sources in file order.
func ReadSourcesCSV(path string) ([]field.Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var records []*SourceRecord
	if err := gocsv.UnmarshalFile(f, &records); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	sources := make([]field.Source, len(records))
	for i, r := range records {
		s, err := r.Source()
		if err != nil {
			return nil, &field.SourceError{Index: i, Wrapped: err}
		}
		sources[i] = s
	}
	return sources, nil
}
