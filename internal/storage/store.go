package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/san-kum/pursuit/internal/driver"
)

const (
	metadataFile = "metadata.json"
	historyFile  = "history.csv"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID          string             `json:"id"`
	Label       string             `json:"label"`
	Timestamp   time.Time          `json:"timestamp"`
	Seed        int64              `json:"seed"`
	Population  int                `json:"population"`
	CullFloor   int                `json:"cull_floor"`
	Gravity     float64            `json:"gravity"`
	Speed       float64            `json:"speed"`
	Duration    float64            `json:"duration"`
	Ticks       int                `json:"ticks"`
	CullTicks   int                `json:"cull_ticks"`
	FinalLive   int                `json:"final_live"`
	Collisions  int                `json:"collisions"`
	Conversions int                `json:"conversions"`
	Settles     int                `json:"settles"`
	Metrics     map[string]float64 `json:"metrics"`
}

// NewMetadata fills the result-derived fields of a run record.
func NewMetadata(label string, res *driver.Result) RunMetadata {
	return RunMetadata{
		Label:       label,
		Duration:    res.Elapsed.Seconds(),
		Ticks:       res.Ticks,
		CullTicks:   res.CullTicks,
		FinalLive:   res.FinalLive,
		Collisions:  res.Stats.Collisions,
		Conversions: res.Stats.Conversions,
		Settles:     res.Stats.Settles,
		Metrics:     res.Metrics,
	}
}

// Save writes meta and the run history under a new run directory and returns
// the run id. A run that fails to save leaves no directory behind.
func (s *Store) Save(meta RunMetadata, history []driver.Sample) (string, error) {
	now := time.Now()
	if meta.Label == "" {
		meta.Label = "run"
	}
	meta.ID = fmt.Sprintf("%s_%d", meta.Label, now.UnixNano())
	meta.Timestamp = now

	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	if err := writeMetadata(filepath.Join(runDir, metadataFile), meta); err != nil {
		os.RemoveAll(runDir)
		return "", err
	}
	if err := writeHistory(filepath.Join(runDir, historyFile), history); err != nil {
		os.RemoveAll(runDir)
		return "", err
	}

	return meta.ID, nil
}

func writeMetadata(path string, meta RunMetadata) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing %s: %w", metadataFile, cerr)
		}
	}()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return fmt.Errorf("writing %s: %w", metadataFile, err)
	}
	return nil
}

// writeHistory leaves an empty file for a run without samples.
func writeHistory(path string, history []driver.Sample) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing %s: %w", historyFile, cerr)
		}
	}()

	if len(history) == 0 {
		return nil
	}
	if err := gocsv.MarshalFile(&history, f); err != nil {
		return fmt.Errorf("writing %s: %w", historyFile, err)
	}
	return nil
}

// List returns every readable run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("parsing %s for %s: %w", metadataFile, runID, err)
	}
	return &meta, nil
}

func (s *Store) LoadHistory(runID string) ([]driver.Sample, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, historyFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, err
	}
	if info.Size() == 0 {
		return []driver.Sample{}, nil
	}

	samples := make([]driver.Sample, 0)
	if err := gocsv.UnmarshalFile(file, &samples); err != nil {
		return nil, fmt.Errorf("reading %s for %s: %w", historyFile, runID, err)
	}
	return samples, nil
}
