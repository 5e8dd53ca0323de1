// Package storage persists episode results under a base directory, one
// subdirectory per episode: metadata.json for the summary and
// states.csv for the trajectory.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/san-kum/quadsim/internal/env"
)

// csvHeader matches the flattened state and action layouts.
var csvHeader = []string{
	"time",
	"px", "py", "pz",
	"qw", "qx", "qy", "qz",
	"vx", "vy", "vz",
	"thrust", "wx", "wy", "wz",
	"reward",
}

// Columns returns the data column names of states.csv, in order,
// excluding the leading time column.
func Columns() []string {
	return csvHeader[1:]
}

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// EpisodeMetadata is the JSON summary saved next to each trajectory.
type EpisodeMetadata struct {
	ID         string             `json:"id"`
	Timestamp  time.Time          `json:"timestamp"`
	Controller string             `json:"controller"`
	Seed       int64              `json:"seed"`
	Dt         float64            `json:"dt"`
	Steps      int                `json:"steps"`
	Terminated bool               `json:"terminated"`
	Return     float64            `json:"return"`
	Metrics    map[string]float64 `json:"metrics"`
}

// Save writes one episode and returns its generated ID.
func (s *Store) Save(controller string, dt float64, seed int64, result *env.Result) (string, error) {
	episodeID := fmt.Sprintf("episode_%d", time.Now().UnixNano())
	dir := filepath.Join(s.baseDir, episodeID)

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	meta := EpisodeMetadata{
		ID:         episodeID,
		Timestamp:  time.Now(),
		Controller: controller,
		Seed:       seed,
		Dt:         dt,
		Steps:      result.StepsTaken,
		Terminated: result.Terminated,
		Return:     result.Return,
		Metrics:    result.Metrics,
	}

	metaFile, err := os.Create(filepath.Join(dir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(dir, "states.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	if err := w.Write(csvHeader); err != nil {
		return "", err
	}

	for i, state := range result.States {
		row := make([]string, 0, len(csvHeader))
		row = append(row, formatFloat(result.Times[i]))
		for _, v := range state.Vector() {
			row = append(row, formatFloat(v))
		}

		// The last state has no outgoing action or reward.
		if i < len(result.Actions) {
			for _, v := range result.Actions[i].Vector() {
				row = append(row, formatFloat(v))
			}
			row = append(row, formatFloat(result.Rewards[i]))
		} else {
			for j := 0; j < 5; j++ {
				row = append(row, "0")
			}
		}

		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	return episodeID, nil
}

// List returns metadata for every stored episode, skipping entries it
// cannot parse.
func (s *Store) List() ([]EpisodeMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []EpisodeMetadata{}, nil
		}
		return nil, err
	}

	episodes := make([]EpisodeMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.baseDir, entry.Name(), "metadata.json"))
		if err != nil {
			continue
		}
		var meta EpisodeMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}
		episodes = append(episodes, meta)
	}

	return episodes, nil
}

// Load returns one episode's metadata.
func (s *Store) Load(episodeID string) (*EpisodeMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, episodeID, "metadata.json"))
	if err != nil {
		return nil, err
	}
	var meta EpisodeMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadStates reads a stored trajectory back as raw rows (columns after
// the time column, in csvHeader order) plus the time column.
func (s *Store) LoadStates(episodeID string) ([][]float64, []float64, error) {
	file, err := os.Open(filepath.Join(s.baseDir, episodeID, "states.csv"))
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(records) < 2 {
		return [][]float64{}, []float64{}, nil
	}

	times := make([]float64, 0, len(records)-1)
	rows := make([][]float64, 0, len(records)-1)

	for _, record := range records[1:] {
		if len(record) == 0 {
			continue
		}
		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			continue
		}
		row := make([]float64, 0, len(record)-1)
		for _, field := range record[1:] {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				continue
			}
			row = append(row, v)
		}
		times = append(times, t)
		rows = append(rows, row)
	}

	return rows, times, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}
