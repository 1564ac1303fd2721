// Package storage keeps the export audit log.
//
// Every generated statement appends one row to a CSV file. The file holds
// export metadata only (who, what filters, how many rows); entity data is
// never written to disk.
//
// Thread-safety:
//   - All operations are protected by mutex
//   - Records are appended to the file before they become visible in memory
package storage

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	// bufferSize for buffered I/O (64KB)
	bufferSize = 64 * 1024

	timeLayout = time.RFC3339
)

var header = []string{"export_id", "kind", "operator", "role", "filters", "rows", "format", "generated_at"}

// Record is one generated statement.
//
// Fields:
//   - ExportID: Unique id, assigned on save when empty
//   - Kind: "complaints" or "withdrawers"
//   - Operator / Role: Who generated it
//   - Filters: Human-readable filter summary printed on the statement
//   - Rows: Number of rows in the statement
//   - Format: "pdf" or "html"
type Record struct {
	ExportID    string
	Kind        string
	Operator    string
	Role        string
	Filters     string
	Rows        int
	Format      string
	GeneratedAt time.Time
}

func (r Record) row() []string {
	return []string{
		r.ExportID,
		r.Kind,
		r.Operator,
		r.Role,
		r.Filters,
		strconv.Itoa(r.Rows),
		r.Format,
		r.GeneratedAt.UTC().Format(timeLayout),
	}
}

func parseRow(row []string) (Record, error) {
	if len(row) < len(header) {
		return Record{}, fmt.Errorf("expected %d columns, got %d", len(header), len(row))
	}
	rows, err := strconv.Atoi(row[5])
	if err != nil {
		return Record{}, fmt.Errorf("bad row count %q", row[5])
	}
	at, err := time.Parse(timeLayout, row[7])
	if err != nil {
		return Record{}, fmt.Errorf("bad timestamp %q", row[7])
	}
	return Record{
		ExportID:    row[0],
		Kind:        row[1],
		Operator:    row[2],
		Role:        row[3],
		Filters:     row[4],
		Rows:        rows,
		Format:      row[6],
		GeneratedAt: at,
	}, nil
}

// Storage is the CSV-backed audit log.
//
// Data flow:
//
//	Read:  CSV → Load into memory → Serve from memory
//	Write: Append to CSV → Update memory
type Storage struct {
	mu      sync.Mutex
	path    string
	records []Record
}

// New creates a Storage over path and loads existing rows.
func New(path string) *Storage {
	s := &Storage{path: path}
	s.loadFromFile()
	return s
}

// loadFromFile loads the audit rows from the CSV file.
//
// Error handling:
//   - File not found: Normal on first run
//   - Malformed rows: Skipped with warning
func (s *Storage) loadFromFile() {
	file, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Println("📋 No existing export log found. Creating new one...")
		} else {
			log.Println("⚠️  Failed to open export log:", err)
		}
		return
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		log.Println("⚠️  Failed to read export log:", err)
		return
	}

	for i, row := range rows {
		if i == 0 && len(row) > 0 && row[0] == header[0] {
			continue
		}
		rec, err := parseRow(row)
		if err != nil {
			log.Printf("⚠️  Skipping export log row %d: %v", i+1, err)
			continue
		}
		s.records = append(s.records, rec)
	}

	log.Println("📚 Loaded", len(s.records), "export records from storage")
}

// SaveMultiple appends records to the log.
//
// Records without an ExportID get a fresh UUID, and a zero GeneratedAt is
// set to now. In-memory state changes only after the file write succeeds.
//
// Returns:
//   - []Record: The records as stored
//   - error: File I/O error, nil on success
func (s *Storage) SaveMultiple(records []Record) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := make([]Record, len(records))
	for i, r := range records {
		if r.ExportID == "" {
			r.ExportID = uuid.NewString()
		}
		if r.GeneratedAt.IsZero() {
			r.GeneratedAt = time.Now()
		}
		stored[i] = r
	}

	writeHeader := false
	if info, err := os.Stat(s.path); err != nil || info.Size() == 0 {
		writeHeader = true
	}

	file, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	bufferedWriter := bufio.NewWriterSize(file, bufferSize)
	writer := csv.NewWriter(bufferedWriter)

	if writeHeader {
		if err := writer.Write(header); err != nil {
			return nil, err
		}
	}
	for _, r := range stored {
		if err := writer.Write(r.row()); err != nil {
			return nil, err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	if err := bufferedWriter.Flush(); err != nil {
		return nil, err
	}

	s.records = append(s.records, stored...)
	return stored, nil
}

// Append stores a single record.
func (s *Storage) Append(r Record) (Record, error) {
	stored, err := s.SaveMultiple([]Record{r})
	if err != nil {
		return Record{}, err
	}
	return stored[0], nil
}

// Recent returns up to limit records, newest first. limit <= 0 returns all.
func (s *Storage) Recent(limit int) []Record {
	s.mu.Lock()
	out := make([]Record, len(s.records))
	copy(out, s.records)
	s.mu.Unlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].GeneratedAt.After(out[j].GeneratedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Count returns the number of stored records.
func (s *Storage) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}
