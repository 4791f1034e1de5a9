package retry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// StatementRecord — сохранённое выражение, которое не удалось выполнить.
type StatementRecord struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Operation string    `json:"operation,omitempty"`
	SQL       string    `json:"sql"`
	Error     string    `json:"error"`
	Attempts  int       `json:"attempts,omitempty"`
}

// StatementDump хранит невыполненные выражения файлами в каталоге:
// одно выражение - один JSON-файл. Файлы переживают перезапуск процесса
// и могут быть выполнены повторно вручную или командой replay.
type StatementDump struct {
	mu      sync.Mutex
	dir     string
	counter int
}

// NewStatementDump создает дамп в каталоге dir, создавая его при
// необходимости.
func NewStatementDump(dir string) (*StatementDump, error) {
	if dir == "" {
		return nil, fmt.Errorf("dump directory is required")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create dump directory: %w", err)
	}
	return &StatementDump{dir: dir}, nil
}

// Dir возвращает каталог дампа.
func (d *StatementDump) Dir() string { return d.dir }

// Add сохраняет запись в новый файл и возвращает её ID.
func (d *StatementDump) Add(rec StatementRecord) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.counter++
	rec.ID = fmt.Sprintf("stmt-%d-%d", time.Now().Unix(), d.counter)
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now()
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal dump record: %w", err)
	}

	path := filepath.Join(d.dir, rec.ID+".json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write dump file: %w", err)
	}

	return rec.ID, nil
}

// List возвращает все записи дампа, отсортированные по имени файла
// (то есть по времени добавления).
func (d *StatementDump) List() ([]StatementRecord, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	entries, err := os.ReadDir(d.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read dump directory: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	records := make([]StatementRecord, 0, len(names))
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(d.dir, name))
		if err != nil {
			return nil, fmt.Errorf("failed to read dump file %s: %w", name, err)
		}
		var rec StatementRecord
		if err := json.Unmarshal(data, &rec); err != nil {
			return nil, fmt.Errorf("failed to unmarshal dump file %s: %w", name, err)
		}
		records = append(records, rec)
	}

	return records, nil
}

// Remove удаляет запись по ID.
func (d *StatementDump) Remove(id string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	path := filepath.Join(d.dir, id+".json")
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("failed to remove dump file: %w", err)
	}
	return nil
}

// Clear удаляет все записи дампа.
func (d *StatementDump) Clear() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	entries, err := os.ReadDir(d.dir)
	if err != nil {
		return fmt.Errorf("failed to read dump directory: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		if err := os.Remove(filepath.Join(d.dir, e.Name())); err != nil {
			return fmt.Errorf("failed to remove dump file: %w", err)
		}
	}
	return nil
}

// Size возвращает количество записей в дампе.
func (d *StatementDump) Size() (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	entries, err := os.ReadDir(d.dir)
	if err != nil {
		return 0, fmt.Errorf("failed to read dump directory: %w", err)
	}
	count := 0
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".json") {
			count++
		}
	}
	return count, nil
}
