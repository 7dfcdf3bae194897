package storage

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/garantbot/miniapp-backend/internal/logger"
	"github.com/garantbot/miniapp-backend/internal/models"
)

// SnapshotStorage отвечает за файловое хранение снимка состояния.
// Перед каждой перезаписью основного файла создаётся резервная копия,
// старые копии удаляются — остаются только keep самых свежих.
type SnapshotStorage struct {
	path string
	keep int
}

// NewSnapshotStorage создаёт файловое хранилище снимков.
func NewSnapshotStorage(path string, keep int) (*SnapshotStorage, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: не удалось создать каталог %s: %w", dir, err)
	}
	if keep < 1 {
		keep = 10
	}

	return &SnapshotStorage{
		path: path,
		keep: keep,
	}, nil
}

// Path возвращает путь к основному файлу снимка.
func (s *SnapshotStorage) Path() string {
	return s.path
}

// Save атомарно записывает снимок состояния.
// Существующий файл сначала копируется в резервную копию; ошибка резервного
// копирования логируется, но не блокирует сохранение.
func (s *SnapshotStorage) Save(doc *models.SnapshotDocument) error {
	if _, err := os.Stat(s.path); err == nil {
		if err := s.backup(); err != nil && logger.Log != nil {
			logger.Log.WithError(err).Error("storage: не удалось создать резервную копию")
		}
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("storage: не удалось сериализовать снимок: %w", err)
	}

	tempPath := s.path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0o644); err != nil {
		return fmt.Errorf("storage: ошибка записи файла: %w", err)
	}
	if err := os.Rename(tempPath, s.path); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("storage: не удалось переименовать файл: %w", err)
	}

	return nil
}

// Load читает снимок состояния. Если файл отсутствует, возвращает (nil, nil).
func (s *SnapshotStorage) Load() (*models.SnapshotDocument, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("storage: ошибка чтения файла: %w", err)
	}

	doc := models.NewSnapshotDocument()
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("storage: не удалось разобрать снимок: %w", err)
	}

	return doc, nil
}

// backup копирует текущий файл снимка в каталог с отметкой времени в имени
// и удаляет устаревшие копии.
func (s *SnapshotStorage) backup() error {
	backupPath := filepath.Join(filepath.Dir(s.path), fmt.Sprintf("%s%d.json", s.backupPrefix(), time.Now().UnixNano()))

	if err := copyFile(s.path, backupPath); err != nil {
		return err
	}
	if logger.Log != nil {
		logger.Log.WithField("backup", filepath.Base(backupPath)).Info("storage: резервная копия создана")
	}

	return s.pruneBackups()
}

// pruneBackups удаляет все резервные копии, кроме keep самых свежих.
func (s *SnapshotStorage) pruneBackups() error {
	backups, err := s.listBackups()
	if err != nil {
		return err
	}

	// Имена содержат наносекундную отметку фиксированной ширины,
	// поэтому лексикографическая сортировка по убыванию даёт порядок по времени.
	sort.Sort(sort.Reverse(sort.StringSlice(backups)))

	for _, old := range backups[min(len(backups), s.keep):] {
		if err := os.Remove(old); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("storage: не удалось удалить старую копию %s: %w", old, err)
		}
		if logger.Log != nil {
			logger.Log.WithField("backup", filepath.Base(old)).Info("storage: старая резервная копия удалена")
		}
	}

	return nil
}

// listBackups возвращает пути всех резервных копий снимка.
func (s *SnapshotStorage) listBackups() ([]string, error) {
	dir := filepath.Dir(s.path)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("storage: не удалось прочитать каталог %s: %w", dir, err)
	}

	var backups []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, s.backupPrefix()) && strings.HasSuffix(name, ".json") {
			backups = append(backups, filepath.Join(dir, name))
		}
	}
	return backups, nil
}

// backupPrefix возвращает префикс имён резервных копий: backup_<имя файла>_.
func (s *SnapshotStorage) backupPrefix() string {
	base := strings.TrimSuffix(filepath.Base(s.path), filepath.Ext(s.path))
	return fmt.Sprintf("backup_%s_", base)
}

// copyFile копирует файл src в dst.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("storage: не удалось открыть %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("storage: не удалось создать %s: %w", dst, err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("storage: ошибка копирования в %s: %w", dst, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("storage: не удалось закрыть %s: %w", dst, err)
	}
	return nil
}
