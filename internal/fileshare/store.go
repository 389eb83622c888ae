package fileshare

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jaevor/go-nanoid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const (
	shareCodeAlphabet = "0123456789ABCDEF"
	shareCodeLength   = 8

	defaultContentType = "application/octet-stream"
)

var ErrNotFound = errors.New("file not found")

// Store keeps metadata in the database and blobs on disk, keyed by a
// generated id. Uploads in one call share a single code.
type Store struct {
	db      *gorm.DB
	blobDir string
	ttl     time.Duration
	newCode func() string
	now     func() time.Time
}

func NewStore(db *gorm.DB, blobDir string, ttl time.Duration) (*Store, error) {
	if err := db.AutoMigrate(&StoredFile{}); err != nil {
		return nil, fmt.Errorf("migrate files: %w", err)
	}
	if err := os.MkdirAll(blobDir, 0o755); err != nil {
		return nil, fmt.Errorf("create blob dir: %w", err)
	}
	newCode, err := nanoid.CustomASCII(shareCodeAlphabet, shareCodeLength)
	if err != nil {
		return nil, fmt.Errorf("share code generator: %w", err)
	}
	return &Store{
		db:      db,
		blobDir: blobDir,
		ttl:     ttl,
		newCode: newCode,
		now:     time.Now,
	}, nil
}

// sanitizeFilename strips path components so a stored name can never
// escape the blob directory or confuse a download header.
func sanitizeFilename(filename string) string {
	clean := filepath.Base(filepath.Clean(filename))
	clean = strings.ReplaceAll(clean, "/", "_")
	clean = strings.ReplaceAll(clean, "\\", "_")
	if clean == "." || clean == ".." || clean == "" {
		return "unnamed"
	}
	return clean
}

// Upload persists every part under one fresh share code and returns
// the code. Failing any file fails the whole upload.
func (s *Store) Upload(files []*multipart.FileHeader) (string, error) {
	if len(files) == 0 {
		return "", errors.New("no files")
	}
	code := s.newCode()
	for _, fh := range files {
		if err := s.saveOne(code, fh); err != nil {
			// Leave nothing behind under a code the caller never sees.
			s.deleteBatch(code)
			return "", err
		}
	}
	log.Info().Str("module", "fileshare").Str("code", code).Int("files", len(files)).Msg("upload stored")
	return code, nil
}

func (s *Store) deleteBatch(code string) {
	var recs []StoredFile
	if err := s.db.Where("share_code = ?", code).Find(&recs).Error; err != nil {
		log.Error().Str("module", "fileshare").Str("code", code).Err(err).Msg("find partial upload")
		return
	}
	for _, rec := range recs {
		if err := os.Remove(s.blobPath(rec.ID)); err != nil && !os.IsNotExist(err) {
			log.Error().Str("module", "fileshare").Str("id", rec.ID).Err(err).Msg("remove blob")
		}
		if err := s.db.Delete(&StoredFile{}, "id = ?", rec.ID).Error; err != nil {
			log.Error().Str("module", "fileshare").Str("id", rec.ID).Err(err).Msg("delete partial record")
		}
	}
}

func (s *Store) saveOne(code string, fh *multipart.FileHeader) error {
	src, err := fh.Open()
	if err != nil {
		return fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	id := uuid.NewString()
	dst, err := os.Create(s.blobPath(id))
	if err != nil {
		return fmt.Errorf("create blob: %w", err)
	}
	size, err := io.Copy(dst, src)
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(s.blobPath(id))
		return fmt.Errorf("write blob: %w", err)
	}

	contentType := fh.Header.Get("Content-Type")
	if contentType == "" {
		contentType = defaultContentType
	}
	now := s.now()
	rec := StoredFile{
		ID:          id,
		Filename:    fmt.Sprintf("%d-%s", now.UnixMilli(), sanitizeFilename(fh.Filename)),
		ContentType: contentType,
		Size:        size,
		ShareCode:   code,
		UploadedAt:  now,
		ExpiresAt:   now.Add(s.ttl),
	}
	if err := s.db.Create(&rec).Error; err != nil {
		_ = os.Remove(s.blobPath(id))
		return fmt.Errorf("save file record: %w", err)
	}
	return nil
}

// FilesByCode lists the files stored under a share code.
func (s *Store) FilesByCode(code string) ([]FileInfo, error) {
	var recs []StoredFile
	if err := s.db.Where("share_code = ?", code).Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("find by code: %w", err)
	}
	if len(recs) == 0 {
		return nil, ErrNotFound
	}
	out := make([]FileInfo, 0, len(recs))
	for _, rec := range recs {
		out = append(out, FileInfo{
			Filename:    rec.Filename,
			DownloadURL: "/api/fileshare/download/" + rec.ID,
		})
	}
	return out, nil
}

// Open returns the metadata and a reader for one stored file.
// The caller closes the reader.
func (s *Store) Open(id string) (*StoredFile, io.ReadCloser, error) {
	var rec StoredFile
	if err := s.db.First(&rec, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, fmt.Errorf("find file: %w", err)
	}
	f, err := os.Open(s.blobPath(rec.ID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, fmt.Errorf("open blob: %w", err)
	}
	return &rec, f, nil
}

// DeleteExpired removes every record past its expiry, blobs included,
// and reports how many were swept.
func (s *Store) DeleteExpired(now time.Time) (int, error) {
	var recs []StoredFile
	if err := s.db.Where("expires_at < ?", now).Find(&recs).Error; err != nil {
		return 0, fmt.Errorf("find expired: %w", err)
	}
	for _, rec := range recs {
		if err := os.Remove(s.blobPath(rec.ID)); err != nil && !os.IsNotExist(err) {
			log.Error().Str("module", "fileshare").Str("id", rec.ID).Err(err).Msg("remove blob")
		}
		if err := s.db.Delete(&StoredFile{}, "id = ?", rec.ID).Error; err != nil {
			return 0, fmt.Errorf("delete record: %w", err)
		}
	}
	return len(recs), nil
}

// StartSweeper runs DeleteExpired on a fixed interval until ctx is
// canceled.
func (s *Store) StartSweeper(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				n, err := s.DeleteExpired(s.now())
				if err != nil {
					log.Error().Str("module", "fileshare").Err(err).Msg("expiry sweep failed")
					continue
				}
				if n > 0 {
					log.Info().Str("module", "fileshare").Int("files", n).Msg("old files cleaned")
				}
			}
		}
	}()
}

func (s *Store) blobPath(id string) string {
	return filepath.Join(s.blobDir, id)
}
