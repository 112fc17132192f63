package store

import (
	"archive/zip"
	"encoding/json"
	"fmt"
	"io"
	"path"
	"sort"
	"time"

	"github.com/example/ydsbot/internal/apperr"
	"github.com/example/ydsbot/pkg/models"
)

// ArchiveVersion is written into every manifest
const ArchiveVersion = "1.0"

const manifestName = "manifest.json"

// WriteArchive bundles docs and a manifest into a zip written to w.
func WriteArchive(w io.Writer, docs map[string][]byte, now time.Time) (*models.Manifest, error) {
	names := make([]string, 0, len(docs))
	for name := range docs {
		names = append(names, name)
	}
	sort.Strings(names)

	manifest := &models.Manifest{
		BackupDate: now.Format(time.RFC3339),
		Version:    ArchiveVersion,
	}

	zw := zip.NewWriter(w)
	for _, name := range names {
		file := name + ".json"
		f, err := zw.Create(file)
		if err != nil {
			return nil, fmt.Errorf("failed to add %s to archive: %w", file, err)
		}
		if _, err := f.Write(docs[name]); err != nil {
			return nil, fmt.Errorf("failed to write %s to archive: %w", file, err)
		}
		manifest.Files = append(manifest.Files, file)
	}

	data, err := Encode(manifest)
	if err != nil {
		return nil, err
	}
	f, err := zw.Create(manifestName)
	if err != nil {
		return nil, fmt.Errorf("failed to add manifest: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		return nil, fmt.Errorf("failed to write manifest: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish archive: %w", err)
	}
	return manifest, nil
}

// ReadArchive extracts the documents listed in the archive manifest.
func ReadArchive(r io.ReaderAt, size int64) (map[string][]byte, *models.Manifest, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, nil, apperr.NewValidationError(map[string]string{"archive": err.Error()})
	}

	files := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		files[path.Clean(f.Name)] = f
	}

	mf, ok := files[manifestName]
	if !ok {
		return nil, nil, apperr.NewValidationError(map[string]string{"archive": "manifest.json is missing"})
	}
	raw, err := readZipFile(mf)
	if err != nil {
		return nil, nil, err
	}
	var manifest models.Manifest
	if err := json.Unmarshal(raw, &manifest); err != nil {
		return nil, nil, apperr.NewValidationError(map[string]string{"manifest": err.Error()})
	}

	docs := make(map[string][]byte, len(manifest.Files))
	for _, file := range manifest.Files {
		f, ok := files[path.Clean(file)]
		if !ok {
			return nil, nil, apperr.NewValidationError(map[string]string{file: "listed in manifest but missing"})
		}
		data, err := readZipFile(f)
		if err != nil {
			return nil, nil, err
		}
		name := file[:len(file)-len(path.Ext(file))]
		docs[name] = data
	}
	return docs, &manifest, nil
}

func readZipFile(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", f.Name, err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", f.Name, err)
	}
	return data, nil
}
