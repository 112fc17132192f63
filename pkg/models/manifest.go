package models

// Manifest describes the contents of an exported archive
type Manifest struct {
	BackupDate string   `json:"backup_date"`
	Version    string   `json:"version"`
	Files      []string `json:"files"`
}
