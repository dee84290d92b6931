package tasks

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"time"
)

// BackupUploads copies the uploads tree into a timestamped folder under
// backupDir and prunes backups older than the retention window.
func BackupUploads(srcDir, backupDir string, retention time.Duration) error {
	if _, err := os.Stat(srcDir); err != nil {
		return nil
	}

	timestamp := time.Now().Format("2006-01-02_15-04-05")
	destDir := filepath.Join(backupDir, timestamp)

	if err := copyDir(srcDir, destDir); err != nil {
		return err
	}
	log.Printf("uploads backed up to %s", destDir)

	cleanupOldBackups(backupDir, retention)
	return nil
}

// copyDir recursively copies a folder.
func copyDir(src, dest string) error {
	entries, err := os.ReadDir(src)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dest, 0755); err != nil {
		return err
	}
	for _, entry := range entries {
		srcPath := filepath.Join(src, entry.Name())
		destPath := filepath.Join(dest, entry.Name())

		if entry.IsDir() {
			if err := copyDir(srcPath, destPath); err != nil {
				return err
			}
		} else {
			if err := copyFile(srcPath, destPath); err != nil {
				return err
			}
		}
	}
	return nil
}

// copyFile copies a single file.
func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err = io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}

// cleanupOldBackups removes backup folders older than the retention duration.
func cleanupOldBackups(backupDir string, retention time.Duration) {
	entries, err := os.ReadDir(backupDir)
	if err != nil {
		return
	}

	cutoff := time.Now().Add(-retention)

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		folderPath := filepath.Join(backupDir, entry.Name())
		info, err := os.Stat(folderPath)
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			if err := os.RemoveAll(folderPath); err != nil {
				log.Printf("failed to remove old backup %s: %v", folderPath, err)
			}
		}
	}
}
