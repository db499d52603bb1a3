package widget

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"time"
)

const devWatcherInterval = 500 * time.Millisecond

// startDevWatcher polls the on-disk widget assets and notifies reload
// subscribers whenever the directory fingerprint flips. The returned cancel
// function stops the watcher.
func startDevWatcher(root string, notifier *reloadNotifier) context.CancelFunc {
	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		// A final notification lets open SSE connections exit instead of
		// hanging when the watcher stops.
		defer notifier.Notify()

		lastFingerprint, err := directoryFingerprint(root)
		if err != nil {
			slog.Error("dev reload watcher failed to read directory", slog.String("root", root), slog.Any("err", err))
		}

		ticker := time.NewTicker(devWatcherInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				fp, err := directoryFingerprint(root)
				if err != nil {
					slog.Error("dev reload watcher failed to scan directory", slog.String("root", root), slog.Any("err", err))
					continue
				}

				if fp != lastFingerprint {
					lastFingerprint = fp
					notifier.Notify()
				}
			}
		}
	}()

	return cancel
}

// directoryFingerprint hashes relative path, size and modification time of
// every file under root, detecting changes without reading file contents.
func directoryFingerprint(root string) (string, error) {
	hasher := sha1.New()

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}

		relative, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}

		if _, err = fmt.Fprintf(hasher, "%s:%d:%d;", relative, info.ModTime().UnixNano(), info.Size()); err != nil {
			return err
		}

		return nil
	})
	if err != nil {
		return "", err
	}

	return hex.EncodeToString(hasher.Sum(nil)), nil
}
