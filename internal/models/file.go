package models

import "time"

// FileRecord is the persisted row for one tracked source file: its content
// hash for change detection, when it was last indexed, and its cached
// skeleton.
type FileRecord struct {
	Path        string
	ContentHash string
	LastIndexed time.Time
	Skeleton    *Skeleton
}
