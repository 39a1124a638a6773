package models

// FileInfo is the slice of the backend file record the UI cares about
// after an upload.
type FileInfo struct {
	ID               string `json:"id"`
	FilenameDownload string `json:"filename_download"`
	Type             string `json:"type"`
}
