package domain

type PhotoStatus string

const (
	PhotoNone   PhotoStatus = "none"
	PhotoFound  PhotoStatus = "found"
	PhotoFailed PhotoStatus = "failed"
)

func (s PhotoStatus) String() string {
	return string(s)
}

// ProfilePhotoResult is the outcome of a profile photo lookup.
// FileID is set only for PhotoFound, Err only for PhotoFailed.
type ProfilePhotoResult struct {
	Status PhotoStatus
	FileID string
	Err    error
}

func NoPhoto() ProfilePhotoResult {
	return ProfilePhotoResult{Status: PhotoNone}
}

func FoundPhoto(fileID string) ProfilePhotoResult {
	if fileID == "" {
		return NoPhoto()
	}
	return ProfilePhotoResult{Status: PhotoFound, FileID: fileID}
}

func FailedPhoto(err error) ProfilePhotoResult {
	return ProfilePhotoResult{Status: PhotoFailed, Err: err}
}

func (r ProfilePhotoResult) Found() bool {
	return r.Status == PhotoFound && r.FileID != ""
}
