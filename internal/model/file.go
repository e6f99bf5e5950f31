package model

// File stores an uploaded file (resume, logo) with its content inline and the
// original extension for content-type detection on download. When a cloud
// storage client is configured the content lives in the bucket instead and
// StorageObjectName points at the object.
type File struct {
	ID                int `gorm:"primaryKey"`
	Content           []byte
	Extension         string
	StorageObjectName *string
}
