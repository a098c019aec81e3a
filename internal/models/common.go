// server/internal/models/common.go
package models

// MediaPointer points at a document stored on S3 or a similar
// service, e.g., a receiving-side proof photo.
type MediaPointer struct {
	ID       string `bson:"id" json:"id"`
	URL      string `bson:"url" json:"url"`
	FileName string `bson:"fileName" json:"fileName"`
	FileType string `bson:"fileType" json:"fileType"` // e.g., "image/jpeg"
}
