package media

type AssetType string

const (
	AssetTypeGenerated AssetType = "generated"
	AssetTypeThumbnail AssetType = "thumbnail"
	AssetTypeArchive   AssetType = "archive"
	AssetTypeUnknown   AssetType = "unknown"
)

// Metadata holds dimension and (when present) EXIF information for a
// stored image. Generated images usually only carry dimensions.
type Metadata struct {
	Width       *int    `json:"width,omitempty"`
	Height      *int    `json:"height,omitempty"`
	CameraMake  *string `json:"camera_make,omitempty"`
	CameraModel *string `json:"camera_model,omitempty"`
	TakenAt     *int64  `json:"taken_at,omitempty"`
}
