package config

// MediaConfig selects and configures the media store.
type MediaConfig struct {
	Backend string // MEDIA_BACKEND: cloudinary, s3 or none

	CloudinaryURL    string // CLOUDINARY_URL
	CloudinaryFolder string // CLOUDINARY_FOLDER

	S3Bucket   string // AWS_S3_BUCKET
	S3Region   string // AWS_REGION
	S3Prefix   string // AWS_S3_PREFIX
	S3Endpoint string // AWS_S3_ENDPOINT, for S3 compatible stores
	AccessKey  string // AWS_ACCESS_KEY_ID, empty uses the default chain
	SecretKey  string // AWS_SECRET_ACCESS_KEY

	MaxUploadBytes int64
}

func LoadMediaConfig() MediaConfig {
	return MediaConfig{
		Backend:          envStr("MEDIA_BACKEND", "none"),
		CloudinaryURL:    envStr("CLOUDINARY_URL", ""),
		CloudinaryFolder: envStr("CLOUDINARY_FOLDER", "dorm-booking"),
		S3Bucket:         envStr("AWS_S3_BUCKET", ""),
		S3Region:         envStr("AWS_REGION", "us-east-1"),
		S3Prefix:         envStr("AWS_S3_PREFIX", "media/"),
		S3Endpoint:       envStr("AWS_S3_ENDPOINT", ""),
		AccessKey:        envStr("AWS_ACCESS_KEY_ID", ""),
		SecretKey:        envStr("AWS_SECRET_ACCESS_KEY", ""),
		MaxUploadBytes:   int64(envInt("MEDIA_MAX_UPLOAD_BYTES", 5<<20)),
	}
}
