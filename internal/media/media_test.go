package media

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/dorm-booking/internal/config"
)

func TestCloudinaryPublicID(t *testing.T) {
	cases := []struct {
		ref  string
		id   string
		want bool
	}{
		{"https://res.cloudinary.com/demo/image/upload/v1740564293/dorms/abc.jpg", "dorms/abc", true},
		{"https://res.cloudinary.com/demo/image/upload/dorms/abc.png", "dorms/abc", true},
		{"https://res.cloudinary.com/other/image/upload/v1/dorms/abc.jpg", "", false},
		{"https://example.com/photo.jpg", "", false},
		{"https://res.cloudinary.com/demo/image/upload/", "", false},
	}
	for _, tc := range cases {
		id, ok := cloudinaryPublicID("demo", tc.ref)
		assert.Equal(t, tc.want, ok, tc.ref)
		assert.Equal(t, tc.id, id, tc.ref)
	}
}

func TestS3KeyOf(t *testing.T) {
	s := &S3{bucket: "b", prefix: "media/", base: "https://b.s3.eu-west-1.amazonaws.com/"}

	key, ok := s.keyOf("https://b.s3.eu-west-1.amazonaws.com/media/x.jpg")
	require.True(t, ok)
	assert.Equal(t, "media/x.jpg", key)

	_, ok = s.keyOf("https://b.s3.eu-west-1.amazonaws.com/other/x.jpg")
	assert.False(t, ok)
	_, ok = s.keyOf("https://cdn.example.com/media/x.jpg")
	assert.False(t, ok)
}

func TestObjectNameKeepsExtension(t *testing.T) {
	n := objectName("Room Photo.JPG")
	assert.True(t, strings.HasSuffix(n, ".jpg"))
	assert.Len(t, n, 36+4)

	assert.Len(t, objectName("noext"), 36)
	assert.NotEqual(t, objectName("a.png"), objectName("a.png"))
}

func TestNewSelectsBackend(t *testing.T) {
	st, err := New(context.Background(), config.MediaConfig{Backend: "none"})
	require.NoError(t, err)
	_, err = st.Upload(context.Background(), "a.jpg", "image/jpeg", strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrDisabled)
	assert.NoError(t, st.Remove(context.Background(), "anything"))

	_, err = New(context.Background(), config.MediaConfig{Backend: "ftp"})
	assert.Error(t, err)

	_, err = New(context.Background(), config.MediaConfig{Backend: "s3"})
	assert.Error(t, err)
}
