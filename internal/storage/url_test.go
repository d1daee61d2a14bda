package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildObjectURL(t *testing.T) {
	assert.Equal(t, "https://s3.example.net/tenant-files-eu/t1/avatar.png",
		BuildObjectURL("s3.example.net", true, "tenant-files-eu", "t1/avatar.png"))
	assert.Equal(t, "http://localhost:9000/b/k",
		BuildObjectURL("localhost:9000", false, "b", "/k"))
}

func TestParseObjectURL(t *testing.T) {
	t.Run("round trips a built URL", func(t *testing.T) {
		raw := BuildObjectURL("s3.example.net", true, "tenant-files-ch", "t2/docs/report.pdf")
		bucket, key, ok := ParseObjectURL("s3.example.net", raw)
		assert.True(t, ok)
		assert.Equal(t, "tenant-files-ch", bucket)
		assert.Equal(t, "t2/docs/report.pdf", key)
	})

	t.Run("bare path is not a URL", func(t *testing.T) {
		_, _, ok := ParseObjectURL("s3.example.net", "t1/avatar.png")
		assert.False(t, ok)
	})

	t.Run("foreign host is rejected", func(t *testing.T) {
		_, _, ok := ParseObjectURL("s3.example.net", "https://cdn.example.net/bucket/key")
		assert.False(t, ok)
	})

	t.Run("missing key is rejected", func(t *testing.T) {
		_, _, ok := ParseObjectURL("s3.example.net", "https://s3.example.net/bucket-only")
		assert.False(t, ok)
	})
}
