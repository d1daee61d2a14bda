package storage

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type LocalBackendSuite struct {
	suite.Suite
	ctx     context.Context
	backend *LocalBackend
}

func TestLocalBackendSuite(t *testing.T) {
	suite.Run(t, new(LocalBackendSuite))
}

func (s *LocalBackendSuite) SetupTest() {
	s.ctx = context.Background()
	s.backend = NewLocalBackend(memfs.New(), "http://files.local")
}

func (s *LocalBackendSuite) readBack(p string) string {
	f, err := s.backend.fs.Open(p)
	s.Require().NoError(err)
	defer f.Close()
	data, err := io.ReadAll(f)
	s.Require().NoError(err)
	return string(data)
}

func (s *LocalBackendSuite) TestUpload() {
	s.Run("writes file and returns URL", func() {
		url, err := s.backend.Upload(s.ctx, "t1/docs/note.txt", strings.NewReader("hello"), 5, "text/plain")
		s.Require().NoError(err)
		s.Equal("http://files.local/t1/docs/note.txt", url)
		s.Equal("hello", s.readBack("t1/docs/note.txt"))
	})

	s.Run("normalizes traversal segments", func() {
		url, err := s.backend.Upload(s.ctx, "../t1/../escape.txt", strings.NewReader("x"), 1, "text/plain")
		s.Require().NoError(err)
		s.Equal("http://files.local/escape.txt", url)
		s.Equal("x", s.readBack("escape.txt"))
	})
}

func (s *LocalBackendSuite) TestDelete() {
	_, err := s.backend.Upload(s.ctx, "t1/gone.txt", strings.NewReader("bye"), 3, "text/plain")
	s.Require().NoError(err)

	s.Run("removes an existing file", func() {
		s.Require().NoError(s.backend.Delete(s.ctx, "t1/gone.txt"))
		_, err := s.backend.fs.Stat("t1/gone.txt")
		s.Error(err)
	})

	s.Run("missing path succeeds silently", func() {
		s.NoError(s.backend.Delete(s.ctx, "t1/never-there.txt"))
	})

	s.Run("accepts a previously returned URL", func() {
		url, err := s.backend.Upload(s.ctx, "t1/by-url.txt", strings.NewReader("u"), 1, "text/plain")
		s.Require().NoError(err)
		s.Require().NoError(s.backend.Delete(s.ctx, url))
		_, statErr := s.backend.fs.Stat("t1/by-url.txt")
		s.Error(statErr)
	})
}

func (s *LocalBackendSuite) TestURL() {
	url, err := s.backend.URL(s.ctx, "/t1/pic.png")
	require.NoError(s.T(), err)
	s.Equal("http://files.local/t1/pic.png", url)
}
