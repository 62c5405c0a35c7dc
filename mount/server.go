// Package mount serves a session's tree as a read-only FUSE filesystem.
package mount

import (
	"time"

	"github.com/brettbedarf/elfshelf/config"
	"github.com/brettbedarf/elfshelf/internal/util"
	"github.com/brettbedarf/elfshelf/session"
	"github.com/hanwen/go-fuse/v2/fs"
	"github.com/hanwen/go-fuse/v2/fuse"
)

// cacheTimeout is short since the tree changes under the kernel's feet
const cacheTimeout = time.Second

// Server mounts the tree of a shared session
type Server struct {
	shared *session.Shared
	cfg    *config.Config
	server *fuse.Server
}

// New creates a Server given your config.
func New(shared *session.Shared, cfg *config.Config) *Server {
	return &Server{shared: shared, cfg: cfg}
}

// Serve mounts the filesystem at mountPoint and returns once the kernel
// has it; requests are served in the background until Unmount.
func (s *Server) Serve(mountPoint string) error {
	logger := util.GetLogger("Mount.Serve")

	timeout := cacheTimeout
	opts := s.cfg.MountOptions
	srv, err := fs.Mount(mountPoint, newRoot(s.shared), &fs.Options{
		MountOptions: fuse.MountOptions{
			Name:   opts.Name,
			FsName: opts.FsName,
			Debug:  opts.Debug || s.cfg.LogLvl == util.TraceLevel,
			Logger: util.NewLogLogger("FuseServer", util.DebugLevel),
		},
		AttrTimeout:  &timeout,
		EntryTimeout: &timeout,
	})
	if err != nil {
		return err
	}
	s.server = srv

	logger.Info().Str("mountpoint", mountPoint).Msg("Filesystem mounted")
	return nil
}

func (s *Server) ServeAsync(mountPoint string) <-chan error {
	done := make(chan error, 1)

	go func() {
		done <- s.Serve(mountPoint)
		close(done)
	}()

	return done
}

// Wait blocks until the filesystem is unmounted
func (s *Server) Wait() {
	if s.server != nil {
		s.server.Wait()
	}
}

// Unmount cleanly unmounts the filesystem.
func (s *Server) Unmount() error {
	if s.server == nil {
		return nil
	}
	return s.server.Unmount()
}
