// Package session holds the state of one interactive filesystem session: the
// tree, its quota and the current directory. Commands reach the tree only
// through a Session.
package session

import (
	"errors"
	"fmt"
	"strings"

	"github.com/brettbedarf/elfshelf"
	"github.com/brettbedarf/elfshelf/config"
	"github.com/brettbedarf/elfshelf/filesystem"
	"github.com/brettbedarf/elfshelf/internal/util"
	"github.com/google/uuid"
)

// Session is the context object every command runs against.
//
// NOTE: Session is not safe for concurrent use; see [Shared].
type Session struct {
	ID  uuid.UUID
	cfg *config.Config
	fs  *filesystem.FileSystem
	cwd filesystem.Identity
}

// Analysis holds the results of both disk usage analytics
type Analysis struct {
	Usage          *filesystem.Usage
	Threshold      uint64 // exclusive upper bound for small directories
	SmallTotal     uint64 // sum of directories under Threshold
	TargetFree     uint64
	Needed         uint64 // bytes that must still be freed to reach TargetFree
	Smallest       uint64 // smallest directory freeing at least Needed
	SmallestExists bool
}

// Overview summarizes the session for the help screen
type Overview struct {
	ID        uuid.UUID
	Cwd       string
	Children  []elfshelf.NodeInfo // direct children of the current directory
	Files     int
	Dirs      int
	Largest   *elfshelf.NodeInfo
	Capacity  uint64
	Used      uint64
	Available uint64
}

// Listing is the content of one directory
type Listing struct {
	Dir     filesystem.Identity
	Entries []elfshelf.NodeInfo
}

func New(cfg *config.Config) *Session {
	if cfg == nil {
		cfg = config.NewDefaultConfig()
	}
	s := &Session{
		ID:  uuid.New(),
		cfg: cfg,
		fs:  filesystem.NewFS(cfg.Capacity),
		cwd: filesystem.Root(),
	}
	logger := util.GetLogger("Session.New")
	logger.Debug().Str("session", s.ID.String()).Uint64("capacity", cfg.Capacity).Msg("Session created")
	return s
}

// Config returns the configuration the session was created with
func (s *Session) Config() *config.Config {
	return s.cfg
}

// FS exposes the underlying tree for read-only consumers such as the mount view
func (s *Session) FS() *filesystem.FileSystem {
	return s.fs
}

func (s *Session) WorkingDirectory() filesystem.Identity {
	return s.cwd
}

// MakeDirectory creates the directory at path, resolved against the current
// directory. Its parent must exist.
func (s *Session) MakeDirectory(path string) (filesystem.Identity, error) {
	id, err := s.resolve(path)
	if err != nil {
		return filesystem.Identity{}, err
	}
	if id.IsRoot() {
		return filesystem.Identity{}, fmt.Errorf("%s: %w", id, elfshelf.ErrAlreadyExists)
	}
	return s.fs.CreateDirectory(id.Parent(), id.Name())
}

// Allocate creates a file of size bytes at path
func (s *Session) Allocate(path string, size uint64) (filesystem.Identity, error) {
	id, err := s.resolve(path)
	if err != nil {
		return filesystem.Identity{}, err
	}
	if id.Depth() == 0 {
		return filesystem.Identity{}, fmt.Errorf("file at %s: %w", id, elfshelf.ErrInvalidPath)
	}
	return s.fs.CreateFile(id.Parent(), id.Name(), size)
}

// ChangeDirectory moves the current directory to path, which must be an
// existing directory. An empty path leaves it where it is.
func (s *Session) ChangeDirectory(path string) (filesystem.Identity, error) {
	id, err := s.resolve(path)
	if err != nil {
		return filesystem.Identity{}, err
	}
	if !s.fs.Exists(id) {
		return filesystem.Identity{}, fmt.Errorf("path %s: %w", id, elfshelf.ErrNotFound)
	}
	s.cwd = id
	return id, nil
}

// List returns the children of the directory at path; the current directory
// when path is empty.
func (s *Session) List(path string) (*Listing, error) {
	id, err := s.resolve(path)
	if err != nil {
		return nil, err
	}
	entries, err := s.fs.ChildrenOf(id)
	if err != nil {
		return nil, err
	}
	return &Listing{Dir: id, Entries: entries}, nil
}

// Remove deletes the directory or file at path and everything below it.
// A directory wins when both could match. When the current directory is
// removed the session moves up to the removed node's parent.
func (s *Session) Remove(path string) (*filesystem.Removal, error) {
	logger := util.GetLogger("Session.Remove")

	id, err := s.resolve(path)
	if err != nil {
		return nil, err
	}
	if id.IsRoot() {
		return nil, fmt.Errorf("remove %s: %w", id, elfshelf.ErrRootRemovalForbidden)
	}
	target, ok := s.fs.Find(id)
	if !ok {
		return nil, fmt.Errorf("path or file %s: %w", strings.TrimSuffix(id.String(), filesystem.Delimiter), elfshelf.ErrNotFound)
	}

	removal, err := s.fs.RemoveSubtree(target)
	if err != nil {
		return nil, err
	}
	if target.Kind() == elfshelf.DirNode && s.cwd.Within(target) {
		logger.Info().Str("cwd", s.cwd.String()).Str("removed", target.String()).Msg("Current directory removed; moving to parent")
		s.cwd = target.Parent()
	}
	return removal, nil
}

// DiskUsage recomputes directory sizes and returns the snapshot
func (s *Session) DiskUsage() *filesystem.Usage {
	return s.fs.Recompute()
}

// Analyze recomputes sizes and runs both analytics with exactly the given
// threshold and target; zero is a valid value for either. See
// [Session.AnalyzeDefaults] for the configured ones.
func (s *Session) Analyze(threshold, targetFree uint64) *Analysis {
	usage := s.fs.Recompute()
	smallest, ok := usage.SmallestToFree(targetFree)
	return &Analysis{
		Usage:          usage,
		Threshold:      threshold,
		SmallTotal:     usage.SumBelow(threshold),
		TargetFree:     targetFree,
		Needed:         usage.Needed(targetFree),
		Smallest:       smallest,
		SmallestExists: ok,
	}
}

// AnalyzeDefaults runs [Session.Analyze] with the configured small directory
// threshold and target free space
func (s *Session) AnalyzeDefaults() *Analysis {
	return s.Analyze(s.cfg.SmallThreshold, s.cfg.TargetFree)
}

// Stats summarizes the tree and the current directory
func (s *Session) Stats() *Overview {
	st := s.fs.Stats()
	children, err := s.fs.ChildrenOf(s.cwd)
	if err != nil {
		// cwd is kept live by Remove and Reset
		logger := util.GetLogger("Session.Stats")
		logger.Warn().Err(err).Str("cwd", s.cwd.String()).Msg("Current directory missing")
	}
	return &Overview{
		ID:        s.ID,
		Cwd:       s.cwd.String(),
		Children:  children,
		Files:     st.Files,
		Dirs:      st.Dirs,
		Largest:   st.Largest,
		Capacity:  s.fs.Capacity(),
		Used:      s.fs.Used(),
		Available: s.fs.Available(),
	}
}

// Reset drops the whole tree and returns to an empty root
func (s *Session) Reset() {
	s.fs = filesystem.NewFS(s.cfg.Capacity)
	s.cwd = filesystem.Root()
}

// Complete returns up to limit path completions for text in the form it was
// typed: absolute text completes to absolute paths, anything else to paths
// relative to the current directory.
func (s *Session) Complete(text string, limit int) []string {
	if strings.HasPrefix(text, filesystem.Delimiter) {
		return s.fs.Complete(text, limit)
	}
	base := s.cwd.String()
	fetch := limit
	if fetch > 0 {
		fetch++ // base itself matches an empty text
	}
	matches := s.fs.Complete(base+text, fetch)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		if rel := strings.TrimPrefix(m, base); rel != "" {
			out = append(out, rel)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (s *Session) resolve(path string) (filesystem.Identity, error) {
	id, err := filesystem.Resolve(path, s.cwd)
	if err != nil {
		return filesystem.Identity{}, fmt.Errorf("resolve %q: %w", path, err)
	}
	return id, nil
}

// IsUserError reports whether err is one of the expected refusals a command
// can produce, as opposed to a bug
func IsUserError(err error) bool {
	for _, target := range []error{
		elfshelf.ErrInvalidPath,
		elfshelf.ErrAlreadyExists,
		elfshelf.ErrNotFound,
		elfshelf.ErrRootRemovalForbidden,
		elfshelf.ErrQuotaExceeded,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
