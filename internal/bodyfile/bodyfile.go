// Package bodyfile implements the filesystem timeline generator: a
// streaming walker that emits one canonical bodyfile line per filesystem
// object, using an explicit work stack so memory is bounded by tree depth
// rather than total entry count.
package bodyfile

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/hostforensics/collector/internal/hashsum"
	"github.com/hostforensics/collector/pkg/errors"
	"github.com/hostforensics/collector/pkg/types"
	"github.com/hostforensics/collector/pkg/utils"
)

// Options controls bodyfile generation.
type Options struct {
	CalculateHash  bool
	HashMaxSizeMB  uint64
	UseISO8601     bool
	SkipPaths      []string
	FollowSymlinks bool
}

// inodeKey dedups visited filesystem objects within one walk: each inode
// is emitted at most once regardless of how many paths reference it.
type inodeKey struct {
	dev uint64
	ino uint64
}

// stackFrame holds a directory's already-enumerated, unprocessed children,
// bounding memory by tree depth x average fan-out rather than total entry
// count.
type stackFrame struct {
	dir      string
	children []os.DirEntry
	index    int
}

// Walker generates bodyfile timelines.
type Walker struct {
	logger *utils.StructuredLogger
}

// New constructs a Walker. logger may be nil.
func New(logger *utils.StructuredLogger) *Walker {
	if logger == nil {
		logger, _ = utils.NewStructuredLogger(utils.DefaultStructuredLoggerConfig())
	}
	return &Walker{logger: logger.WithComponent("bodyfile")}
}

// Generate walks root and writes one line per filesystem object to
// outputPath.
func (w *Walker) Generate(outputPath, root string, opts Options) error {
	f, err := os.Create(outputPath)
	if err != nil {
		return errors.New(errors.ErrCodeInternal, "failed to create bodyfile output").
			WithComponent("bodyfile").WithOperation("generate").WithContext("path", outputPath).WithCause(err)
	}
	defer f.Close()

	out := bufio.NewWriter(f)
	defer out.Flush()

	visited := make(map[inodeKey]struct{})
	maxHashBytes := int64(opts.HashMaxSizeMB) * 1024 * 1024

	rootInfo, err := os.Lstat(root)
	if err != nil {
		return errors.New(errors.ErrCodeSourceMissing, "walk root does not exist").
			WithComponent("bodyfile").WithOperation("generate").WithContext("path", root).WithCause(err)
	}
	w.emit(out, root, rootInfo, visited, opts, maxHashBytes)

	if !rootInfo.IsDir() {
		return nil
	}

	stack := []*stackFrame{{dir: root}}
	for len(stack) > 0 {
		frame := stack[len(stack)-1]

		if frame.children == nil {
			entries, err := os.ReadDir(frame.dir)
			if err != nil {
				w.logger.Warn("failed to enumerate directory", map[string]interface{}{
					"path": frame.dir, "error": err.Error(),
				})
				stack = stack[:len(stack)-1]
				continue
			}
			frame.children = entries
		}

		if frame.index >= len(frame.children) {
			stack = stack[:len(stack)-1]
			continue
		}

		entry := frame.children[frame.index]
		frame.index++

		childPath := filepath.Join(frame.dir, entry.Name())
		if isSkipped(childPath, opts.SkipPaths) {
			continue
		}

		info, err := os.Lstat(childPath)
		if err != nil {
			w.emitPlaceholder(out, childPath, err)
			continue
		}

		if info.Mode()&os.ModeSymlink != 0 && opts.FollowSymlinks {
			if resolved, err := os.Stat(childPath); err == nil {
				info = resolved
			}
		}

		w.emit(out, childPath, info, visited, opts, maxHashBytes)

		if info.IsDir() {
			stack = append(stack, &stackFrame{dir: childPath})
		}
	}

	return nil
}

func isSkipped(path string, skipPaths []string) bool {
	for _, prefix := range skipPaths {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

func (w *Walker) emit(out *bufio.Writer, path string, info os.FileInfo, visited map[inodeKey]struct{}, opts Options, maxHashBytes int64) {
	key, ok := inodeOf(info)
	if ok {
		if _, seen := visited[key]; seen {
			return
		}
		visited[key] = struct{}{}
	}

	rec := types.BodyfileRecord{
		MD5:  "0",
		Name: path,
		Mode: modeString(info),
		Size: info.Size(),
	}

	if ino, uid, gid, ok := statFields(info); ok {
		rec.Inode = ino
		rec.UID = uid
		rec.GID = gid
	}

	if opts.CalculateHash && !info.IsDir() && info.Mode().IsRegular() {
		if digest, ok, err := hashsum.MD5(path, maxHashBytes); err == nil && ok {
			rec.MD5 = digest
		}
	}

	mtime := formatTime(info.ModTime(), opts.UseISO8601)
	rec.MTime = mtime
	rec.CRTime = mtime
	if atime, ctime, ok := timesOf(info); ok {
		rec.ATime = formatTime(atime, opts.UseISO8601)
		rec.CTime = formatTime(ctime, opts.UseISO8601)
	} else {
		rec.ATime = mtime
		rec.CTime = mtime
	}

	writeRecord(out, rec)
}

func (w *Walker) emitPlaceholder(out *bufio.Writer, path string, statErr error) {
	w.logger.Warn("failed to stat entry", map[string]interface{}{
		"path": path, "error": statErr.Error(),
	})
	writeRecord(out, types.BodyfileRecord{
		MD5:  "0",
		Name: path,
		Mode: "-/---------",
	})
}

func writeRecord(out *bufio.Writer, rec types.BodyfileRecord) {
	fmt.Fprintf(out, "%s|%s|%d|%s|%d|%d|%d|%s|%s|%s|%s\n",
		rec.MD5, rec.Name, rec.Inode, rec.Mode, rec.UID, rec.GID, rec.Size,
		rec.ATime, rec.MTime, rec.CTime, rec.CRTime)
}

// modeString renders a single-letter type plus nine-character permission
// string, ls -l style.
func modeString(info os.FileInfo) string {
	mode := info.Mode()
	typeChar := "-"
	switch {
	case mode.IsDir():
		typeChar = "d"
	case mode&os.ModeSymlink != 0:
		typeChar = "l"
	case mode&os.ModeNamedPipe != 0:
		typeChar = "p"
	case mode&os.ModeSocket != 0:
		typeChar = "s"
	case mode&os.ModeDevice != 0:
		typeChar = "b"
	case mode&os.ModeCharDevice != 0:
		typeChar = "c"
	}

	perm := mode.Perm()
	bits := "rwxrwxrwx"
	var sb strings.Builder
	sb.WriteString(typeChar)
	for i := 0; i < 9; i++ {
		if perm&(1<<uint(8-i)) != 0 {
			sb.WriteByte(bits[i])
		} else {
			sb.WriteByte('-')
		}
	}
	return sb.String()
}

func formatTime(t time.Time, iso8601 bool) string {
	if iso8601 {
		return t.UTC().Format(time.RFC3339)
	}
	return strconv.FormatInt(t.Unix(), 10)
}

