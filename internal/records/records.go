// Package records keeps one markdown file per quest, with the metadata in a YAML frontmatter block.
package records

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/DaanHessen/sisyphus/internal/engine"
)

// Vault layout, relative to the root.
const (
	QuestsDir     = "Active_Run/Quests"
	ArchiveDir    = "Active_Run/Archive"
	FailuresDir   = "Graveyard/Failures"
	GraveyardDir  = "Graveyard"
	ChronicleFile = "Graveyard/Chronicles.md"

	failedPrefix = "[FAILED] "
	ext          = ".md"
	fence        = "---"
)

const chronicleHeader = "# Chronicles\n\n| Run | Date | Level | Souls | Scars |\n|---|---|---|---|---|\n"

// ErrNoFrontmatter is returned for a record without a metadata block.
var ErrNoFrontmatter = errors.New("record has no frontmatter")

// FileStore implements engine.QuestRecords on a directory tree.
type FileStore struct {
	root string
}

// Open prepares the vault directories under root.
func Open(root string) (*FileStore, error) {
	for _, d := range []string{QuestsDir, ArchiveDir, FailuresDir} {
		if err := os.MkdirAll(filepath.Join(root, d), 0o755); err != nil {
			return nil, errors.Wrap(err, "create vault")
		}
	}
	return &FileStore{root: root}, nil
}

func (f *FileStore) Root() string { return f.root }

func (f *FileStore) path(dir, name string) string { return filepath.Join(f.root, dir, name+ext) }

func (f *FileStore) active(id string) string { return f.path(QuestsDir, id) }

func (f *FileStore) Create(ctx context.Context, id string, meta engine.QuestMeta) error {
	p := f.active(id)
	if _, err := os.Stat(p); err == nil {
		return errors.Errorf("quest %s already exists", id)
	}
	body := fmt.Sprintf("# %s\n", strings.ReplaceAll(id, "_", " "))
	raw, err := Encode(meta, []byte(body))
	if err != nil {
		return err
	}
	return errors.Wrap(os.WriteFile(p, raw, 0o644), "write quest")
}

func (f *FileStore) Exists(ctx context.Context, id string) (bool, error) {
	_, err := os.Stat(f.active(id))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, errors.Wrap(err, "stat quest")
}

func (f *FileStore) Metadata(ctx context.Context, id string) (engine.QuestMeta, error) {
	meta, _, err := f.read(f.active(id))
	return meta, err
}

// Archive rewrites the frontmatter and moves the record out of the active folder.
// Failed records are prefixed so the graveyard reads as a list of casualties.
func (f *FileStore) Archive(ctx context.Context, id string, loc engine.Location, meta engine.QuestMeta) error {
	src := f.active(id)
	_, body, err := f.read(src)
	if err != nil {
		return err
	}
	var dst string
	switch loc {
	case engine.LocationArchive:
		dst = f.path(ArchiveDir, id)
	case engine.LocationGraveyard:
		dst = f.path(FailuresDir, failedPrefix+id)
	default:
		return errors.Errorf("cannot archive to %q", loc)
	}
	raw, err := Encode(meta, body)
	if err != nil {
		return err
	}
	if err := os.WriteFile(dst, raw, 0o644); err != nil {
		return errors.Wrap(err, "write archived quest")
	}
	return errors.Wrap(os.Remove(src), "remove active quest")
}

func (f *FileStore) Delete(ctx context.Context, id string) error {
	err := os.Remove(f.active(id))
	if os.IsNotExist(err) {
		return nil
	}
	return errors.Wrap(err, "delete quest")
}

// ListActive returns active records sorted by id. Files that fail to parse are skipped.
func (f *FileStore) ListActive(ctx context.Context) ([]engine.QuestSummary, error) {
	entries, err := os.ReadDir(filepath.Join(f.root, QuestsDir))
	if err != nil {
		return nil, errors.Wrap(err, "list quests")
	}
	out := []engine.QuestSummary{}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ext) {
			continue
		}
		id := strings.TrimSuffix(e.Name(), ext)
		meta, _, err := f.read(f.active(id))
		if err != nil {
			continue
		}
		out = append(out, engine.QuestSummary{ID: id, Meta: meta})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// ArchiveRun moves the whole Active_Run tree into Graveyard/<runName> and recreates it empty.
func (f *FileStore) ArchiveRun(ctx context.Context, runName string) (string, error) {
	dst := filepath.Join(f.root, GraveyardDir, runName)
	if err := os.MkdirAll(dst, 0o755); err != nil {
		return "", errors.Wrap(err, "create run folder")
	}
	for _, d := range []string{QuestsDir, ArchiveDir} {
		src := filepath.Join(f.root, d)
		target := filepath.Join(dst, filepath.Base(d))
		if _, err := os.Stat(src); os.IsNotExist(err) {
			continue
		}
		if err := os.Rename(src, target); err != nil {
			return "", errors.Wrapf(err, "move %s", d)
		}
		if err := os.MkdirAll(src, 0o755); err != nil {
			return "", errors.Wrap(err, "recreate vault")
		}
	}
	return dst, nil
}

func (f *FileStore) AppendChronicle(ctx context.Context, entry engine.ChronicleEntry) error {
	p := filepath.Join(f.root, ChronicleFile)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return errors.Wrap(err, "create graveyard")
	}
	fh, err := os.OpenFile(p, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return errors.Wrap(err, "open chronicle")
	}
	defer fh.Close()
	st, err := fh.Stat()
	if err != nil {
		return errors.Wrap(err, "stat chronicle")
	}
	var b strings.Builder
	if st.Size() == 0 {
		b.WriteString(chronicleHeader)
	}
	fmt.Fprintf(&b, "| %d | %s | %d | %d | %d |\n", entry.Run, entry.Date, entry.Level, entry.Souls, entry.Scars)
	_, err = fh.WriteString(b.String())
	return errors.Wrap(err, "append chronicle")
}

// Chronicle returns the chronicle markdown, or "" before the first death.
func (f *FileStore) Chronicle() (string, error) {
	raw, err := os.ReadFile(filepath.Join(f.root, ChronicleFile))
	if os.IsNotExist(err) {
		return "", nil
	}
	return string(raw), errors.Wrap(err, "read chronicle")
}

func (f *FileStore) read(p string) (engine.QuestMeta, []byte, error) {
	raw, err := os.ReadFile(p)
	if err != nil {
		return engine.QuestMeta{}, nil, errors.Wrap(err, "read quest")
	}
	meta, body, err := Decode(raw)
	if err != nil {
		return meta, nil, errors.Wrap(err, filepath.Base(p))
	}
	return meta, body, nil
}

// Encode renders meta as a frontmatter block followed by body.
func Encode(meta engine.QuestMeta, body []byte) ([]byte, error) {
	fm, err := yaml.Marshal(meta)
	if err != nil {
		return nil, errors.Wrap(err, "encode frontmatter")
	}
	var buf bytes.Buffer
	buf.WriteString(fence + "\n")
	buf.Write(fm)
	buf.WriteString(fence + "\n")
	buf.Write(body)
	return buf.Bytes(), nil
}

// Decode splits a record into its metadata and body.
func Decode(raw []byte) (engine.QuestMeta, []byte, error) {
	var meta engine.QuestMeta
	text := strings.ReplaceAll(string(raw), "\r\n", "\n")
	if !strings.HasPrefix(text, fence+"\n") {
		return meta, nil, ErrNoFrontmatter
	}
	rest := text[len(fence)+1:]
	end := strings.Index(rest, "\n"+fence)
	if end < 0 {
		return meta, nil, ErrNoFrontmatter
	}
	if err := yaml.Unmarshal([]byte(rest[:end+1]), &meta); err != nil {
		return meta, nil, errors.Wrap(err, "decode frontmatter")
	}
	body := strings.TrimPrefix(rest[end+1+len(fence):], "\n")
	return meta, []byte(body), nil
}
